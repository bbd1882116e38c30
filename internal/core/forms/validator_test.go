package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_PostFormRequiresTitleAndDescription(t *testing.T) {
	v := NewValidator()

	errs := v.Validate(&PostForm{})

	assert.False(t, errs.OK())
	assert.Len(t, errs.Fields, 2)
	assert.Contains(t, errs.Fields, "title")
	assert.Contains(t, errs.Fields, "description")
	assert.Empty(t, errs.Global)
}

func TestValidate_PostFormDescriptionLength(t *testing.T) {
	v := NewValidator()

	ok := v.Validate(&PostForm{Title: "t", Description: strings.Repeat("é", 255)})
	assert.True(t, ok.OK(), "255 characters must pass: %v", ok)

	tooLong := v.Validate(&PostForm{Title: "t", Description: strings.Repeat("a", 256)})
	assert.Contains(t, tooLong.Fields, "description")
}

func TestValidate_PostFormValid(t *testing.T) {
	errs := NewValidator().Validate(&PostForm{Title: "test", Description: "test"})
	assert.True(t, errs.OK())
}

func validUser() *UserCreateForm {
	return &UserCreateForm{
		Name:                 "Alice",
		Email:                "alice@example.com",
		Password:             "secret",
		PasswordConfirmation: "secret",
		Type:                 "1",
		Address:              "Yangon",
	}
}

func TestValidate_UserCreateForm(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		mutate func(f *UserCreateForm)
		field  string
	}{
		{"missing name", func(f *UserCreateForm) { f.Name = "" }, "name"},
		{"bad email", func(f *UserCreateForm) { f.Email = "not-an-email" }, "email"},
		{"missing address", func(f *UserCreateForm) { f.Address = "" }, "address"},
		{"unknown type", func(f *UserCreateForm) { f.Type = "9" }, "type"},
		{"bad dob", func(f *UserCreateForm) { f.DOB = "31/12/1990" }, "dob"},
		{"missing confirmation", func(f *UserCreateForm) { f.PasswordConfirmation = "" }, "password_confirmation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validUser()
			tt.mutate(f)
			errs := v.Validate(f)
			assert.Contains(t, errs.Fields, tt.field)
		})
	}

	assert.True(t, v.Validate(validUser()).OK())
}

func TestValidate_PasswordEqualityLaw(t *testing.T) {
	v := NewValidator()
	pairs := [][2]string{
		{"secret", "Secret"},
		{"secret", "secret "},
		{"p\u00e4ssword", "pa\u0308ssword"},
		{"a", "b"},
		{"12345678", "1234567"},
	}

	for _, p := range pairs {
		f := validUser()
		f.Password, f.PasswordConfirmation = p[0], p[1]
		errs := v.Validate(f)
		assert.NotEmpty(t, errs.Global, "%q vs %q must fail", p[0], p[1])
		assert.False(t, errs.OK())

		s := &SignUpForm{Name: "n", Email: "n@example.com", Password: p[0], PasswordConfirmation: p[1]}
		assert.NotEmpty(t, v.Validate(s).Global)
	}
}

func TestValidate_UserEditFormHasNoPasswordRules(t *testing.T) {
	errs := NewValidator().Validate(&UserEditForm{Name: "Bob", Email: "bob@example.com", Type: "0", Address: "Mandalay"})
	assert.True(t, errs.OK())

	errs = NewValidator().Validate(&UserEditForm{Name: "Bob", Email: "bob@example.com", Address: "Mandalay"})
	assert.Contains(t, errs.Fields, "type")
}

func TestValidate_PasswordChangeForm(t *testing.T) {
	v := NewValidator()

	errs := v.Validate(&PasswordChangeForm{})
	assert.Len(t, errs.Fields, 3)

	errs = v.Validate(&PasswordChangeForm{Password: "old", NewPassword: "new1", NewPasswordConfirm: "new2"})
	assert.Equal(t, msgNewPasswordMismatch, errs.Global)

	assert.True(t, v.Validate(&PasswordChangeForm{Password: "old", NewPassword: "new", NewPasswordConfirm: "new"}).OK())
}

func TestCheckCSVRows(t *testing.T) {
	ok := CheckCSVRows(true, [][]string{{"title", "description", "status"}, {"a", "b", "1"}})
	assert.True(t, ok.OK())

	short := CheckCSVRows(true, [][]string{{"a", "b"}})
	assert.Equal(t, msgCSVColumns, short.Global)

	badHeader := CheckCSVRows(true, [][]string{{"title", "description"}, {"a", "b", "1"}})
	assert.False(t, badHeader.OK())

	empty := CheckCSVRows(true, nil)
	assert.Equal(t, msgCSVColumns, empty.Global)

	missing := CheckCSVRows(false, nil)
	assert.Contains(t, missing.Fields, "csv_file")
}

func TestErrors_ErrorIsStable(t *testing.T) {
	e := Errors{Global: "g", Fields: map[string]string{"b": "b bad", "a": "a bad"}}
	assert.Equal(t, "g; a bad; b bad", e.Error())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}
