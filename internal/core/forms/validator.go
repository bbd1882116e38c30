package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CSVColumns is the number of fields every imported row must carry.
const CSVColumns = 3

const (
	msgPasswordMismatch    = "Password and password confirmation do not match."
	msgNewPasswordMismatch = "New password and new password confirmation do not match."
	msgCSVColumns          = "Post upload csv must have 3 columns"
	msgCSVMissing          = "Please choose a file"
)

// Errors is the outcome of validating a submission: one message per field,
// plus an optional message that belongs to the form as a whole.
type Errors struct {
	Fields map[string]string `json:"fields,omitempty"`
	Global string            `json:"global,omitempty"`
}

// OK reports whether no rule was violated.
func (e Errors) OK() bool {
	return len(e.Fields) == 0 && e.Global == ""
}

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e.Fields)+1)
	if e.Global != "" {
		msgs = append(msgs, e.Global)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Add records msg for field unless the field already has a message.
func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// NonField returns Errors carrying only a form-level message.
func NonField(msg string) Errors {
	return Errors{Global: msg}
}

// Validator checks form structs against their validate tags and the
// cross-field rules each form declares.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns the violations found in form. Unknown validator failures
// are reported as a form-level message.
func (fv *Validator) Validate(form any) Errors {
	var errs Errors
	if err := fv.v.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return NonField(err.Error())
		}
		for _, fe := range ve {
			errs.Add(fe.Field(), fieldError(fe))
		}
	}
	crossCheck(form, &errs)
	return errs
}

// crossCheck applies the rules that span more than one field.
func crossCheck(form any, errs *Errors) {
	switch f := form.(type) {
	case *UserCreateForm:
		passwordsMatch(f.Password, f.PasswordConfirmation, msgPasswordMismatch, errs)
	case *SignUpForm:
		passwordsMatch(f.Password, f.PasswordConfirmation, msgPasswordMismatch, errs)
	case *PasswordChangeForm:
		passwordsMatch(f.NewPassword, f.NewPasswordConfirm, msgNewPasswordMismatch, errs)
	case *UserSearchForm:
		if f.FromDate != "" && f.ToDate != "" && f.FromDate > f.ToDate {
			errs.Add("to_date", "to_date must not be before from_date")
		}
	}
}

// passwordsMatch compares byte for byte; an empty side is left to the required rule.
func passwordsMatch(password, confirmation, msg string, errs *Errors) {
	if password == "" || confirmation == "" {
		return
	}
	if password != confirmation {
		errs.Global = msg
	}
}

// CheckCSVRows enforces the column count on every row, header included.
// A single malformed row rejects the whole file, and so does an empty one.
func CheckCSVRows(hasFile bool, rows [][]string) Errors {
	if !hasFile {
		return Errors{Fields: map[string]string{"csv_file": msgCSVMissing}}
	}
	if len(rows) == 0 {
		return NonField(msgCSVColumns)
	}
	for _, row := range rows {
		if len(row) != CSVColumns {
			return NonField(msgCSVColumns)
		}
	}
	return Errors{}
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " can't be blank"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in the format %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
