// Package forms holds the submissions accepted by the admin screens and the
// rules they must satisfy before the confirmation workflow may stage them.
package forms

import (
	"strings"
	"time"
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

type PostForm struct {
	Title       string `form:"title" json:"title" validate:"required,max=255"`
	Description string `form:"description" json:"description" validate:"required,max=255"`
	Status      bool   `form:"-" json:"status"`
}

type UserCreateForm struct {
	Name                 string `form:"name" json:"name" validate:"required,max=255"`
	Email                string `form:"email" json:"email" validate:"required,email,max=255"`
	Password             string `form:"password" json:"password" validate:"required"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation" validate:"required"`
	Type                 string `form:"type" json:"type" validate:"required,oneof=0 1"`
	Phone                string `form:"phone" json:"phone" validate:"max=20"`
	DOB                  string `form:"dob" json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address              string `form:"address" json:"address" validate:"required,max=255"`
}

type UserEditForm struct {
	Name    string `form:"name" json:"name" validate:"required,max=255"`
	Email   string `form:"email" json:"email" validate:"required,email,max=255"`
	Type    string `form:"type" json:"type" validate:"required,oneof=0 1"`
	Phone   string `form:"phone" json:"phone" validate:"max=20"`
	DOB     string `form:"dob" json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address string `form:"address" json:"address" validate:"required,max=255"`
}

type SignUpForm struct {
	Name                 string `form:"name" json:"name" validate:"required,max=255"`
	Email                string `form:"email" json:"email" validate:"required,email,max=255"`
	Password             string `form:"password" json:"password" validate:"required"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation" validate:"required"`
}

type PasswordChangeForm struct {
	Password           string `form:"password" json:"password" validate:"required"`
	NewPassword        string `form:"new_password" json:"new_password" validate:"required"`
	NewPasswordConfirm string `form:"new_password_confirm" json:"new_password_confirm" validate:"required"`
}

type LoginForm struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

type PostSearchForm struct {
	Keyword string `form:"keyword" query:"keyword" json:"keyword"`
	Page    int    `form:"page" query:"page" json:"page" validate:"gte=0"`
}

type UserSearchForm struct {
	Name     string `form:"name" query:"name" json:"name"`
	Email    string `form:"email" query:"email" json:"email"`
	FromDate string `form:"from_date" query:"from_date" json:"from_date" validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date" query:"to_date" json:"to_date" validate:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" query:"page" json:"page" validate:"gte=0"`
}

// NormalizeEmail trims and lowercases an address so that uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseDate parses an optional date input. Empty input yields nil.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
