package handler

import (
	"github.com/blogdesk/admin-api/internal/core/forms"
)

// echoValidator adapts forms.Validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *forms.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator(v *forms.Validator) *echoValidator {
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures are forms.Errors.
func (ev *echoValidator) Validate(i any) error {
	if errs := ev.v.Validate(i); !errs.OK() {
		return errs
	}
	return nil
}
