package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Display names allow latin letters, digits, CJK, underscore, dash and
// whitespace. Matches the charset the extension enforces client-side.
var displayNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\x{4e00}-\x{9fa5}_\-\s]+$`)

// CustomValidator adapts go-playground/validator to echo's Validator
// interface and registers the domain-specific rules.
type CustomValidator struct {
	validate *validator.Validate
}

// NewValidator creates the validator used by the echo instance
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("displayname", func(fl validator.FieldLevel) bool {
		return displayNamePattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validate: v}
}

// Validate implements echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}
