package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and folds violations into a single
// 400-mapped AppError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var violations []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			violations = append(violations, fmt.Sprintf("%s is %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
		}
		return NewValidationError(strings.Join(violations, ", "))
	}
	return nil
}
