package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and flattens the field
// errors into a single readable message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		messages := make([]string, len(ve))
		for i, fe := range ve {
			messages[i] = fmt.Sprintf("field %s failed on %s", fe.Field(), fe.Tag())
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}
