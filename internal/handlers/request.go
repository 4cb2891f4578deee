package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tunebox/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return &apperr.Error{Code: apperr.CodeValidation, Message: "invalid request body", Err: err}
	}
	return validateStruct(req)
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = fieldMessage(e)
	}
	return apperr.ValidationFields(fields)
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", e.Param())
	case "min", "gte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has at least %s characters", e.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", e.Param())
	case "url":
		return "enter a valid URL"
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}

// message is the body of responses that only report an outcome.
type message struct {
	Detail string `json:"detail"`
}
