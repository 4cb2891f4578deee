package handlers

import (
	"errors"

	"tunebox/internal/apperr"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    apperr.Code       `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ErrorHandler is the application's fiber.ErrorHandler. Handlers and middleware return
// errors and this renders them.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return respondError(c, logger, err)
	}
}

// respondError renders err as an error response. Framework errors keep their status;
// internal errors are logged with the request id and reported generically.
func respondError(c *fiber.Ctx, logger *log.Logger, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorBody{Code: codeForStatus(fe.Code), Message: fe.Message})
	}

	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		logger.Error("request failed",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"err", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
			Code:    apperr.CodeInternal,
			Message: apperr.ErrInternal.Message,
		})
	}

	return c.Status(appErr.Code.Status()).JSON(errorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func codeForStatus(status int) apperr.Code {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperr.CodeValidation
	case fiber.StatusUnauthorized:
		return apperr.CodeUnauthorized
	case fiber.StatusForbidden:
		return apperr.CodeForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperr.CodeNotFound
	case fiber.StatusConflict:
		return apperr.CodeConflict
	default:
		if status < fiber.StatusInternalServerError {
			return apperr.CodeValidation
		}
		return apperr.CodeInternal
	}
}
