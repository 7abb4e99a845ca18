package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError carries the failed rules of a request body.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request"
	}
	return fmt.Sprintf("invalid field %s (%s)", e.Fields[0].Field, e.Fields[0].Rule)
}

// Bind parses the request body into T and validates it.
func Bind[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, bodyError(err))
	}
	if err := validatorInstance().Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := &ValidationError{}
			for _, fe := range verrs {
				out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			return nil, out
		}
		return nil, err
	}
	return &input, nil
}

// bodyError turns a decoder failure into a client-facing message without
// echoing decoder internals.
func bodyError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("invalid type for field %s", typeErr.Field)
	}
	if errors.Is(err, errAmountType) {
		return errAmountType.Error()
	}
	return "malformed request body"
}

// BadRequest writes a 400 problem for a Bind failure.
func BadRequest(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return Problem(c, fiber.StatusBadRequest, verr.Error(), verr.Fields)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Problem(c, fe.Code, fe.Message, nil)
	}
	return Problem(c, fiber.StatusBadRequest, err.Error(), nil)
}
