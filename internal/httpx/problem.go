// Package httpx holds the HTTP plumbing shared by every handler: RFC 9457
// problem responses and request binding with validation.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// Problem writes a problem+json response.
func Problem(c *fiber.Ctx, status int, detail string, errs any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
		Errors:   errs,
	}
	return c.Status(status).JSON(pd, "application/problem+json")
}

// ErrorHandler renders handler errors as problem responses. It is installed as
// fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	detail := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		detail = fe.Message
	}
	return Problem(c, status, detail, nil)
}
