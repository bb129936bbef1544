package presenters

import (
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes a failed envelope. The error text is appended to the
// message so clients can show it verbatim.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	if err != nil {
		message = message + ": " + err.Error()
	}
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Message: message,
	})
}
