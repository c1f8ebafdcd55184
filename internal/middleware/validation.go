package middleware

import (
	"quiz-craft/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
	}
}

// ValidateIDParam validates an identifier path parameter and stores it under
// "validated_<param>".
func (vm *ValidationMiddleware) ValidateIDParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		if errors := vm.validator.ValidateID(param, id); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}
		c.Locals("validated_"+param, id)
		return c.Next()
	}
}

// ValidateShareLink validates the :link path parameter
func (vm *ValidationMiddleware) ValidateShareLink() fiber.Handler {
	return func(c *fiber.Ctx) error {
		link := c.Params("link")
		if errors := vm.validator.ValidateShareLink(link); len(errors) > 0 {
			return errors
		}
		c.Locals("validated_link", link)
		return c.Next()
	}
}
