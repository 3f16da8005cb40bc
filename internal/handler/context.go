package handler

import (
	"errors"
	"log"

	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func actorFrom(c *fiber.Ctx) service.Actor {
	var actor service.Actor
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	actor.Name, _ = c.Locals("user_name").(string)
	actor.Email, _ = c.Locals("user_email").(string)
	if role, ok := c.Locals("user_role").(string); ok {
		actor.Role = model.Role(role)
	}
	return actor
}

// Helper untuk parse UUID dari path param
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// respondError maps service error kinds to HTTP status codes
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConsistency):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = fiber.StatusForbidden
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": publicMessage(err)})
}

// publicMessage strips the error kind prefix, "validation: name is required" becomes "name is required"
func publicMessage(err error) string {
	var stockErr *service.StockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}
	msg := err.Error()
	for _, kind := range []error{service.ErrValidation, service.ErrNotFound, service.ErrConsistency, service.ErrUnauthorized, service.ErrForbidden} {
		prefix := kind.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
