package service

import (
	"go-grocery-delivery/internal/model"

	"github.com/google/uuid"
)

// Actor is the verified caller attached to a request by the auth middleware
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  model.Role
}

func (a Actor) userInfo() map[string]interface{} {
	return map[string]interface{}{
		"id":    a.ID,
		"name":  a.Name,
		"email": a.Email,
		"role":  a.Role,
	}
}
