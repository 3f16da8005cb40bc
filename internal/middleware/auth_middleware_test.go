package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUsers struct {
	users map[uuid.UUID]*model.User
}

func (s *stubUsers) FindByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) Create(_ context.Context, _ *model.User) error { return nil }
func (s *stubUsers) Update(_ context.Context, _ *model.User) error { return nil }
func (s *stubUsers) FindAll(_ context.Context) ([]model.User, error) {
	return nil, nil
}

func newUser(role model.Role) *model.User {
	u := &model.User{Name: string(role), Email: string(role) + "@example.com", Role: role}
	u.ID = uuid.New()
	return u
}

func TestRequireAuthAndCapability(t *testing.T) {
	admin := newUser(model.RoleAdmin)
	rider := newUser(model.RoleDelivery)
	ghost := newUser(model.RoleCustomer)
	repo := &stubUsers{users: map[uuid.UUID]*model.User{admin.ID: admin, rider.ID: rider}}

	app := fiber.New()
	app.Get("/me", RequireAuth(repo), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_role").(string))
	})
	app.Get("/admin", RequireAuth(repo), RequireCapability(model.CapManageProducts), func(c *fiber.Ctx) error {
		return c.SendStatus(204)
	})

	token := func(u *model.User) string {
		tok, err := jwt.GenerateToken(u.ID, u.Email, u.Name, string(u.Role))
		require.NoError(t, err)
		return "Bearer " + tok
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", 401},
		{"wrong scheme", "/me", "Basic abc", 401},
		{"bad token", "/me", "Bearer nope", 401},
		{"unknown user", "/me", token(ghost), 401},
		{"authenticated", "/me", token(rider), 200},
		{"missing capability", "/admin", token(rider), 403},
		{"has capability", "/admin", token(admin), 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireCapability_WithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireCapability(model.CapViewUsers), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
