package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"
)

func TestAuthService_Register(t *testing.T) {
	db := InitTestDB(t)
	auth := NewAuthService(repository.NewUserRepo(db))
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterRequest{Name: "Jane", Email: " Jane@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)

	rider, err := auth.Register(ctx, &RegisterRequest{Name: "Rider", Email: "rider@example.com", Password: "secret1", Role: "delivery"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleDelivery, rider.Role)

	_, err = auth.Register(ctx, &RegisterRequest{Name: "Jane 2", Email: "jane@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = auth.Register(ctx, &RegisterRequest{Name: "Boss", Email: "boss@example.com", Password: "secret1", Role: "admin"})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	_, err = auth.Register(ctx, &RegisterRequest{Name: "X", Email: "x@example.com", Password: "secret1", Role: "vendor"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.Register(ctx, &RegisterRequest{Name: "X", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.Register(ctx, &RegisterRequest{Name: "X", Email: "short@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_LoginAndValidateToken(t *testing.T) {
	db := InitTestDB(t)
	auth := NewAuthService(repository.NewUserRepo(db))
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	resp, err := auth.Login(ctx, "JANE@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Capabilities)

	_, err = auth.Login(ctx, "jane@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	valid, err := auth.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, valid.User.ID)

	_, err = auth.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	db := InitTestDB(t)
	repo := repository.NewUserRepo(db)
	users := NewUserService(repo)
	ctx := context.Background()

	admin, created, err := users.EnsureAdmin(ctx, "Admin@Example.com", "admin123", false)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@example.com", admin.Email)

	again, created, err := users.EnsureAdmin(ctx, "admin@example.com", "other-pass", false)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.True(t, again.CheckPassword("admin123"))

	_, changed, err := users.EnsureAdmin(ctx, "admin@example.com", "new-pass", true)
	require.NoError(t, err)
	assert.True(t, changed)
	stored, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("new-pass"))

	_, _, err = users.EnsureAdmin(ctx, "admin@example.com", "123", true)
	assert.ErrorIs(t, err, ErrValidation)

	list, err := users.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Capabilities, string(model.CapManageProducts))

	_, err = users.GetUserByID(ctx, stored.ID)
	assert.NoError(t, err)
}

func TestUserService_EnsureAdmin_RefusesNonAdminReset(t *testing.T) {
	db := InitTestDB(t)
	auth := NewAuthService(repository.NewUserRepo(db))
	users := NewUserService(repository.NewUserRepo(db))
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = users.EnsureAdmin(ctx, "jane@example.com", "takeover", true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Register_ConcurrentSameEmail(t *testing.T) {
	db := InitTestDB(t)
	auth := NewAuthService(repository.NewUserRepo(db))

	const attempts = 4
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := auth.Register(context.Background(), &RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailExists)
	}
	assert.Equal(t, 1, ok)
}
