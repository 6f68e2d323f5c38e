package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
	"github.com/prathvinaik206-create/farmdirect/internal/storage/memory"
)

func newUserService() (*UserService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("secret", "farmdirect", time.Hour)
	svc := NewUserService(memory.NewStore(), tokens)
	svc.bcryptCost = bcrypt.MinCost
	return svc, tokens
}

var ravi = SignupRequest{
	Role:     models.RoleFarmer,
	Name:     "Ravi",
	Email:    "ravi@farmdirect.in",
	Username: "ravi",
	Password: "s3cret",
	Mobile:   "9876543210",
	Address:  "Nashik",
}

func TestSignupHashesPassword(t *testing.T) {
	svc, _ := newUserService()
	u, err := svc.Signup(context.Background(), ravi)
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))
	assert.False(t, u.JoinedAt.IsZero())
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	missing := ravi
	missing.Mobile = ""
	_, err := svc.Signup(ctx, missing)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badRole := ravi
	badRole.Role = "admin"
	_, err = svc.Signup(ctx, badRole)
	assert.ErrorIs(t, err, ErrInvalidInput)

	longPassword := ravi
	longPassword.Password = strings.Repeat("x", 73)
	_, err = svc.Signup(ctx, longPassword)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Signup(ctx, ravi)
	require.NoError(t, err)
	_, err = svc.Signup(ctx, ravi)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, tokens := newUserService()
	ctx := context.Background()
	created, err := svc.Signup(ctx, ravi)
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, LoginRequest{Username: "ravi", Password: "s3cret", Role: models.RoleFarmer})
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	for _, req := range []LoginRequest{
		{Username: "ravi", Password: "wrong"},
		{Username: "nobody", Password: "s3cret"},
		{Username: "ravi", Password: "s3cret", Role: models.RoleConsumer},
	} {
		_, _, err := svc.Login(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err = svc.Login(ctx, LoginRequest{Username: "ravi"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	created, err := svc.Signup(ctx, ravi)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, created.ID, created.ID, models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	addr := "Pune"
	u, err := svc.UpdateProfile(ctx, created.ID, created.ID, models.ProfileUpdate{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Pune", u.Address)
	assert.Equal(t, "Ravi", u.Name)

	email := "someone@else.test"
	_, err = svc.UpdateProfile(ctx, "other", created.ID, models.ProfileUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateProfile(ctx, "missing", "missing", models.ProfileUpdate{Address: &addr})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "other", created.ID), ErrForbidden)
	require.NoError(t, svc.DeleteUser(ctx, created.ID, created.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, created.ID, created.ID), storage.ErrNotFound)
}
