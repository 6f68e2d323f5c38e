package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/notify"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

type SignupRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserService struct {
	users      storage.UserStore
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewUserService(users storage.UserStore, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, tokens: tokens, bcryptCost: bcrypt.DefaultCost}
}

func (s *UserService) Signup(ctx context.Context, req SignupRequest) (models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" || req.Name == "" || req.Email == "" || req.Username == "" || req.Password == "" || req.Mobile == "" {
		return models.User{}, invalid("role, name, email, username, password and mobile are required")
	}
	if !models.ValidRole(req.Role) {
		return models.User{}, invalid("role must be farmer or consumer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.User{}, invalid("password must be at most 72 bytes")
	}
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Mobile:       req.Mobile,
		Address:      req.Address,
		JoinedAt:     time.Now(),
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, storageErr("create user", err)
	}
	log.Printf("signup: %s %s (%s)", created.Role, created.ID, notify.MaskEmail(created.Email))
	return created, nil
}

// Login checks the password against the stored bcrypt hash and returns the
// user with a signed token. Unknown usernames, wrong passwords and role
// mismatches all report ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (models.User, string, error) {
	if req.Username == "" || req.Password == "" {
		return models.User{}, "", invalid("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", storageErr("fetch user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if req.Role != "" && req.Role != user.Role {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// UpdateProfile edits the account of callerID. Callers may only edit their
// own account.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, id string, update models.ProfileUpdate) (models.User, error) {
	if callerID != id {
		return models.User{}, ErrForbidden
	}
	if update.Empty() {
		return models.User{}, invalid("nothing to update")
	}
	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		return models.User{}, storageErr("update user", err)
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, callerID, id string) error {
	if callerID != id {
		return ErrForbidden
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return storageErr("delete user", err)
	}
	return nil
}
