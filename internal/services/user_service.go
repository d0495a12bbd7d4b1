package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/communityhub/server/internal/helpers"
	"github.com/communityhub/server/internal/models"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for any failed login so the response
// never reveals whether the username exists.
var ErrInvalidCredentials = errors.New("invalid username or password")

type UserService struct {
	userRepo  models.UserRepo
	jwtSecret []byte
}

func NewUserService(userRepo models.UserRepo, jwtSecret []byte) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

func (us *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := models.Validate.Struct(user); err != nil {
		return nil, err
	}

	if !helpers.IsPasswordStrong(user.Password) {
		return nil, fmt.Errorf("password is not strong enough")
	}

	hashed, err := helpers.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return created.Sanitize(), nil
}

// AuthenticateUser checks credentials and returns the user together with a
// signed session token.
func (us *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, string, error) {
	if err := models.Validate.Var(username, "required,min=3"); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := us.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("authentication failed: %v", err)
	}

	if !helpers.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := helpers.IssueToken(us.jwtSecret, user.ID.String(), user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %v", err)
	}

	return user.Sanitize(), token, nil
}

func (us *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}
