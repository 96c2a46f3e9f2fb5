package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
)

// DefaultRole is assigned when Register is called without a role.
const DefaultRole = "user"

// UserService manages the identities tokens are issued for.
type UserService struct {
	repomanager repomanager.RepositoryManager
}

func NewUserService(m repomanager.RepositoryManager) *UserService {
	return &UserService{repomanager: m}
}

// Register creates a user. Email is required and must be unique.
func (s *UserService) Register(ctx context.Context, email, name, role string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrInvalidArgument)
	}
	if role == "" {
		role = DefaultRole
	}

	u, err := s.repomanager.Users().Create(ctx, &models.User{Email: email, Name: name, Role: role})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Get returns the user with the given id or common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users().GetByID(ctx, id)
}
