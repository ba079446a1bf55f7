package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/filedrive/filedrive/internal/model"
	"github.com/filedrive/filedrive/internal/repository"
)

// IdentityService resolves provider identity tokens to user records and
// applies the provider's user/membership sync events. It never verifies org
// membership itself; that is the access package's job.
type IdentityService struct {
	userRepo repository.UserRepository
}

func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
	}
}

// Resolve maps an external identity token to a user record. It fails closed:
// an empty token or an unknown user yields ErrUnauthenticated, never a
// system error, so callers treat it as an authorization failure.
func (s *IdentityService) Resolve(externalToken string) (*model.User, error) {
	if externalToken == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.ByExternalToken(externalToken)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return user, nil
}

// CreateUser records a user on their first appearance at the identity
// provider. Replays of the same event are harmless.
func (s *IdentityService) CreateUser(externalToken, name, image string) (*model.User, error) {
	if externalToken == "" {
		return nil, ErrUnauthenticated
	}

	user := &model.User{
		ID:            uuid.New().String(),
		ExternalToken: externalToken,
		Name:          name,
		Image:         image,
		CreatedAt:     time.Now(),
	}

	err := s.userRepo.Create(user)
	if err != nil {
		if err == repository.ErrDuplicateToken {
			// Provider webhooks retry; the user already exists
			return s.userRepo.ByExternalToken(externalToken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", user.ID)
	return user, nil
}

// UpdateUser syncs profile fields (display name, avatar) from the provider.
func (s *IdentityService) UpdateUser(externalToken, name, image string) error {
	user, err := s.userRepo.ByExternalToken(externalToken)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	user.Name = name
	user.Image = image

	err = s.userRepo.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// AddOrgMembership grants the user membership in orgID. Duplicate grants are
// ignored so provider event replays stay idempotent.
func (s *IdentityService) AddOrgMembership(externalToken, orgID, role string) error {
	if role == "" {
		role = model.RoleMember
	}
	if role != model.RoleMember && role != model.RoleAdmin {
		return ErrInvalidRole
	}

	user, err := s.userRepo.ByExternalToken(externalToken)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	err = s.userRepo.AddMembership(user.ID, orgID, role)
	if err != nil {
		if err == repository.ErrDuplicateMembership {
			return nil
		}
		return fmt.Errorf("failed to add membership: %w", err)
	}

	slog.Info("org membership added", "user_id", user.ID, "org_id", orgID, "role", role)
	return nil
}

// SetOrgRole updates the user's role within an org they already belong to.
func (s *IdentityService) SetOrgRole(externalToken, orgID, role string) error {
	if role != model.RoleMember && role != model.RoleAdmin {
		return ErrInvalidRole
	}

	user, err := s.userRepo.ByExternalToken(externalToken)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	err = s.userRepo.SetRole(user.ID, orgID, role)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set role: %w", err)
	}

	slog.Info("org role updated", "user_id", user.ID, "org_id", orgID, "role", role)
	return nil
}
