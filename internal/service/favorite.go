package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/filedrive/filedrive/internal/access"
	"github.com/filedrive/filedrive/internal/model"
	"github.com/filedrive/filedrive/internal/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	fileRepo     repository.FileRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, fileRepo repository.FileRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		fileRepo:     fileRepo,
	}
}

// Toggle flips the favorite state of a file for the caller and returns the
// new state. Callers cannot force a state, only flip it; that matches the
// single-button product semantics. Tombstoned files cannot be favorited.
func (s *FavoriteService) Toggle(user *model.User, fileID string) (favorited bool, err error) {
	if user == nil {
		return false, ErrUnauthenticated
	}

	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		if err == repository.ErrFileNotFound {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to load file: %w", err)
	}
	if !access.CanAccessFile(user, file) {
		return false, ErrNotFound
	}
	if file.ShouldDelete {
		return false, ErrFileDeleted
	}

	existing, err := s.favoriteRepo.ByUserOrgFile(user.ID, file.OrgID, fileID)
	if err != nil && err != repository.ErrFavoriteNotFound {
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}

	if existing != nil {
		err = s.favoriteRepo.Delete(existing.ID)
		if err != nil {
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	}

	favorite := &model.Favorite{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		OrgID:     file.OrgID,
		FileID:    fileID,
		CreatedAt: time.Now(),
	}

	err = s.favoriteRepo.Create(favorite)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	slog.Debug("favorite added", "user_id", user.ID, "file_id", fileID)
	return true, nil
}

// List returns the caller's favorites within the org context.
func (s *FavoriteService) List(user *model.User, orgID string) ([]*model.Favorite, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !access.CanAccessOrg(user, orgID) {
		return nil, ErrForbidden
	}

	favorites, err := s.favoriteRepo.ListByUserOrg(user.ID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	return favorites, nil
}
