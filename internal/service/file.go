package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/filedrive/filedrive/internal/access"
	"github.com/filedrive/filedrive/internal/model"
	"github.com/filedrive/filedrive/internal/repository"
	"github.com/filedrive/filedrive/internal/storage"
	"github.com/filedrive/filedrive/internal/validation"
)

// blobRetries bounds retry attempts against the blob backend on user-facing
// paths. The sweeper does not retry inline; it waits for the next pass.
const blobRetries = 3

// ListFilters narrows a file listing. Filters are combined with AND.
type ListFilters struct {
	Query         string // case-insensitive substring match on name
	Type          string // exact file type, empty = all
	FavoritesOnly bool
	DeletedOnly   bool
}

type FileService struct {
	fileRepo repository.FileRepository
	blobs    storage.BlobStore
}

func NewFileService(fileRepo repository.FileRepository, blobs storage.BlobStore) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		blobs:    blobs,
	}
}

// UploadHandle returns a fresh blob ref plus a presigned URL the client
// uploads the bytes to, ahead of the Create call that records the metadata.
func (s *FileService) UploadHandle(ctx context.Context, user *model.User, orgID string) (ref, url string, err error) {
	if user == nil {
		return "", "", ErrUnauthenticated
	}
	if !access.CanAccessOrg(user, orgID) {
		return "", "", ErrForbidden
	}

	err = retryBlob(func() error {
		ref, url, err = s.blobs.GenerateUploadHandle(ctx)
		return err
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate upload handle: %w", err)
	}

	return ref, url, nil
}

// Create records file metadata for an already-uploaded blob. The blob is
// verified first so a failed upload never leaves an orphan metadata row;
// the storage layer's unique index settles concurrent same-name creates.
func (s *FileService) Create(ctx context.Context, user *model.User, orgID, name, blobRef, fileType string) (*model.File, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	if err := validation.ValidateFileName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if err := validation.ValidateFileType(fileType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidType, err)
	}

	if !access.CanAccessOrg(user, orgID) {
		return nil, ErrForbidden
	}

	var exists bool
	err := retryBlob(func() error {
		var blobErr error
		exists, blobErr = s.blobs.Exists(ctx, blobRef)
		return blobErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check blob: %w", err)
	}
	if !exists {
		return nil, ErrBlobMissing
	}

	file := &model.File{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		OwnerID:   user.ID,
		Name:      name,
		BlobRef:   blobRef,
		Type:      fileType,
		CreatedAt: time.Now(),
	}

	err = s.fileRepo.Create(file)
	if err != nil {
		if err == repository.ErrDuplicateName {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	slog.Info("file created", "file_id", file.ID, "org_id", orgID, "owner_id", user.ID)
	return file, nil
}

// List returns the org's files matching the filters, each with a resolved
// display URL (empty when the blob is missing). A caller outside the org
// silently sees nothing rather than an error.
func (s *FileService) List(ctx context.Context, user *model.User, orgID string, filters ListFilters) ([]*model.File, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !access.CanAccessOrg(user, orgID) {
		return []*model.File{}, nil
	}

	filter := repository.FileListFilter{
		Query:   filters.Query,
		Type:    filters.Type,
		Deleted: filters.DeletedOnly,
	}
	if filters.FavoritesOnly {
		filter.FavoritesOfUserID = user.ID
	}

	files, err := s.fileRepo.List(orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	for _, file := range files {
		url, err := s.blobs.DisplayURL(ctx, file.BlobRef)
		if err != nil {
			// Leave the URL empty; the record is still listed
			slog.Warn("failed to resolve display url", "file_id", file.ID, "error", err)
			continue
		}
		file.URL = url
	}

	return files, nil
}

// SoftDelete tombstones a file for later purge. The update is a
// compare-and-set on the flag, so two concurrent deletes cannot both
// succeed. Existence is checked before permission: a file the caller cannot
// see reports not-found, a file they can see but may not delete reports
// forbidden.
func (s *FileService) SoftDelete(user *model.User, fileID string) error {
	if user == nil {
		return ErrUnauthenticated
	}

	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		if err == repository.ErrFileNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load file: %w", err)
	}
	if !access.CanAccessFile(user, file) {
		return ErrNotFound
	}
	if file.ShouldDelete {
		return ErrAlreadyDeleted
	}
	if !access.CanDeleteOrRestore(user, file) {
		return ErrForbidden
	}

	changed, err := s.fileRepo.MarkDeleted(fileID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark file deleted: %w", err)
	}
	if !changed {
		// Lost the race against another delete
		return ErrAlreadyDeleted
	}

	slog.Info("file soft-deleted", "file_id", fileID, "user_id", user.ID)
	return nil
}

// Restore clears a file's tombstone while it is still within the retention
// window. Mirror of SoftDelete, governed by the same permission rule.
func (s *FileService) Restore(user *model.User, fileID string) error {
	if user == nil {
		return ErrUnauthenticated
	}

	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		if err == repository.ErrFileNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load file: %w", err)
	}
	if !access.CanAccessFile(user, file) {
		return ErrNotFound
	}
	if !file.ShouldDelete {
		return ErrNotDeleted
	}
	if !access.CanDeleteOrRestore(user, file) {
		return ErrForbidden
	}

	changed, err := s.fileRepo.Restore(fileID)
	if err != nil {
		return fmt.Errorf("failed to restore file: %w", err)
	}
	if !changed {
		// Restored by someone else, or already purged
		return ErrNotDeleted
	}

	slog.Info("file restored", "file_id", fileID, "user_id", user.ID)
	return nil
}

// retryBlob retries a blob backend call a bounded number of times. Every
// call already carries its own deadline, so the total time is bounded too.
func retryBlob(fn func() error) error {
	var err error
	for attempt := 0; attempt < blobRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
		err = fn()
		if err == nil {
			return nil
		}
	}
	return err
}
