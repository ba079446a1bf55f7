package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/filedrive/filedrive/internal/repository"
	"github.com/filedrive/filedrive/internal/storage"
)

// SweepService permanently removes tombstoned files once they are past the
// retention window: blob first, then the record, then any favorites pointing
// at it. It runs on its own schedule, decoupled from request handling.
type SweepService struct {
	fileRepo     repository.FileRepository
	favoriteRepo repository.FavoriteRepository
	blobs        storage.BlobStore
	retention    time.Duration
	interval     time.Duration
}

func NewSweepService(fileRepo repository.FileRepository, favoriteRepo repository.FavoriteRepository, blobs storage.BlobStore, retention, interval time.Duration) *SweepService {
	return &SweepService{
		fileRepo:     fileRepo,
		favoriteRepo: favoriteRepo,
		blobs:        blobs,
		retention:    retention,
		interval:     interval,
	}
}

// Start runs the sweep loop until ctx is canceled. Intended to be launched
// in its own goroutine from main.
func (s *SweepService) Start(ctx context.Context) {
	slog.Info("purge sweeper started", "retention", s.retention, "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("purge sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce purges every file whose tombstone is older than the retention
// window. A failure on one file never aborts the rest of the sweep; the
// file stays flagged and is retried on the next pass.
func (s *SweepService) SweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)

	expired, err := s.fileRepo.ListExpired(cutoff)
	if err != nil {
		slog.Error("sweep failed to list expired files", "error", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	purged := 0
	for _, file := range expired {
		err := s.blobs.Delete(ctx, file.BlobRef)
		if err != nil {
			slog.Warn("sweep failed to delete blob, will retry next pass", "file_id", file.ID, "blob_ref", file.BlobRef, "error", err)
			continue
		}

		// The delete re-checks the tombstone flag: a file restored in the
		// instant before we claim it must survive.
		ok, err := s.fileRepo.Purge(file.ID)
		if err != nil {
			slog.Warn("sweep failed to purge file record", "file_id", file.ID, "error", err)
			continue
		}
		if !ok {
			slog.Info("sweep skipped file restored mid-sweep", "file_id", file.ID)
			continue
		}

		err = s.favoriteRepo.DeleteByFile(file.ID)
		if err != nil {
			slog.Warn("sweep failed to cascade favorites", "file_id", file.ID, "error", err)
		}

		purged++
	}

	slog.Info("sweep completed", "eligible", len(expired), "purged", purged)
}
