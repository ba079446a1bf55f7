package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/filedrive/filedrive/internal/model"
)

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrDuplicateName = errors.New("file name already exists in org")
)

// FileListFilter narrows a List call. Zero values mean "no filter" except
// Deleted, which always selects exactly one side of the tombstone flag.
type FileListFilter struct {
	Query             string // case-insensitive substring match on name
	Type              string
	FavoritesOfUserID string // only files favorited by this user in the org
	Deleted           bool   // true = tombstoned files only, false = active only
}

type FileRepository interface {
	Create(file *model.File) error
	ByID(id string) (*model.File, error)
	List(orgID string, filter FileListFilter) ([]*model.File, error)
	MarkDeleted(id string, at time.Time) (bool, error)
	Restore(id string) (bool, error)
	ListExpired(cutoff time.Time) ([]*model.File, error)
	Purge(id string) (bool, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *model.File) error {
	query := `INSERT INTO files (id, org_id, owner_id, name, blob_ref, type, should_delete, deleted_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		file.ID,
		file.OrgID,
		file.OwnerID,
		file.Name,
		file.BlobRef,
		file.Type,
		file.ShouldDelete,
		file.DeletedAt,
		file.CreatedAt,
	)
	if err != nil {
		// The partial unique index on (org_id, name) over active files is
		// what gives concurrent same-name creates a single winner.
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}

	return nil
}

func (r *fileRepository) ByID(id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1`

	err := r.db.Get(file, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

// escapeLike escapes LIKE wildcards so user queries match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *fileRepository) List(orgID string, filter FileListFilter) ([]*model.File, error) {
	query := `SELECT f.* FROM files f`
	args := []any{orgID, filter.Deleted}

	if filter.FavoritesOfUserID != "" {
		args = append(args, filter.FavoritesOfUserID)
		query += fmt.Sprintf(` JOIN favorites fav ON fav.file_id = f.id AND fav.org_id = f.org_id AND fav.user_id = $%d`, len(args))
	}

	query += ` WHERE f.org_id = $1 AND f.should_delete = $2`

	if filter.Query != "" {
		args = append(args, "%"+strings.ToLower(escapeLike(filter.Query))+"%")
		query += fmt.Sprintf(` AND LOWER(f.name) LIKE $%d ESCAPE '\'`, len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(` AND f.type = $%d`, len(args))
	}

	query += ` ORDER BY f.created_at DESC`

	var files []*model.File
	err := r.db.Select(&files, query, args...)
	if err != nil {
		return nil, err
	}

	return files, nil
}

// MarkDeleted flips the tombstone flag. Returns false when the file is
// missing or already tombstoned, so two concurrent deletes cannot both
// report success.
func (r *fileRepository) MarkDeleted(id string, at time.Time) (bool, error) {
	query := `UPDATE files SET should_delete = TRUE, deleted_at = $1 WHERE id = $2 AND should_delete = FALSE`

	result, err := r.db.Exec(query, at, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Restore clears the tombstone flag. Returns false when the file is missing,
// not tombstoned, or already claimed by the sweeper.
func (r *fileRepository) Restore(id string) (bool, error) {
	query := `UPDATE files SET should_delete = FALSE, deleted_at = NULL WHERE id = $1 AND should_delete = TRUE`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// ListExpired returns tombstoned files whose deleted_at is at or before
// cutoff, eligible for permanent purge.
func (r *fileRepository) ListExpired(cutoff time.Time) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE should_delete = TRUE AND deleted_at <= $1 ORDER BY deleted_at ASC`

	err := r.db.Select(&files, query, cutoff)
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Purge permanently removes a tombstoned file record. The should_delete
// condition re-checks the flag at delete time: a file restored after the
// sweep snapshot was taken survives.
func (r *fileRepository) Purge(id string) (bool, error) {
	query := `DELETE FROM files WHERE id = $1 AND should_delete = TRUE`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
