package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/filedrive/filedrive/internal/model"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	ByUserOrgFile(userID, orgID, fileID string) (*model.Favorite, error)
	ListByUserOrg(userID, orgID string) ([]*model.Favorite, error)
	Delete(id string) error
	DeleteByFile(fileID string) error
}

type favoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	query := `INSERT INTO favorites (id, user_id, org_id, file_id, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		favorite.ID,
		favorite.UserID,
		favorite.OrgID,
		favorite.FileID,
		favorite.CreatedAt,
	)

	return err
}

func (r *favoriteRepository) ByUserOrgFile(userID, orgID, fileID string) (*model.Favorite, error) {
	favorite := &model.Favorite{}
	query := `SELECT * FROM favorites WHERE user_id = $1 AND org_id = $2 AND file_id = $3`

	err := r.db.Get(favorite, query, userID, orgID, fileID)
	if err == sql.ErrNoRows {
		return nil, ErrFavoriteNotFound
	}

	return favorite, err
}

func (r *favoriteRepository) ListByUserOrg(userID, orgID string) ([]*model.Favorite, error) {
	var favorites []*model.Favorite
	query := `SELECT * FROM favorites WHERE user_id = $1 AND org_id = $2 ORDER BY created_at DESC`

	err := r.db.Select(&favorites, query, userID, orgID)
	if err != nil {
		return nil, err
	}

	return favorites, nil
}

func (r *favoriteRepository) Delete(id string) error {
	query := `DELETE FROM favorites WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

// DeleteByFile removes every favorite pointing at fileID. Called when the
// sweeper purges the file record.
func (r *favoriteRepository) DeleteByFile(fileID string) error {
	query := `DELETE FROM favorites WHERE file_id = $1`
	_, err := r.db.Exec(query, fileID)
	return err
}
