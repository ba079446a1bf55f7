package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/filedrive/filedrive/internal/model"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateToken      = errors.New("external token already exists")
	ErrDuplicateMembership = errors.New("membership already exists")
)

// isUniqueViolation checks for a unique constraint error
// (works for both SQLite and PostgreSQL)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByExternalToken(token string) (*model.User, error)
	Update(user *model.User) error
	AddMembership(userID, orgID, role string) error
	SetRole(userID, orgID, role string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, external_token, name, image, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, user.ID, user.ExternalToken, user.Name, user.Image, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateToken
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, external_token, name, image, created_at FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, r.loadMemberships(user)
}

func (r *userRepository) ByExternalToken(token string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, external_token, name, image, created_at FROM users WHERE external_token = $1`

	err := r.db.Get(user, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, r.loadMemberships(user)
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users SET name = $1, image = $2 WHERE id = $3`

	_, err := r.db.Exec(query, user.Name, user.Image, user.ID)
	return err
}

func (r *userRepository) AddMembership(userID, orgID, role string) error {
	query := `INSERT INTO org_memberships (user_id, org_id, role, created_at) VALUES ($1, $2, $3, CURRENT_TIMESTAMP)`

	_, err := r.db.Exec(query, userID, orgID, role)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMembership
		}
		return err
	}

	return nil
}

func (r *userRepository) SetRole(userID, orgID, role string) error {
	query := `UPDATE org_memberships SET role = $1 WHERE user_id = $2 AND org_id = $3`

	result, err := r.db.Exec(query, role, userID, orgID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// loadMemberships fills user.Memberships ordered by join time.
func (r *userRepository) loadMemberships(user *model.User) error {
	query := `SELECT org_id, role, created_at FROM org_memberships WHERE user_id = $1 ORDER BY created_at ASC`

	return r.db.Select(&user.Memberships, query, user.ID)
}
