package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/cinema-showtimes/internal/database"
	"github.com/iliyamo/cinema-showtimes/internal/model"
	"github.com/iliyamo/cinema-showtimes/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.  The
// insert runs in its own transaction which is rolled back when the email is
// already registered; that case is reported as ErrEmailExists.  An unknown
// city id is reported as ErrNotFound.
func (r *UserRepo) Create(ctx context.Context, email, password string, cityID *uint64, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}

	var id int64
	err = database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO users (email, password_hash, city_id, created_at) VALUES (?,?,?,?)",
			email, hash, cityID, time.Now().UTC())
		switch mapped := classify(err); {
		case errors.Is(mapped, errDuplicate):
			return ErrEmailExists
		case errors.Is(mapped, errForeignKey):
			return ErrNotFound
		case err != nil:
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const userColumns = "user_id, email, password_hash, city_id, created_at"

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CityID, &u.CreatedAt)
	return u, classify(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CityID, &u.CreatedAt)
	return u, classify(err)
}
