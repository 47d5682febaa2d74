package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/poolbau-vergleich/leadmarket/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, company_name FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Email, &user.CompanyName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
