package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
)

type userRepository struct{ pool *pgxpool.Pool }

func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.User{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2)
		 RETURNING id, email, password_hash, created_at`,
		u.Email, u.PasswordHash,
	)
	var out model.User
	if err := row.Scan(&out.ID, &out.Email, &out.PasswordHash, &out.CreatedAt); err != nil {
		return model.User{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.User{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email,
	)
	var out model.User
	if err := row.Scan(&out.ID, &out.Email, &out.PasswordHash, &out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, repository.ErrNotFound
		}
		return model.User{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.UserRepository = (*userRepository)(nil)
