package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) (int64, error) {
	const saveToken = `
	INSERT INTO refresh_tokens (usuario_id, token, created_at, expires_at, used_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	var id int64
	err := r.DB.QueryRow(ctx, saveToken, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt, token.UsedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *RefreshTokenRepo) GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	const markUsed = `
	UPDATE refresh_tokens
	SET used_at = now()
	WHERE token = $1 AND used_at IS NULL
	RETURNING id, usuario_id, token, created_at, expires_at, used_at
	`

	rows, _ := r.DB.Query(ctx, markUsed, tokenString)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either the token never existed or it was used already.
		// Distinguish, the auth service treats a reused token as a signal.
		const getToken = `
		SELECT id, usuario_id, token, created_at, expires_at, used_at
		FROM refresh_tokens
		WHERE token = $1
		`
		rows, _ := r.DB.Query(ctx, getToken, tokenString)
		token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

		switch {
		case err == nil:
			return token, apperrors.ErrRefreshTokenIsUsed
		case errors.Is(err, pgx.ErrNoRows):
			return token, apperrors.ErrRefreshTokenNotFound
		default:
			return token, fmt.Errorf("db error: %w", err)
		}
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.UsedAt)
	return t, err
}
