package repository

import (
	"context"

	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type RefreshTokenRepo interface {
	// Save token in repository
	Save(ctx context.Context, token models.RefreshToken) (tokenID int64, err error)

	// Return the token and mark it used in one shot
	// If the token is already used, must return apperrors.ErrRefreshTokenIsUsed
	// and must not overwrite the existing used timestamp
	// If the token not found, must return apperrors.ErrRefreshTokenNotFound
	GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error)
}
