package repository

import (
	"context"

	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type CreateUserParams struct {
	Email            string
	Phone            string
	FirstName        string
	PaternalLastName string
	MaternalLastName string
	PasswordHash     string
}

type UserRepo interface {
	// Create user
	// If email or phone is already registered has to return apperrors.ErrUserAlreadyExists
	Create(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}
