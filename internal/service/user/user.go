package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository"
)

type CreateUserParams struct {
	Email            string
	Phone            string
	FirstName        string
	PaternalLastName string
	MaternalLastName string
	Password         string
}

type UserService struct {
	hasher  PasswordHasher
	storage repository.Storage
}

func NewService(hasher PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams) (models.User, error) {
	var user models.User

	if p.Password == "" {
		return user, errors.New("password must not be empty")
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err = s.storage.User().Create(ctx, repository.CreateUserParams{
		Email:            p.Email,
		Phone:            p.Phone,
		FirstName:        p.FirstName,
		PaternalLastName: p.PaternalLastName,
		MaternalLastName: p.MaternalLastName,
		PasswordHash:     hash,
	})
	if err != nil {
		return user, fmt.Errorf("can't create user. Err: %w", err)
	}

	return user, nil
}

// Login returns the user if the email and password match an active user.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.storage.User().GetByEmail(ctx, email)
	if err != nil {
		// Burn a compare anyway so login timing doesn't reveal whether the email exists
		_ = s.hasher.Compare("$2a$10$invalidsaltinvalidsaltinvalidsaltinvalidsalt", password)
		return models.User{}, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return models.User{}, apperrors.ErrUserNotFound
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return s.storage.User().GetByID(ctx, id)
}
