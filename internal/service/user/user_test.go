package user

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository/postgres"
	"github.com/waryduchess/NorthwestBank-Backend/internal/testutil"
)

func TestUser(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	params := func(email string) CreateUserParams {
		return CreateUserParams{
			Email:            email,
			Phone:            "5512345678",
			FirstName:        "Laura",
			PaternalLastName: "Herrera",
			MaternalLastName: "Cano",
			Password:         "password123",
		}
	}

	// Helper function to create UserService within transaction
	inTx := func(t *testing.T, fn func(s *UserService, storage repository.Storage)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			userService := NewService(DefaultHasher, storage)
			fn(userService, storage)
		})
	}

	t.Run("CreateUser", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				user, err := s.CreateUser(t.Context(), params("laura@bank.mx"))

				require.NoError(t, err, "creating new user should be ok")
				require.NotEmpty(t, user.ID, "user ID should not be empty")
				require.Equal(t, "laura@bank.mx", user.Email, "email should match")
				require.NotEmpty(t, user.PasswordHash, "password hash should not be empty")
				require.NotEqual(t, "password123", user.PasswordHash, "password should be hashed")
				require.NotZero(t, user.CreatedAt, "created at should be set")
			})
		})

		t.Run("empty password fail", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				p := params("empty@bank.mx")
				p.Password = ""

				_, err := s.CreateUser(t.Context(), p)

				require.Error(t, err, "creating user with empty password should fail")
			})
		})

		t.Run("create duplicate user fail", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.CreateUser(t.Context(), params("dup@bank.mx"))
				require.NoError(t, err, "first user creation should succeed")

				_, err = s.CreateUser(t.Context(), params("dup@bank.mx"))

				require.Error(t, err, "creating duplicate user should fail")
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("valid credentials ok", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				created, err := s.CreateUser(t.Context(), params("valid@bank.mx"))
				require.NoError(t, err)

				user, err := s.Login(t.Context(), "valid@bank.mx", "password123")

				require.NoError(t, err, "login with valid credentials should succeed")
				require.Equal(t, created.ID, user.ID)
			})
		})

		t.Run("wrong password and unknown email look the same", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.CreateUser(t.Context(), params("known@bank.mx"))
				require.NoError(t, err)

				_, errWrongPassword := s.Login(t.Context(), "known@bank.mx", "wrongpassword")
				_, errUnknownEmail := s.Login(t.Context(), "unknown@bank.mx", "password123")

				require.ErrorIs(t, errWrongPassword, apperrors.ErrUserNotFound)
				require.ErrorIs(t, errUnknownEmail, apperrors.ErrUserNotFound)
			})
		})
	})
}
