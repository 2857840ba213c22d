package handlers

import (
	"context"
	"net/http"

	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/middleware"
	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/ledger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	accountService accountService,
	ledgerService ledgerService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(authService, logger))
	api.Handle("POST /auth/login", handleLogin(authService, logger))
	api.Handle("POST /auth/refresh", handleTokenRefresh(authService, logger))

	// Payments are initiated by external parties (merchants, transfers from
	// other banks). They carry no session, possession of an active account
	// number is the authorization.
	api.Handle("POST /payments/charge", handleCharge(ledgerService, logger))
	api.Handle("POST /payments/deposit", handleDeposit(ledgerService, logger))

	api.Handle("GET /accounts", withAuth(handleListAccounts(accountService, logger)))
	api.Handle("POST /accounts", withAuth(handleOpenAccount(accountService, logger)))
	api.Handle("GET /accounts/{id}", withAuth(handleGetAccount(accountService, logger)))

	api.Handle("GET /movements", withAuth(handleListMovements(ledgerService, logger)))
	api.Handle("POST /movements/transfer", withAuth(handleTransfer(ledgerService, logger)))

	api.Handle("GET /users/me", withAuth(handleUserMe()))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user and issue the first token pair
	// Has to return apperrors.ErrUserAlreadyExists if email or phone is taken
	Register(ctx context.Context, p user.CreateUserParams) (models.TokenPair, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound on bad credentials
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token not found or already used: apperrors.ErrRefreshTokenNotFound
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Set auth tokens (access, refresh) to response
	SetTokens(w http.ResponseWriter, pair models.TokenPair)

	// Get refresh token from request
	GetRefresh(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type accountService interface {
	Open(ctx context.Context, userID int64, accountType string) (models.Account, error)
	List(ctx context.Context, userID int64) ([]models.Account, error)
	Get(ctx context.Context, id int64, userID int64) (models.Account, error)
}

type ledgerService interface {
	Charge(ctx context.Context, p ledger.ChargeParams) (ledger.ChargeResult, error)
	Deposit(ctx context.Context, p ledger.DepositParams) (ledger.DepositResult, error)
	Transfer(ctx context.Context, p ledger.TransferParams) (ledger.TransferResult, error)
	History(ctx context.Context, userID int64) ([]models.Movement, error)
}
