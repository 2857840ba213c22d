package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository/postgres"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/account"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/auth"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/auth/tokenmanager"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/ledger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/user"
	"github.com/waryduchess/NorthwestBank-Backend/internal/testutil"
)

func Test_PaymentsHandlers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run full router on production services within a rolled back transaction
	withServer := func(t *testing.T, fn func(url string, storage repository.Storage)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.RefreshToken())
			require.NoError(t, err, "token manager should be created without errors")
			userService := user.NewService(user.DefaultHasher, storage)
			authService, err := auth.NewService(tokenManager, userService)
			require.NoError(t, err, "auth service should be created without errors")

			router := NewRouter(authService, account.NewService(storage), ledger.NewService(storage), logger.NewNoOpLogger())
			srv := httptest.NewServer(router)
			defer srv.Close()

			fn(srv.URL, storage)
		})
	}

	// Create user with one funded account directly through the storage
	seedAccount := func(t *testing.T, storage repository.Storage, number string, accountType string, limit *decimal.Decimal, balance decimal.Decimal) models.Account {
		t.Helper()

		userService := user.NewService(user.DefaultHasher, storage)
		u, err := userService.CreateUser(t.Context(), user.CreateUserParams{
			Email:            number + "@bank.mx",
			Phone:            "55" + number[:8],
			FirstName:        "Rosa",
			PaternalLastName: "Campos",
			MaternalLastName: "Luna",
			Password:         "password123",
		})
		require.NoError(t, err, "creating user should not fail")

		acc, err := storage.Account().Create(t.Context(), repository.CreateAccountParams{
			UserID:      u.ID,
			Number:      number,
			Type:        accountType,
			CreditLimit: limit,
			Currency:    "MXN",
		})
		require.NoError(t, err, "creating account should not fail")

		if !balance.IsZero() {
			require.NoError(t, storage.Account().ApplyDelta(t.Context(), acc.ID, balance))
		}
		return acc
	}

	post := func(t *testing.T, url string, body string) (int, string) {
		t.Helper()

		resp, err := http.Post(url, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(raw)
	}

	t.Run("charge debit ok", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage) {
			seedAccount(t, storage, "4000000000000001", models.AccountTypeSavings, nil, decimal.NewFromInt(1000))

			code, body := post(t, url+"/api/payments/charge", `{
				"numero_cuenta": "4000000000000001",
				"monto": 250.50,
				"descripcion": "Cafeteria"
			}`)

			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
			require.Contains(t, body, `"mensaje":"Cobro realizado exitosamente"`)
			require.Contains(t, body, `"saldo_restante":749.5`)
			require.Contains(t, body, `"referencia":"`)
		})
	})

	t.Run("charge unknown account 404", func(t *testing.T) {
		withServer(t, func(url string, _ repository.Storage) {
			code, body := post(t, url+"/api/payments/charge", `{
				"numero_cuenta": "4999999999999999",
				"monto": 10
			}`)

			require.Equalf(t, http.StatusNotFound, code, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Cuenta no encontrada"
				}`, body)
		})
	})

	t.Run("charge insufficient funds 402", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage) {
			seedAccount(t, storage, "4000000000000002", models.AccountTypeSavings, nil, decimal.NewFromInt(5))

			code, body := post(t, url+"/api/payments/charge", `{
				"numero_cuenta": "4000000000000002",
				"monto": 10
			}`)

			require.Equalf(t, http.StatusPaymentRequired, code, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Saldo insuficiente"
				}`, body)
		})
	})

	t.Run("charge over credit limit 402 with available credit", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage) {
			limit := decimal.NewFromInt(50000)
			seedAccount(t, storage, "4000000000000003", models.AccountTypeOrbe, &limit, decimal.NewFromInt(49900))

			code, body := post(t, url+"/api/payments/charge", `{
				"numero_cuenta": "4000000000000003",
				"monto": 200
			}`)

			require.Equalf(t, http.StatusPaymentRequired, code, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"mensaje": "Limite de credito insuficiente",
					"credito_disponible": 100
				}`, body)
		})
	})

	t.Run("charge non positive amount 400", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage) {
			seedAccount(t, storage, "4000000000000004", models.AccountTypeSavings, nil, decimal.NewFromInt(100))

			code, body := post(t, url+"/api/payments/charge", `{
				"numero_cuenta": "4000000000000004",
				"monto": -5
			}`)

			require.Equalf(t, http.StatusBadRequest, code, "not expected code. Body: %s", body)
		})
	})

	t.Run("deposit ok", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage) {
			seedAccount(t, storage, "4000000000000005", models.AccountTypeChecking, nil, decimal.NewFromInt(100))

			code, body := post(t, url+"/api/payments/deposit", `{
				"numero_cuenta": "4000000000000005",
				"monto": 300
			}`)

			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
			require.Contains(t, body, `"mensaje":"Deposito realizado exitosamente"`)
			require.Contains(t, body, `"nuevo_saldo":400`)
		})
	})

	t.Run("movements require auth", func(t *testing.T) {
		withServer(t, func(url string, _ repository.Storage) {
			resp, err := http.Get(url + "/api/movements")
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	})
}
