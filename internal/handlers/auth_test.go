package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository/postgres"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/account"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/auth"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/auth/tokenmanager"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/ledger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/user"
	"github.com/waryduchess/NorthwestBank-Backend/internal/testutil"
)

func Test_AuthHandlers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run http server with production auth service attached
	withServer := func(t *testing.T, fn func(url string, auth *auth.AuthService)) {
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

			fn(srv.URL, authService)
		})
	}

	registerBody := `{
		"nombre": "Maria",
		"apellido_paterno": "Lopez",
		"apellido_materno": "Diaz",
		"email": "maria@bank.mx",
		"telefono": "5512345678",
		"password": "StrongEnoughPassword"
	}`

	t.Run("register ok", func(t *testing.T) {
		withServer(t, func(url string, _ *auth.AuthService) {
			resp, err := http.Post(url+"/api/auth/register", "application/json", strings.NewReader(registerBody))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"mensaje": "Usuario registrado exitosamente"
				}`, string(body))

			require.Contains(t, resp.Header, "Authorization")
			require.Contains(t, resp.Header.Get("Authorization"), "Bearer")
		})
	})

	t.Run("register duplicated email conflict", func(t *testing.T) {
		withServer(t, func(url string, _ *auth.AuthService) {
			resp, err := http.Post(url+"/api/auth/register", "application/json", strings.NewReader(registerBody))
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			resp, err = http.Post(url+"/api/auth/register", "application/json", strings.NewReader(registerBody))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Email o telefono ya registrado"
				}`, string(body))
		})
	})

	t.Run("login ok sets refresh cookie", func(t *testing.T) {
		withServer(t, func(url string, authService *auth.AuthService) {
			_, err := authService.Register(t.Context(), user.CreateUserParams{
				Email:            "login@bank.mx",
				Phone:            "5500000001",
				FirstName:        "Juan",
				PaternalLastName: "Perez",
				MaternalLastName: "Soto",
				Password:         "StrongEnoughPassword",
			})
			require.NoError(t, err)

			data := `{"email": "login@bank.mx", "password": "StrongEnoughPassword"}`
			resp, err := http.Post(url+"/api/auth/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"mensaje": "Sesion iniciada exitosamente"
				}`, string(body))

			require.Equal(t, 1, len(resp.Cookies()))
			cookie := resp.Cookies()[0]
			require.Equal(t, "refreshtoken", cookie.Name)
			require.Equal(t, cookie.HttpOnly, true, "refresh cookie should be HttpOnly")
			require.Equal(t, "/", cookie.Path, "refresh cookie should be available on / path")
			require.Equal(t, http.SameSiteStrictMode, cookie.SameSite, "refresh cookie should be SameSite Strict")
			require.InDelta(t, (24 * time.Hour).Seconds(), cookie.MaxAge, 1, "max age should be refresh TTL with 1 second delta")
			require.NotEmpty(t, cookie.Value, "refresh cookie should not be empty")
		})
	})

	t.Run("login failed", func(t *testing.T) {
		withServer(t, func(url string, _ *auth.AuthService) {
			data := `{"email": "nobody@bank.mx", "password": "WrongPassword"}`

			resp, err := http.Post(url+"/api/auth/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Credenciales invalidas"
				}`, string(body))

			require.Equal(t, 0, len(resp.Cookies()), "no cookies should be set on login error")
			require.NotContains(t, resp.Header, "Authorization", "Authorization header should not be set")
		})
	})

	t.Run("refresh token used once", func(t *testing.T) {
		withServer(t, func(url string, authService *auth.AuthService) {
			pair, err := authService.Register(t.Context(), user.CreateUserParams{
				Email:            "refresh@bank.mx",
				Phone:            "5500000002",
				FirstName:        "Ana",
				PaternalLastName: "Mora",
				MaternalLastName: "Rios",
				Password:         "StrongEnoughPassword",
			})
			require.NoError(t, err)

			refresh := func() *http.Response {
				req, err := http.NewRequest(http.MethodPost, url+"/api/auth/refresh", nil)
				require.NoError(t, err)
				req.AddCookie(&http.Cookie{Name: "refreshtoken", Value: pair.Refresh.Value})

				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				return resp
			}

			resp := refresh()
			_ = resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode, "first refresh should succeed")

			resp = refresh()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", string(body))
		})
	})

	t.Run("authenticated flow through bearer token", func(t *testing.T) {
		withServer(t, func(url string, authService *auth.AuthService) {
			pair, err := authService.Register(t.Context(), user.CreateUserParams{
				Email:            "bearer@bank.mx",
				Phone:            "5500000003",
				FirstName:        "Hugo",
				PaternalLastName: "Salas",
				MaternalLastName: "Pena",
				Password:         "StrongEnoughPassword",
			})
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodGet, url+"/api/users/me", nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+pair.Access.Value)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), `"email":"bearer@bank.mx"`)
			require.Contains(t, string(body), `"nombre":"Hugo"`)
		})
	})
}
