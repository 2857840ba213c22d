package handlers

import (
	"errors"
	"net/http"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/render"
	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/user"
)

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		FirstName        string `json:"nombre" validate:"required,min=2,max=100"`
		PaternalLastName string `json:"apellido_paterno" validate:"required,max=100"`
		MaternalLastName string `json:"apellido_materno" validate:"required,max=100"`
		Email            string `json:"email" validate:"required,email"`
		Phone            string `json:"telefono" validate:"required,min=10,max=15"`
		Password         string `json:"password" validate:"required,min=8"`
	}
	type response struct {
		Message string `json:"mensaje"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Register(r.Context(), user.CreateUserParams{
			Email:            data.Email,
			Phone:            data.Phone,
			FirstName:        data.FirstName,
			PaternalLastName: data.PaternalLastName,
			MaternalLastName: data.MaternalLastName,
			Password:         data.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "Email o telefono ya registrado", http.StatusConflict)
			default:
				l.Error("Failed to register user", "error", err)
				render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokens(w, pair)
		render.JSONWithStatus(w, response{Message: "Usuario registrado exitosamente"}, http.StatusCreated)
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Message string `json:"mensaje"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Credenciales invalidas", http.StatusUnauthorized)
			default:
				l.Error("Failed to login user", "error", err)
				render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokens(w, pair)
		render.JSON(w, response{Message: "Sesion iniciada exitosamente"})
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"mensaje"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := authService.GetRefresh(r)
		if err != nil {
			render.ServiceError(w, "Refresh token no encontrado", http.StatusUnauthorized)
			return
		}

		pair, err := authService.Refresh(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenExpired):
				render.ServiceError(w, "Refresh token expirado", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrRefreshTokenNotFound), errors.Is(err, apperrors.ErrRefreshTokenIsUsed):
				render.ServiceError(w, "Refresh token no encontrado", http.StatusUnauthorized)
			default:
				l.Error("Failed to refresh tokens", "error", err)
				render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokens(w, pair)
		render.JSON(w, response{Message: "Tokens renovados exitosamente"})
	})
}
