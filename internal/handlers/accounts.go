package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/render"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/userctx"
	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type accountResponse struct {
	ID              int64     `json:"id"`
	Number          string    `json:"numero_cuenta"`
	Type            string    `json:"tipo"`
	Balance         float64   `json:"saldo"`
	CreditLimit     *float64  `json:"limite_credito"`
	Currency        string    `json:"moneda"`
	Status          string    `json:"estado"`
	AvailableCredit *float64  `json:"credito_disponible,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func newAccountResponse(a models.Account) accountResponse {
	balance, _ := a.Balance.Float64()

	res := accountResponse{
		ID:        a.ID,
		Number:    a.Number,
		Type:      a.Type,
		Balance:   balance,
		Currency:  a.Currency,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}

	if a.CreditLimit != nil {
		limit, _ := a.CreditLimit.Float64()
		res.CreditLimit = &limit
	}
	if available := a.AvailableCredit(); available != nil {
		f, _ := available.Float64()
		res.AvailableCredit = &f
	}

	return res
}

func handleListAccounts(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		accounts, err := accountService.List(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list accounts", "error", err)
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		res := make([]accountResponse, 0, len(accounts))
		for _, a := range accounts {
			res = append(res, newAccountResponse(a))
		}
		render.JSON(w, res)
	})
}

func handleGetAccount(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Cuenta no encontrada", http.StatusNotFound)
			return
		}

		account, err := accountService.Get(r.Context(), id, user.ID)
		switch {
		case err == nil:
			render.JSON(w, newAccountResponse(account))
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Cuenta no encontrada", http.StatusNotFound)
		default:
			l.Error("Failed to get account", "error", err)
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
		}
	})
}

func handleOpenAccount(accountService accountService, l logger.Logger) http.Handler {
	type request struct {
		Type string `json:"tipo" validate:"required,oneof=ahorro corriente orbe silverstone imperium"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		account, err := accountService.Open(r.Context(), user.ID, data.Type)
		switch {
		case err == nil:
			render.JSONWithStatus(w, newAccountResponse(account), http.StatusCreated)
		case errors.Is(err, apperrors.ErrAccountTypeInvalid):
			render.ServiceError(w, "Tipo invalido. Opciones: ahorro, corriente, orbe, silverstone, imperium", http.StatusBadRequest)
		default:
			l.Error("Failed to open account", "error", err)
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
		}
	})
}
