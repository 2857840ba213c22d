package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/render"
	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/ledger"
)

func handleCharge(ledgerService ledgerService, l logger.Logger) http.Handler {
	type request struct {
		AccountNumber string          `json:"numero_cuenta" validate:"required,len=16,numeric"`
		Amount        decimal.Decimal `json:"monto"`
		Description   string          `json:"descripcion" validate:"max=255"`
	}
	type debitResponse struct {
		Message          string  `json:"mensaje"`
		Reference        string  `json:"referencia"`
		RemainingBalance float64 `json:"saldo_restante"`
	}
	type creditResponse struct {
		Message         string   `json:"mensaje"`
		Reference       string   `json:"referencia"`
		CurrentDebt     float64  `json:"deuda_actual"`
		AvailableCredit *float64 `json:"credito_disponible"`
	}
	type limitExceededResponse struct {
		Error           string  `json:"error"`
		Message         string  `json:"mensaje"`
		AvailableCredit float64 `json:"credito_disponible"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}
		if !data.Amount.IsPositive() {
			render.ServiceError(w, "numero_cuenta y monto son requeridos", http.StatusBadRequest)
			return
		}

		result, err := ledgerService.Charge(r.Context(), ledger.ChargeParams{
			AccountNumber: data.AccountNumber,
			Amount:        data.Amount,
			Description:   data.Description,
		})

		var limitErr *apperrors.CreditLimitExceededError
		switch {
		case err == nil:
			// fallthrough to render below
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Cuenta no encontrada", http.StatusNotFound)
			return
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			render.ServiceError(w, "Saldo insuficiente", http.StatusPaymentRequired)
			return
		case errors.As(err, &limitErr):
			available, _ := limitErr.AvailableCredit.Float64()
			render.JSONWithStatus(w, limitExceededResponse{
				Error:           render.ServiceErrorType,
				Message:         "Limite de credito insuficiente",
				AvailableCredit: available,
			}, http.StatusPaymentRequired)
			return
		default:
			l.Error("Failed to charge account", "error", err)
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		account := result.Account
		if account.IsCreditCard() {
			debt, _ := account.Balance.Float64()
			res := creditResponse{
				Message:     "Cobro realizado exitosamente",
				Reference:   result.Reference,
				CurrentDebt: debt,
			}
			if available := account.AvailableCredit(); available != nil {
				f, _ := available.Float64()
				res.AvailableCredit = &f
			}
			render.JSON(w, res)
			return
		}

		balance, _ := account.Balance.Float64()
		render.JSON(w, debitResponse{
			Message:          "Cobro realizado exitosamente",
			Reference:        result.Reference,
			RemainingBalance: balance,
		})
	})
}

func handleDeposit(ledgerService ledgerService, l logger.Logger) http.Handler {
	type request struct {
		AccountNumber string          `json:"numero_cuenta" validate:"required,len=16,numeric"`
		Amount        decimal.Decimal `json:"monto"`
		Description   string          `json:"descripcion" validate:"max=255"`
	}
	type response struct {
		Message    string  `json:"mensaje"`
		Reference  string  `json:"referencia"`
		NewBalance float64 `json:"nuevo_saldo"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}
		if !data.Amount.IsPositive() {
			render.ServiceError(w, "numero_cuenta y monto son requeridos", http.StatusBadRequest)
			return
		}

		result, err := ledgerService.Deposit(r.Context(), ledger.DepositParams{
			AccountNumber: data.AccountNumber,
			Amount:        data.Amount,
			Description:   data.Description,
		})

		switch {
		case err == nil:
			balance, _ := result.Account.Balance.Float64()
			render.JSON(w, response{
				Message:    "Deposito realizado exitosamente",
				Reference:  result.Reference,
				NewBalance: balance,
			})
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Cuenta no encontrada", http.StatusNotFound)
		default:
			l.Error("Failed to deposit to account", "error", err)
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
		}
	})
}
