package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/render"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/userctx"
	"github.com/waryduchess/NorthwestBank-Backend/internal/logger"
	"github.com/waryduchess/NorthwestBank-Backend/internal/service/ledger"
)

func handleListMovements(ledgerService ledgerService, l logger.Logger) http.Handler {
	type movement struct {
		ID                int64     `json:"id"`
		Kind              string    `json:"tipo"`
		Amount            float64   `json:"monto"`
		Description       string    `json:"descripcion"`
		Reference         string    `json:"referencia"`
		Status            string    `json:"estado"`
		CreatedAt         time.Time `json:"created_at"`
		OriginNumber      *string   `json:"cuenta_origen"`
		DestinationNumber *string   `json:"cuenta_destino"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		history, err := ledgerService.History(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list movements", "error", err)
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		movements := make([]movement, 0, len(history))
		for _, m := range history {
			amount, _ := m.Amount.Float64()
			movements = append(movements, movement{
				ID:                m.ID,
				Kind:              m.Kind,
				Amount:            amount,
				Description:       m.Description,
				Reference:         m.Reference,
				Status:            m.Status,
				CreatedAt:         m.CreatedAt,
				OriginNumber:      m.OriginNumber,
				DestinationNumber: m.DestinationNumber,
			})
		}
		render.JSON(w, movements)
	})
}

func handleTransfer(ledgerService ledgerService, l logger.Logger) http.Handler {
	type request struct {
		OriginID          int64           `json:"cuenta_origen_id" validate:"required"`
		DestinationNumber string          `json:"numero_cuenta_destino" validate:"required,len=16,numeric"`
		Amount            decimal.Decimal `json:"monto"`
		Description       string          `json:"descripcion" validate:"max=255"`
	}
	type response struct {
		Message   string `json:"mensaje"`
		Reference string `json:"referencia"`
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
		if !data.Amount.IsPositive() {
			render.ServiceError(w, "Datos invalidos", http.StatusBadRequest)
			return
		}

		result, err := ledgerService.Transfer(r.Context(), ledger.TransferParams{
			UserID:            user.ID,
			OriginID:          data.OriginID,
			DestinationNumber: data.DestinationNumber,
			Amount:            data.Amount,
			Description:       data.Description,
		})

		switch {
		case err == nil:
			render.JSON(w, response{
				Message:   "Transferencia realizada exitosamente",
				Reference: result.Reference,
			})
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Cuenta no encontrada", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrSameAccount):
			render.ServiceError(w, "No puedes transferir a la misma cuenta", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			render.ServiceError(w, "Saldo insuficiente", http.StatusPaymentRequired)
		default:
			l.Error("Failed to transfer", "error", err)
			render.ServiceError(w, "Error interno del servidor", http.StatusInternalServerError)
		}
	})
}
