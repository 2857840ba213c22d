package handlers

import (
	"net/http"
	"time"

	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/render"
	"github.com/waryduchess/NorthwestBank-Backend/internal/handlers/userctx"
)

func handleUserMe() http.Handler {
	type response struct {
		ID               int64     `json:"id"`
		FirstName        string    `json:"nombre"`
		PaternalLastName string    `json:"apellido_paterno"`
		MaternalLastName string    `json:"apellido_materno"`
		Email            string    `json:"email"`
		Phone            string    `json:"telefono"`
		CreatedAt        time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{
			ID:               user.ID,
			FirstName:        user.FirstName,
			PaternalLastName: user.PaternalLastName,
			MaternalLastName: user.MaternalLastName,
			Email:            user.Email,
			Phone:            user.Phone,
			CreatedAt:        user.CreatedAt,
		})
	})
}
