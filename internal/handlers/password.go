package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/handlers/render"
	"github.com/mercatto/backend/internal/logger"
)

func handleForgotPassword(as accountService, l logger.Logger) http.Handler {
	type request struct {
		Login string `json:"login" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		// The response is the same no matter what happened: it must not
		// reveal whether an account exists for this login
		if err := as.ForgotPassword(r.Context(), data.Login); err != nil {
			l.Error("password reset request failed", "error", err.Error())
		}

		render.JSON(w, response{Message: "If the account exists, recovery instructions were sent"})
	})
}

func handleResetPassword(as accountService, l logger.Logger) http.Handler {
	type request struct {
		Token       string `json:"token" validate:"required"`
		CompanyID   string `json:"company_id" validate:"required,uuid"`
		NewPassword string `json:"new_password" validate:"required,password"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}
		companyID, err := uuid.Parse(data.CompanyID)
		if err != nil {
			render.ServiceError(w, "Invalid or expired token", http.StatusBadRequest)
			return
		}

		err = as.ResetPassword(r.Context(), data.Token, companyID, data.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrEmailTokenNotFound):
				render.ServiceError(w, "Invalid or expired token", http.StatusBadRequest)
			default:
				l.Error("password reset failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Password changed successfully"})
	})
}
