package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/handlers/render"
	"github.com/mercatto/backend/internal/logger"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/service/account"
)

type companyResponse struct {
	ID        uuid.UUID `json:"id"`
	CNPJ      string    `json:"cnpj"`
	Email     string    `json:"email"`
	LegalName string    `json:"legal_name"`
	TradeName string    `json:"trade_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toCompanyResponse(c models.Company) companyResponse {
	return companyResponse{
		ID:        c.ID,
		CNPJ:      c.CNPJ,
		Email:     c.Email,
		LegalName: c.LegalName,
		TradeName: c.TradeName,
		Role:      c.Role,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

func handleRegisterCompany(as accountService, l logger.Logger) http.Handler {
	type addressRequest struct {
		PostalCode string `json:"postal_code" validate:"required"`
		Street     string `json:"street" validate:"required"`
		Number     string `json:"number" validate:"required"`
		Complement string `json:"complement"`
		District   string `json:"district"`
		City       string `json:"city" validate:"required"`
		State      string `json:"state" validate:"required,len=2"`
	}
	type contactRequest struct {
		Name   string `json:"name" validate:"required"`
		Phone  string `json:"phone"`
		Mobile string `json:"mobile"`
		Email  string `json:"email" validate:"required,email"`
	}
	type request struct {
		CNPJ      string         `json:"cnpj" validate:"required,min=14,max=20"`
		Email     string         `json:"email" validate:"required,email"`
		LegalName string         `json:"legal_name" validate:"required"`
		TradeName string         `json:"trade_name" validate:"required"`
		Password  string         `json:"password" validate:"required,password"`
		Address   addressRequest `json:"address" validate:"required"`
		Contact   contactRequest `json:"contact" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		company, err := as.Register(r.Context(), account.RegisterParams{
			CNPJ:      data.CNPJ,
			Email:     data.Email,
			LegalName: data.LegalName,
			TradeName: data.TradeName,
			Password:  data.Password,
			Address: models.Address{
				PostalCode: data.Address.PostalCode,
				Street:     data.Address.Street,
				Number:     data.Address.Number,
				Complement: data.Address.Complement,
				District:   data.Address.District,
				City:       data.Address.City,
				State:      data.Address.State,
			},
			Contact: models.Contact{
				Name:   data.Contact.Name,
				Phone:  data.Contact.Phone,
				Mobile: data.Contact.Mobile,
				Email:  data.Contact.Email,
			},
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCompanyAlreadyExists):
				render.ServiceError(w, "Company already exists", http.StatusConflict)
			default:
				l.Error("company registration failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, toCompanyResponse(company), http.StatusCreated)
	})
}

func handleVerifyEmail(as accountService, l logger.Logger) http.Handler {
	type request struct {
		Token     string `json:"token" validate:"required"`
		CompanyID string `json:"company_id" validate:"required,uuid"`
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

		err = as.VerifyEmail(r.Context(), data.Token, companyID)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrEmailTokenNotFound):
				render.ServiceError(w, "Invalid or expired token", http.StatusBadRequest)
			default:
				l.Error("email verification failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Account activated successfully"})
	})
}

func handleListCompanies(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		companies, err := as.ListCompanies(r.Context())
		if err != nil {
			l.Error("listing companies failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]companyResponse, 0, len(companies))
		for _, c := range companies {
			response = append(response, toCompanyResponse(c))
		}
		render.JSON(w, response)
	})
}

func handleSetCompanyActive(as accountService, l logger.Logger) http.Handler {
	type request struct {
		Active *bool `json:"active" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Company not found", http.StatusNotFound)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = as.SetCompanyActive(r.Context(), id, *data.Active)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCompanyNotFound):
				render.ServiceError(w, "Company not found", http.StatusNotFound)
			default:
				l.Error("company activation toggle failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Company updated successfully"})
	})
}
