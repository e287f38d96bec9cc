package users

import (
	"net/http"
	"strconv"
	"time"

	"amicus-backend/internal/domain/tenancy"
	"amicus-backend/internal/middleware"
	"amicus-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/search", searchUsersHandler(svc))
		ur.Get("/{userID}", getUserHandler(svc))
		ur.Patch("/{userID}", updateUserHandler(svc))
		ur.Delete("/{userID}", deleteUserHandler(svc))
	})
}

// UserResponse es la vista pública de un usuario; nunca incluye el hash.
type UserResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	Street      string    `json:"street,omitempty"`
	HouseNumber string    `json:"house_number,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	TaxID       string    `json:"tax_id,omitempty"`
	FarmNumber  string    `json:"farm_number,omitempty"`
	VetID       string    `json:"vet_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type updateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	Street      *string `json:"street"`
	HouseNumber *string `json:"house_number"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	FarmNumber  *string `json:"farm_number"`
	Role        *string `json:"role"`
}

func searchUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.Search(r.Context(), userID, r.URL.Query().Get("search"), limit)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]UserResponse, 0, len(items))
		for _, u := range items {
			out = append(out, ToResponse(u))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.Get(r.Context(), userID, chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(u))
	}
}

func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateUserRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		u, err := svc.Update(r.Context(), userID, chi.URLParam(r, "userID"), UpdateInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Phone:       req.Phone,
			Street:      req.Street,
			HouseNumber: req.HouseNumber,
			City:        req.City,
			PostalCode:  req.PostalCode,
			FarmNumber:  req.FarmNumber,
			Role:        req.Role,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(u))
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "userID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ToResponse(u User) UserResponse {
	status := u.Status
	if status == "" {
		status = tenancy.StatusActive
	}
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Status:      string(status),
		Street:      u.Street,
		HouseNumber: u.HouseNumber,
		City:        u.City,
		PostalCode:  u.PostalCode,
		TaxID:       u.TaxID,
		FarmNumber:  u.FarmNumber,
		VetID:       u.VetID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
