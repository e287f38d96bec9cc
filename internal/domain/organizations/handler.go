package organizations

import (
	"net/http"
	"time"

	"amicus-backend/internal/middleware"
	"amicus-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

const hiddenMsg = "organization not found or not authorized"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/organizations", func(or chi.Router) {
		or.Post("/", createOrganizationHandler(svc))
		or.Get("/", listOrganizationsHandler(svc))
		or.Get("/{orgID}", getOrganizationHandler(svc))
		or.Patch("/{orgID}", updateOrganizationHandler(svc))
		or.Delete("/{orgID}", deleteOrganizationHandler(svc))
	})
}

type createOrganizationRequest struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	TaxID       string `json:"tax_id"`
}

type updateOrganizationRequest struct {
	Name        *string `json:"name"`
	Street      *string `json:"street"`
	HouseNumber *string `json:"house_number"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	TaxID       *string `json:"tax_id"`
}

type organizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Street      string    `json:"street"`
	HouseNumber string    `json:"house_number"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	TaxID       string    `json:"tax_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func createOrganizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createOrganizationRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		o, err := svc.Create(r.Context(), userID, CreateInput{
			Name:        req.Name,
			Street:      req.Street,
			HouseNumber: req.HouseNumber,
			City:        req.City,
			PostalCode:  req.PostalCode,
			TaxID:       req.TaxID,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toOrganizationResponse(o))
	}
}

func listOrganizationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), userID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]organizationResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOrganizationResponse(o))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getOrganizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		o, err := svc.Get(r.Context(), userID, chi.URLParam(r, "orgID"))
		if err != nil {
			httpx.WriteHiddenError(w, err, hiddenMsg)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOrganizationResponse(o))
	}
}

func updateOrganizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateOrganizationRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		o, err := svc.Update(r.Context(), userID, chi.URLParam(r, "orgID"), UpdateInput{
			Name:        req.Name,
			Street:      req.Street,
			HouseNumber: req.HouseNumber,
			City:        req.City,
			PostalCode:  req.PostalCode,
			TaxID:       req.TaxID,
		})
		if err != nil {
			httpx.WriteHiddenError(w, err, hiddenMsg)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toOrganizationResponse(o))
	}
}

func deleteOrganizationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "orgID")); err != nil {
			httpx.WriteHiddenError(w, err, hiddenMsg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toOrganizationResponse(o Organization) organizationResponse {
	return organizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Street:      o.Street,
		HouseNumber: o.HouseNumber,
		City:        o.City,
		PostalCode:  o.PostalCode,
		TaxID:       o.TaxID,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
