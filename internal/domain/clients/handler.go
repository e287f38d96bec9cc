package clients

import (
	"net/http"

	"amicus-backend/internal/middleware"
	"amicus-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, c *Coordinator) {
	r.Post("/clients", createClientHandler(c))
}

// Los nombres camelCase se mantienen por compatibilidad con el frontend.
type createClientRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	HasCompany    bool   `json:"hasCompany"`
	OrgName       string `json:"orgName"`
	OrgStreet     string `json:"orgStreet"`
	OrgCity       string `json:"orgCity"`
	OrgPostalCode string `json:"orgPostalCode"`
	OrgTaxID      string `json:"orgTaxId"`
	HerdID        string `json:"herd_id"`
}

type createClientResponse struct {
	Message        string  `json:"message"`
	UserID         string  `json:"user_id"`
	OrganizationID *string `json:"organization_id"`
	HerdID         *string `json:"herd_id"`
	RawPassword    string  `json:"rawPassword"`
}

func createClientHandler(c *Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createClientRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		res, err := c.Provision(r.Context(), userID, ProvisionInput{
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Email:         req.Email,
			Phone:         req.Phone,
			HasCompany:    req.HasCompany,
			OrgName:       req.OrgName,
			OrgStreet:     req.OrgStreet,
			OrgCity:       req.OrgCity,
			OrgPostalCode: req.OrgPostalCode,
			OrgTaxID:      req.OrgTaxID,
			HerdID:        req.HerdID,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		httpx.WriteJSON(w, http.StatusCreated, createClientResponse{
			Message:        "client created",
			UserID:         res.UserID,
			OrganizationID: res.OrganizationID,
			HerdID:         res.HerdID,
			RawPassword:    res.RawPassword,
		})
	}
}
