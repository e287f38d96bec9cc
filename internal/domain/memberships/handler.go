package memberships

import (
	"net/http"
	"time"

	"amicus-backend/internal/middleware"
	"amicus-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/organization-user", func(mr chi.Router) {
		mr.Post("/", createMembershipHandler(svc))
		mr.Get("/", listMembershipsHandler(svc))
		mr.Get("/{membershipID}", getMembershipHandler(svc))
		mr.Patch("/{membershipID}", updateMembershipHandler(svc))
		mr.Delete("/{membershipID}", deleteMembershipHandler(svc))
	})
}

type createMembershipRequest struct {
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
}

type updateMembershipRequest struct {
	Role string `json:"role"`
}

type membershipResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func createMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMembershipRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		m, err := svc.Create(r.Context(), userID, CreateInput{
			OrganizationID: req.OrganizationID,
			UserID:         req.UserID,
			Role:           req.Role,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toMembershipResponse(m))
	}
}

func listMembershipsHandler(svc *Service) http.HandlerFunc {
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
		out := make([]membershipResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMembershipResponse(m))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.Get(r.Context(), userID, chi.URLParam(r, "membershipID"))
		if err != nil {
			httpx.WriteHiddenError(w, err, "relation not found or not authorized")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toMembershipResponse(m))
	}
}

func updateMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateMembershipRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		m, err := svc.UpdateRole(r.Context(), userID, chi.URLParam(r, "membershipID"), req.Role)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toMembershipResponse(m))
	}
}

func deleteMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "membershipID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toMembershipResponse(m Membership) membershipResponse {
	return membershipResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
