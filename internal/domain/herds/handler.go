package herds

import (
	"net/http"
	"time"

	"amicus-backend/internal/middleware"
	"amicus-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

const hiddenMsg = "herd not found or not authorized"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/herds", func(hr chi.Router) {
		hr.Post("/", createHerdHandler(svc))
		hr.Get("/", listHerdsHandler(svc))
		hr.Get("/{herdID}", getHerdHandler(svc))
		hr.Patch("/{herdID}", updateHerdHandler(svc))
		hr.Delete("/{herdID}", deleteHerdHandler(svc))
	})
}

type createHerdRequest struct {
	HerdID    string `json:"herd_id"`
	OwnerType string `json:"owner_type"`
	OwnerID   string `json:"owner_id"`
}

type updateHerdRequest struct {
	HerdID    *string `json:"herd_id"`
	OwnerType *string `json:"owner_type"`
	OwnerID   *string `json:"owner_id"`
}

type herdResponse struct {
	ID        string    `json:"id"`
	HerdID    string    `json:"herd_id"`
	OwnerType string    `json:"owner_type"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createHerdHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createHerdRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		h, err := svc.Create(r.Context(), userID, CreateInput{
			HerdID:    req.HerdID,
			OwnerType: req.OwnerType,
			OwnerID:   req.OwnerID,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toHerdResponse(h))
	}
}

func listHerdsHandler(svc *Service) http.HandlerFunc {
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
		out := make([]herdResponse, 0, len(items))
		for _, h := range items {
			out = append(out, toHerdResponse(h))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getHerdHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		h, err := svc.Get(r.Context(), userID, chi.URLParam(r, "herdID"))
		if err != nil {
			httpx.WriteHiddenError(w, err, hiddenMsg)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toHerdResponse(h))
	}
}

func updateHerdHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateHerdRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		h, err := svc.Update(r.Context(), userID, chi.URLParam(r, "herdID"), UpdateInput{
			HerdID:    req.HerdID,
			OwnerType: req.OwnerType,
			OwnerID:   req.OwnerID,
		})
		if err != nil {
			httpx.WriteHiddenError(w, err, hiddenMsg)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toHerdResponse(h))
	}
}

func deleteHerdHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.RequesterID(r)
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "herdID")); err != nil {
			httpx.WriteHiddenError(w, err, hiddenMsg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toHerdResponse(h Herd) herdResponse {
	return herdResponse{
		ID:        h.ID,
		HerdID:    h.HerdID,
		OwnerType: string(h.Owner.Kind()),
		OwnerID:   h.Owner.ID(),
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}
