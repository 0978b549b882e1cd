package content

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"journal-service/internal/auth"
	"journal-service/internal/oauth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/external-content/{platform}", h.handleRecent)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	p, err := oauth.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported platform")
		return
	}

	principal, _ := auth.FromContext(r.Context())
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		userID = principal.UserID
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if !principal.CanActAs(userID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.RecentContent(r.Context(), userID, p))
}
