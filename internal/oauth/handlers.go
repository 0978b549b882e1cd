package oauth

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	successPage = "/auth-success.html"
	errorPage   = "/auth-error.html"
)

type Handler struct {
	svc        *Service
	successURL string
	errorURL   string
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:        svc,
		successURL: svc.gatewayURL + successPage,
		errorURL:   svc.gatewayURL + errorPage,
	}
}

// Routes mounts the browser-facing OAuth endpoints. They carry no bearer
// token, so they must sit outside the auth middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/external-auth/authorize/{platform}", h.handleAuthorize)
	r.Get("/external-auth/callback/{platform}", h.handleCallback)
}

func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported platform")
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	authURL, err := h.svc.BuildAuthorizeURL(p, userID)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, p.String()+" oauth not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleCallback finishes the flow. Every failure lands on the generic error
// page; the browser never sees a JSON body.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		http.Redirect(w, r, h.errorURL, http.StatusFound)
		return
	}

	q := r.URL.Query()
	if errStr := q.Get("error"); errStr != "" {
		log.Printf("oauth callback: %s returned error: %s", p, errStr)
		http.Redirect(w, r, h.errorURL, http.StatusFound)
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	if code == "" || state == "" {
		http.Redirect(w, r, h.errorURL, http.StatusFound)
		return
	}

	token, err := h.svc.ExchangeCode(r.Context(), p, code, state)
	if err != nil {
		log.Printf("oauth callback: %s exchange: %v", p, err)
		http.Redirect(w, r, h.errorURL, http.StatusFound)
		return
	}

	if err := h.svc.StoreToken(r.Context(), token); err != nil {
		log.Printf("oauth callback: %s store token: %v", p, err)
		http.Redirect(w, r, h.errorURL, http.StatusFound)
		return
	}

	http.Redirect(w, r, h.successURL, http.StatusFound)
}
