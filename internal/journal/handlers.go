package journal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"journal-service/internal/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts user and journal endpoints. Every route is keyed by a user id
// the caller must be allowed to act as.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/users", h.handleCreateUser)
	r.Route("/users/{userId}", func(r chi.Router) {
		r.Use(requireSelf)
		r.Get("/", h.handleGetUser)
		r.Put("/", h.handleUpdateUser)
		r.Delete("/", h.handleDeleteUser)

		r.Post("/journals", h.handleCreateJournal)
		r.Get("/journals", h.handleListJournals)
		r.Get("/journals/{id}", h.handleGetJournal)
		r.Put("/journals/{id}", h.handleUpdateJournal)
		r.Delete("/journals/{id}", h.handleDeleteJournal)
	})
}

func requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.FromContext(r.Context())
		if !p.CanActAs(chi.URLParam(r, "userId")) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------- users ----------

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in User
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	p, _ := auth.FromContext(r.Context())
	if in.ID == "" && !p.Service {
		in.ID = p.UserID
	}
	if !p.CanActAs(in.ID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	u, err := h.svc.CreateUser(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	u, err := h.svc.UpdateUser(r.Context(), chi.URLParam(r, "userId"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "userId")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- journals ----------

func (h *Handler) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var in JournalInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	j, err := h.svc.CreateJournal(r.Context(), chi.URLParam(r, "userId"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (h *Handler) handleListJournals(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListJournals(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []Journal{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.GetJournal(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) handleUpdateJournal(w http.ResponseWriter, r *http.Request) {
	var patch JournalPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	j, err := h.svc.UpdateJournal(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteJournal(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
