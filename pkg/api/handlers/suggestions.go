package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"suggestbox/pkg/auth"
	"suggestbox/pkg/logger"
	"suggestbox/pkg/store"
	"suggestbox/pkg/utils"
)

// Suggestions exposes the suggestion CRUD surface over a store.
type Suggestions struct {
	store *store.Store
	// maxContentLen rejects oversized submissions when > 0; zero accepts
	// content of any length.
	maxContentLen int
}

// NewSuggestions returns the handler set bound to the given store.
func NewSuggestions(st *store.Store, maxContentLen int) *Suggestions {
	return &Suggestions{store: st, maxContentLen: maxContentLen}
}

// Register wires the four operations onto the router. Submission is open;
// list, update and delete sit behind the access gate.
func (h *Suggestions) Register(r *mux.Router) {
	r.Handle("/suggestions", auth.RequireIdentity(http.HandlerFunc(h.list))).Methods(http.MethodGet)
	r.HandleFunc("/suggestions", h.create).Methods(http.MethodPost)
	r.Handle("/suggestions/{id}", auth.RequireIdentity(http.HandlerFunc(h.update))).Methods(http.MethodPatch)
	r.Handle("/suggestions/{id}", auth.RequireIdentity(http.HandlerFunc(h.delete))).Methods(http.MethodDelete)
}

func (h *Suggestions) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List()
	if err != nil {
		logger.Error("list_suggestions_failed", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "failed to read suggestions")
		return
	}
	logger.Info("suggestions_listed", "count", len(recs), "by", nicknameFrom(r))
	_ = utils.JSONWrite(w, http.StatusOK, recs)
}

func (h *Suggestions) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if h.maxContentLen > 0 && len(req.Content) > h.maxContentLen {
		utils.JSONError(w, http.StatusBadRequest, "content too long")
		return
	}
	rec, err := h.store.Create(req.Content)
	if err != nil {
		logger.Error("create_suggestion_failed", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "failed to add suggestion")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, rec)
}

func (h *Suggestions) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		IsRead bool `json:"isRead"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rec, err := h.store.Update(id, req.IsRead)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, "suggestion not found")
			return
		}
		logger.Error("update_suggestion_failed", "id", id, "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "failed to update suggestion")
		return
	}
	logger.Info("suggestion_marked", "id", id, "is_read", req.IsRead, "by", nicknameFrom(r))
	_ = utils.JSONWrite(w, http.StatusOK, rec)
}

func (h *Suggestions) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Delete(id); err != nil {
		logger.Error("delete_suggestion_failed", "id", id, "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "failed to delete suggestion")
		return
	}
	logger.Info("suggestion_removed", "id", id, "by", nicknameFrom(r))
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"success": true})
}

func nicknameFrom(r *http.Request) string {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id.Nickname
	}
	return ""
}
