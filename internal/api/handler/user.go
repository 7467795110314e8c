package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/docfold-labs/docfold/internal/store"
	"github.com/docfold-labs/docfold/internal/store/postgres"
	"github.com/docfold-labs/docfold/pkg/apierr"
)

type UserHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewUserHandler(logger *slog.Logger, s *store.Store) *UserHandler {
	return &UserHandler{logger: logger, store: s}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, err := h.store.ListUsers(r.Context(), postgres.ListUsersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.UserListFailed(err))
		return
	}

	total, err := h.store.CountUsers(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.UserListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"total": total,
	})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidUserID())
		return
	}

	user, ok := getUserOr404(w, r, h.logger, h.store, userID)
	if !ok {
		return
	}

	docCount, err := h.store.CountDocumentsByOwner(r.Context(), userID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":           user,
		"document_count": docCount,
	})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidUserID())
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if err := validateRole(req.Role); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	if _, ok := getUserOr404(w, r, h.logger, h.store, userID); !ok {
		return
	}

	user, err := h.store.UpdateUserRole(r.Context(), userID, req.Role)
	if err != nil {
		writeAPIError(w, h.logger, apierr.UserUpdateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidUserID())
		return
	}

	if _, ok := getUserOr404(w, r, h.logger, h.store, userID); !ok {
		return
	}

	if err := h.store.DeleteUser(r.Context(), userID); err != nil {
		if apierr.IsForeignKeyViolation(err) {
			writeAPIError(w, h.logger, apierr.UserHasDocuments())
		} else {
			writeAPIError(w, h.logger, apierr.UserDeleteFailed(err))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
