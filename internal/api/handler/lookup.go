package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/docfold-labs/docfold/internal/store"
	"github.com/docfold-labs/docfold/internal/store/postgres"
	"github.com/docfold-labs/docfold/pkg/apierr"
)

// getUserOr404 fetches a user by id and writes a 404/500 error on failure.
// Returns the user and true on success, or zero-value and false if an error
// was written.
func getUserOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, id uuid.UUID) (postgres.User, bool) {
	user, err := s.GetUser(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.UserNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.User{}, false
	}
	return user, true
}

// getDocumentOr404 fetches a document by id and writes a 404/500 error on
// failure.
func getDocumentOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, id uuid.UUID) (postgres.Document, bool) {
	doc, err := s.GetDocument(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.DocumentNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.Document{}, false
	}
	return doc, true
}
