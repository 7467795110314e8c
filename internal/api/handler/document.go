package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/docfold-labs/docfold/internal/auth"
	"github.com/docfold-labs/docfold/internal/store"
	minioclient "github.com/docfold-labs/docfold/internal/store/minio"
	"github.com/docfold-labs/docfold/internal/store/postgres"
	"github.com/docfold-labs/docfold/pkg/apierr"
)

const maxUploadBytes = 100 * 1024 * 1024

type DocumentHandler struct {
	logger *slog.Logger
	store  *store.Store
	minio  *minioclient.Client
}

func NewDocumentHandler(logger *slog.Logger, s *store.Store, minio *minioclient.Client) *DocumentHandler {
	return &DocumentHandler{logger: logger, store: s, minio: minio}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	docs, err := h.store.ListDocuments(r.Context(), postgres.ListDocumentsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.DocumentListFailed(err))
		return
	}

	total, err := h.store.CountDocuments(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.DocumentListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     total,
	})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidDocumentID())
		return
	}

	doc, ok := getDocumentOr404(w, r, h.logger, h.store, docID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string  `json:"title"`
		Content *string `json:"content"`
		Type    string  `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateTitle(req.Title); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	docType := req.Type
	if docType == "" {
		docType = "text"
	}
	var size int64
	if req.Content != nil {
		size = int64(len(*req.Content))
	}

	doc, err := h.store.CreateDocument(r.Context(), postgres.CreateDocumentParams{
		Title:   req.Title,
		Content: req.Content,
		Type:    docType,
		Size:    size,
		OwnerID: ownerID(r),
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.DocumentCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidDocumentID())
		return
	}

	var req struct {
		Title   string  `json:"title"`
		Content *string `json:"content"`
		Type    string  `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if req.Title != "" {
		if err := validateTitle(req.Title); err != nil {
			writeAPIError(w, h.logger, err)
			return
		}
	}

	current, ok := getDocumentOr404(w, r, h.logger, h.store, docID)
	if !ok {
		return
	}

	title := current.Title
	if req.Title != "" {
		title = req.Title
	}
	content := current.Content
	size := current.Size
	if req.Content != nil {
		content = req.Content
		size = int64(len(*req.Content))
	}
	docType := current.Type
	if req.Type != "" {
		docType = req.Type
	}

	doc, err := h.store.UpdateDocument(r.Context(), postgres.UpdateDocumentParams{
		ID:      docID,
		Title:   title,
		Content: content,
		Type:    docType,
		Size:    size,
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.DocumentUpdateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidDocumentID())
		return
	}

	doc, ok := getDocumentOr404(w, r, h.logger, h.store, docID)
	if !ok {
		return
	}

	if err := h.store.DeleteDocument(r.Context(), docID); err != nil {
		writeAPIError(w, h.logger, apierr.DocumentDeleteFailed(err))
		return
	}

	// Best effort: the row is gone either way, an orphaned object only
	// wastes bucket space.
	if doc.ObjectName != nil && h.minio != nil {
		if err := h.minio.RemoveFile(r.Context(), *doc.ObjectName); err != nil {
			h.logger.Warn("remove stored file",
				slog.String("object", *doc.ObjectName),
				slog.String("error", err.Error()))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// Upload stores a multipart file in the object store and creates a document
// row referencing it.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, h.logger, apierr.FileRequired())
		return
	}
	defer file.Close()

	title := header.Filename
	if title == "" {
		title = "upload-" + uuid.New().String()[:8]
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("documents/%s/%s", uuid.New().String(), header.Filename)
	if err := h.minio.UploadFile(r.Context(), objectName, file, header.Size, contentType); err != nil {
		writeAPIError(w, h.logger, apierr.UploadFailed(err))
		return
	}

	doc, err := h.store.CreateDocument(r.Context(), postgres.CreateDocumentParams{
		Title:      title,
		Type:       contentType,
		ObjectName: &objectName,
		Size:       header.Size,
		OwnerID:    ownerID(r),
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.DocumentCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// Download streams the stored object of an uploaded document back to the
// client.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidDocumentID())
		return
	}

	doc, ok := getDocumentOr404(w, r, h.logger, h.store, docID)
	if !ok {
		return
	}
	if doc.ObjectName == nil {
		writeAPIError(w, h.logger, apierr.NoStoredFile())
		return
	}

	obj, err := h.minio.DownloadFile(r.Context(), *doc.ObjectName)
	if err != nil {
		writeAPIError(w, h.logger, apierr.DownloadFailed(err))
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", doc.Type)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Title+`"`)
	if _, err := io.Copy(w, obj); err != nil {
		h.logger.Warn("stream stored file",
			slog.String("object", *doc.ObjectName),
			slog.String("error", err.Error()))
	}
}

// ownerID returns the authenticated user's id, or nil when auth is disabled.
func ownerID(r *http.Request) *uuid.UUID {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		id := p.UserID
		return &id
	}
	return nil
}
