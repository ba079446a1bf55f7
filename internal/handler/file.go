package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/filedrive/filedrive/internal/ctxkeys"
	"github.com/filedrive/filedrive/internal/model"
	"github.com/filedrive/filedrive/internal/service"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

type fileResponse struct {
	ID           string     `json:"id"`
	OrgID        string     `json:"org_id"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	BlobRef      string     `json:"blob_ref"`
	Type         string     `json:"type"`
	ShouldDelete bool       `json:"should_delete"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	URL          *string    `json:"url"` // null when the blob is missing
}

func toFileResponse(file *model.File) fileResponse {
	resp := fileResponse{
		ID:           file.ID,
		OrgID:        file.OrgID,
		OwnerID:      file.OwnerID,
		Name:         file.Name,
		BlobRef:      file.BlobRef,
		Type:         file.Type,
		ShouldDelete: file.ShouldDelete,
		DeletedAt:    file.DeletedAt,
		CreatedAt:    file.CreatedAt,
	}
	if file.URL != "" {
		url := file.URL
		resp.URL = &url
	}
	return resp
}

type createFileRequest struct {
	Name    string `json:"name"`
	OrgID   string `json:"org_id"`
	BlobRef string `json:"blob_ref"`
	Type    string `json:"type"`
}

func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	var req createFileRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request", "message": "invalid JSON body"})
		return
	}

	file, err := h.fileService.Create(r.Context(), user, req.OrgID, req.Name, req.BlobRef, req.Type)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFileResponse(file))
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	q := r.URL.Query()
	filters := service.ListFilters{
		Query:         q.Get("query"),
		Type:          q.Get("type"),
		FavoritesOnly: q.Get("favorites") == "true",
		DeletedOnly:   q.Get("deleted") == "true",
	}

	files, err := h.fileService.List(r.Context(), user, q.Get("org_id"), filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]fileResponse, 0, len(files))
	for _, file := range files {
		resp = append(resp, toFileResponse(file))
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": resp})
}

func (h *FileHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	ref, url, err := h.fileService.UploadHandle(r.Context(), user, r.URL.Query().Get("org_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"blob_ref":   ref,
		"upload_url": url,
	})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	err := h.fileService.SoftDelete(user, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FileHandler) Restore(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	err := h.fileService.Restore(user, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
