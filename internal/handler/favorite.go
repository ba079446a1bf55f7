package handler

import (
	"net/http"
	"time"

	"github.com/filedrive/filedrive/internal/ctxkeys"
	"github.com/filedrive/filedrive/internal/service"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

type favoriteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	OrgID     string    `json:"org_id"`
	FileID    string    `json:"file_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	favorited, err := h.favoriteService.Toggle(user, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"favorited": favorited})
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	favorites, err := h.favoriteService.List(user, r.URL.Query().Get("org_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]favoriteResponse, 0, len(favorites))
	for _, favorite := range favorites {
		resp = append(resp, favoriteResponse{
			ID:        favorite.ID,
			UserID:    favorite.UserID,
			OrgID:     favorite.OrgID,
			FileID:    favorite.FileID,
			CreatedAt: favorite.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"favorites": resp})
}
