package api

import (
	"net/http"
	"strconv"

	"github.com/okhalid/habitsync/internal/middleware"
)

// pageParams reads page and pageSize query parameters. Values the service
// layer clamps further; unparseable values fall back to defaults.
func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	return page, pageSize
}

func (s *Server) handleGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	page, pageSize := pageParams(r)

	board, err := s.leaderboard.Global(r.Context(), uid, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
