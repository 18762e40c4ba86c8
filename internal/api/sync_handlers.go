package api

import (
	"net/http"

	"github.com/okhalid/habitsync/internal/middleware"
	"github.com/okhalid/habitsync/internal/models"
)

func (s *Server) handleSyncUpload(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	var req struct {
		Entries    []models.HabitEntry    `json:"entries"`
		Categories []models.HabitCategory `json:"categories"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	state, err := s.sync.Upload(r.Context(), uid, req.Entries, req.Categories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSyncDownload(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	state, err := s.sync.Download(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSyncReset(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	if err := s.sync.Reset(r.Context(), uid); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
