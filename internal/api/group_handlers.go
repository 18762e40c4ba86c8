package api

import (
	"net/http"

	"github.com/okhalid/habitsync/internal/middleware"
	"github.com/okhalid/habitsync/internal/models"
)

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	var req struct {
		Name  string `json:"name"`
		Emoji string `json:"emoji"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.Create(r.Context(), uid, req.Name, req.Emoji)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleMyGroups(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	groups, err := s.groups.MyGroups(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	var req struct {
		InviteCode string `json:"inviteCode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.Join(r.Context(), uid, req.InviteCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	group, err := s.groups.Get(r.Context(), uid, r.PathValue("groupId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleUpdateGroupInfo(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	var req struct {
		Name  string `json:"name"`
		Emoji string `json:"emoji"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.UpdateInfo(r.Context(), uid, r.PathValue("groupId"), req.Name, req.Emoji)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	if err := s.groups.Delete(r.Context(), uid, r.PathValue("groupId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	if err := s.groups.Leave(r.Context(), uid, r.PathValue("groupId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"left": true})
}

func (s *Server) handleUpdateGroupCategories(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	var req struct {
		Categories []models.GroupCategory `json:"categories"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.UpdateCategories(r.Context(), uid, r.PathValue("groupId"), req.Categories)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleGroupLeaderboard(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	page, pageSize := pageParams(r)

	board, err := s.groups.Leaderboard(r.Context(), uid, r.PathValue("groupId"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleMemberProgress(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UID(r.Context())
	progress, err := s.groups.Progress(r.Context(), uid, r.PathValue("groupId"), r.PathValue("memberUid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
