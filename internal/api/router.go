package api

import (
	"net/http"

	"github.com/okhalid/habitsync/internal/middleware"
	"github.com/okhalid/habitsync/internal/service"
)

// Server holds the service-layer dependencies of the HTTP handlers.
type Server struct {
	auth        *service.AuthService
	sync        *service.SyncService
	leaderboard *service.LeaderboardService
	groups      *service.GroupService
}

// NewServer creates a new Server.
func NewServer(auth *service.AuthService, sync *service.SyncService, leaderboard *service.LeaderboardService, groups *service.GroupService) *Server {
	return &Server{
		auth:        auth,
		sync:        sync,
		leaderboard: leaderboard,
		groups:      groups,
	}
}

// Register mounts every route on the mux. Routes under authed require a
// valid bearer token.
func (s *Server) Register(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/google", s.handleGoogleSignIn)
	mux.Handle("GET /api/auth/profile", authed(s.handleProfile))
	mux.Handle("PATCH /api/auth/profile", authed(s.handleUpdateProfile))
	mux.Handle("PATCH /api/auth/leaderboard-visibility", authed(s.handleLeaderboardVisibility))

	mux.Handle("POST /api/sync/upload", authed(s.handleSyncUpload))
	mux.Handle("GET /api/sync/download", authed(s.handleSyncDownload))
	mux.Handle("POST /api/sync/reset", authed(s.handleSyncReset))

	mux.Handle("GET /api/leaderboard", authed(s.handleGlobalLeaderboard))

	mux.Handle("POST /api/groups", authed(s.handleCreateGroup))
	mux.Handle("GET /api/groups", authed(s.handleMyGroups))
	mux.Handle("POST /api/groups/join", authed(s.handleJoinGroup))
	mux.Handle("GET /api/groups/{groupId}", authed(s.handleGetGroup))
	mux.Handle("PATCH /api/groups/{groupId}", authed(s.handleUpdateGroupInfo))
	mux.Handle("DELETE /api/groups/{groupId}", authed(s.handleDeleteGroup))
	mux.Handle("POST /api/groups/{groupId}/leave", authed(s.handleLeaveGroup))
	mux.Handle("PUT /api/groups/{groupId}/habits", authed(s.handleUpdateGroupCategories))
	mux.Handle("GET /api/groups/{groupId}/leaderboard", authed(s.handleGroupLeaderboard))
	mux.Handle("GET /api/groups/{groupId}/members/{memberUid}/progress", authed(s.handleMemberProgress))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
