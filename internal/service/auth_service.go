package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okhalid/habitsync/internal/auth"
	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
	"github.com/okhalid/habitsync/internal/storage"
)

// AuthService handles account registration, sign-in and profile management,
// issuing JWTs for authenticated sessions.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a local account and returns a session token with the
// new user.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", nil, fmt.Errorf("%w: email is required", errs.ErrValidation)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = mailboxName(email)
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			return "", nil, fmt.Errorf("%w: %v", errs.ErrValidation, err)
		case errors.Is(err, auth.ErrEmailExists):
			return "", nil, fmt.Errorf("%w: %v", errs.ErrConflict, err)
		default:
			return "", nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
		}
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User registered", "uid", user.UID)
	return token, user, nil
}

// Login authenticates a local account and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.authenticator.Authenticate(ctx, normalizeEmail(email), password)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid email or password", errs.ErrUnauthenticated)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User logged in", "uid", user.UID)
	return token, user, nil
}

// GoogleSignIn signs a user in with a Google ID token, creating the account
// on first sign-in. Profile updates from Google are best-effort.
func (s *AuthService) GoogleSignIn(ctx context.Context, credential string) (string, *models.User, error) {
	profile, err := auth.DecodeGoogleIDToken(credential)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", errs.ErrUnauthenticated, err)
	}

	email := normalizeEmail(profile.Email)
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	if user == nil {
		displayName := profile.Name
		if displayName == "" {
			displayName = mailboxName(email)
		}
		now := time.Now().Unix()
		user = &models.User{
			UID:               uuid.New().String(),
			Email:             email,
			DisplayName:       displayName,
			PhotoURL:          profile.Picture,
			Provider:          models.ProviderGoogle,
			ShowOnLeaderboard: true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return "", nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
		}
		slog.Info("User created via Google sign-in", "uid", user.UID)
	} else if profile.Name != user.DisplayName || profile.Picture != user.PhotoURL {
		if err := s.store.UpdateUserProfile(ctx, user.UID, profile.Name, profile.Picture); err != nil {
			slog.Warn("Failed to refresh Google profile", "uid", user.UID, "error", err)
		} else {
			if profile.Name != "" {
				user.DisplayName = profile.Name
			}
			if profile.Picture != "" {
				user.PhotoURL = profile.Picture
			}
		}
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// Profile returns the user's account record.
func (s *AuthService) Profile(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", errs.ErrNotFound)
	}
	return user, nil
}

// UpdateProfile changes the user's display name and photo. Empty values keep
// the stored ones.
func (s *AuthService) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) (*models.User, error) {
	if err := s.store.UpdateUserProfile(ctx, uid, strings.TrimSpace(displayName), photoURL); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	return s.Profile(ctx, uid)
}

// SetLeaderboardVisibility flips the user's global-leaderboard opt-out.
func (s *AuthService) SetLeaderboardVisibility(ctx context.Context, uid string, visible bool) error {
	if err := s.store.SetLeaderboardVisibility(ctx, uid, visible); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	slog.Info("Leaderboard visibility updated", "uid", uid, "visible", visible)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mailboxName derives a display name from the part of the email before '@'.
func mailboxName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
