package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidGoogleCredential indicates the Google ID token could not be
// decoded or carries no usable email.
var ErrInvalidGoogleCredential = errors.New("invalid Google credential")

// GoogleProfile is the subset of the Google ID-token payload we consume.
// Name and Picture are best-effort: a missing or malformed field degrades to
// its zero value rather than failing the sign-in.
type GoogleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// DecodeGoogleIDToken extracts the profile payload from a Google ID token.
// The signature is NOT verified; we trust the client-side Google SDK that
// produced the credential. An email is required, everything else is optional.
func DecodeGoogleIDToken(credential string) (*GoogleProfile, error) {
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidGoogleCredential
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidGoogleCredential
	}

	var profile GoogleProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, ErrInvalidGoogleCredential
	}
	if profile.Email == "" {
		return nil, ErrInvalidGoogleCredential
	}

	// Fall back to the mailbox name when Google sent no display name.
	if profile.Name == "" {
		profile.Name = strings.SplitN(profile.Email, "@", 2)[0]
	}

	return &profile, nil
}
