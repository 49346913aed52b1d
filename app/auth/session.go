package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is what the identity provider hands back after sign-in.
type Session struct {
	IDToken      string `json:"idToken"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ExpiresAt reads the exp claim of the id token. The signature is not
// checked here; the credential exchange does that.
func (s Session) ExpiresAt() (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.IDToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse id token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, errors.New("id token has no exp claim")
	}
	return exp.Time, nil
}

// Valid reports whether the session holds tokens and the id token has not
// expired at now.
func (s Session) Valid(now time.Time) bool {
	if s.IDToken == "" || s.AccessToken == "" {
		return false
	}
	exp, err := s.ExpiresAt()
	if err != nil {
		return false
	}
	return now.Before(exp)
}

// SessionStore keeps the current session between commands.
type SessionStore interface {
	// Load returns ErrNotAuthenticated when no session is stored.
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileSessionStore keeps the session as JSON in a single file readable only
// by the current user.
type FileSessionStore struct {
	Path string
}

// Load reads the stored session.
func (f FileSessionStore) Load() (Session, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNotAuthenticated
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", f.Path, err)
	}
	if s.AccessToken == "" {
		return Session{}, ErrNotAuthenticated
	}
	return s, nil
}

// Save replaces the stored session.
func (f FileSessionStore) Save(s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

// Clear removes the stored session. Clearing twice is not an error.
func (f FileSessionStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
