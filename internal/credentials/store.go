// Package credentials reads OAuth tokens persisted by the admin surface. The
// store only consumes already-issued tokens; it never performs the OAuth
// handshake or a refresh.
package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// Encrypted blobs look like iv:tag:ciphertext, all lowercase hex, with a
// 16-byte IV and a 16-byte auth tag. Anything else is the legacy plain form.
var cipherTextPattern = regexp.MustCompile(`^([0-9a-f]{32}):([0-9a-f]{32}):([0-9a-f]+)$`)

// Token is the stored OAuth state for the vendor's catalog API.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the token is past its expiry.
func (t *Token) Expired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// Store loads tokens from a file, decrypting the at-rest form when present.
type Store struct {
	path string
	key  []byte
}

// NewStore builds a Store for the given token file. keyHex is the 32-byte
// AES key in hex; it may be empty when only legacy plain tokens are in use.
func NewStore(path, keyHex string) (*Store, error) {
	s := &Store{path: path}
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("decode credentials key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("credentials key must be 32 bytes, got %d", len(key))
		}
		s.key = key
	}
	return s, nil
}

// Load reads the stored token. A missing file resolves to (nil, nil) so
// callers can treat absent credentials as "private mode unavailable" rather
// than an error.
func (s *Store) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, nil
	}

	plain := []byte(raw)
	if cipherTextPattern.MatchString(raw) {
		if plain, err = s.decrypt(raw); err != nil {
			return nil, fmt.Errorf("decrypt credentials: %w", err)
		}
	}

	var tok Token
	if err := json.Unmarshal(plain, &tok); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("credentials missing access token")
	}
	return &tok, nil
}

// IsAvailable reports whether a usable, non-expired token exists. Failures to
// read or decrypt count as unavailable.
func (s *Store) IsAvailable() bool {
	tok, err := s.Load()
	return err == nil && tok != nil && !tok.Expired()
}

func (s *Store) decrypt(blob string) ([]byte, error) {
	if len(s.key) == 0 {
		return nil, errors.New("encrypted token present but no key configured")
	}

	parts := cipherTextPattern.FindStringSubmatch(blob)
	iv, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	tag, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("decode tag: %w", err)
	}
	ct, err := hex.DecodeString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, err
	}

	// The at-rest format keeps the auth tag separate; GCM wants it appended.
	return gcm.Open(nil, iv, append(ct, tag...), nil)
}
