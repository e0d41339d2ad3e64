package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"reelforge/internal/services"
)

// Scopes requested for uploads and playlist/metadata edits.
var Scopes = []string{youtube.YoutubeUploadScope, youtube.YoutubeScope}

// LoadTokenSource builds a refreshing token source from the client secrets
// file and the cached token. Refreshed tokens are written back to tokenPath.
func LoadTokenSource(ctx context.Context, secretsPath, tokenPath string) (oauth2.TokenSource, error) {
	secrets, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, services.Wrap(services.ErrAuthentication, "youtube", "read client secrets", secretsPath, err)
	}
	cfg, err := google.ConfigFromJSON(secrets, Scopes...)
	if err != nil {
		return nil, services.Wrap(services.ErrAuthentication, "youtube", "parse client secrets", secretsPath, err)
	}
	token, err := readToken(tokenPath)
	if err != nil {
		return nil, err
	}
	base := cfg.TokenSource(ctx, token)
	return &persistingTokenSource{
		base: oauth2.ReuseTokenSource(token, base),
		path: tokenPath,
		last: token.AccessToken,
	}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrAuthentication, "youtube", "read token cache", "run the authorization flow to create "+path, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, services.Wrap(services.ErrAuthentication, "youtube", "decode token cache", path, err)
	}
	if strings.TrimSpace(token.AccessToken) == "" && strings.TrimSpace(token.RefreshToken) == "" {
		return nil, services.Wrap(services.ErrAuthentication, "youtube", "decode token cache", "token has neither access nor refresh token", nil)
	}
	return &token, nil
}

type persistingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		if err := writeToken(s.path, token); err != nil {
			return nil, err
		}
		s.last = token.AccessToken
	}
	return token, nil
}

func writeToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write token cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write token cache: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write token cache: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}
