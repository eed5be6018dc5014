// Package usage fetches account usage data from the Claude API and mirrors it
// into the monitor state directory for the presentation layer to read. The
// whole path is best effort: no credentials, no network, or a bad response all
// degrade to "usage.json not updated this time".
package usage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const (
	defaultAPIURL = "https://api.anthropic.com/api/oauth/usage"
	fetchTimeout  = 10 * time.Second
	tokenTimeout  = 5 * time.Second
)

// Client fetches usage data and writes it to usage.json in StateDir. Zero
// fields fall back to production defaults.
type Client struct {
	StateDir string
	APIURL   string
	HTTP     *http.Client
	Token    func(ctx context.Context) string
}

// NewClient returns a Client writing to stateDir with default credential
// lookup and endpoint.
func NewClient(stateDir string) *Client {
	return &Client{StateDir: stateDir}
}

// Fetch retrieves current usage data and writes it atomically to usage.json.
// A missing token is a silent no-op, not an error.
func (c *Client) Fetch(ctx context.Context) error {
	token := c.token(ctx)
	if token == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(), nil)
	if err != nil {
		return fmt.Errorf("building usage request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("anthropic-beta", "oauth-2025-04-20")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("fetching usage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching usage: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading usage response: %w", err)
	}

	return writeUsage(c.StateDir, data)
}

func (c *Client) apiURL() string {
	if c.APIURL != "" {
		return c.APIURL
	}
	return defaultAPIURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) token(ctx context.Context) string {
	if c.Token != nil {
		return c.Token(ctx)
	}
	return readToken(ctx)
}

// writeUsage validates the payload is JSON and replaces usage.json atomically,
// the same temp-then-rename discipline the session store uses.
func writeUsage(stateDir string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("usage response is not valid JSON")
	}

	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to write usage data: %w", err)
	}
	tmp, err := os.CreateTemp(stateDir, "usage-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write usage data: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write usage data: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write usage data: %w", err)
	}
	if err = os.Rename(tmpName, filepath.Join(stateDir, "usage.json")); err != nil {
		return fmt.Errorf("failed to write usage data: %w", err)
	}
	return nil
}

// readToken resolves an OAuth access token: the macOS keychain first, then
// the credentials file Claude Code writes on other platforms. Empty means no
// usable credentials.
func readToken(ctx context.Context) string {
	if token := keychainToken(ctx); token != "" {
		return token
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return credentialsFileToken(filepath.Join(home, ".claude", ".credentials.json"))
}

func keychainToken(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, tokenTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx,
		"security", "find-generic-password", "-s", "Claude Code-credentials", "-w").Output()
	if err != nil {
		return ""
	}
	return parseCredentials(out)
}

func credentialsFileToken(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return parseCredentials(data)
}

func parseCredentials(data []byte) string {
	var creds struct {
		ClaudeAiOauth struct {
			AccessToken string `json:"accessToken"`
		} `json:"claudeAiOauth"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &creds); err != nil {
		return ""
	}
	return creds.ClaudeAiOauth.AccessToken
}
