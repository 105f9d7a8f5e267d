// Package git wraps the git command line for the few operations vsxpack needs.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Cloner makes shallow copies of remote repositories.
type Cloner interface {
	Clone(ctx context.Context, url, destPath string) error
}

// Client runs the git binary found on PATH.
type Client struct {
	Timeout time.Duration
}

// NewClient creates a git client with a five minute per-command timeout.
func NewClient() *Client {
	return &Client{Timeout: 5 * time.Minute}
}

// Clone makes a depth-1 clone of url into destPath. Interactive credential
// prompts are disabled so a private repository fails fast.
func (c *Client) Clone(ctx context.Context, url, destPath string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--quiet", "--depth", "1", url, destPath)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if isAuthError(msg) {
			return &AuthError{URL: url, Message: msg}
		}
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("git clone %s failed: %s", url, msg)
	}
	return nil
}

// AuthError is returned when the remote refuses access or does not exist.
type AuthError struct {
	URL     string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for '%s': %s", e.URL, e.Message)
}

func isAuthError(msg string) bool {
	for _, pattern := range []string{
		"Authentication failed",
		"Permission denied",
		"could not read Username",
		"terminal prompts disabled",
		"returned error: 401",
		"returned error: 403",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
