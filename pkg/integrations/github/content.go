package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
)

// ErrBadEncoding is returned when the contents API hands back something
// other than well-formed base64.
var ErrBadEncoding = errors.New("content is not valid base64")

// FetchFile retrieves a file from the default branch of owner/repo through the
// contents API. The path must stay inside the repository, and the base64
// payload is validated before decoding.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path string, refresh bool) ([]byte, error) {
	if err := validateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	if err := vsxerrors.ValidatePath(path); err != nil {
		return nil, err
	}

	var file contentResponse
	key := "content:" + owner + "/" + repo + "/" + path
	err := c.Cached(ctx, key, refresh, &file, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, path)
		return c.Get(ctx, url, &file)
	})
	if err != nil {
		return nil, err
	}
	return decodeContent(file)
}

func decodeContent(file contentResponse) ([]byte, error) {
	if file.Encoding != "" && file.Encoding != "base64" {
		return nil, fmt.Errorf("%w: encoding %q", ErrBadEncoding, file.Encoding)
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(file.Content)
	if raw == "" {
		return nil, ErrBadEncoding
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}
	return data, nil
}

type contentResponse struct {
	Path     string `json:"path"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}
