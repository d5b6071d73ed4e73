// Package upload stores trade screenshots on a remote image host and hands
// back durable URLs. The server side is a Cloudinary-style unsigned upload
// endpoint: a multipart POST carrying the file and an upload preset.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client uploads images. Failures are returned as-is so the caller can
// abort whatever operation the screenshot belongs to; a trade must never be
// saved pointing at an image that was not stored.
type Client struct {
	endpoint   string
	preset     string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(endpoint, preset string, log zerolog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		preset:     preset,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.With().Str("client", "upload").Logger(),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the image and returns its durable URL.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.preset); err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if ur.Error.Message != "" {
			return "", fmt.Errorf("upload failed: %s", ur.Error.Message)
		}
		return "", fmt.Errorf("upload failed (status %d)", resp.StatusCode)
	}
	if ur.SecureURL == "" {
		return "", fmt.Errorf("upload succeeded but no URL returned")
	}

	c.log.Debug().Str("name", name).Str("url", ur.SecureURL).Msg("screenshot uploaded")
	return ur.SecureURL, nil
}
