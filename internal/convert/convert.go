// Package convert delegates document format conversion to an external
// HTTP service. The editor never converts locally; it uploads the
// source blob and takes whatever the service returns.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"inkmark/internal/config"
	"inkmark/internal/logger"
)

// Client talks to the conversion service. A zero ServiceURL disables
// conversion; every call then fails fast with ErrDisabled.
type Client struct {
	baseURL string
	http    *http.Client
}

// ErrDisabled is returned when no conversion service is configured.
var ErrDisabled = fmt.Errorf("conversion service not configured")

// NewClient builds a client from the convert config section.
func NewClient(cfg config.ConvertConfig) *Client {
	return &Client{
		baseURL: cfg.ServiceURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

// Enabled reports whether a conversion service is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Convert uploads the blob and returns the converted bytes. target is
// the requested output format ("pdf", "docx").
func (c *Client) Convert(ctx context.Context, filename string, blob []byte, target string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(blob); err != nil {
		return nil, err
	}
	if err := mw.WriteField("target", target); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	logger.Infof("convert: uploading %s (%d bytes) for %s", filename, len(blob), target)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("conversion service returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading converted document: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("conversion service returned an empty document")
	}
	return out, nil
}
