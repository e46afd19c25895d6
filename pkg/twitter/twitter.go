// Package twitter is the outbound publisher: media upload through the v1.1
// endpoint, tweet creation through API v2, both signed with the configured
// OAuth1 user context.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/gabriel-vasile/mimetype"

	"crosspost/pkg/config"
)

const (
	defaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultAPIBase   = "https://api.twitter.com/2"
	requestTimeout   = 30 * time.Second
)

// APIError is a non-2xx platform response: quota, auth or validation
// failures all surface here.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	parts := []string{fmt.Sprintf("twitter api: status %d", e.StatusCode)}
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	return strings.Join(parts, ": ")
}

// Client talks to the Twitter API. Write calls are OAuth1-signed; Verify
// uses the app bearer token as a startup connectivity and credential probe.
type Client struct {
	signed    *http.Client
	plain     *http.Client
	bearer    string
	uploadURL string
	apiBase   string
	log       *slog.Logger
}

// New constructs a client from the credential set.
func New(cfg config.TwitterConfig, log *slog.Logger) (*Client, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" || cfg.AccessToken == "" || cfg.AccessSecret == "" {
		return nil, errors.New("twitter oauth1 credentials are required")
	}
	if log == nil {
		log = slog.Default()
	}

	oauthConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	signed := oauthConfig.Client(oauth1.NoContext, token)
	signed.Timeout = requestTimeout

	return &Client{
		signed:    signed,
		plain:     &http.Client{Timeout: requestTimeout},
		bearer:    cfg.BearerToken,
		uploadURL: defaultUploadURL,
		apiBase:   defaultAPIBase,
		log:       log.With("component", "twitter"),
	}, nil
}

// Verify performs a cheap app-auth lookup so credential or connectivity
// problems surface at startup instead of on the first relay.
func (c *Client) Verify(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/tweets?ids=20", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.plain.Do(req)
	if err != nil {
		return fmt.Errorf("reach twitter api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}
	return nil
}

// UploadMedia pushes one local media file through the v1.1 upload endpoint
// and returns the platform media id.
func (c *Client) UploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open media file: %w", err)
	}
	defer f.Close()

	mediaType, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect media type: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", mediaType.String())
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read media file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.signed.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", apiError(resp)
	}

	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.MediaIDString == "" {
		return "", errors.New("upload response missing media id")
	}

	c.log.Debug("Uploaded media", "media_id", uploaded.MediaIDString, "type", mediaType.String())
	return uploaded.MediaIDString, nil
}

// CreatePost creates a tweet with optional attached media and returns the
// new tweet id.
func (c *Client) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	type mediaPayload struct {
		MediaIDs []string `json:"media_ids"`
	}
	payload := struct {
		Text  string        `json:"text"`
		Media *mediaPayload `json:"media,omitempty"`
	}{Text: text}
	if len(mediaIDs) > 0 {
		payload.Media = &mediaPayload{MediaIDs: mediaIDs}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode tweet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/tweets", bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.signed.Do(req)
	if err != nil {
		return "", fmt.Errorf("create tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", apiError(resp)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode tweet response: %w", err)
	}
	if created.Data.ID == "" {
		return "", errors.New("tweet response missing id")
	}

	return created.Data.ID, nil
}

// apiError extracts the platform error shape from a failed response. API v2
// reports title/detail; v1.1 reports an errors array.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	failure := &APIError{StatusCode: resp.StatusCode}

	var v2 struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &v2) == nil && v2.Title != "" {
		failure.Title = v2.Title
		failure.Detail = v2.Detail
		return failure
	}

	var v1 struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &v1) == nil && len(v1.Errors) > 0 {
		failure.Detail = v1.Errors[0].Message
	}

	return failure
}
