package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/user/ticklist/internal/models"
	apperrors "github.com/user/ticklist/pkg/errors"
)

// idPattern constrains the user-chosen sync identifier.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`)

// ValidateID rejects malformed sync identifiers before any request is made.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return apperrors.ErrInvalidSyncID
	}
	return nil
}

// SaveResult is the remote endpoint's response to a snapshot upload.
type SaveResult struct {
	Success bool      `json:"success"`
	SavedAt time.Time `json:"savedAt"`
}

// LoadResult is the remote endpoint's response to a snapshot download.
type LoadResult struct {
	Success bool             `json:"success"`
	Payload *models.Snapshot `json:"payload,omitempty"`
}

// Client talks to the optional remote sync endpoint. The payload is the JSON
// serialization of the three collections, keyed by a user-chosen identifier.
// Cross-device conflict policy belongs to that endpoint, not to this client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a sync client for the given endpoint base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// Save uploads a snapshot under the given identifier.
func (c *Client) Save(ctx context.Context, id string, snapshot *models.Snapshot) (*SaveResult, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to serialize snapshot", http.StatusInternalServerError)
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", c.snapshotURL(id), bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to create sync request", http.StatusInternalServerError)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSyncUnavailable, "Sync endpoint unreachable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.CodeSyncUnavailable,
			fmt.Sprintf("Sync endpoint returned status %d", resp.StatusCode), http.StatusBadGateway)
	}

	var result SaveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSyncUnavailable, "Malformed sync response", http.StatusBadGateway)
	}
	return &result, nil
}

// Load downloads the snapshot stored under the given identifier.
func (c *Client) Load(ctx context.Context, id string) (*LoadResult, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.snapshotURL(id), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "Failed to create sync request", http.StatusInternalServerError)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSyncUnavailable, "Sync endpoint unreachable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.CodeSyncUnavailable,
			fmt.Sprintf("Sync endpoint returned status %d", resp.StatusCode), http.StatusBadGateway)
	}

	var result LoadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSyncUnavailable, "Malformed sync response", http.StatusBadGateway)
	}
	return &result, nil
}

func (c *Client) snapshotURL(id string) string {
	return c.baseURL + "/snapshots/" + id
}
