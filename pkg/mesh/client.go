// Package mesh talks to the landmark/embedding sidecar over HTTP.
// The sidecar runs the MediaPipe FaceMesh and face-embedding models
// and exposes them on localhost; this client adapts its responses to
// the types the conditioning core consumes.
package mesh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Saurabh-Shisode/proctoring-v0/internal/httpc"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/identity"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/landmarks"
)

// Client calls the mesh sidecar endpoints
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the sidecar at baseURL (e.g. http://localhost:9100)
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpc.NewClient(5 * time.Second),
	}
}

// landmarkPoint is one FaceMesh point in the sidecar response
type landmarkPoint struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type landmarksResponse struct {
	Points []landmarkPoint `json:"points"`
}

type embeddingResponse struct {
	Embedding  []float64 `json:"embedding"`
	Confidence float64   `json:"confidence"`
}

// Landmarks runs FaceMesh on the frame and returns the landmark set
// for the primary face. An empty set means no face was meshed.
func (c *Client) Landmarks(ctx context.Context, jpeg []byte) (landmarks.Set, error) {
	body, err := c.post(ctx, "/landmarks", jpeg)
	if err != nil {
		return nil, err
	}

	var resp landmarksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode landmarks response: %w", err)
	}

	set := make(landmarks.Set, len(resp.Points))
	for _, p := range resp.Points {
		set[p.Index] = landmarks.Point{X: p.X, Y: p.Y}
	}
	return set, nil
}

// Embedding computes the face embedding for the frame. Confidence is
// the sidecar's face quality score for the crop it embedded.
func (c *Client) Embedding(ctx context.Context, jpeg []byte) (identity.Embedding, float64, error) {
	body, err := c.post(ctx, "/embedding", jpeg)
	if err != nil {
		return nil, 0, err
	}

	var resp embeddingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("decode embedding response: %w", err)
	}
	return identity.Embedding(resp.Embedding), resp.Confidence, nil
}

func (c *Client) post(ctx context.Context, path string, jpeg []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jpeg))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mesh sidecar %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mesh sidecar %s: status %d", path, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
