package api

import (
	"context"
	"net/http"

	"ricepro-web/internal/models"
)

type SystemClient struct{ c *Client }

// Ping hits the backend's keep-alive endpoint
func (sc *SystemClient) Ping(ctx context.Context) (*models.PingResponse, error) {
	var out models.PingResponse
	if err := sc.c.do(ctx, "system", http.MethodGet, "/ping", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (sc *SystemClient) Health(ctx context.Context) (*models.BackendHealth, error) {
	var out models.BackendHealth
	if err := sc.c.do(ctx, "system", http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
