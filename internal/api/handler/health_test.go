package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	return p.err
}

func TestHealthHandler_Health(t *testing.T) {
	app := fiber.New()
	handler := NewHealthHandler(nil)
	app.Get("/health", handler.Health)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to test: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result HealthResponse
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if result.Status != "ok" {
		t.Errorf("Status = %s, want ok", result.Status)
	}

	if result.Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name           string
		pinger         Pinger
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "database reachable",
			pinger:         &fakePinger{},
			expectedStatus: 200,
			expectedBody:   "ready",
		},
		{
			name:           "database down",
			pinger:         &fakePinger{err: errors.New("connection refused")},
			expectedStatus: 503,
			expectedBody:   "unavailable",
		},
		{
			name:           "no database configured",
			pinger:         nil,
			expectedStatus: 200,
			expectedBody:   "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			handler := NewHealthHandler(tt.pinger)
			app.Get("/ready", handler.Ready)

			req := httptest.NewRequest("GET", "/ready", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Failed to test: %v", err)
			}

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}

			body, _ := io.ReadAll(resp.Body)
			var result HealthResponse
			if err := json.Unmarshal(body, &result); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}

			if result.Status != tt.expectedBody {
				t.Errorf("Status = %s, want %s", result.Status, tt.expectedBody)
			}
		})
	}
}
