package metadata

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestHTTPClientSmoke ensures the HTTP client can parse at least one record
// from a target service (typically cmd/metadata-mock).
func TestHTTPClientSmoke(t *testing.T) {
	baseURL := os.Getenv("METADATA_URL")
	if baseURL == "" {
		t.Skip("METADATA_URL not provided")
	}
	apiKey := os.Getenv("METADATA_API_KEY")
	client, err := NewHTTPClient(baseURL, apiKey, 3*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("create http client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := client.Fetch(ctx, "Inception")
	if err != nil {
		t.Fatalf("fetch mock data: %v", err)
	}
	if result.PosterURL == nil && result.TrailerURL == nil {
		t.Fatalf("unexpected metadata payload: %+v", result)
	}
}
