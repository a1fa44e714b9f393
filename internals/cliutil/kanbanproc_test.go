package cliutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smithers-cli/smithers/internals/vibekanban"
	"github.com/smithers-cli/smithers/internals/vibekanban/vktest"
)

func TestWaitForKanbanHealthy(t *testing.T) {
	server := vktest.New()
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	client := vibekanban.NewClient(vibekanban.WithBaseURL(ts.URL), vibekanban.WithHTTPClient(ts.Client()))

	if err := WaitForKanban(t.Context(), client, 5*time.Second); err != nil {
		t.Fatalf("WaitForKanban: %v", err)
	}
}

func TestWaitForKanbanGivesUp(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	client := vibekanban.NewClient(vibekanban.WithBaseURL(url))

	start := time.Now()
	err := WaitForKanban(t.Context(), client, time.Second)
	if err == nil {
		t.Fatalf("expected error for unreachable service")
	}
	if time.Since(start) > 10*time.Second {
		t.Fatalf("expected bounded wait")
	}
}
