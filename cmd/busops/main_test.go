package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/juju/clock/testclock"

	"github.com/neomorfeo/busops/internal/adapter/fsm"
	handler "github.com/neomorfeo/busops/internal/adapter/http"
	"github.com/neomorfeo/busops/internal/adapter/sqlite"
	"github.com/neomorfeo/busops/internal/app"
)

// TestSmoke wires the full stack like run() and verifies it responds.
// The smoke test verifies HTTP wiring, not River or OTel.
func TestSmoke(t *testing.T) {
	store, err := sqlite.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clk := testclock.NewClock(time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC))
	inbox := app.NewNotificationCenter(store.Notifications(), clk, nil)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig(serviceName, serviceVersion))
	handler.Register(api, handler.Services{
		Tenants:       app.NewTenantRegistry(store.Tenants(), inbox, fsm.New(), nil, clk, nil),
		Notifications: inbox,
		Routes:        app.NewRouteRegistry(store.Routes(), clk, time.UTC, nil),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	for _, path := range []string{"/api/v1/tenants", "/api/v1/routes"} {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
		if err != nil {
			t.Fatalf("creating request: %v", err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}

		var items []map[string]any
		decodeErr := json.NewDecoder(resp.Body).Decode(&items)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status = %d, want %d", path, resp.StatusCode, http.StatusOK)
		}
		if decodeErr != nil {
			t.Fatalf("decode %s: %v", path, decodeErr)
		}
		if len(items) != 0 {
			t.Errorf("GET %s: got %d items, want 0 (empty database)", path, len(items))
		}
	}
}

// TestRun exercises the real run() function end-to-end: config, OTel, River,
// HTTP server, and graceful shutdown. It uses the "none" OTel exporter and a
// temp database to avoid external dependencies.
func TestRun(t *testing.T) {
	for _, mode := range []string{"river", "inprocess"} {
		t.Run(mode, func(t *testing.T) {
			t.Setenv("BUSOPS_CONFIG_PATH", "")
			t.Setenv("DATABASE_PATH", t.TempDir()+"/test-run.db")
			t.Setenv("PORT", "19876")
			t.Setenv("SCHEDULER_MODE", mode)
			t.Setenv("OTEL_EXPORTER", "none")
			t.Setenv("OTEL_ENVIRONMENT", "test")

			errCh := make(chan error, 1)
			go func() { errCh <- run() }()

			// Wait for the HTTP server to become ready.
			serverURL := "http://localhost:19876"
			ready := false
			for i := 0; i < 50; i++ {
				req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/api/v1/routes", nil)
				resp, reqErr := http.DefaultClient.Do(req)
				if reqErr == nil {
					resp.Body.Close()
					ready = true
					break
				}
				time.Sleep(100 * time.Millisecond)
			}
			if !ready {
				t.Fatal("server did not start within 5 seconds")
			}

			// Registering a tenant goes through the store, the inbox and River.
			body := `{"brand_name":"Abay Bus","tax_id":"990140000123","contact_phone":"+7 727 000 0000","contact_email":"office@abaybus.kz"}`
			req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, serverURL+"/api/v1/tenants", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("POST /api/v1/tenants failed: %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
			}

			// Send SIGINT to trigger graceful shutdown.
			proc, err := os.FindProcess(os.Getpid())
			if err != nil {
				t.Fatalf("finding process: %v", err)
			}
			if err := proc.Signal(syscall.SIGINT); err != nil {
				t.Fatalf("sending SIGINT: %v", err)
			}

			select {
			case err := <-errCh:
				if err != nil {
					t.Fatalf("run() returned error: %v", err)
				}
			case <-time.After(10 * time.Second):
				t.Fatal("run() did not exit within 10 seconds")
			}
		})
	}
}

// TestRun_InvalidDB verifies run() returns an error for an invalid database path.
func TestRun_InvalidDB(t *testing.T) {
	t.Setenv("BUSOPS_CONFIG_PATH", "")
	t.Setenv("DATABASE_PATH", "/nonexistent/path/db.sqlite")
	t.Setenv("PORT", "19877")
	t.Setenv("OTEL_EXPORTER", "none")
	t.Setenv("OTEL_ENVIRONMENT", "test")

	if err := run(); err == nil {
		t.Fatal("expected error for invalid database path, got nil")
	}
}

// TestRun_InvalidConfig verifies run() refuses to start on a bad setting.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("BUSOPS_CONFIG_PATH", "")
	t.Setenv("SCHEDULER_MODE", "cron")

	if err := run(); err == nil {
		t.Fatal("expected error for unknown scheduler mode, got nil")
	}
}
