package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func newTestServer(handler http.Handler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(handler, Config{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, logger)
}

func TestServer_RunServesUntilCancelled(t *testing.T) {
	s := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	stopped := false
	s.OnShutdown("component", func(ctx context.Context) error {
		stopped = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		if addr := s.Addr(); addr != "127.0.0.1:0" {
			resp, err = http.Get("http://" + addr + "/")
			if err == nil {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil || resp == nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want 418", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if !stopped {
		t.Error("shutdown hook was not called")
	}
}

func TestServer_RunListenError(t *testing.T) {
	s := newTestServer(http.NotFoundHandler())
	s.httpServer.Addr = "256.0.0.1:http"

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestServer_ShutdownOrder(t *testing.T) {
	s := newTestServer(http.NotFoundHandler())

	var order []string
	s.OnShutdown("datastore", func(ctx context.Context) error {
		order = append(order, "datastore")
		return nil
	})
	s.OnShutdown("llm", func(ctx context.Context) error {
		order = append(order, "llm")
		return nil
	})

	if err := s.gracefulShutdown(); err != nil {
		t.Fatalf("gracefulShutdown() error = %v", err)
	}

	if len(order) != 2 || order[0] != "llm" || order[1] != "datastore" {
		t.Errorf("shutdown order = %v, want [llm datastore]", order)
	}
}

func TestServer_ShutdownErrors(t *testing.T) {
	s := newTestServer(http.NotFoundHandler())

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := 0
	s.OnShutdown("a", func(ctx context.Context) error { ran++; return errA })
	s.OnShutdown("b", func(ctx context.Context) error { ran++; return errB })

	err := s.gracefulShutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("gracefulShutdown() error = %v, want both component errors", err)
	}
	if ran != 2 {
		t.Errorf("ran %d components, want 2", ran)
	}
}
