package http_server_test

import (
	"net/http"
	"testing"
	"time"

	"pilot-bidding-api/pkg/http_server"
)

func TestServer_ListenErrorIsNotified(t *testing.T) {
	s := http_server.New(http.NotFoundHandler(), "not-an-address")

	select {
	case err := <-s.Notify():
		if err == nil {
			t.Error("Notify delivered nil, want listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no listen error notified")
	}
}

func TestServer_CleanShutdownClosesNotify(t *testing.T) {
	s := http_server.New(http.NotFoundHandler(), "127.0.0.1:0", http_server.ShutdownTimeout(time.Second))
	time.Sleep(50 * time.Millisecond)

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err, ok := <-s.Notify():
		if ok {
			t.Errorf("Notify delivered %v after clean shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Notify not closed after shutdown")
	}
}
