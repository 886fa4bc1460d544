package test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"

	"github.com/keylab/storefront/internal/server"
)

// Logger returns a logger that swallows output.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Backend couples the in-process storefront server with a listening test
// HTTP server.
type Backend struct {
	Server *server.Server
	HTTP   *httptest.Server
}

// NewBackend starts an in-process backend on loopback.
func NewBackend() *Backend {
	srv := server.New(Logger())
	return &Backend{
		Server: srv,
		HTTP:   httptest.NewServer(srv.Router()),
	}
}

// URL is the REST base address.
func (b *Backend) URL() string {
	return b.HTTP.URL
}

// WSURL is the live channel address.
func (b *Backend) WSURL() string {
	return strings.Replace(b.HTTP.URL, "http://", "ws://", 1) + "/ws"
}

// Close shuts the backend down.
func (b *Backend) Close() {
	b.HTTP.Close()
}
