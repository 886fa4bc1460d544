package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/keylab/storefront/internal/config"
	"github.com/keylab/storefront/internal/domain/model"
	"github.com/keylab/storefront/internal/server"
)

// startDemoBackend serves the in-process storefront backend on loopback and
// points the client configuration at it.
func startDemoBackend(cfg *config.Config, log *slog.Logger) (func(), error) {
	backend := server.New(log)
	if _, err := backend.SeedUser("Admin", "admin@storefront.local", "admin", true); err != nil {
		return nil, err
	}
	seedCatalog(backend)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	srv := &http.Server{Handler: backend.Router()}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("demo backend terminated", slog.String("error", err.Error()))
		}
	}()

	cfg.APIAddress = fmt.Sprintf("http://%s", listener.Addr())
	ws, err := config.DeriveWSAddress(cfg.APIAddress)
	if err != nil {
		srv.Close()
		return nil, err
	}
	cfg.WSAddress = ws

	log.Info("demo backend listening",
		slog.String("addr", cfg.APIAddress),
		slog.String("admin", "admin@storefront.local / admin"))

	return func() { srv.Close() }, nil
}

func seedCatalog(backend *server.Server) {
	for _, p := range []model.Product{
		{Name: "Walnut Desk Organizer", Description: "Five compartments, oiled finish", Price: 39.90, Category: "office", InStock: true},
		{Name: "Ceramic Pour-Over Set", Description: "Dripper and carafe", Price: 54.00, Category: "kitchen", InStock: true},
		{Name: "Linen Throw Blanket", Description: "130x170cm, stonewashed", Price: 72.50, Category: "home", InStock: false},
		{Name: "Brass Desk Lamp", Description: "Adjustable arm, E14", Price: 118.00, Category: "office", InStock: true},
	} {
		backend.SeedProduct(p)
	}
}
