// Command server is the composition root: it loads configuration, wires
// the registry, matchmaking service, and HTTP router together, and
// starts listening.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/cruxsyn/shipwar/internal/authn"
	"github.com/cruxsyn/shipwar/internal/config"
	"github.com/cruxsyn/shipwar/internal/httpapi"
	"github.com/cruxsyn/shipwar/internal/matchmaking"
	"github.com/cruxsyn/shipwar/internal/profile"
	"github.com/cruxsyn/shipwar/internal/ratelimit"
	"github.com/cruxsyn/shipwar/internal/registry"
)

func main() {
	cfg := config.FromEnv()

	reg := registry.New()
	mm := matchmaking.NewService(reg, matchmaking.Config{
		MinPlayers: cfg.MinPlayers,
		MaxPlayers: cfg.MaxPlayers,
		MaxWait:    cfg.MaxQueueWait,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mm.Run(ctx)

	router := httpapi.NewRouter(httpapi.Config{
		Verifier:        authn.NewHMACVerifier(cfg.AuthSecret),
		Profiles:        profile.NewInMemoryStore(),
		Matchmaking:     mm,
		Registry:        reg,
		UpgradeLimiter:  ratelimit.NewUpgradeLimiter(cfg.UpgradeRatePerSec, cfg.UpgradeBurst),
		InputRatePerSec: cfg.InputRatePerSec,
		InputBurst:      cfg.InputBurst,
	})

	log.Printf("Starting shipwar match server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal("server failed to start:", err)
	}
}
