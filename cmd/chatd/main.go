package main

import (
	"fmt"
	"net/http"

	"github.com/finderbot/chatcore/internal/config"
	"github.com/finderbot/chatcore/internal/conversation"
	"github.com/finderbot/chatcore/internal/logger"
	"github.com/finderbot/chatcore/internal/server"
	"github.com/finderbot/chatcore/internal/transcript"
	"github.com/finderbot/chatcore/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)

	var sink *transcript.Sink
	if cfg.Transcript.Enabled {
		sink = transcript.NewSink(cfg.Transcript.DBPath)
		defer sink.Close()
	}

	store := conversation.New(sink)
	defer store.Close()

	client := transport.NewHTTPClient(cfg.Backend.BaseURL)
	srv := server.New(store, client)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.L.Info("starting conversation service", "address", addr, "backend", cfg.Backend.BaseURL)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.L.Error("server stopped", "error", err)
	}
}
