package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const keepAliveInterval = time.Minute * 14

// keepAlive pings the server's own external url so free hosting tiers
// do not put the process to sleep between requests.
func keepAlive(ctx context.Context, cfg Config) {
	target := cfg.ExternalUrl
	if target == "" {
		target = fmt.Sprintf("http://127.0.0.1:%d/", cfg.Port)
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			slog.Warn("keep-alive request", "err", err)
			continue
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			slog.Warn("keep-alive ping failed", "err", err)
			continue
		}
		res.Body.Close()
		slog.Debug("keep-alive ping sent", "status", res.StatusCode)
	}
}
