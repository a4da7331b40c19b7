// chatproxy combines the UI origin and the conversation service behind
// a single port: requests under the API prefix go to the backend,
// everything else (including WebSocket upgrades) goes to the UI. The
// routing is stateless and path-based only.
package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/finderbot/chatcore/internal/config"
	"github.com/finderbot/chatcore/internal/logger"
)

func newProxy(target *url.URL) *httputil.ReverseProxy {
	p := httputil.NewSingleHostReverseProxy(target)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.L.Error("proxy error", "target", target.String(), "path", r.URL.Path, "error", err)
		http.Error(w, "Proxy error", http.StatusBadGateway)
	}
	return p
}

// newRouter forwards apiPrefix-rooted paths to backend and the rest to
// frontend. WebSocket upgrades pass through untouched: the reverse
// proxy hijacks the connection for switching-protocol responses.
func newRouter(apiPrefix string, backend, frontend http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix) {
			backend.ServeHTTP(w, r)
			return
		}
		frontend.ServeHTTP(w, r)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)

	backendURL, err := url.Parse(cfg.Proxy.BackendURL)
	if err != nil {
		logger.L.Error("invalid backend_url", "url", cfg.Proxy.BackendURL, "error", err)
		return
	}
	frontendURL, err := url.Parse(cfg.Proxy.FrontendURL)
	if err != nil {
		logger.L.Error("invalid frontend_url", "url", cfg.Proxy.FrontendURL, "error", err)
		return
	}

	router := newRouter(cfg.Proxy.APIPrefix, newProxy(backendURL), newProxy(frontendURL))

	logger.L.Info("starting proxy",
		"listen", cfg.Proxy.Listen,
		"api_prefix", cfg.Proxy.APIPrefix,
		"backend", backendURL.String(),
		"frontend", frontendURL.String())
	if err := http.ListenAndServe(cfg.Proxy.Listen, router); err != nil {
		logger.L.Error("proxy stopped", "error", err)
	}
}
