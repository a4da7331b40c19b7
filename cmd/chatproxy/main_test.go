package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRouter_SplitsByPathPrefix(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("backend:" + r.URL.Path))
	}))
	defer backend.Close()
	frontend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("frontend:" + r.URL.Path))
	}))
	defer frontend.Close()

	backendURL, _ := url.Parse(backend.URL)
	frontendURL, _ := url.Parse(frontend.URL)
	proxy := httptest.NewServer(newRouter("/api", newProxy(backendURL), newProxy(frontendURL)))
	defer proxy.Close()

	_, body := get(t, proxy.URL+"/api/chat")
	require.Equal(t, "backend:/api/chat", body)

	_, body = get(t, proxy.URL+"/api/messages")
	require.Equal(t, "backend:/api/messages", body)

	_, body = get(t, proxy.URL+"/")
	require.Equal(t, "frontend:/", body)

	_, body = get(t, proxy.URL+"/assets/app.js")
	require.Equal(t, "frontend:/assets/app.js", body)
}

func TestProxy_UnreachableTargetIs502(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close() // nothing listens here anymore

	deadURL, _ := url.Parse(dead.URL)
	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer alive.Close()
	aliveURL, _ := url.Parse(alive.URL)

	proxy := httptest.NewServer(newRouter("/api", newProxy(deadURL), newProxy(aliveURL)))
	defer proxy.Close()

	status, _ := get(t, proxy.URL+"/api/chat")
	require.Equal(t, http.StatusBadGateway, status)

	status, body := get(t, proxy.URL+"/")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body)
}
