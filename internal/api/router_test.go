package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthz(t *testing.T) {
	g := newGateway(t, adminClaim, false)
	rec := serve(g, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	g.noStorageOrQueueIO(t)
}

func TestRequestIDIsPropagatedOrMinted(t *testing.T) {
	g := newGateway(t, adminClaim, false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	if got := serve(g, req).Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("request id %q not echoed", got)
	}

	rec := serve(g, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("no request id minted")
	}
}

func corsPreflight(r http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSPolicy(t *testing.T) {
	cases := []struct {
		name            string
		origins         []string
		origin          string
		wantAllow       string
		wantCredentials string
	}{
		{name: "off by default", origin: "https://studio.example"},
		{name: "wildcard without credentials", origins: []string{"*"}, origin: "https://studio.example", wantAllow: "*"},
		{name: "listed origin", origins: []string{"https://studio.example"}, origin: "https://studio.example", wantAllow: "https://studio.example", wantCredentials: "true"},
		{name: "unlisted origin", origins: []string{"https://studio.example"}, origin: "https://evil.example"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGateway(t, adminClaim, false)
			h := NewHandler(Options{Auth: g.auth, Videos: g.videos, Audio: g.audio, Publisher: g.publisher})
			rec := corsPreflight(NewRouter(h, RouterConfig{AllowOrigins: tc.origins}), tc.origin)
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("Allow-Origin %q; want %q", got, tc.wantAllow)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tc.wantCredentials {
				t.Fatalf("Allow-Credentials %q; want %q", got, tc.wantCredentials)
			}
			g.noStorageOrQueueIO(t)
		})
	}
}

func TestCORSMatchesPunycodeOrigin(t *testing.T) {
	g := newGateway(t, adminClaim, false)
	h := NewHandler(Options{Auth: g.auth, Videos: g.videos, Audio: g.audio, Publisher: g.publisher})
	r := NewRouter(h, RouterConfig{AllowOrigins: []string{"https://bücher.example:8443"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://xn--bcher-kva.example:8443")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://xn--bcher-kva.example:8443" {
		t.Fatalf("Allow-Origin %q", got)
	}
}

func TestASCIIOrigin(t *testing.T) {
	cases := map[string]string{
		"https://bücher.example": "https://xn--bcher-kva.example",
		"http://localhost:3000":  "http://localhost:3000",
		"https://Studio.Example": "https://studio.example",
		"not a url":              "not a url",
	}
	for in, want := range cases {
		if got := asciiOrigin(in); got != want {
			t.Fatalf("asciiOrigin(%q)=%q; want %q", in, got, want)
		}
	}
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	g := newGateway(t, adminClaim, false)
	rec := serve(g, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}
