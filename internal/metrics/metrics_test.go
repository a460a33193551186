package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInitIsIdempotentAndExposesCollectors(t *testing.T) {
	Init()
	Init()
	Uploads.Inc()
	Failures.WithLabelValues("MissingFile").Inc()

	srv := httptest.NewServer(NewServer(":0").Handler)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	body := string(b)
	for _, want := range []string{"media_gateway_uploads_total", `media_gateway_failures_total{kind="MissingFile"}`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
