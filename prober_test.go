package modelscan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func testProberConfig() Config {
	conf := DefaultConfig()
	conf.ProbeTimeout = 2 * time.Second
	conf.ValidateTimeout = 2 * time.Second
	return conf
}

func serverKey(t *testing.T, srv *httptest.Server) HostKey {
	t.Helper()
	key, err := ParseTarget(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse test server url: %v", err)
	}
	return key
}

func TestProbeReturnsAdvertisedOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != tagsEndpoint {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"models":[{"name":"llama3","size":1},{"name":"qwen"},{"name":"llama3"}]}`))
	}))
	defer srv.Close()

	p := newHTTPProber(srv.Client(), testProberConfig())
	got := p.Probe(context.Background(), serverKey(t, srv))

	want := []string{"llama3", "qwen", "llama3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestProbeFailureModesCollapseToEmpty(t *testing.T) {
	status := http.StatusTeapot
	body := `{"models":`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))

	p := newHTTPProber(srv.Client(), testProberConfig())
	key := serverKey(t, srv)

	if got := p.Probe(context.Background(), key); len(got) != 0 {
		t.Errorf("non-200 status: expected no capabilities, got %v", got)
	}

	status = http.StatusOK
	if got := p.Probe(context.Background(), key); len(got) != 0 {
		t.Errorf("malformed body: expected no capabilities, got %v", got)
	}

	srv.Close()
	if got := p.Probe(context.Background(), key); len(got) != 0 {
		t.Errorf("refused connection: expected no capabilities, got %v", got)
	}
}

// A 200 with an empty model list reads the same as unreachable. That
// is how the protocol behaves; the engine does not try to tell them
// apart.
func TestProbeEmptyAdvertisementIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	p := newHTTPProber(srv.Client(), testProberConfig())
	if got := p.Probe(context.Background(), serverKey(t, srv)); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
