package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lebinh/edgeprobe/internal/modules"
	"github.com/lebinh/edgeprobe/internal/probe"
)

// ---- test helpers ----

func setupServer(t *testing.T, modulesYAML string, popID string) *httptest.Server {
	t.Helper()
	table := modules.Default()
	if modulesYAML != "" {
		var err error
		table, err = modules.Parse([]byte(modulesYAML))
		if err != nil {
			t.Fatalf("parse modules: %v", err)
		}
	}
	srv := NewServer(zap.NewNop(), table, probe.NewProber(zap.NewNop(), 2*time.Second), popID)
	// rate limiting off in handler tests
	return httptest.NewServer(srv.Router(0, 0))
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func probeURL(api *httptest.Server, module, target string) string {
	q := url.Values{}
	if module != "" {
		q.Set("module", module)
	}
	if target != "" {
		q.Set("target", target)
	}
	return api.URL + "/probe?" + q.Encode()
}

// ---- tests ----

func TestProbe_MissingParameters(t *testing.T) {
	api := setupServer(t, "", "")
	defer api.Close()

	status, body := get(t, api.URL+"/probe")
	if status != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", status)
	}
	// both missing: module is reported first
	if body != "error: module parameter is missing\n" {
		t.Fatalf("unexpected body %q", body)
	}

	status, body = get(t, probeURL(api, "http_2xx", ""))
	if status != http.StatusBadRequest || body != "error: target parameter is missing\n" {
		t.Fatalf("want target error, got %d %q", status, body)
	}
}

func TestProbe_UnknownModule(t *testing.T) {
	api := setupServer(t, "", "")
	defer api.Close()

	status, body := get(t, probeURL(api, "nope", "http://example.com"))
	if status != http.StatusBadRequest || body != "error: unknown module: nope\n" {
		t.Fatalf("want unknown module error, got %d %q", status, body)
	}
}

func TestProbe_NonGetRejected(t *testing.T) {
	api := setupServer(t, "", "")
	defer api.Close()

	resp, err := http.Post(api.URL+"/probe?module=http_2xx&target=http://example.com", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	if string(body) != "error: sorry, this only accept GET method\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestProbe_EndToEndSuccess(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer backend.Close()

	api := setupServer(t, "modules:\n  site_up:\n    fail_if_not_matches_regexp: [\"ok\"]\n", "")
	defer api.Close()

	status, body := get(t, probeURL(api, "site_up", backend.URL))
	if status != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, "probe_success 1\n") {
		t.Fatalf("want probe_success 1, got %q", body)
	}
	if !strings.Contains(body, "probe_http_status_code 200\n") {
		t.Fatalf("want status metric 200, got %q", body)
	}
}

func TestProbe_TargetNotAllowed(t *testing.T) {
	yaml := `
modules:
  locked:
    method: POST
    allowed_targets: ['https://example.com']
    valid_status_codes: [204]
`
	api := setupServer(t, yaml, "")
	defer api.Close()

	status, body := get(t, probeURL(api, "locked", "http://example.com"))
	if status != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", status)
	}
	if body != "error: target is not allowed in probe config\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestProbe_TransportFailureRendersMetrics(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := backend.URL
	backend.Close() // unreachable from here on

	api := setupServer(t, "", "")
	defer api.Close()

	status, body := get(t, probeURL(api, "http_2xx", target))
	if status != http.StatusOK {
		t.Fatalf("target unreachable is a measurement, want 200, got %d", status)
	}
	if !strings.Contains(body, "probe_success 0\n") {
		t.Fatalf("want probe_success 0, got %q", body)
	}
	if !strings.Contains(body, "probe_http_content_length -1\n") {
		t.Fatalf("want -1 content length, got %q", body)
	}
}

func TestProbe_ProvenanceLabels(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer backend.Close()

	api := setupServer(t, "", "sin01")
	defer api.Close()

	req, _ := http.NewRequest(http.MethodGet, probeURL(api, "http_2xx", backend.URL), nil)
	req.Header.Set("X-Client-Country", "SG")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `probe_success{country="SG",pop="sin01"} 1`) {
		t.Fatalf("want labels on metrics, got %q", body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("want X-Request-Id header set")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("want text/plain, got %q", ct)
	}
}

func TestHealthz(t *testing.T) {
	api := setupServer(t, "", "")
	defer api.Close()

	status, body := get(t, api.URL+"/healthz")
	if status != 200 || body != "ok" {
		t.Fatalf("healthz: %d %q", status, body)
	}
}
