package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// BuildRequest turns a module config plus a raw target string into an
// outbound request. It only validates and constructs; no network I/O.
//
// Checks run in a fixed order and the first failure wins:
// body vs method, then scheme, then the allow-list. Scheme and allow-list
// checks use a lower-cased copy of the target; the request itself keeps the
// original casing.
func BuildRequest(ctx context.Context, cfg *Config, target string) (*http.Request, error) {
	if cfg.Body != "" && (cfg.Method == http.MethodGet || cfg.Method == http.MethodHead) {
		return nil, &BodyNotAllowedError{Method: cfg.Method}
	}

	normalized := strings.ToLower(target)
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		return nil, &InvalidTargetSchemeError{Target: target}
	}

	if len(cfg.AllowedTargets) > 0 && !targetAllowed(cfg.AllowedTargets, normalized) {
		return nil, &TargetNotAllowedError{Target: target}
	}

	var body io.Reader
	if cfg.Body != "" {
		body = strings.NewReader(cfg.Body)
	}
	req, err := http.NewRequestWithContext(ctx, cfg.Method, target, body)
	if err != nil {
		return nil, &InvalidTargetSchemeError{Target: target}
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func targetAllowed(allowed []AllowedTarget, normalized string) bool {
	for _, a := range allowed {
		if a.Match(normalized) {
			return true
		}
	}
	return false
}
