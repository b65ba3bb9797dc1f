package httpapi

import (
	"net/url"

	"github.com/lebinh/edgeprobe/internal/probe"
)

// requestParams is what the probe endpoint needs from the query string.
type requestParams struct {
	Module string
	Target string
}

// parseParams pulls module and target out of the query. The module check
// runs first, so when both are missing the module error is the one
// reported. Values are passed through verbatim beyond the query-string
// layer's own decoding.
func parseParams(q url.Values) (requestParams, error) {
	module := q.Get("module")
	if module == "" {
		return requestParams{}, &probe.MissingParameterError{Name: "module"}
	}
	target := q.Get("target")
	if target == "" {
		return requestParams{}, &probe.MissingParameterError{Name: "target"}
	}
	return requestParams{Module: module, Target: target}, nil
}
