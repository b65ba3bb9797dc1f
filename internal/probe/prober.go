package probe

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Outcome is the measured result of one probe attempt. ContentLength is -1
// when the target did not send a parsable Content-Length header.
type Outcome struct {
	Success         bool
	DurationSeconds float64
	StatusCode      int
	Redirected      bool
	ContentLength   int64
	Reason          string
}

// Prober issues a single outbound request per probe. It shares one transport
// across probes but builds a fresh client each time so that the module's
// redirect policy can be applied per request.
type Prober struct {
	Transport http.RoundTripper
	Timeout   time.Duration
	Logger    *zap.Logger
}

func NewProber(logger *zap.Logger, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Prober{
		Transport: http.DefaultTransport,
		Timeout:   timeout,
		Logger:    logger,
	}
}

// Probe runs the module config against the target and returns what was
// measured. A non-nil error means the request was rejected before any
// network I/O (builder validation); a transport failure is not an error
// here, it is a valid measurement with Success=false.
func (p *Prober) Probe(ctx context.Context, cfg *Config, target string) (Outcome, error) {
	req, err := BuildRequest(ctx, cfg, target)
	if err != nil {
		return Outcome{}, err
	}

	redirected := false
	client := &http.Client{
		Transport: p.Transport,
		Timeout:   p.Timeout,
	}
	if cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			redirected = true
			// keep the stdlib's 10-redirect cap; a redirect loop must not
			// amplify one probe into an unbounded request series
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		}
	} else {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		out := Outcome{
			Success:         false,
			DurationSeconds: time.Since(start).Seconds(),
			ContentLength:   -1,
			Reason:          err.Error(),
		}
		p.Logger.Warn("probe_transport_error",
			zap.String("target", target),
			zap.Error(err),
		)
		return out, nil
	}
	defer resp.Body.Close()

	// The duration must cover the full body transfer, not just headers.
	body, readErr := io.ReadAll(resp.Body)
	elapsed := time.Since(start).Seconds()
	if readErr != nil {
		out := Outcome{
			Success:         false,
			DurationSeconds: elapsed,
			StatusCode:      resp.StatusCode,
			Redirected:      redirected,
			ContentLength:   -1,
			Reason:          readErr.Error(),
		}
		return out, nil
	}

	return Outcome{
		Success:         Validate(cfg, resp.StatusCode, string(body)),
		DurationSeconds: elapsed,
		StatusCode:      resp.StatusCode,
		Redirected:      redirected,
		ContentLength:   contentLength(resp.Header),
		Reason:          resp.Status,
	}, nil
}

// contentLength parses the Content-Length header, -1 when absent or not a
// number.
func contentLength(h http.Header) int64 {
	v := h.Get("Content-Length")
	if v == "" {
		return -1
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
