// Package modules loads the static module table: the named, reusable probe
// configurations a caller can pick with the ?module= query parameter. The
// table is read once at startup and never mutated.
package modules

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/lebinh/edgeprobe/internal/probe"
)

type rawModule struct {
	Method                 string            `yaml:"method"`
	Headers                map[string]string `yaml:"headers"`
	Body                   string            `yaml:"body"`
	FollowRedirects        *bool             `yaml:"follow_redirects"`
	AllowedTargets         []string          `yaml:"allowed_targets"`
	ValidStatus            string            `yaml:"valid_status"`
	ValidStatusCodes       []int             `yaml:"valid_status_codes"`
	FailIfMatchesRegexp    []string          `yaml:"fail_if_matches_regexp"`
	FailIfNotMatchesRegexp []string          `yaml:"fail_if_not_matches_regexp"`
}

type rawFile struct {
	Modules map[string]rawModule `yaml:"modules"`
}

// Table maps module names to their compiled configs. Lookup is
// case-sensitive.
type Table struct {
	modules map[string]*probe.Config
}

// Resolve returns the named module's config or an UnknownModuleError.
func (t *Table) Resolve(name string) (*probe.Config, error) {
	cfg, ok := t.modules[name]
	if !ok {
		return nil, &probe.UnknownModuleError{Name: name}
	}
	return cfg, nil
}

// Names lists the configured module names (for preflight output).
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.modules))
	for n := range t.modules {
		names = append(names, n)
	}
	return names
}

// Load reads and compiles a YAML module file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read modules %q: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse modules %q: %w", path, err)
	}
	return t, nil
}

// Parse compiles a YAML module table. Per-module compile errors are
// aggregated so a broken file reports everything wrong with it at once.
func Parse(data []byte) (*Table, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Modules) == 0 {
		return nil, fmt.Errorf("no modules defined")
	}

	t := &Table{modules: make(map[string]*probe.Config, len(raw.Modules))}
	var errs error
	for name, rm := range raw.Modules {
		cfg, err := compile(rm)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("module %q: %w", name, err))
			continue
		}
		t.modules[name] = cfg
	}
	if errs != nil {
		return nil, errs
	}
	return t, nil
}

// Default is the built-in table used when no modules file is configured:
// a single "http_2xx" module with all defaults.
func Default() *Table {
	cfg, err := compile(rawModule{})
	if err != nil {
		panic("built-in module does not compile: " + err.Error())
	}
	return &Table{modules: map[string]*probe.Config{"http_2xx": cfg}}
}

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

func compile(rm rawModule) (*probe.Config, error) {
	method := strings.ToUpper(rm.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !validMethods[method] {
		return nil, fmt.Errorf("unsupported method %q", rm.Method)
	}

	follow := true
	if rm.FollowRedirects != nil {
		follow = *rm.FollowRedirects
	}

	allowed := make([]probe.AllowedTarget, 0, len(rm.AllowedTargets))
	for _, entry := range rm.AllowedTargets {
		at, err := compileAllowedTarget(entry)
		if err != nil {
			return nil, err
		}
		allowed = append(allowed, at)
	}

	rule, err := compileStatusRule(rm.ValidStatus, rm.ValidStatusCodes)
	if err != nil {
		return nil, err
	}

	failIf, err := compileRegexps(rm.FailIfMatchesRegexp)
	if err != nil {
		return nil, err
	}
	failIfNot, err := compileRegexps(rm.FailIfNotMatchesRegexp)
	if err != nil {
		return nil, err
	}

	return &probe.Config{
		Method:          method,
		Headers:         rm.Headers,
		Body:            rm.Body,
		FollowRedirects: follow,
		AllowedTargets:  allowed,
		StatusRule:      rule,
		FailIfMatches:   failIf,
		FailIfNot:       failIfNot,
	}, nil
}

// compileAllowedTarget treats /.../-delimited entries as patterns and
// everything else as a literal. Literals are lower-cased at compile time
// because the builder matches against the lower-cased target.
func compileAllowedTarget(entry string) (probe.AllowedTarget, error) {
	if len(entry) > 1 && strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/") {
		re, err := regexp.Compile(entry[1 : len(entry)-1])
		if err != nil {
			return probe.AllowedTarget{}, fmt.Errorf("allowed target %s: %w", entry, err)
		}
		return probe.AllowedTarget{Pattern: re}, nil
	}
	return probe.AllowedTarget{Literal: strings.ToLower(entry)}, nil
}

var statusClasses = map[string]probe.StatusClass{
	"1xx": 1, "2xx": 2, "3xx": 3, "4xx": 4, "5xx": 5,
}

// compileStatusRule picks the explicit-codes variant when any codes are
// listed; otherwise the class form, default 2xx.
func compileStatusRule(class string, codes []int) (probe.StatusRule, error) {
	if len(codes) > 0 {
		return probe.StatusSet(codes), nil
	}
	if class == "" {
		class = "2xx"
	}
	c, ok := statusClasses[strings.ToLower(class)]
	if !ok {
		return nil, fmt.Errorf("unsupported valid_status %q", class)
	}
	return c, nil
}

func compileRegexps(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("regexp %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
