package probe

import (
	"regexp"
	"testing"
)

func TestValidate_StatusClass(t *testing.T) {
	cfg := &Config{StatusRule: StatusClass(2)}
	for _, code := range []int{200, 204, 299} {
		if !Validate(cfg, code, "") {
			t.Fatalf("status %d should pass 2xx", code)
		}
	}
	for _, code := range []int{199, 300, 301, 404, 500} {
		if Validate(cfg, code, "") {
			t.Fatalf("status %d should fail 2xx", code)
		}
	}
}

func TestValidate_StatusSet(t *testing.T) {
	cfg := &Config{StatusRule: StatusSet{204}}
	if !Validate(cfg, 204, "") {
		t.Fatalf("204 should pass set {204}")
	}
	for _, code := range []int{200, 205, 404} {
		if Validate(cfg, code, "") {
			t.Fatalf("status %d should fail set {204}", code)
		}
	}
}

func TestValidate_FailIfMatches(t *testing.T) {
	cfg := &Config{
		StatusRule:    StatusClass(2),
		FailIfMatches: []*regexp.Regexp{regexp.MustCompile("error")},
	}
	if Validate(cfg, 200, "error") {
		t.Fatalf("body matching fail_if regexp should fail")
	}
	if !Validate(cfg, 200, "ok") {
		t.Fatalf("non-matching body should pass")
	}
}

func TestValidate_FailIfNotMatches(t *testing.T) {
	cfg := &Config{
		StatusRule: StatusClass(2),
		FailIfNot:  []*regexp.Regexp{regexp.MustCompile("ok")},
	}
	if !Validate(cfg, 200, "ok") {
		t.Fatalf("body matching required regexp should pass")
	}
	if Validate(cfg, 200, "error") {
		t.Fatalf("body missing required regexp should fail")
	}
}

func TestValidate_StatusShortCircuitsBodyRules(t *testing.T) {
	cfg := &Config{
		StatusRule: StatusClass(2),
		FailIfNot:  []*regexp.Regexp{regexp.MustCompile("ok")},
	}
	// even a body that would pass cannot rescue a failing status
	if Validate(cfg, 500, "ok") {
		t.Fatalf("failing status must fail regardless of body")
	}
}
