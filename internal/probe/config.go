package probe

import "regexp"

// Config is the compiled, read-only view of one named module. Defaults are
// applied and regexes compiled when the module table is loaded; nothing here
// is mutated afterwards.
type Config struct {
	Method          string
	Headers         map[string]string
	Body            string
	FollowRedirects bool
	AllowedTargets  []AllowedTarget
	StatusRule      StatusRule
	FailIfMatches   []*regexp.Regexp
	FailIfNot       []*regexp.Regexp
}

// AllowedTarget is one entry of a module's target allow-list: either an
// exact literal (compared against the lower-cased target) or a pattern
// searched against it.
type AllowedTarget struct {
	Literal string
	Pattern *regexp.Regexp
}

// Match reports whether the (already lower-cased) target satisfies this
// entry.
func (a AllowedTarget) Match(target string) bool {
	if a.Pattern != nil {
		return a.Pattern.MatchString(target)
	}
	return a.Literal == target
}

// StatusRule decides whether a response status code counts as success.
// The two implementations are StatusClass (e.g. 2xx) and StatusSet (an
// explicit list of accepted codes).
type StatusRule interface {
	Accepts(code int) bool
}

// StatusClass groups codes by leading digit: StatusClass(2) accepts
// [200, 300).
type StatusClass int

func (c StatusClass) Accepts(code int) bool {
	return code >= int(c)*100 && code < (int(c)+1)*100
}

// StatusSet accepts exactly the listed codes.
type StatusSet []int

func (s StatusSet) Accepts(code int) bool {
	for _, v := range s {
		if v == code {
			return true
		}
	}
	return false
}
