package probe

// Validate classifies a received response as success or failure. The status
// stage runs first and short-circuits: a status the rule rejects fails the
// probe without looking at the body. The body stage then fails on the first
// fail_if_matches_regexp hit, then on the first fail_if_not_matches_regexp
// miss. The body must already have been read by the caller; it is never
// re-fetched here.
func Validate(cfg *Config, statusCode int, body string) bool {
	if !cfg.StatusRule.Accepts(statusCode) {
		return false
	}
	for _, re := range cfg.FailIfMatches {
		if re.MatchString(body) {
			return false
		}
	}
	for _, re := range cfg.FailIfNot {
		if !re.MatchString(body) {
			return false
		}
	}
	return true
}
