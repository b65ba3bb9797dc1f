// Package metrics serializes a probe outcome into exposition-format text.
package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lebinh/edgeprobe/internal/probe"
)

// Render writes the five probe metrics in their fixed order, one per line.
// Labels, when present, are attached uniformly to every line; scrapers rely
// on the order and names staying stable.
func Render(o probe.Outcome, labels map[string]string) string {
	lb := labelBlock(labels)

	var b strings.Builder
	writeMetric(&b, "probe_success", lb, boolValue(o.Success))
	writeMetric(&b, "probe_duration_seconds", lb, strconv.FormatFloat(o.DurationSeconds, 'f', -1, 64))
	writeMetric(&b, "probe_http_status_code", lb, strconv.Itoa(o.StatusCode))
	writeMetric(&b, "probe_http_redirected", lb, boolValue(o.Redirected))
	writeMetric(&b, "probe_http_content_length", lb, strconv.FormatInt(o.ContentLength, 10))
	return b.String()
}

func writeMetric(b *strings.Builder, name, labels, value string) {
	b.WriteString(name)
	b.WriteString(labels)
	b.WriteByte(' ')
	b.WriteString(value)
	b.WriteByte('\n')
}

func boolValue(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// labelBlock renders {k="v",...} with keys sorted for a deterministic
// output, or the empty string when there are no labels.
func labelBlock(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeLabelValue(labels[k]))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

func escapeLabelValue(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return r.Replace(v)
}
