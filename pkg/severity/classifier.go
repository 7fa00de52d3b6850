// Package severity provides pluggable error classification strategies for
// failure forensics. Severity grading and error-message clustering vary by
// automation platform, so both live behind an interface instead of a fixed
// table inside the aggregation logic.
package severity

import (
	"regexp"
	"strings"

	"github.com/flowpulse/flowpulse/pkg/models"
)

// Classifier derives a severity grade and a clustering key for an execution
// error. Implementations must be safe for concurrent use.
type Classifier interface {
	// Severity grades an error from its node type and message. Used when the
	// source record carries no explicit severity.
	Severity(nodeType, message string) models.Severity

	// ClusterKey normalizes an error message into a grouping key. Best
	// effort: two messages sharing a key likely share a root cause, the
	// reverse is not guaranteed.
	ClusterKey(message string) string
}

var (
	uuidPattern      = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	hexTokenPattern  = regexp.MustCompile(`\b[0-9a-fA-F]{12,}\b`)
	timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?`)
	numberPattern    = regexp.MustCompile(`\d+`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// Keyword classifies errors by scanning messages and node types for known
// substrings. It is the default strategy and intentionally conservative:
// anything unmatched grades as plain error.
type Keyword struct {
	critical []string
	warning  []string
}

// NewKeyword creates the default keyword classifier.
func NewKeyword() *Keyword {
	return &Keyword{
		critical: []string{
			"fatal", "crash", "panic", "out of memory", "oom",
			"econnrefused", "unauthorized", "forbidden", "data loss",
		},
		warning: []string{
			"timeout", "timed out", "rate limit", "throttl",
			"retry", "temporarily", "too many requests",
		},
	}
}

func (k *Keyword) Severity(nodeType, message string) models.Severity {
	haystack := strings.ToLower(nodeType + " " + message)

	for _, kw := range k.critical {
		if strings.Contains(haystack, kw) {
			return models.SeverityCritical
		}
	}

	for _, kw := range k.warning {
		if strings.Contains(haystack, kw) {
			return models.SeverityWarning
		}
	}

	return models.SeverityError
}

// ClusterKey lowercases, trims, collapses whitespace, and strips volatile
// substrings (UUIDs, long hex tokens, timestamps, numbers) so messages that
// differ only in execution-specific identifiers cluster together.
func (k *Keyword) ClusterKey(message string) string {
	key := strings.ToLower(strings.TrimSpace(message))
	key = uuidPattern.ReplaceAllString(key, "<id>")
	key = timestampPattern.ReplaceAllString(key, "<ts>")
	key = hexTokenPattern.ReplaceAllString(key, "<id>")
	key = numberPattern.ReplaceAllString(key, "<n>")
	key = spacePattern.ReplaceAllString(key, " ")

	if key == "" {
		return "<empty>"
	}

	return key
}
