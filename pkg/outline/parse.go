package outline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTitlePrefix marks title lines that are never items.
const DefaultTitlePrefix = "study plan"

var headerPattern = regexp.MustCompile(`(?i)^(\d{1,2})\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s*\(\s*(\d+)\s*[a-z]+\s*\)`)

// Option configures Parse.
type Option func(*parser)

// WithTitlePrefix changes the title marker. Matching is case-insensitive.
func WithTitlePrefix(prefix string) Option {
	return func(p *parser) {
		p.title = strings.ToLower(strings.TrimSpace(prefix))
	}
}

type parser struct {
	title string
}

// Parse turns outline text into an Outline. A header line such as
// "18 January (12 lectures)" opens a day; following non-blank lines are that
// day's items until the next header. Title lines are skipped anywhere and text
// before the first header is discarded. Parse never fails: count mismatches are
// reported through Outline.Mismatches.
func Parse(text string, opts ...Option) *Outline {
	p := &parser{title: DefaultTitlePrefix}
	for _, opt := range opts {
		opt(p)
	}

	out := New()
	current := ""
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if label, count, ok := ParseHeader(line); ok {
			out.Reset(label, count)
			current = label
			continue
		}
		if p.title != "" && strings.HasPrefix(strings.ToLower(line), p.title) {
			continue
		}
		if current == "" {
			continue
		}
		out.Append(current, line)
	}
	return out
}

// ParseHeader matches a day header and returns the normalised day label and
// declared count.
func ParseHeader(line string) (string, int, bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	month, ok := ParseMonth(m[2])
	if !ok {
		return "", 0, false
	}
	count, err := strconv.Atoi(m[3])
	if err != nil {
		return "", 0, false
	}
	return Label(day, month), count, true
}

// Label renders the canonical day label, e.g. "18 January".
func Label(day int, month time.Month) string {
	return strconv.Itoa(day) + " " + month.String()
}

// ParseMonth resolves a full English month name, ignoring case.
func ParseMonth(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}
