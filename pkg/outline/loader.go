package outline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tableflip.dev/cram/pkg/logging"
)

// ErrSourceUnavailable reports an outline source that could not be read. The
// accompanying outline is empty and still usable.
var ErrSourceUnavailable = errors.New("outline: source unavailable")

// Loader produces a freshly parsed outline. Every call re-reads the source.
type Loader interface {
	Load(ctx context.Context) (*Outline, error)
}

// FileLoader parses the outline stored at Path.
type FileLoader struct {
	Path        string
	TitlePrefix string
}

// Load reads and parses the file. A missing or unreadable file yields an empty
// outline together with an error wrapping ErrSourceUnavailable.
func (l *FileLoader) Load(ctx context.Context) (*Outline, error) {
	if err := ctx.Err(); err != nil {
		return New(), err
	}
	if l.Path == "" {
		return New(), fmt.Errorf("%w: no outline path configured", ErrSourceUnavailable)
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return New(), fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, l.Path, err)
	}
	return parseAndReport(string(data), l.TitlePrefix, l.Path), nil
}

// TextLoader parses an in-memory outline.
type TextLoader struct {
	Text        string
	TitlePrefix string
}

// Load parses Text.
func (l *TextLoader) Load(ctx context.Context) (*Outline, error) {
	if err := ctx.Err(); err != nil {
		return New(), err
	}
	return parseAndReport(l.Text, l.TitlePrefix, "text"), nil
}

func parseAndReport(text, title, source string) *Outline {
	var opts []Option
	if title != "" {
		opts = append(opts, WithTitlePrefix(title))
	}
	o := Parse(text, opts...)
	log := logging.Component("outline")
	for _, m := range o.Mismatches() {
		log.Warn().
			Str("source", source).
			Str("day", m.Day).
			Int("declared", m.Declared).
			Int("actual", m.Actual).
			Msg("day count mismatch, using listed items")
	}
	return o
}
