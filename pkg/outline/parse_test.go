package outline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Study Plan for January
notes before the first day are ignored

18 January (2 lectures)
A
  B

19 january(3 Lectures)
Linear Algebra - Lecture 4
study plan reminder line
Probability - Lecture 1
`

func TestParse(t *testing.T) {
	o := Parse(sample)

	assert.Equal(t, []string{"18 January", "19 January"}, o.Labels())

	d, ok := o.Day("18 January")
	require.True(t, ok)
	assert.Equal(t, 2, d.DeclaredCount)
	assert.Equal(t, []string{"A", "B"}, d.Items)

	d, ok = o.Day("19 January")
	require.True(t, ok)
	assert.Equal(t, 3, d.DeclaredCount)
	assert.Equal(t, []string{"Linear Algebra - Lecture 4", "Probability - Lecture 1"}, d.Items)
}

func TestParseConservesItems(t *testing.T) {
	var b strings.Builder
	want := 0
	for day := 1; day <= 5; day++ {
		b.WriteString(Label(day, time.March) + " (4 topics)\n")
		for i := 0; i < day; i++ {
			b.WriteString("topic\n")
			want++
		}
		b.WriteString("\n")
	}

	o := Parse(b.String())
	assert.Equal(t, want, o.TotalItems())
	assert.Len(t, o.Mismatches(), 4)
}

func TestParseMismatchIsNotFatal(t *testing.T) {
	o := Parse("20 January (5 lectures)\nonly one\n")
	d, ok := o.Day("20 January")
	require.True(t, ok)
	assert.Equal(t, []string{"only one"}, d.Items)
	require.Len(t, o.Mismatches(), 1)
	assert.Equal(t, Mismatch{Day: "20 January", Declared: 5, Actual: 1}, o.Mismatches()[0])
}

func TestParseCustomTitlePrefix(t *testing.T) {
	o := Parse("1 May (1 item)\n# heading\nreal\n", WithTitlePrefix("#"))
	d, _ := o.Day("1 May")
	assert.Equal(t, []string{"real"}, d.Items)
}

func TestParseHeader(t *testing.T) {
	label, count, ok := ParseHeader("7 FEBRUARY   ( 1 lecture )")
	require.True(t, ok)
	assert.Equal(t, "7 February", label)
	assert.Equal(t, 1, count)

	_, _, ok = ParseHeader("7 Smarch (1 lecture)")
	assert.False(t, ok)
	_, _, ok = ParseHeader("Lecture 7 February")
	assert.False(t, ok)
}

func TestParseVeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 2*1024*1024)
	o := Parse("18 January (2 lectures)\n" + long + "\nB\n19 January (1 lecture)\nC\n")

	require.Equal(t, []string{"18 January", "19 January"}, o.Labels())
	d, _ := o.Day("18 January")
	require.Len(t, d.Items, 2)
	assert.Equal(t, "B", d.Items[1])
	d, _ = o.Day("19 January")
	assert.Equal(t, []string{"C"}, d.Items)
}

func TestParseEmpty(t *testing.T) {
	o := Parse("")
	assert.Equal(t, 0, o.Len())
}

func TestOutlineJSONKeepsOrder(t *testing.T) {
	o := Parse(sample)
	data, err := json.Marshal(o)
	require.NoError(t, err)

	var back Outline
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, o.Labels(), back.Labels())
	assert.Equal(t, o.TotalItems(), back.TotalItems())
}

func TestFileLoaderMissingSource(t *testing.T) {
	l := &FileLoader{Path: filepath.Join(t.TempDir(), "missing.txt")}
	o, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	require.NotNil(t, o)
	assert.Equal(t, 0, o.Len())
}

func TestFileLoaderReparsesEveryCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 June (1 lecture)\nX\n"), 0o644))

	l := &FileLoader{Path: path}
	o, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, o.TotalItems())

	require.NoError(t, os.WriteFile(path, []byte("1 June (2 lectures)\nX\nY\n"), 0o644))
	o, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, o.TotalItems())
}
