package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/cram/pkg/outline"
)

func baseOutline(t *testing.T) *outline.Outline {
	t.Helper()
	return outline.Parse(`18 January (2 lectures)
A
B
19 January (2 lectures)
C
D
`)
}

func items(t *testing.T, o *outline.Outline, day string) []string {
	t.Helper()
	d, ok := o.Day(day)
	require.True(t, ok, "missing day %s", day)
	return d.Items
}

func TestApplyRemoval(t *testing.T) {
	base := baseOutline(t)
	ov := NewOverrides()
	ov.RemoveItem("18 January", "A")

	got := Apply(base, ov)
	d, ok := got.Day("18 January")
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, d.Items)
	assert.Equal(t, 1, d.DeclaredCount)

	// base is untouched
	assert.Equal(t, []string{"A", "B"}, items(t, base, "18 January"))
}

func TestApplyAdditionsAreIdempotent(t *testing.T) {
	base := baseOutline(t)
	once := NewOverrides()
	once.AddItem("20 January", "E")
	twice := NewOverrides()
	twice.AddItem("20 January", "E")
	twice.AddItem("20 January", "E")

	assert.Equal(t, items(t, Apply(base, once), "20 January"), items(t, Apply(base, twice), "20 January"))
	assert.Equal(t, []string{"E"}, items(t, Apply(base, twice), "20 January"))

	again := Apply(Apply(base, once), once)
	assert.Equal(t, []string{"E"}, items(t, again, "20 January"))
}

func TestApplyOrderAddRemoveMove(t *testing.T) {
	base := baseOutline(t)
	ov := NewOverrides()
	// the move wins over the removal because moves run last
	ov.MoveItem("A", "19 January")
	ov.RemoveItem("18 January", "A")
	// the removal wins over the addition because removals run after adds
	ov.AddItem("18 January", "X")
	ov.RemoveItem("18 January", "X")

	got := Apply(base, ov)
	assert.Equal(t, []string{"B"}, items(t, got, "18 January"))
	assert.Equal(t, []string{"C", "D", "A"}, items(t, got, "19 January"))
}

func TestApplyMissingRemovalIsNoop(t *testing.T) {
	base := baseOutline(t)
	ov := NewOverrides()
	ov.RemoveItem("18 January", "nope")
	ov.RemoveItem("30 January", "A")

	got := Apply(base, ov)
	assert.Equal(t, base.Labels(), got.Labels())
	assert.Equal(t, base.TotalItems(), got.TotalItems())
}

func TestApplyMoveIsExclusive(t *testing.T) {
	base := outline.Parse(`1 March (2 x)
dup
other
2 March (1 x)
dup
`)
	ov := NewOverrides()
	ov.MoveItem("dup", "5 March")

	got := Apply(base, ov)
	count := 0
	for _, d := range got.Days() {
		for _, it := range d.Items {
			if it == "dup" {
				count++
			}
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"dup"}, items(t, got, "5 March"))
}

func TestApplyKeepsEmptyDaysUnlessPruned(t *testing.T) {
	base := baseOutline(t)
	ov := NewOverrides()
	ov.RemoveItem("18 January", "A")
	ov.RemoveItem("18 January", "B")

	kept := Apply(base, ov)
	assert.Equal(t, []string{"18 January", "19 January"}, kept.Labels())
	assert.Equal(t, 0, mustDay(t, kept, "18 January").DeclaredCount)

	pruned := Apply(base, ov, WithPrune())
	assert.Equal(t, []string{"19 January"}, pruned.Labels())
}

func mustDay(t *testing.T, o *outline.Outline, label string) *outline.Day {
	t.Helper()
	d, ok := o.Day(label)
	require.True(t, ok)
	return d
}

func TestOverridesJSON(t *testing.T) {
	ov := NewOverrides()
	ov.AddItem("2 May", "z")
	ov.AddItem("1 May", "a")
	ov.RemoveItem("1 May", "b")
	ov.RemoveItem("1 May", "b")
	ov.MoveItem("c", "3 May")

	data, err := json.Marshal(ov)
	require.NoError(t, err)
	assert.JSONEq(t, `{"add":{"2 May":["z"],"1 May":["a"]},"remove":{"1 May":["b"]},"move":{"c":"3 May"}}`, string(data))

	var back Overrides
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"2 May", "1 May"}, back.Add.Keys())

	var partial Overrides
	require.NoError(t, json.Unmarshal([]byte(`{"move":{"c":"3 May"}}`), &partial))
	assert.Equal(t, 0, partial.Add.Len())
	assert.False(t, partial.IsEmpty())
	assert.True(t, NewOverrides().IsEmpty())
}

func TestOverridesCloneIsIndependent(t *testing.T) {
	ov := NewOverrides()
	ov.AddItem("1 May", "a")
	ov.MoveItem("c", "3 May")

	cp := ov.Clone()
	cp.AddItem("1 May", "b")
	cp.MoveItem("c", "4 May")

	labels, _ := ov.Add.Get("1 May")
	assert.Equal(t, []string{"a"}, labels)
	day, _ := ov.Move.Get("c")
	assert.Equal(t, "3 May", day)
	assert.True(t, (*Overrides)(nil).Clone().IsEmpty())
}

func lectures(n int) *outline.Outline {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("1 January (%d lectures)\n", n))
	for i := 1; i <= n; i++ {
		b.WriteString(fmt.Sprintf("L%d\n", i))
	}
	return outline.Parse(b.String())
}

func TestRedistributeTenIntoThree(t *testing.T) {
	got, err := Redistribute(lectures(10), Range{Start: 25, End: 27, Month: time.January})
	require.NoError(t, err)

	assert.Equal(t, []string{"25 January", "26 January", "27 January"}, got.Labels())
	var counts []int
	for _, d := range got.Days() {
		counts = append(counts, d.DeclaredCount)
	}
	assert.Equal(t, []int{4, 3, 3}, counts)
	assert.Equal(t, []string{"L1", "L2", "L3", "L4"}, items(t, got, "25 January"))
	assert.Equal(t, []string{"L8", "L9", "L10"}, items(t, got, "27 January"))
}

func TestRedistributeConservesAndPreservesOrder(t *testing.T) {
	for m := 0; m <= 25; m++ {
		for d := 1; d <= 7; d++ {
			base := lectures(m)
			got, err := Redistribute(base, Range{Start: 10, End: 10 + d - 1, Month: time.April})
			require.NoError(t, err)

			var flat []string
			lo, hi := m, 0
			for _, label := range (Range{Start: 10, End: 10 + d - 1, Month: time.April}).Days() {
				day, ok := got.Day(label)
				n := 0
				if ok {
					n = len(day.Items)
					flat = append(flat, day.Items...)
				}
				if n < lo {
					lo = n
				}
				if n > hi {
					hi = n
				}
			}
			assert.Len(t, flat, m)
			if m > 0 {
				assert.LessOrEqual(t, hi-lo, 1)
				assert.Equal(t, mustDay(t, base, "1 January").Items, flat)
			}
		}
	}
}

func TestRedistributeNothingToSpread(t *testing.T) {
	got, err := Redistribute(outline.New(), Range{Start: 1, End: 3, Month: time.June})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestRedistributeInvalidRange(t *testing.T) {
	got, err := Redistribute(lectures(3), Range{Start: 27, End: 25, Month: time.January})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
	assert.Nil(t, got)
}

func TestRedistributeSkipCompleted(t *testing.T) {
	base := outline.Parse(`18 January (3 lectures)
L1
L2
L3
26 January (2 lectures)
L4
L5
19 January (1 lecture)
L6
`)
	done := map[string]bool{"L2": true, "L5": true}

	got, err := Redistribute(base, Range{Start: 25, End: 26, Month: time.January},
		SkipCompleted(func(label string) bool { return done[label] }))
	require.NoError(t, err)

	assert.Equal(t, []string{"25 January", "26 January", "18 January"}, got.Labels())
	assert.Equal(t, []string{"L1", "L3"}, items(t, got, "25 January"))
	assert.Equal(t, []string{"L5", "L4", "L6"}, items(t, got, "26 January"))
	assert.Equal(t, []string{"L2"}, items(t, got, "18 January"))
	assert.Equal(t, 6, got.TotalItems())
}

func TestRedistributeLimit(t *testing.T) {
	got, err := Redistribute(lectures(10), Range{Start: 1, End: 2, Month: time.February}, Limit(5))
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalItems())
	assert.Equal(t, []string{"L1", "L2", "L3"}, items(t, got, "1 February"))
}

func TestRedistributeThenApply(t *testing.T) {
	shaped, err := Redistribute(lectures(4), Range{Start: 1, End: 2, Month: time.March})
	require.NoError(t, err)

	ov := NewOverrides()
	ov.MoveItem("L1", "2 March")
	got := Apply(shaped, ov)
	assert.Equal(t, []string{"L2"}, items(t, got, "1 March"))
	assert.Equal(t, []string{"L3", "L4", "L1"}, items(t, got, "2 March"))
}
