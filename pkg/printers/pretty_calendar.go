package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

const width = len("11 12 13 14 15 16 17") // an example week

// HabitMonth prints the month containing then, highlighting days for which
// done reports true. Weeks start on Monday.
func (pp *PrettyPrint) HabitMonth(name string, then time.Time, done func(time.Time) bool) {
	first := time.Date(then.Year(), then.Month(), 1, 12, 0, 0, 0, then.Location())
	count := make([]int, DaysIn(first))
	for i := range count {
		if done(first.AddDate(0, 0, i)) {
			count[i] = 1
		}
	}
	pp.Title(name)
	pp.PrintMonthCount(first, count)
}

// PrintMonthCount prints a calendar of then's month. Days with a non-zero
// count are bold.
func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.out(), "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	col := StartDay(then)
	_, _ = fmt.Fprint(pp.out(), strings.Repeat("   ", col))

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiGreen)

	days := DaysIn(then)
	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(pp.out(), "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(pp.out(), "%2d ", i+1)
		}

		col++
		if col > 6 {
			col = 0
			_, _ = fmt.Fprint(pp.out(), "\n")
		}
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartDay is the Monday-based column of the first of then's month.
func StartDay(then time.Time) int {
	wd := time.Date(then.Year(), then.Month(), 1, 12, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % 7
}
