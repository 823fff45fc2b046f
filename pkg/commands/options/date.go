package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// DateOptions selects a routine date.
type DateOptions struct {
	OnString string
}

func AddDateArgs(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "today",
		`Specify a date, example: --on="2026-3-11", --on="3/11" or --on=yesterday.`)
}

// GetOn resolves the date relative to now. A short date keeps now's year.
func (o *DateOptions) GetOn(now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(strings.TrimSpace(o.OnString)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	t, err := time.ParseInLocation(layoutISO, o.OnString, now.Location())
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation(layoutISOShort, o.OnString, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", o.OnString)
	}
	return t.AddDate(now.Year(), 0, 0), nil
}
