// Package interval runs the study interval edits of a plan item.
package interval

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/printers"
	"tableflip.dev/cram/pkg/state"
)

// Actions.
const (
	Add    = "add"
	Edit   = "edit"
	Remove = "rm"
	Preset = "preset"
)

// Interval applies one interval action to an item.
type Interval struct {
	Service *app.Service
	Action  string
	Day     string
	Label   string
	// Index selects the interval for Edit and Remove.
	Index int
	// Span is the interval for Add and Edit.
	Span state.Interval
	// Minutes is the Preset length; zero uses app.SlotLength.
	Minutes int
	Output  string
	Out     io.Writer
}

func (i *Interval) Do(ctx context.Context) error {
	var (
		it  *state.Item
		err error
	)
	switch i.Action {
	case Add:
		it, err = i.Service.AddInterval(ctx, i.Day, i.Label, i.Span)
	case Edit:
		it, err = i.Service.EditInterval(ctx, i.Day, i.Label, i.Index, i.Span)
	case Remove:
		it, err = i.Service.RemoveInterval(ctx, i.Day, i.Label, i.Index)
	case Preset:
		it, err = i.Service.AddPresetInterval(ctx, i.Day, i.Label, i.Minutes)
	default:
		return fmt.Errorf("unknown interval action %q", i.Action)
	}
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{Out: i.Out}
	return pp.Render(i.Output, it, func() { pp.Item(it.AssignedDay, i.Label, it) })
}
