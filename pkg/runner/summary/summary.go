// Package summary renders plan totals, optionally refreshing on change.
package summary

import (
	"context"
	"io"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/logging"
	"tableflip.dev/cram/pkg/printers"
)

type Summary struct {
	Service *app.Service
	// Watch reprints whenever the stored documents change, until ctx ends.
	Watch  bool
	Output string
	Out    io.Writer
}

func (s *Summary) Do(ctx context.Context) error {
	if err := s.print(ctx); err != nil {
		return err
	}
	if !s.Watch {
		return nil
	}

	events, err := s.Service.Watch(ctx)
	if err != nil {
		return err
	}
	log := logging.Component("summary")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug().Str("key", ev.Key).Msg("change detected")
			if err := s.print(ctx); err != nil {
				log.Warn().Err(err).Msg("refresh failed")
			}
		}
	}
}

func (s *Summary) print(ctx context.Context) error {
	sum, err := s.Service.Summary(ctx)
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{Out: s.Out}
	return pp.Render(s.Output, sum, func() { pp.Summary(sum) })
}
