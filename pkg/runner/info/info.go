package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/cram/pkg/printers"
	"tableflip.dev/cram/pkg/store"
)

// Details is the structured form of the info output.
type Details struct {
	ConfigPathEnv string            `json:"config_path_env,omitempty" yaml:"config_path_env,omitempty"`
	ConfigFile    string            `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Config        *store.FileConfig `json:"config" yaml:"config"`
	Documents     map[string]string `json:"documents" yaml:"documents"`
}

type Info struct {
	Config      *store.FileConfig
	Persistence store.Persistence
	Output      string
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	d := Details{
		ConfigPathEnv: os.Getenv("CRAM_CONFIG_PATH"),
		ConfigFile:    n.Config.File,
		Config:        n.Config,
		Documents:     map[string]string{},
	}
	keys := n.Persistence.Keys(ctx)
	for _, k := range keys {
		d.Documents[k] = n.Persistence.Path(k)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	pp := &printers.PrettyPrint{Out: out}
	return pp.Render(n.Output, d, func() {
		if d.ConfigPathEnv != "" {
			_, _ = fmt.Fprintln(out, "CRAM_CONFIG_PATH found on env, using", d.ConfigPathEnv)
		} else {
			_, _ = fmt.Fprintln(out, "CRAM_CONFIG_PATH env var not set")
		}
		if d.ConfigFile != "" {
			_, _ = fmt.Fprintln(out, "Config file:", d.ConfigFile)
		}
		_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
		_, _ = fmt.Fprintln(out, "Config.outline:", n.Config.OutlinePath())
		if r := n.Config.Redistribute; r.Enabled {
			_, _ = fmt.Fprintf(out, "Redistribute: %d-%d %s (skip completed: %t, limit: %d)\n",
				r.Start, r.End, r.Month, r.SkipCompleted, r.Limit)
		}

		_, _ = fmt.Fprintln(out, "Documents:")
		for _, k := range keys {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", k, d.Documents[k])
		}
		if len(keys) == 0 {
			_, _ = fmt.Fprintln(out, "  no documents")
		}
	})
}
