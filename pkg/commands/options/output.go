package options

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/printers"
)

// OutputOptions
type OutputOptions struct {
	Format string
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Format, "output", "o", printers.FormatText,
		"Output format. One of "+strings.Join(printers.Formats, "|")+".")
}

// Validate rejects unknown formats.
func (o *OutputOptions) Validate() error {
	for _, f := range printers.Formats {
		if o.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q", o.Format)
}

// Structured reports whether output is machine readable.
func (o *OutputOptions) Structured() bool {
	return o.Format == printers.FormatJSON || o.Format == printers.FormatYAML
}

// HandleError prints err as a document in structured modes and swallows it
// so the document stays parseable; in text mode err is returned.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil || !o.Structured() {
		return err
	}
	out := map[string]string{
		"error": err.Error(),
	}
	if perr := printers.Structured(color.Output, o.Format, out); perr != nil {
		return perr
	}
	return nil
}
