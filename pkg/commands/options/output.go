package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/board/pkg/config"
	"tableflip.dev/board/pkg/dispatch"
	"tableflip.dev/board/pkg/docstore"
	"tableflip.dev/board/pkg/form"
	"tableflip.dev/board/pkg/identity"
)

// OutputOptions selects JSON output. Out defaults to color.Output.
type OutputOptions struct {
	JSON bool
	Out  io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// ErrorOutput is the JSON shape of a failed command.
type ErrorOutput struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Missing []string          `json:"missing,omitempty"`
	Invalid map[string]string `json:"invalid,omitempty"`
}

// HandleError prints err as JSON and swallows it when --json is set, so
// scripts read one object from stdout. Otherwise err is returned as is.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	b, jerr := json.Marshal(errorOutput(err))
	if jerr != nil {
		return jerr
	}
	out := o.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, string(b))
	return nil
}

func errorOutput(err error) ErrorOutput {
	eo := ErrorOutput{Error: err.Error()}
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		eo.Code = "invalid"
		eo.Missing = verr.Missing
		eo.Invalid = verr.Invalid
	case errors.Is(err, docstore.ErrNotFound):
		eo.Code = "not_found"
	case errors.Is(err, dispatch.ErrUnauthenticated), errors.Is(err, identity.ErrInvalidToken):
		eo.Code = "unauthenticated"
	case errors.Is(err, dispatch.ErrUnknownCategory):
		eo.Code = "unknown_category"
	case errors.Is(err, config.ErrNotConfigured):
		eo.Code = "not_configured"
	}
	return eo
}
