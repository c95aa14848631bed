package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
)

// Dump compiles a document and writes its serializable form.
type Dump struct {
	File   string `arg:"" help:"Configuration document or '-' for stdin" name:"file"`
	Format string `       help:"Output format"                             default:"yaml" enum:"json,yaml,msgpack" short:"F"`
	Indent int    `       help:"Indentation width for json and yaml"       default:"2"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	doc, err := open(ctx, d.File)
	if err != nil {
		return err
	}

	data, err := d.encode(doc.config)
	if err != nil {
		return ErrEncode.
			Wrap(err).
			With(slog.String("format", d.Format))
	}

	_, err = stdioFrom(ctx).out.Write(data)

	return err
}

func (d *Dump) encode(v any) ([]byte, error) {
	indent := max(d.Indent, 0)

	switch d.Format {
	case "json":
		data, err := json.MarshalIndent(v, "", strings.Repeat(" ", indent))
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil

	case "msgpack":
		return msgpack.Marshal(v)

	default:
		return yaml.MarshalWithOptions(v, yaml.Indent(max(indent, 1)))
	}
}
