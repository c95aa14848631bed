package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ewwc/config"
	"github.com/ardnew/ewwc/log"
	"github.com/ardnew/ewwc/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdioKey struct{}
	stdio    struct {
		in       io.Reader
		out, err io.Writer
	}
)

// WithStdio returns a new context.Context whose commands read from in and
// write results to out and diagnostics to errOut. Nil streams fall back to
// the process's standard streams.
func WithStdio(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out, err: errOut})
}

func stdioFrom(ctx context.Context) stdio {
	s, _ := ctx.Value(stdioKey{}).(stdio)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.err == nil {
		s.err = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// document is a compiled configuration and the source it was compiled from.
type document struct {
	path   string
	source []byte
	config *config.Config
}

// open reads and compiles the document at path. On failure the error is
// rendered to the diagnostic stream and returned wrapped in
// [ErrInvalidConfig].
func open(
	ctx context.Context,
	path string,
	opts ...config.Option,
) (document, error) {
	doc, err := compile(ctx, path, opts...)
	if err != nil {
		return doc, doc.fail(ctx, err)
	}

	return doc, nil
}

// compile reads and compiles the document at path, or standard input when
// path is "-".
func compile(
	ctx context.Context,
	path string,
	opts ...config.Option,
) (document, error) {
	doc := document{path: path}

	var err error

	if path == stdinSource {
		doc.source, err = io.ReadAll(stdioFrom(ctx).in)
	} else {
		doc.source, err = os.ReadFile(path)
	}

	if err != nil {
		return doc, pkg.ErrIO.
			Describe("%s", path).
			Wrap(err).
			With(slog.String("path", path))
	}

	opts = append([]config.Option{
		config.WithContext(ctx),
		config.WithLogger(log.Default()),
	}, opts...)

	doc.config, err = config.ParseBytes(doc.source, opts...)
	if err != nil {
		return doc, err
	}

	log.DebugContext(ctx, "document compiled",
		slog.String("path", path),
		slog.Int("bytes", len(doc.source)),
		slog.Int("widgets", len(doc.config.WidgetNames())),
		slog.Int("windows", len(doc.config.WindowNames())))

	return doc, nil
}

// fail renders err against the document source and wraps it in
// [ErrInvalidConfig].
func (d document) fail(ctx context.Context, err error) error {
	Render(stdioFrom(ctx).err, d.path, d.source, err)

	return ErrInvalidConfig.
		Wrap(err).
		With(slog.String("file", d.path))
}
