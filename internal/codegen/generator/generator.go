package generator

import (
	"log/slog"
	"os"
	"sort"

	"github.com/Alia5/dummystub/internal/codegen/common"
	"github.com/Alia5/dummystub/internal/codegen/generator/jsondump"
	"github.com/Alia5/dummystub/internal/codegen/generator/python"
	"github.com/Alia5/dummystub/internal/schema"
	"github.com/cockroachdb/errors"
)

const (
	FormatPython = "python"
	FormatJSON   = "json"
)

type Generator struct {
	opts   common.Options
	logger *slog.Logger
}

// Emitter renders schema trees into an owned buffer.
type Emitter func(logger *slog.Logger, roots []*schema.Field, opts common.Options) ([]byte, error)

var emitters = map[string]Emitter{
	FormatPython: python.Generate,
	FormatJSON:   jsondump.Generate,
}

func New(opts common.Options, logger *slog.Logger) *Generator {
	return &Generator{
		opts:   opts,
		logger: logger,
	}
}

// Formats lists the supported output formats.
func Formats() []string {
	var out []string
	for k := range emitters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (g *Generator) Render(format string, roots []*schema.Field) ([]byte, error) {
	emit, ok := emitters[format]
	if !ok {
		return nil, errors.Newf("unsupported format '%s' (supported: %v)", format, Formats())
	}
	return emit(g.logger, roots, g.opts)
}

// WriteFile renders roots and writes the document to path in one write.
func (g *Generator) WriteFile(format, path string, roots []*schema.Field) error {
	data, err := g.Render(format, roots)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s output", format)
	}
	g.logger.Info("Wrote output", "format", format, "path", path, "bytes", len(data))
	return nil
}
