package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Alia5/dummystub/internal/codegen/common"
	"github.com/Alia5/dummystub/internal/codegen/generator"
	"github.com/Alia5/dummystub/internal/log"
	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/Alia5/dummystub/internal/metadata/loader"
	"github.com/Alia5/dummystub/internal/schema"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Dump builds schema trees for the requested root types and writes Python
// stubs and/or JSON.
type Dump struct {
	AssemblyCSharp string `name:"assembly-csharp" short:"a" required:"" type:"path" help:"Metadata to dump: C# declarations (.cs file or directory), a manifest (.yaml/.json/.toml) or Go sources" env:"DUMMYSTUB_ASSEMBLY_CSHARP"`
	Il2CppDummyDll string `name:"il2cpp-dummy-dll" short:"i" required:"" type:"path" help:"Input declaring the offset annotation type" env:"DUMMYSTUB_IL2CPP_DUMMY_DLL"`
	OutputPy       string `name:"output-py" short:"p" type:"path" help:"Python stub output path"`
	OutputJSON     string `name:"output-json" short:"j" type:"path" help:"JSON output path"`

	Types           []string `name:"type" short:"t" default:"GameInformation" help:"Root type to dump, repeatable"`
	OffsetAttribute string   `default:"FieldOffsetAttribute" help:"Attribute type carrying field offsets"`
	OffsetField     string   `default:"Offset" help:"Attribute member holding the hex offset"`

	OffsetComments bool              `help:"Append the hex offset as a comment to every stub field"`
	Header         bool              `help:"Start the stub file with a generated-file notice"`
	ArrayType      string            `default:"list" help:"Container annotation for list-like stub fields"`
	JSONIndent     string            `name:"json-indent" help:"Indent JSON output with this string (compact when empty)"`
	TypeNames      map[string]string `name:"type-name" help:"Override the stub type name of a primitive kind, e.g. Int16=int"`

	ListContainers    []string `name:"list-container" help:"Additional generic list container type names"`
	MapContainers     []string `name:"map-container" help:"Additional map container type names"`
	RecurseInterfaces bool     `name:"recurse-interfaces" negatable:"" default:"true" help:"Expand fields typed as interfaces"`
	Parallel          int      `default:"1" help:"Build up to N root types concurrently"`

	out io.Writer `kong:"-"`
}

// Validate rejects missing inputs and output paths without a parent directory.
func (d *Dump) Validate() error {
	for flag, p := range map[string]string{"--assembly-csharp": d.AssemblyCSharp, "--il2cpp-dummy-dll": d.Il2CppDummyDll} {
		if p == "" {
			return errors.Newf("%s must not be empty", flag)
		}
		if _, err := os.Stat(p); err != nil {
			return errors.Newf("%s: %s does not exist", flag, p)
		}
	}
	for flag, p := range map[string]string{"--output-py": d.OutputPy, "--output-json": d.OutputJSON} {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return errors.Newf("%s: directory %s does not exist", flag, dir)
		}
	}
	if len(d.Types) == 0 {
		return errors.New("--type: at least one root type is required")
	}
	if d.Parallel < 0 {
		return errors.New("--parallel must not be negative")
	}
	return nil
}

// Run is called by Kong when the dump command is executed.
func (d *Dump) Run(logger *slog.Logger, dumper log.TreeDumper) error {
	start := time.Now()

	logger.Info("Loading metadata", "assembly", d.AssemblyCSharp)
	assembly, err := loader.Open(d.AssemblyCSharp)
	if err != nil {
		return errors.Wrap(err, "load assembly metadata")
	}
	logger.Debug("Loaded assembly metadata", "types", assembly.Len())

	logger.Info("Loading offset annotation", "input", d.Il2CppDummyDll)
	annotations, err := loader.Open(d.Il2CppDummyDll)
	if err != nil {
		return errors.Wrap(err, "load annotation metadata")
	}
	offsets, err := metadata.NewOffsetLocator(annotations, d.OffsetAttribute, d.OffsetField)
	if err != nil {
		return err
	}

	if d.OutputPy == "" && d.OutputJSON == "" {
		return errors.WithHint(errors.New("no output requested"), "pass --output-py/-p and/or --output-json/-j")
	}

	builder := schema.NewBuilder(assembly, offsets, d.policy(), logger)
	roots, err := builder.BuildAll(d.Types, d.Parallel)
	if err != nil {
		return err
	}
	for _, r := range roots {
		logger.Info("Built schema", "type", r.Name, "fields", len(r.SubFields))
		dumper.Dump(r.Name, r)
	}

	opts, err := d.options()
	if err != nil {
		return err
	}
	gen := generator.New(opts, logger)
	if d.OutputPy != "" {
		if err := gen.WriteFile(generator.FormatPython, d.OutputPy, roots); err != nil {
			return err
		}
	}
	if d.OutputJSON != "" {
		if err := gen.WriteFile(generator.FormatJSON, d.OutputJSON, roots); err != nil {
			return err
		}
	}

	d.summary(roots, time.Since(start))
	return nil
}

func (d *Dump) policy() schema.Policy {
	p := schema.DefaultPolicy()
	p.ListContainers = append(p.ListContainers, d.ListContainers...)
	p.MapContainers = append(p.MapContainers, d.MapContainers...)
	p.RecurseInterfaces = d.RecurseInterfaces
	return p
}

func (d *Dump) options() (common.Options, error) {
	opts := common.DefaultOptions()
	names, err := opts.Names.With(d.TypeNames)
	if err != nil {
		return opts, errors.Wrap(err, "--type-name")
	}
	opts.Names = names
	if d.ArrayType != "" {
		opts.ArrayType = d.ArrayType
	}
	opts.OffsetComments = d.OffsetComments
	opts.JSONIndent = d.JSONIndent
	if d.Header {
		opts.Header = common.FileHeader(d.AssemblyCSharp)
	}
	return opts, nil
}

func (d *Dump) summary(roots []*schema.Field, took time.Duration) {
	out := d.out
	if out == nil {
		out = os.Stdout
	}
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s %d root type(s), %d class(es) in %s\n",
		ok("Dumped"), len(roots), len(schema.Flatten(roots...)), took.Round(time.Millisecond))
	for _, p := range []string{d.OutputPy, d.OutputJSON} {
		if p != "" {
			fmt.Fprintf(out, "  %s %s\n", dim("->"), p)
		}
	}
}
