package main

import (
	"os"

	"github.com/Alia5/dummystub/internal/codegen/common"
	"github.com/Alia5/dummystub/internal/config"
	"github.com/Alia5/dummystub/internal/configpaths"
	"github.com/Alia5/dummystub/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

func main() {
	userCfg := configpaths.FindUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	version, err := common.GetVersion()
	if err != nil {
		version = "dev"
	}

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("dummystub"),
		kong.Description("Dump IL2CPP field offsets to Python stubs and JSON"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		// Config files in priority order; flags and env override their values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(log.Config{
		Level:   cli.Log.Level,
		File:    cli.Log.File,
		Verbose: cli.Verbose,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var dumper log.TreeDumper
	switch {
	case cli.Log.DumpFile != "":
		f, err := os.OpenFile(cli.Log.DumpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open dump file", "file", cli.Log.DumpFile, "error", err)
			dumper = log.NewTreeDumper(nil)
		} else {
			dumper = log.NewTreeDumper(f)
			closeFiles = append(closeFiles, f)
		}
	case log.ParseLevel(cli.Log.Level) <= log.LevelTrace:
		dumper = log.NewTreeDumper(os.Stdout)
	default:
		dumper = log.NewTreeDumper(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(dumper, (*log.TreeDumper)(nil))

	if err := ctx.Run(); err != nil {
		for _, h := range errors.GetAllHints(err) {
			_, _ = color.New(color.FgYellow).Fprintf(os.Stderr, "hint: %s\n", h)
		}
		for _, c := range closeFiles {
			_ = c.Close()
		}
		ctx.FatalIfErrorf(err)
	}
}
