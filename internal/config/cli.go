// Package config holds the root command-line structure shared by main and tests.
package config

import (
	"github.com/Alia5/dummystub/internal/cmd"

	"github.com/alecthomas/kong"
)

// Log configures the process logger.
type Log struct {
	Level    string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"DUMMYSTUB_LOG_LEVEL"`
	File     string `help:"Write logs to this file; console output then goes to stderr" type:"path" env:"DUMMYSTUB_LOG_FILE"`
	DumpFile string `name:"dump-file" help:"Write built schema trees to this file" type:"path" env:"DUMMYSTUB_LOG_DUMP_FILE"`
}

type CLI struct {
	Log        Log              `embed:"" prefix:"log."`
	Verbose    bool             `short:"v" help:"Shorthand for --log.level=debug"`
	ConfigFile string           `name:"config-file" help:"Configuration file to load before the default locations" type:"path" env:"DUMMYSTUB_CONFIG"`
	Version    kong.VersionFlag `help:"Print version and exit"`

	Dump   cmd.Dump          `cmd:"" default:"withargs" help:"Dump field offsets of IL2CPP types to Python stubs and JSON"`
	Config cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}
