package cmd

import (
	"encoding/json"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/Alia5/dummystub/internal/configpaths"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file for a specific command.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"dump" default:"dump"`
	Format  string `help:"Output format" enum:"json,yaml,yml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to <command>.<ext> in the current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// logSection mirrors the root log flags so templates can carry them.
type logSection struct {
	Level    string `default:"info"`
	File     string
	DumpFile string `name:"dump-file"`
}

// Run generates a configuration template via reflection of the command struct tags.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return errors.Newf("unsupported format: %s", c.Format)
	}

	var cmdType reflect.Type
	switch c.Command {
	case "dump":
		cmdType = reflect.TypeOf(Dump{})
	default:
		return errors.WithHint(errors.Newf("unknown command %q", c.Command), "expected 'dump'")
	}
	root := Template(format, c.Command, cmdType)

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + configpaths.Extension(format)
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.WithHint(errors.Newf("%s already exists", dest), "use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	}
	if err != nil {
		return errors.Wrapf(err, "encode %s template", format)
	}
	return errors.Wrap(os.WriteFile(dest, data, 0o644), "write config template")
}

// Template builds the config document for a command. The JSON resolver looks
// flags up by snake_case name regardless of the command, the YAML and TOML
// resolvers nest them under the command name.
func Template(format, command string, cmdType reflect.Type) map[string]any {
	root := map[string]any{}
	keyOf := kebabKey
	if format == "json" {
		keyOf = snakeKey
	}
	root["log"] = buildMapFromStruct(reflect.TypeOf(logSection{}), keyOf)

	flags := buildMapFromStruct(cmdType, keyOf)
	if format == "json" {
		for k, v := range flags {
			root[k] = v
		}
	} else {
		root[command] = flags
	}
	return root
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// flagName is the kebab-case name kong derives for a field.
func flagName(f reflect.StructField) string {
	if n := f.Tag.Get("name"); n != "" {
		return n
	}
	var b strings.Builder
	r := []rune(f.Name)
	for i, c := range r {
		if unicode.IsUpper(c) {
			if i > 0 && (unicode.IsLower(r[i-1]) || (i+1 < len(r) && unicode.IsLower(r[i+1]))) {
				b.WriteByte('-')
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}

func kebabKey(f reflect.StructField) string { return flagName(f) }

func snakeKey(f reflect.StructField) string { return strings.ReplaceAll(flagName(f), "-", "_") }

func buildMapFromStruct(t reflect.Type, keyOf func(reflect.StructField) string) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("cmd"); ok {
			continue
		}
		if _, ok := f.Tag.Lookup("embed"); ok {
			sub := buildMapFromStruct(f.Type, keyOf)
			if name := strings.TrimSuffix(f.Tag.Get("prefix"), "."); name != "" {
				out[name] = sub
			} else {
				for k, v := range sub {
					out[k] = v
				}
			}
			continue
		}

		if val := defaultValueForField(f.Type, f.Tag.Get("default"), keyOf); val != nil {
			out[keyOf(f)] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def string, keyOf func(reflect.StructField) string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "time" && t.Name() == "Duration" {
		if def != "" {
			return def
		}
		return "0s"
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, _ := strconv.ParseBool(def)
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(def, 10, 64)
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, _ := strconv.ParseUint(def, 10, 64)
		return n
	case reflect.Float32, reflect.Float64:
		f, _ := strconv.ParseFloat(def, 64)
		return f
	case reflect.Slice:
		if t.Elem().Kind() != reflect.String {
			return nil
		}
		out := []string{}
		if def != "" {
			out = append(out, strings.Split(def, ",")...)
		}
		return out
	case reflect.Map:
		return map[string]string{}
	case reflect.Struct:
		return buildMapFromStruct(t, keyOf)
	default:
		return nil
	}
}
