package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestFlagName(t *testing.T) {
	typ := reflect.TypeOf(Dump{})
	tests := map[string]string{
		"AssemblyCSharp":    "assembly-csharp",
		"OffsetAttribute":   "offset-attribute",
		"RecurseInterfaces": "recurse-interfaces",
		"JSONIndent":        "json-indent",
		"Parallel":          "parallel",
	}
	for field, want := range tests {
		f, ok := typ.FieldByName(field)
		require.True(t, ok, field)
		assert.Equal(t, want, flagName(f), field)
	}

	f, _ := reflect.TypeOf(struct{ HTTPServerAddr string }{}).FieldByName("HTTPServerAddr")
	assert.Equal(t, "http-server-addr", flagName(f))
}

func TestTemplateJSON(t *testing.T) {
	root := Template("json", "dump", reflect.TypeOf(Dump{}))

	assert.Equal(t, "FieldOffsetAttribute", root["offset_attribute"])
	assert.Equal(t, true, root["recurse_interfaces"])
	assert.Equal(t, int64(1), root["parallel"])
	assert.Equal(t, []string{"GameInformation"}, root["type"])
	assert.Equal(t, map[string]string{}, root["type_name"])
	assert.NotContains(t, root, "dump")
	assert.NotContains(t, root, "out")

	logs, ok := root["log"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "info", logs["level"])
	assert.Contains(t, logs, "dump_file")
}

func TestTemplateNested(t *testing.T) {
	root := Template("yaml", "dump", reflect.TypeOf(Dump{}))
	flags, ok := root["dump"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Offset", flags["offset-field"])
	assert.Contains(t, flags, "assembly-csharp")
	assert.Contains(t, root["log"], "dump-file")
}

func TestConfigInitRun(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			dest := filepath.Join(dir, "nested", "dump."+format)
			c := &ConfigInit{Command: "dump", Format: format, Output: dest}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			decoded := map[string]any{}
			switch format {
			case "json":
				require.NoError(t, json.Unmarshal(data, &decoded))
				assert.Equal(t, "Offset", decoded["offset_field"])
			case "yaml":
				require.NoError(t, yaml.Unmarshal(data, &decoded))
				assert.Equal(t, "Offset", decoded["dump"].(map[string]any)["offset-field"])
			case "toml":
				tree, err := toml.LoadBytes(data)
				require.NoError(t, err)
				assert.Equal(t, "Offset", tree.Get("dump.offset-field"))
			}

			err = c.Run()
			assert.ErrorContains(t, err, "already exists")
			c.Force = true
			assert.NoError(t, c.Run())
		})
	}
}

func TestConfigInitErrors(t *testing.T) {
	assert.ErrorContains(t, (&ConfigInit{Command: "dump", Format: "ini"}).Run(), "unsupported format")
	assert.ErrorContains(t, (&ConfigInit{Command: "serve", Format: "json"}).Run(), "unknown command")
}
