package gosource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layoutSource = `package game

import "time"

type State int32

type Entity struct {
	Name string ` + "`offset:\"0x8\"`" + `
}

type GameInformation struct {
	Entity
	ID      int32            ` + "`offset:\"0x10\"`" + `
	Items   []*Item          ` + "`offset:\"0x18\"`" + `
	Lookup  map[string]int32 ` + "`offset:\"0x20\"`" + `
	State   State            ` + "`offset:\"0x28\"`" + `
	X, Y    float32          ` + "`offset:\"0x30\"`" + `
	Started time.Time        ` + "`offset:\"0x38\"`" + `
	secret  int32
	_       [4]byte
}

type Item struct {
	Count int16 ` + "`offset:\"0x0\"`" + `
}

type Alias = Item

type Thing interface{ Do() }
`

func TestParseSource(t *testing.T) {
	reg := metadata.NewRegistry()
	require.NoError(t, ParseSource("layout.go", []byte(layoutSource), reg))

	info, err := reg.Resolve("game.GameInformation")
	require.NoError(t, err)
	assert.Equal(t, metadata.KindStruct, info.Kind)
	require.NotNil(t, info.Base)
	assert.Equal(t, "Entity", info.Base.Name)

	var names []string
	for _, f := range info.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"ID", "Items", "Lookup", "State", "X", "Y", "Started", "secret"}, names)

	byName := map[string]metadata.Field{}
	for _, f := range info.Fields {
		byName[f.Name] = f
	}
	assert.Equal(t, "0x10", byName["ID"].RawOffset)
	assert.Equal(t, "int32", byName["ID"].Type.Name)
	assert.True(t, byName["Items"].Type.IsArray())
	assert.Equal(t, "Item", byName["Items"].Type.Elem.Name)
	assert.Equal(t, "map<string, int32>", byName["Lookup"].Type.String())
	assert.Equal(t, "0x30", byName["Y"].RawOffset)
	assert.Equal(t, "time.Time", byName["Started"].Type.Name)
	assert.False(t, byName["secret"].Public)
	assert.True(t, byName["ID"].Public)

	state, err := reg.Resolve("State")
	require.NoError(t, err)
	assert.Equal(t, metadata.KindEnum, state.Kind)

	thing, err := reg.Resolve("Thing")
	require.NoError(t, err)
	assert.Equal(t, metadata.KindInterface, thing.Kind)

	_, err = reg.Resolve("Alias")
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.go"), []byte(layoutSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout_test.go"), []byte("package game\n\ntype Fixture struct{}\n"), 0o644))

	reg, err := Load(dir)
	require.NoError(t, err)
	_, err = reg.Resolve("Item")
	assert.NoError(t, err)
	_, err = reg.Resolve("Fixture")
	assert.Error(t, err)

	_, err = Load(t.TempDir())
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.go")
	require.NoError(t, os.WriteFile(bad, []byte("package game\ntype {"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
