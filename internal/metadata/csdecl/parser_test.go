package csdecl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assemblySource = `using System;
using System.Collections.Generic;
using Il2CppDummyDll;

// Namespace: Game
namespace Game
{
	[Token(Token = "0x2000002")]
	public class GameInformation : BaseInformation // TypeDefIndex: 2
	{
		[Token(Token = "0x4000001")]
		[FieldOffset(Offset = "0x10")]
		public int id; // 0x10

		[FieldOffset(Offset = "0x18")]
		public List<Item> items;

		[FieldOffset(Offset = "0x20")]
		public float[,] grid;

		[FieldOffset(Offset = "0x28")]
		public Dictionary<string, int[]> lookup;

		[FieldOffset(Offset = "0x30")]
		private int hidden;

		public const int Version = 3;

		public static GameInformation Instance;

		[FieldOffset(Offset = "0x38")]
		public State state;

		[FieldOffset(Offset = "0x40")]
		public int x, y;

		public event Action Changed;

		public int Count { get; set; }

		public string Label => "label";

		public int this[int index] { get { return 0; } }

		[Address(RVA = "0x1000", Offset = "0x1000", VA = "0x181001000")]
		public GameInformation() : base() { }

		[Address(RVA = "0x1010")]
		public T Get<T>(Func<T, bool> pred) where T : class { return default(T); }

		public enum State
		{
			Idle = 0,
			Running = 1,
		}

		public struct Nested
		{
			[FieldOffset(Offset = "0x0")]
			public short flags;
		}
	}

	public class BaseInformation
	{
		[FieldOffset(Offset = "0x8")]
		public string name;
	}

	public interface IThing
	{
	}
}
`

const annotationSource = `using System;

namespace Il2CppDummyDll
{
	[AttributeUsage(AttributeTargets.Field | AttributeTargets.Property, Inherited = false)]
	public class FieldOffsetAttribute : Attribute
	{
		public string Offset;
	}
}
`

func TestParseAssembly(t *testing.T) {
	reg := metadata.NewRegistry()
	require.NoError(t, Parse("Assembly-CSharp.cs", []byte(assemblySource), reg))

	info, err := reg.Resolve("GameInformation")
	require.NoError(t, err)
	assert.Equal(t, "Game", info.Namespace)
	assert.Equal(t, metadata.KindClass, info.Kind)
	require.NotNil(t, info.Base)
	assert.Equal(t, "BaseInformation", info.Base.Name)

	names := make([]string, len(info.Fields))
	for i, f := range info.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"id", "items", "grid", "lookup", "hidden", "Version", "Instance", "state", "x", "y"}, names)

	byName := map[string]metadata.Field{}
	for _, f := range info.Fields {
		byName[f.Name] = f
	}

	id := byName["id"]
	assert.True(t, id.Public)
	assert.False(t, id.Static)
	assert.Equal(t, "int", id.Type.Name)
	require.Len(t, id.Attributes, 2)
	assert.Equal(t, "FieldOffset", id.Attributes[1].Name)
	assert.Equal(t, []metadata.AttributeArg{{Name: "Offset", Value: "0x10"}}, id.Attributes[1].Args)

	assert.Equal(t, "List<Item>", byName["items"].Type.String())
	assert.Equal(t, "float[,]", byName["grid"].Type.String())
	assert.Equal(t, 2, byName["grid"].Type.Rank)
	assert.Equal(t, "Dictionary<string, int[]>", byName["lookup"].Type.String())
	assert.False(t, byName["hidden"].Public)
	assert.True(t, byName["Version"].Static)
	assert.True(t, byName["Instance"].Static)
	assert.Equal(t, "State", byName["state"].Type.Name)
	assert.Equal(t, byName["x"].Attributes, byName["y"].Attributes)

	state, err := reg.Resolve("GameInformation.State")
	require.NoError(t, err)
	assert.Equal(t, metadata.KindEnum, state.Kind)
	assert.Equal(t, "Game.GameInformation.State", state.FullName())

	nested, err := reg.Resolve("Nested")
	require.NoError(t, err)
	assert.Equal(t, metadata.KindStruct, nested.Kind)
	require.Len(t, nested.Fields, 1)
	assert.Equal(t, "flags", nested.Fields[0].Name)

	thing, err := reg.Resolve("Game.IThing")
	require.NoError(t, err)
	assert.Equal(t, metadata.KindInterface, thing.Kind)
}

func TestParseAnnotationType(t *testing.T) {
	reg := metadata.NewRegistry()
	require.NoError(t, Parse("Il2CppDummyDll.cs", []byte(annotationSource), reg))

	loc, err := metadata.NewOffsetLocator(reg, metadata.DefaultOffsetAttribute, metadata.DefaultOffsetField)
	require.NoError(t, err)
	assert.Equal(t, "FieldOffsetAttribute", loc.Attribute())

	asm := metadata.NewRegistry()
	require.NoError(t, Parse("Assembly-CSharp.cs", []byte(assemblySource), asm))
	info, err := asm.Resolve("GameInformation")
	require.NoError(t, err)
	raw, err := loc.Raw(info.Fields[0])
	require.NoError(t, err)
	assert.Equal(t, "0x10", raw)
}

func TestParseFileScopedNamespace(t *testing.T) {
	src := `namespace Game.Data;

public struct Vec { public float x; public float y; }
public unsafe struct Buffer { public fixed byte data[16]; }
`
	reg := metadata.NewRegistry()
	require.NoError(t, Parse("vec.cs", []byte(src), reg))

	vec, err := reg.Resolve("Game.Data.Vec")
	require.NoError(t, err)
	assert.Len(t, vec.Fields, 2)

	buf, err := reg.Resolve("Buffer")
	require.NoError(t, err)
	require.Len(t, buf.Fields, 1)
	assert.True(t, buf.Fields[0].Type.IsArray())
	assert.Equal(t, "byte[]", buf.Fields[0].Type.String())
}

func TestParseSyntaxError(t *testing.T) {
	err := Parse("broken.cs", []byte("public class { int"), metadata.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cs")
}

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
		rank int
	}{
		{"int", "int", 0},
		{"System.Int32[]", "Int32[]", 1},
		{"List<Item>", "List<Item>", 0},
		{"global::Game.Item", "Item", 0},
		{"int?", "int?", 0},
		{"List<int[]>", "List<int[]>", 0},
		{"Dictionary<string, List<int>>", "Dictionary<string, List<int>>", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ref, err := ParseTypeRef(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.String())
			assert.Equal(t, tt.rank, ref.Rank)
		})
	}

	jagged, err := ParseTypeRef("int[][]")
	require.NoError(t, err)
	require.True(t, jagged.IsArray())
	assert.True(t, jagged.Elem.IsArray())

	_, err = ParseTypeRef("List<")
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cs"), []byte(annotationSource), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.cs"), []byte(assemblySource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not c#"), 0o644))

	reg, err := Load(dir)
	require.NoError(t, err)
	_, err = reg.Resolve("FieldOffsetAttribute")
	assert.NoError(t, err)
	_, err = reg.Resolve("GameInformation")
	assert.NoError(t, err)

	_, err = Load(t.TempDir())
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.cs"))
	assert.Error(t, err)
	_, err = reg.Resolve("Missing")
	assert.True(t, errors.Is(err, metadata.ErrTypeNotFound))
}
