package schema

import (
	"testing"

	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declNames(fields []*Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.DeclName()
	}
	return out
}

func TestFlattenOrderAndDedup(t *testing.T) {
	reg := metadata.NewRegistry()
	reg.Add(&metadata.TypeDescriptor{Name: "C", Fields: []metadata.Field{field("x", metadata.Named("int"), "0x0")}})
	reg.Add(&metadata.TypeDescriptor{Name: "A", Fields: []metadata.Field{field("c", metadata.Named("C"), "0x0")}})
	reg.Add(&metadata.TypeDescriptor{Name: "B", Fields: []metadata.Field{
		field("c", metadata.Named("C"), "0x0"),
		field("cs", metadata.ArrayOf(metadata.Named("C"), 1), "0x8"),
	}})
	reg.Add(&metadata.TypeDescriptor{Name: "Root", Fields: []metadata.Field{
		field("a", metadata.Named("A"), "0x10"),
		field("b", metadata.Named("B"), "0x18"),
		field("as", metadata.Named("List", metadata.Named("A")), "0x20"),
		field("n", metadata.Named("int"), "0x28"),
	}})
	reg.Add(&metadata.TypeDescriptor{Name: "Other", Fields: []metadata.Field{
		field("b", metadata.Named("B"), "0x10"),
	}})

	b := newBuilder(t, reg, DefaultPolicy())
	root, err := b.BuildRoot("Root")
	require.NoError(t, err)
	other, err := b.BuildRoot("Other")
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B", "Root"}, declNames(Flatten(root)))
	assert.Equal(t, []string{"C", "A", "B", "Root", "Other"}, declNames(Flatten(root, other)))
	assert.Equal(t, []string{"C", "B", "A", "Other", "Root"}, declNames(Flatten(other, root)))
}

func TestFlattenDependencyOrder(t *testing.T) {
	reg := metadata.NewRegistry()
	reg.Add(&metadata.TypeDescriptor{Name: "Leaf", Fields: []metadata.Field{field("v", metadata.Named("int"), "0x0")}})
	reg.Add(&metadata.TypeDescriptor{Name: "Mid", Fields: []metadata.Field{
		field("l", metadata.Named("List", metadata.Named("Leaf")), "0x0"),
	}})
	reg.Add(&metadata.TypeDescriptor{Name: "Top", Fields: []metadata.Field{
		field("m", metadata.ArrayOf(metadata.Named("Mid"), 1), "0x0"),
		field("l", metadata.Named("Leaf"), "0x8"),
	}})

	root, err := newBuilder(t, reg, DefaultPolicy()).BuildRoot("Top")
	require.NoError(t, err)
	flat := Flatten(root)

	pos := map[string]int{}
	for i, f := range flat {
		pos[f.DeclName()] = i
	}
	for _, f := range flat {
		for _, c := range f.SubFields {
			if c.Terminal() {
				continue
			}
			assert.Less(t, pos[c.DeclName()], pos[f.DeclName()], "%s declared after %s", c.DeclName(), f.DeclName())
		}
	}
	assert.Len(t, flat, 3)
}

func TestFlattenTerminalRoot(t *testing.T) {
	leaf := &Field{Name: "Empty", TypeName: "Empty", Category: CategoryComposite}
	assert.Empty(t, Flatten(leaf))
	assert.Empty(t, Flatten())
}
