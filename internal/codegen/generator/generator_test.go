package generator

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/Alia5/dummystub/internal/codegen/common"
	"github.com/Alia5/dummystub/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func keyTree() *schema.Field {
	return &schema.Field{
		Name:     "Key",
		Category: schema.CategoryComposite,
		TypeName: "Key",
		SubFields: []*schema.Field{
			{Name: "id", Offset: 0, Category: schema.CategoryPrimitive, Kind: schema.KindInt32, TypeName: "int32"},
			{Name: "values", Offset: 8, Category: schema.CategoryListOf, ElemCategory: schema.CategoryPrimitive,
				Kind: schema.KindInt32, TypeName: "int32[]", ElemTypeName: "int32"},
		},
	}
}

const keyJSON = `[{"Name":"Key","Offset":0,"Type":{"IsListLike":false,"TypeName":"Key"},"SubFields":[{"Name":"id","Offset":0,"Type":{"IsListLike":false,"TypeName":"int32"},"SubFields":null},{"Name":"values","Offset":8,"Type":{"IsListLike":true,"TypeName":"int32"},"SubFields":null}]}]`

const keyStub = "class Key:\n\tid: int\n\tvalues: list[int]\n"

func TestRenderKeyExample(t *testing.T) {
	g := New(common.DefaultOptions(), discard())
	roots := []*schema.Field{keyTree()}

	js, err := g.Render(FormatJSON, roots)
	require.NoError(t, err)
	assert.Equal(t, keyJSON, string(js))

	py, err := g.Render(FormatPython, roots)
	require.NoError(t, err)
	assert.Equal(t, keyStub, string(py))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := New(common.DefaultOptions(), discard()).Render("xml", nil)
	assert.ErrorContains(t, err, "unsupported format")
	assert.Equal(t, []string{"json", "python"}, Formats())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	g := New(common.DefaultOptions(), discard())
	roots := []*schema.Field{keyTree()}

	py := filepath.Join(dir, "out.py")
	js := filepath.Join(dir, "out.json")
	require.NoError(t, g.WriteFile(FormatPython, py, roots))
	require.NoError(t, g.WriteFile(FormatJSON, js, roots))

	data, err := os.ReadFile(py)
	require.NoError(t, err)
	assert.Equal(t, keyStub, string(data))
	data, err = os.ReadFile(js)
	require.NoError(t, err)
	assert.JSONEq(t, keyJSON, string(data))

	assert.Error(t, g.WriteFile(FormatJSON, filepath.Join(dir, "missing", "out.json"), roots))
}

type jsonNode struct {
	Name      string
	Offset    int64
	SubFields []jsonNode
}

func collect(n jsonNode, set map[string]bool) {
	for _, c := range n.SubFields {
		set[c.Name+"@"+strconv.FormatInt(c.Offset, 16)] = true
		collect(c, set)
	}
}

func TestStubAndJSONAgree(t *testing.T) {
	item := &schema.Field{
		Name: "items", Offset: 0x18, Category: schema.CategoryListOf, ElemCategory: schema.CategoryComposite,
		TypeName: "List<Item>", ElemTypeName: "Item",
		SubFields: []*schema.Field{
			{Name: "count", Offset: 0x10, Kind: schema.KindInt16, TypeName: "Int16"},
			{Name: "label", Offset: 0x18, Kind: schema.KindString, TypeName: "String"},
		},
	}
	root := keyTree()
	root.SubFields = append(root.SubFields, item)

	opts := common.DefaultOptions()
	opts.OffsetComments = true
	g := New(opts, discard())

	py, err := g.Render(FormatPython, []*schema.Field{root})
	require.NoError(t, err)
	js, err := g.Render(FormatJSON, []*schema.Field{root})
	require.NoError(t, err)

	stub := map[string]bool{}
	line := regexp.MustCompile(`(?m)^\t(\w+): \S+ # 0x([0-9A-F]+)$`)
	for _, m := range line.FindAllStringSubmatch(string(py), -1) {
		off, err := strconv.ParseInt(m[2], 16, 64)
		require.NoError(t, err)
		stub[m[1]+"@"+strconv.FormatInt(off, 16)] = true
	}

	var nodes []jsonNode
	require.NoError(t, json.Unmarshal(js, &nodes))
	fromJSON := map[string]bool{}
	collect(nodes[0], fromJSON)

	assert.Equal(t, fromJSON, stub)
	assert.Len(t, stub, 5)
}
