// Package jsondump renders schema trees as nested JSON documents.
package jsondump

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/Alia5/dummystub/internal/codegen/common"
	"github.com/Alia5/dummystub/internal/schema"
	"github.com/cockroachdb/errors"
)

type Node struct {
	Name      string   `json:"Name"`
	Offset    int64    `json:"Offset"`
	Type      TypeInfo `json:"Type"`
	SubFields []*Node  `json:"SubFields"`
}

type TypeInfo struct {
	IsListLike bool   `json:"IsListLike"`
	TypeName   string `json:"TypeName"` // element type for list-like nodes
}

// FromField converts a schema tree. Terminal nodes keep nil SubFields and
// encode as null.
func FromField(f *schema.Field) *Node {
	n := &Node{
		Name:   f.Name,
		Offset: f.Offset,
		Type: TypeInfo{
			IsListLike: f.IsListLike(),
			TypeName:   f.DeclName(),
		},
	}
	if f.SubFields != nil {
		n.SubFields = make([]*Node, len(f.SubFields))
		for i, c := range f.SubFields {
			n.SubFields[i] = FromField(c)
		}
	}
	return n
}

// Generate encodes roots as a top-level array.
func Generate(logger *slog.Logger, roots []*schema.Field, opts common.Options) ([]byte, error) {
	nodes := make([]*Node, len(roots))
	for i, r := range roots {
		nodes[i] = FromField(r)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if opts.JSONIndent != "" {
		enc.SetIndent("", opts.JSONIndent)
	}
	if err := enc.Encode(nodes); err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	logger.Debug("Rendered json", "roots", len(nodes), "bytes", buf.Len())
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
