// Package python renders schema trees as Python class stubs.
package python

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/dummystub/internal/codegen/common"
	"github.com/Alia5/dummystub/internal/schema"
)

// Generate declares every composite node of roots as a class, nested types
// first, one field line per child.
func Generate(logger *slog.Logger, roots []*schema.Field, opts common.Options) ([]byte, error) {
	if opts.Names == nil {
		opts.Names = schema.DefaultPythonNames()
	}
	if opts.ArrayType == "" {
		opts.ArrayType = "list"
	}

	w := NewClassWriter()
	if opts.Header != "" {
		w.WriteComment(opts.Header, 0)
	}

	classes := schema.Flatten(roots...)
	for _, c := range classes {
		WriteClass(w, c, opts)
	}
	logger.Debug("Rendered python stubs", "classes", len(classes))
	return w.Bytes(), nil
}

// WriteClass writes the declaration of one composite node at indent 0.
func WriteClass(w *ClassWriter, node *schema.Field, opts common.Options) {
	w.WriteClassDeclaration(common.PythonIdentifier(node.DeclName()), 0, "")
	for _, f := range node.SubFields {
		name := common.PythonIdentifier(f.Name)
		var comment string
		if opts.OffsetComments {
			comment = fmt.Sprintf("0x%X", f.Offset)
		}
		if f.IsListLike() {
			elem := opts.Names.Resolve(f.Kind, f.ElemTypeName)
			w.WriteFieldWithArrayType(name, typeName(f.Kind, elem), opts.ArrayType, 1, comment)
			continue
		}
		w.WriteField(name, typeName(f.Kind, opts.Names.Resolve(f.Kind, f.TypeName)), 1, comment)
	}
}

// typeName keeps mapped primitive names as they are and sanitizes declared ones.
func typeName(kind schema.PrimitiveKind, name string) string {
	if kind != schema.KindOther {
		return name
	}
	return common.PythonIdentifier(name)
}
