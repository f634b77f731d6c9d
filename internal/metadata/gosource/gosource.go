// Package gosource loads type metadata from Go struct declarations.
//
// Offsets come from an `offset:"0x10"` struct tag. Exported fields are public,
// the first embedded struct acts as the base type and named basic types
// (type State int32) are treated as enumerations.
package gosource

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/cockroachdb/errors"
)

const OffsetTag = "offset"

// Load scans a .go file, or every non-test .go file of a directory.
func Load(path string) (*metadata.Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat go source")
	}
	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.go"))
		if err != nil {
			return nil, errors.Wrap(err, "glob package files")
		}
		sort.Strings(files)
	}

	reg := metadata.NewRegistry()
	fset := token.NewFileSet()
	scanned := 0
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		node, err := parser.ParseFile(fset, file, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", file)
		}
		scan(node, reg)
		scanned++
	}
	if scanned == 0 {
		return nil, errors.Newf("no go files in %s", path)
	}
	return reg, nil
}

// ParseSource scans a single Go source held in memory.
func ParseSource(filename string, src []byte, reg *metadata.Registry) error {
	node, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.SkipObjectResolution)
	if err != nil {
		return errors.Wrapf(err, "parse %s", filename)
	}
	scan(node, reg)
	return nil
}

func scan(node *ast.File, reg *metadata.Registry) {
	pkg := node.Name.Name
	for _, decl := range node.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Assign.IsValid() {
				continue
			}
			switch t := typeSpec.Type.(type) {
			case *ast.StructType:
				reg.Add(structType(pkg, typeSpec.Name.Name, t))
			case *ast.Ident:
				if isBasic(t.Name) {
					reg.Add(&metadata.TypeDescriptor{Name: typeSpec.Name.Name, Namespace: pkg, Kind: metadata.KindEnum})
				}
			case *ast.InterfaceType:
				reg.Add(&metadata.TypeDescriptor{Name: typeSpec.Name.Name, Namespace: pkg, Kind: metadata.KindInterface})
			}
		}
	}
}

func structType(pkg, name string, st *ast.StructType) *metadata.TypeDescriptor {
	desc := &metadata.TypeDescriptor{Name: name, Namespace: pkg, Kind: metadata.KindStruct}
	for _, field := range st.Fields.List {
		ref := typeRef(field.Type)

		if len(field.Names) == 0 {
			if desc.Base == nil {
				base := ref
				desc.Base = &base
			}
			continue
		}

		var offset string
		if field.Tag != nil {
			tag := strings.Trim(field.Tag.Value, "`")
			offset = reflect.StructTag(tag).Get(OffsetTag)
		}
		for _, n := range field.Names {
			if n.Name == "_" {
				continue
			}
			desc.Fields = append(desc.Fields, metadata.Field{
				Name:      n.Name,
				Type:      ref,
				Public:    ast.IsExported(n.Name),
				RawOffset: offset,
			})
		}
	}
	return desc
}

func typeRef(expr ast.Expr) metadata.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		return metadata.Named(t.Name)
	case *ast.StarExpr:
		// pointers are followed, the layout of the pointee is what gets dumped
		return typeRef(t.X)
	case *ast.ArrayType:
		return metadata.ArrayOf(typeRef(t.Elt), 1)
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return metadata.Named(ident.Name + "." + t.Sel.Name)
		}
		return metadata.Named(t.Sel.Name)
	case *ast.MapType:
		return metadata.Named("map", typeRef(t.Key), typeRef(t.Value))
	case *ast.IndexExpr:
		ref := typeRef(t.X)
		ref.Args = []metadata.TypeRef{typeRef(t.Index)}
		return ref
	case *ast.IndexListExpr:
		ref := typeRef(t.X)
		for _, idx := range t.Indices {
			ref.Args = append(ref.Args, typeRef(idx))
		}
		return ref
	default:
		return metadata.Named("unknown")
	}
}

func isBasic(name string) bool {
	switch name {
	case "bool", "string",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"byte", "rune", "float32", "float64":
		return true
	}
	return false
}
