// Package manifest loads type metadata from hand-written or exported
// YAML, JSON and TOML manifests.
//
// A manifest lists types with their fields in declaration order:
//
//	types:
//	  - name: Key
//	    fields:
//	      - {name: id, type: int32, offset: "0x0"}
//	      - {name: values, type: "int32[]", offset: "0x8"}
package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/Alia5/dummystub/internal/metadata/csdecl"
	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath derives the manifest format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	}
	return "", false
}

type Document struct {
	Types []Type `json:"types" yaml:"types" toml:"types"`
}

type Type struct {
	Name      string  `json:"name" yaml:"name" toml:"name"`
	Namespace string  `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	Kind      string  `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Base      string  `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	Fields    []Field `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
}

type Field struct {
	Name       string      `json:"name" yaml:"name" toml:"name"`
	Type       string      `json:"type" yaml:"type" toml:"type"`
	Offset     string      `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
	Static     bool        `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	Public     *bool       `json:"public,omitempty" yaml:"public,omitempty" toml:"public,omitempty"` // nil means public
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

type Attribute struct {
	Name string                  `json:"name" yaml:"name" toml:"name"`
	Args []metadata.AttributeArg `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*metadata.Registry, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, errors.Wrapf(metadata.ErrUnsupportedFormat, "manifest %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	reg, err := Decode(format, data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return reg, nil
}

// Decode unmarshals a manifest and converts it into a registry.
func Decode(format Format, data []byte) (*metadata.Registry, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, errors.Wrapf(metadata.ErrUnsupportedFormat, "manifest format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", format)
	}
	return doc.Registry()
}

// Registry converts the document into type descriptors.
func (d Document) Registry() (*metadata.Registry, error) {
	reg := metadata.NewRegistry()
	for i, t := range d.Types {
		if t.Name == "" {
			return nil, errors.Newf("types[%d]: missing name", i)
		}
		desc := &metadata.TypeDescriptor{
			Name:      t.Name,
			Namespace: t.Namespace,
			Kind:      metadata.ParseKind(t.Kind),
		}
		if t.Base != "" {
			base, err := csdecl.ParseTypeRef(t.Base)
			if err != nil {
				return nil, errors.Wrapf(err, "type %s base", t.Name)
			}
			desc.Base = &base
		}
		for _, f := range t.Fields {
			field, err := f.convert()
			if err != nil {
				return nil, errors.Wrapf(err, "type %s field %s", t.Name, f.Name)
			}
			desc.Fields = append(desc.Fields, field)
		}
		reg.Add(desc)
	}
	return reg, nil
}

func (f Field) convert() (metadata.Field, error) {
	if f.Name == "" {
		return metadata.Field{}, errors.New("missing name")
	}
	ref, err := csdecl.ParseTypeRef(f.Type)
	if err != nil {
		return metadata.Field{}, err
	}
	out := metadata.Field{
		Name:      f.Name,
		Type:      ref,
		Public:    f.Public == nil || *f.Public,
		Static:    f.Static,
		RawOffset: f.Offset,
	}
	for _, a := range f.Attributes {
		out.Attributes = append(out.Attributes, metadata.Attribute{Name: a.Name, Args: a.Args})
	}
	return out, nil
}
