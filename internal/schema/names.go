package schema

import (
	"github.com/cockroachdb/errors"
)

// NameTable maps primitive kinds to target-language type names. KindOther is
// never looked up; such types keep their declared name.
type NameTable map[PrimitiveKind]string

// DefaultPythonNames is the name table of the stub emitter.
func DefaultPythonNames() NameTable {
	return NameTable{
		KindBool:    "bool",
		KindByte:    "int",
		KindSByte:   "int",
		KindInt16:   "short",
		KindUInt16:  "int",
		KindInt32:   "int",
		KindUInt32:  "int",
		KindInt64:   "int",
		KindUInt64:  "int",
		KindFloat:   "float",
		KindDouble:  "float",
		KindDecimal: "float",
		KindChar:    "str",
		KindString:  "str",
		KindEnum:    "int",
	}
}

// Resolve returns the mapped name for kind, or raw when there is none.
func (t NameTable) Resolve(kind PrimitiveKind, raw string) string {
	if kind == KindOther {
		return raw
	}
	if n, ok := t[kind]; ok {
		return n
	}
	return raw
}

// With returns a copy of t with overrides applied. Keys are kind names such
// as "Int16" or "enum".
func (t NameTable) With(overrides map[string]string) (NameTable, error) {
	out := make(NameTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for key, name := range overrides {
		k, err := ParsePrimitiveKind(key)
		if err != nil {
			return nil, errors.WithHint(err, "valid kinds: Bool, Byte, SByte, Int16, UInt16, Int32, UInt32, Int64, UInt64, Float, Double, Decimal, Char, String, Enum")
		}
		if k == KindOther {
			return nil, errors.New("the Other kind keeps declared names and cannot be renamed")
		}
		out[k] = name
	}
	return out, nil
}
