package common

import "github.com/Alia5/dummystub/internal/schema"

// Options configures the emitters.
type Options struct {
	Names          schema.NameTable
	ArrayType      string // container annotation for list-like fields, "list" by default
	OffsetComments bool   // trail each field line with its hex offset
	Header         string // optional notice, one comment line per text line
	JSONIndent     string // empty for compact JSON
}

func DefaultOptions() Options {
	return Options{
		Names:     schema.DefaultPythonNames(),
		ArrayType: "list",
	}
}
