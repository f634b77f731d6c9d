package common

import (
	"fmt"
	"path/filepath"
)

// FileHeader is the generated-file notice placed on top of emitted stubs.
func FileHeader(source string) string {
	version, err := GetVersion()
	if err != nil {
		version = Version
	}
	return fmt.Sprintf("Generated by dummystub %s from %s.\nDo not edit.", version, filepath.Base(source))
}
