package configpaths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	appDir    = "dummystub"
	systemDir = "/etc/dummystub"
)

// baseNames are the config file names probed in every directory.
var baseNames = []string{"dummystub", "config", "dump"}

// DefaultConfigDir returns the platform-specific configuration directory for dummystub.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, appDir), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDir), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appDir), nil
		}
		return "", errors.New("HOME not set")
	}
}

// Extension maps a config format to its file extension.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// If userPath is provided, it is prioritized and routed to the matching loader by extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(dir string) {
		for _, base := range baseNames {
			jsonPaths = append(jsonPaths, filepath.Join(dir, base+".json"))
			yamlPaths = append(yamlPaths, filepath.Join(dir, base+".yaml"), filepath.Join(dir, base+".yml"))
			tomlPaths = append(tomlPaths, filepath.Join(dir, base+".toml"))
		}
	}

	if userPath != "" {
		switch strings.ToLower(filepath.Ext(userPath)) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		add(wd)
	}
	if dir, err := DefaultConfigDir(); err == nil {
		add(dir)
	}
	if runtime.GOOS != "windows" {
		add(systemDir)
	}
	return
}

// FindUserConfig returns the --config-file argument, or DUMMYSTUB_CONFIG.
func FindUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if v, ok := strings.CutPrefix(a, "--config-file="); ok {
			return v
		}
		if a == "--config-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("DUMMYSTUB_CONFIG")
}
