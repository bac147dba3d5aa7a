package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigName is the config file name, without extension.
const ConfigName = "airfetch"

// SystemDir holds airfetch state inside a vault.
const SystemDir = ".airfetch"

// FindRoot looks upwards from startDir for a directory holding an airfetch
// config file or a .airfetch directory and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasConfig(dir) || hasFile(dir, SystemDir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasConfig(dir string) bool {
	for _, ext := range []string{"yaml", "yml", "toml", "json"} {
		if hasFile(dir, ConfigName+"."+ext) {
			return true
		}
	}
	return false
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
