package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
)

// LocalFile is looked up in the working directory.
const LocalFile = "marketsnap.yaml"

// XDGFile is looked up under the XDG config directories.
const XDGFile = "marketsnap/config.yaml"

// Find resolves the configuration file: explicit path first (it must
// exist), then ./marketsnap.yaml, then $XDG_CONFIG_HOME/marketsnap/config.yaml.
// It returns "" with a nil error when nothing is found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
			}
			return "", fmt.Errorf("config: stat %s: %w", explicit, err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(LocalFile); err == nil {
		return LocalFile, nil
	}
	if p, err := xdg.SearchConfigFile(XDGFile); err == nil {
		return p, nil
	}
	return "", nil
}

// Load finds and reads the configuration, falling back to Default when no
// file exists. The returned path is "" in that case.
func Load(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
