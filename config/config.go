// Package config — .uitrans.yaml configuration file support.
//
// When a .uitrans.yaml file exists in the working directory, it supplies
// defaults for flags the user did not pass. Flags always win; the file
// is optional and its absence is never an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/uitrans/uitrans/langmeta"
)

// FileName is the default config file name.
const FileName = ".uitrans.yaml"

// File is the top-level .uitrans.yaml structure.
type File struct {
	// Bundle is the workbench bundle path. Empty means auto-discover.
	Bundle string `yaml:"bundle,omitempty"`
	// Languages is the default target language list.
	Languages []string `yaml:"languages,omitempty"`
	// BackupDir overrides the backup directory (default: "backups"
	// next to the translation store files).
	BackupDir string `yaml:"backup_dir,omitempty"`
	// StoreDir is where translation store files live (default ".").
	StoreDir string `yaml:"store_dir,omitempty"`
	// ChunkSize overrides the provider request size (default 50).
	ChunkSize int `yaml:"chunk_size,omitempty"`
	// SkipBackup disables the pre-substitution snapshot. Discouraged.
	SkipBackup bool `yaml:"skip_backup,omitempty"`
}

// Load reads .uitrans.yaml from dir. Returns nil when the file does not
// exist.
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, lang := range f.Languages {
		if !langmeta.IsSupported(lang) {
			return nil, fmt.Errorf("%s: unsupported language %q (supported: %v)",
				path, lang, langmeta.Supported())
		}
	}
	if f.ChunkSize < 0 {
		return nil, fmt.Errorf("%s: chunk_size must not be negative", path)
	}

	return &f, nil
}
