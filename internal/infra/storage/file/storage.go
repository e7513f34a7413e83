// Package file persists the alert destination on the local filesystem. It is
// the default storage backend when no Redis address is configured.
package file

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// defaultDirName is the directory created under the user configuration
// directory when no base directory is given.
const defaultDirName = "monitor"

type storage struct {
	// path is the file holding the destination for this working directory.
	path string
}

// workdirTag derives a short stable identifier from the process working
// directory. Deployments run from different directories get their own
// destination file even when they share a base directory.
func workdirTag() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(wd))
	return hex.EncodeToString(sum[:])[:12], nil
}

// NewStorage creates a file-backed destination store under baseDir, creating
// the directory if needed. An empty baseDir falls back to
// os.UserConfigDir()/monitor.
func NewStorage(baseDir string) (*storage, error) {
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(configDir, defaultDirName)
	}

	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, err
	}

	tag, err := workdirTag()
	if err != nil {
		return nil, err
	}

	return &storage{
		path: filepath.Join(baseDir, "destination-"+tag),
	}, nil
}
