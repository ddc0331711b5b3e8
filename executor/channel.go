package executor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/modulrcloud/sputnik-rpc/constants"

	"github.com/google/uuid"
)

// TempChannel hands out one output path per read-mode run. The executor creates the file;
// the caller reads it and must Release it on every exit path.
type TempChannel struct {
	dir string
}

func NewTempChannel(dir string) *TempChannel {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempChannel{dir: dir}
}

func (c *TempChannel) Dir() string { return c.dir }

// Allocate returns a fresh path. It has no side effects on the filesystem.
func (c *TempChannel) Allocate() string {
	return filepath.Join(c.dir, constants.TempFilePrefix+uuid.NewString())
}

func (c *TempChannel) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return data, nil
}

// Release deletes the file. A file the executor never wrote is not an error.
func (c *TempChannel) Release(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
