package executor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modulrcloud/sputnik-rpc/constants"
)

func TestTempChannelAllocateIsUniqueAndSideEffectFree(t *testing.T) {
	dir := t.TempDir()
	channel := NewTempChannel(dir)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		path := channel.Allocate()
		if filepath.Dir(path) != dir {
			t.Fatalf("path %s is outside %s", path, dir)
		}
		if !strings.HasPrefix(filepath.Base(path), constants.TempFilePrefix) {
			t.Fatalf("path %s lacks the %s prefix", path, constants.TempFilePrefix)
		}
		if seen[path] {
			t.Fatalf("duplicate path %s", path)
		}
		seen[path] = true
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("Allocate must not create the file, stat err=%v", err)
		}
	}
}

func TestTempChannelDefaultsToSystemTempDir(t *testing.T) {
	if NewTempChannel("").Dir() != os.TempDir() {
		t.Fatalf("expected the system temp dir")
	}
}

func TestTempChannelReadMissingFile(t *testing.T) {
	channel := NewTempChannel(t.TempDir())

	_, err := channel.Read(channel.Allocate())

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("IOError should wrap the not-exist cause, got %v", err)
	}
}

func TestTempChannelReadAndRelease(t *testing.T) {
	channel := NewTempChannel(t.TempDir())
	path := channel.Allocate()

	if err := os.WriteFile(path, []byte{0x01, 0x02}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := channel.Read(path)
	if err != nil || len(data) != 2 {
		t.Fatalf("read: %v %x", err, data)
	}
	if err := channel.Release(path); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file still present after Release")
	}
	if err := channel.Release(path); err != nil {
		t.Fatalf("releasing twice must be a no-op, got %v", err)
	}
}
