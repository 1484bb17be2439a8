// Package storage contains the default [domain.Storage] implementation.
package storage

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// Storage implements domain.Storage.
type Storage struct{}

// NewStorage returns a new implementation of domain.Storage.
func NewStorage() domain.Storage {
	return &Storage{}
}

// CrashSafeWriteFile implements domain.Storage. The data is written to a
// temporary file suffixed with '~', fsynced and renamed over the target, so
// a crash mid-write leaves either the old or the new content, never a
// partial file.
func (d *Storage) CrashSafeWriteFile(filename string, data []byte, dirMode, fileMode os.FileMode) error {
	tempFilename := filename + "~"

	if err := d.flushToStorage(filepath.Dir(filename), true, dirMode); err != nil {
		return err
	}

	exists, err := d.Exists(filename)
	if err != nil {
		return err
	}

	if exists {
		if err := d.flushToStorage(filename, false, fileMode); err != nil {
			return err
		}
	}

	if err := d.writeFile(tempFilename, data, fileMode); err != nil {
		return err
	}

	if err := d.flushToStorage(tempFilename, false, fileMode); err != nil {
		return err
	}

	if err := os.Rename(tempFilename, filename); err != nil {
		return err
	}

	return d.flushToStorage(filepath.Dir(filename), true, dirMode)
}

// EnsureParentDirectoryExists implements domain.Storage.
func (d *Storage) EnsureParentDirectoryExists(filename string, mode os.FileMode) error {
	dir := filepath.Dir(filename)
	parsedDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	root := filepath.VolumeName(parsedDir) + string(os.PathSeparator)
	if runtime.GOOS != "windows" || parsedDir != root || filepath.Base(parsedDir) != "" {
		return os.MkdirAll(parsedDir, mode)
	}
	return nil
}

// Exists implements domain.Storage.
func (d *Storage) Exists(filename string) (bool, error) {
	_, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadFile implements domain.Storage.
func (d *Storage) ReadFile(filename string, mode os.FileMode) ([]byte, error) {
	f, err := os.OpenFile(filename, os.O_RDONLY, mode)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Remove implements domain.Storage.
func (d *Storage) Remove(filename string) error {
	return os.Remove(filename)
}

func (d *Storage) flushToStorage(filename string, isDir bool, mode os.FileMode) error {
	flags := os.O_RDWR
	if isDir {
		flags = os.O_RDONLY
	}

	fileHandle, err := os.OpenFile(filename, flags, mode)
	if err != nil {
		return err
	}

	if err := fileHandle.Sync(); err != nil {
		_ = fileHandle.Close()
		return err
	}

	return fileHandle.Close()
}

func (d *Storage) writeFile(filename string, data []byte, mode os.FileMode) error {
	stream, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer stream.Close()
	_, err = stream.Write(data)
	return err
}
