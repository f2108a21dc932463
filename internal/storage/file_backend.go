package storage

import (
	"context"
	"fmt"
	"kickoff/internal/storage/interfaces"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

const fileExt = ".kv"

// FileBackend keeps one file per key, the desktop counterpart of browser local storage.
type FileBackend struct {
	mu         sync.Mutex
	dir        string
	compressor interfaces.CompressorInterface
}

func OpenFileBackend(dir string, compressor interfaces.CompressorInterface) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("file backend: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("file backend: directory not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return &FileBackend{dir: dir, compressor: compressor}, nil
}

func (f *FileBackend) Name() string {
	return "file"
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, err
	}
	return f.compressor.Decompress(data)
}

func (f *FileBackend) Set(_ context.Context, key string, value []byte) error {
	data, err := f.compressor.Compress(value)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fileName := f.path(key)
	tmpFile := fileName + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileBackend) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileBackend) Close() error {
	return nil
}
