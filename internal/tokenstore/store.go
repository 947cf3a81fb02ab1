// Package tokenstore holds the persisted auth token the API client reads.
//
// A Store is a read-only key-value lookup; the client only ever asks for
// TokenKey. File adds Set and Delete for the login/logout commands.
package tokenstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// TokenKey is the key the auth token is stored under.
const TokenKey = "token"

const tokenFilePermission = 0o600

// ErrTokenStore wraps every persistence failure of File.
var ErrTokenStore = errors.New("token store")

// Store looks up a stored value. ok is false when the key is absent.
type Store interface {
	Get(key string) (value string, ok bool)
}

// Memory is an in-process Store.
type Memory map[string]string

// Get implements Store.
func (m Memory) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// File is a Store backed by a dotenv file (KEY=value lines).
// Every Get reads the file again, so tokens written by another process are
// picked up on the next request.
type File struct {
	path string
}

// NewFile returns a File store for path. The file need not exist yet.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Get implements Store. An unreadable file reads as empty.
func (f *File) Get(key string) (string, bool) {
	values, err := f.read()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

// Set stores value under key, creating the file if needed.
func (f *File) Set(key, value string) error {
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

// Delete removes key. Deleting from a missing file is a no-op.
func (f *File) Delete(key string) error {
	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

func (f *File) read() (map[string]string, error) {
	values, err := godotenv.Read(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTokenStore, f.path, err)
	}
	return values, nil
}

func (f *File) write(values map[string]string) error {
	if err := godotenv.Write(values, f.path); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrTokenStore, f.path, err)
	}
	if err := os.Chmod(f.path, tokenFilePermission); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrTokenStore, f.path, err)
	}
	return nil
}
