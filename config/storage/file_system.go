package storage

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ErrMalformed is returned when a file exists but does not hold valid JSON.
var ErrMalformed = errors.New("malformed JSON")

const (
	dirPerm  = 0755
	filePerm = 0600
)

// Hooks replaced in tests to simulate an interrupted write.
var (
	renameFile = os.Rename
	syncFile   = func(f *os.File) error { return f.Sync() }
)

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadRaw returns the file contents. A missing file yields ok=false and no error.
// Content that is not valid JSON yields an error wrapping ErrMalformed.
func ReadRaw(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, true, fmt.Errorf("%s: %w", path, ErrMalformed)
	}
	return data, true, nil
}

// ReadJSON decodes the file into T
func ReadJSON[T any](path string) (T, bool, error) {
	var out T
	data, ok, err := ReadRaw(path)
	if err != nil || !ok {
		return out, ok, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, true, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return out, true, nil
}

// WriteJSON serializes v with two-space indentation and a trailing newline,
// then replaces path atomically.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, buf.Bytes())
}

// WriteRaw re-indents an already serialized JSON document, keeping key order,
// and replaces path atomically.
func WriteRaw(path string, data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("refusing to write %s: %w", filepath.Base(path), ErrMalformed)
	}
	out := bytes.TrimRight(pretty.PrettyOptions(data, prettyOptions), "\n")
	return writeAtomic(path, append(out, '\n'))
}

// writeAtomic writes to a sibling temp file and renames it over path, so a
// reader sees either the old or the new content. The temp file is removed on
// any failure.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath, err := tempName(path)
	if err != nil {
		return err
	}

	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = syncFile(tmpFile); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err = tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}
	if err = renameFile(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// tempName returns .<base>.<pid>.<unixnano>.<random>.tmp next to path.
func tempName(path string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate temporary name: %w", err)
	}
	name := fmt.Sprintf(".%s.%d.%d.%s.tmp",
		filepath.Base(path), os.Getpid(), time.Now().UnixNano(), hex.EncodeToString(suffix))
	return filepath.Join(filepath.Dir(path), name), nil
}
