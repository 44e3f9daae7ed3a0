package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDataset is the input file name used when none is given.
const DefaultDataset = "dataSet.csv"

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
// Missing parent directories are created.
func SafeWriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// ResolveDataset maps a CLI argument to an input file. An empty argument
// means DefaultDataset in the working directory; a directory means
// DefaultDataset inside it.
func ResolveDataset(arg string) (string, error) {
	if arg == "" {
		arg = DefaultDataset
	}
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("dataset %s: %w", arg, err)
	}
	if !info.IsDir() {
		return arg, nil
	}
	candidate := filepath.Join(arg, DefaultDataset)
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("no %s in %s", DefaultDataset, arg)
	}
	return candidate, nil
}
