package generator

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"gopkg.in/yaml.v3"

	"github.com/ardanlabs/bindgen/bindgen"
)

// Names returns the file names of a rendered set in sorted order.
func Names(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write writes every file into dir, creating it when needed, and returns
// the written paths.
func Write(dir string, files map[string]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", dir)
	}

	var paths []string
	for _, name := range Names(files) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0644); err != nil {
			return paths, errors.Wrapf(err, "writing %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Stale compares rendered files with the copies in dir and returns the
// names that are missing or differ.
func Stale(dir string, files map[string]string) ([]string, error) {
	var stale []string
	for _, name := range Names(files) {
		path := filepath.Join(dir, name)
		existing, err := os.ReadFile(path)
		switch {
		case oserror.IsNotExist(err):
			stale = append(stale, name)
		case err != nil:
			return nil, errors.Wrapf(err, "reading %s", path)
		case string(existing) != files[name]:
			stale = append(stale, name)
		}
	}
	return stale, nil
}

type symbolFile struct {
	Symbols []bindgen.Symbol `yaml:"symbols"`
}

// WriteSymbols encodes the symbol table as YAML in registration order.
func WriteSymbols(w io.Writer, table *bindgen.SymbolTable) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(symbolFile{Symbols: table.Symbols()}); err != nil {
		return errors.Wrap(err, "encoding symbol table")
	}
	return errors.Wrap(enc.Close(), "encoding symbol table")
}

// ReadSymbols decodes a symbol table written by WriteSymbols.
func ReadSymbols(r io.Reader) ([]bindgen.Symbol, error) {
	var f symbolFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding symbol table")
	}
	return f.Symbols, nil
}
