// Package store reads and writes descriptor files under a single root
// directory. Documents keep their authored key order through a round trip,
// and the on-disk format follows the file extension: YAML for .yaml and
// .yml paths, two-space indented JSON for .json paths.
package store

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/goccy/go-yaml"
)

// Reader provides read access to descriptor files.
type Reader interface {
	// Read parses the descriptor file at a root-relative path into an
	// ordered document.
	Read(path string) (descriptors.Document, error)

	// Exists reports whether a descriptor file exists at a root-relative path.
	Exists(path string) bool
}

// Writer persists descriptor documents.
type Writer interface {
	// Write serializes a document to a root-relative path, creating parent
	// directories as needed.
	Write(path string, doc descriptors.Document) error
}

// Walker discovers descriptor files under the root.
type Walker interface {
	// Walk returns the sorted root-relative paths of every descriptor file
	// of a kind under the root. Dot-directories are skipped.
	Walk(kind descriptors.Kind) ([]string, error)

	// Root returns the absolute root directory of the store.
	Root() string
}

// Store is the complete descriptor file store.
type Store interface {
	Reader
	Writer
	Walker
}

// Compile-time interface checks
var (
	_ Store  = (*fileStore)(nil)
	_ Reader = (*fileStore)(nil)
	_ Writer = (*fileStore)(nil)
	_ Walker = (*fileStore)(nil)
)

// fileStore implements Store over a directory tree.
type fileStore struct {
	root string
}

// New creates a Store rooted at an existing directory.
func New(root string) (Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapIO("resolve", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.WrapIO("stat", abs, err)
	}
	if !info.IsDir() {
		return nil, errors.NewConfigError("store", abs+" is not a directory", nil)
	}
	return &fileStore{root: abs}, nil
}

// Read parses the descriptor file at a root-relative path. A document whose
// top level is not a mapping is a parse failure.
func (s *fileStore) Read(path string) (descriptors.Document, error) {
	if err := supportedExt(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.abs(path))
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var doc descriptors.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse(formatFor(path), path, err)
	}
	return doc, nil
}

// Exists reports whether a regular file exists at a root-relative path.
func (s *fileStore) Exists(path string) bool {
	info, err := os.Stat(s.abs(path))
	return err == nil && !info.IsDir()
}

// Write serializes a document to a root-relative path. The document lands
// atomically: it is written to a temp file in the target directory and
// renamed into place.
func (s *fileStore) Write(path string, doc descriptors.Document) error {
	data, err := encode(path, doc)
	if err != nil {
		return err
	}

	full := s.abs(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(full)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// Walk returns the sorted root-relative paths of every file matching the
// kind's suffixes, skipping dot-directories.
func (s *fileStore) Walk(kind descriptors.Kind) ([]string, error) {
	suffixes := kind.FileSuffixes()
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapIO("walk", path, err)
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(d.Name(), suffix) {
				rel, relErr := filepath.Rel(s.root, path)
				if relErr != nil {
					return errors.WrapIO("walk", path, relErr)
				}
				paths = append(paths, filepath.ToSlash(rel))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Root returns the absolute root directory of the store.
func (s *fileStore) Root() string {
	return s.root
}

func (s *fileStore) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// encode serializes a document in the format the path's extension names.
func encode(path string, doc descriptors.Document) ([]byte, error) {
	switch filepath.Ext(path) {
	case constants.JSONSuffix:
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case constants.YAMLSuffix, constants.YMLSuffix:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
		return data, nil
	default:
		return nil, unsupportedExt(path)
	}
}

// supportedExt rejects paths whose extension names no descriptor format.
func supportedExt(path string) error {
	switch filepath.Ext(path) {
	case constants.YAMLSuffix, constants.YMLSuffix, constants.JSONSuffix:
		return nil
	}
	return unsupportedExt(path)
}

func unsupportedExt(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return errors.NewParseError(ext, path, "unsupported descriptor file extension", nil)
}

// formatFor names the serialization format for a path, for error reporting.
func formatFor(path string) string {
	if filepath.Ext(path) == constants.JSONSuffix {
		return "json"
	}
	return "yaml"
}
