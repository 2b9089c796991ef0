package transfer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Document is the result of a successful import.
type Document struct {
	Title   string
	Content string
}

// ImportError is a recoverable failure to import a file.
type ImportError struct {
	Path    string
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import %s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("import %s: %s", e.Path, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Import reads a text file and derives the title from its filename.
func Import(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, &ImportError{Path: path, Message: "unreadable file", Err: err}
	}

	if !isText(data) {
		return Document{}, &ImportError{Path: path, Message: "not a text file"}
	}

	return Document{
		Title:   TitleFromFilename(path),
		Content: string(data),
	}, nil
}

// Export writes content to "<title>.txt" inside dir and returns the
// written path. Path separators in the title are replaced so the file
// always lands in dir.
func Export(dir, title, content string) (string, error) {
	name := sanitizeFilename(title)
	if name == "" {
		name = "untitled"
	}

	path := filepath.Join(dir, name+".txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	return path, nil
}

// TitleFromFilename strips the directory and extension from a path.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	title := strings.TrimSuffix(base, ext)
	if title == "" {
		title = base
	}
	return title
}

// isText reports whether data looks like text: valid UTF-8 with no NUL
// bytes. Invalid UTF-8 is tolerated only for empty input.
func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	return utf8.Valid(data)
}

// sanitizeFilename removes path separators and trims whitespace.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, string(filepath.Separator), "-")
	name = strings.ReplaceAll(name, "/", "-")
	return name
}
