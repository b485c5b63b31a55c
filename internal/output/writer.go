// Package output writes converted messages to plain-text files.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteLines writes each line followed by a newline, replacing any existing
// file. Lines are written as is, without escaping.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return &WriteError{Path: path, Err: errors.Join(err, f.Close())}
		}
		if err := w.WriteByte('\n'); err != nil {
			return &WriteError{Path: path, Err: errors.Join(err, f.Close())}
		}
	}

	if err := w.Flush(); err != nil {
		return &WriteError{Path: path, Err: errors.Join(err, f.Close())}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// WriteText writes text verbatim, replacing any existing file.
func WriteText(path string, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
