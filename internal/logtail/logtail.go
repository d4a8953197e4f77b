package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const blockSize = 4096

// Tail returns at most maxLines lines from the end of the file at path,
// oldest first. It reads backwards in blocks so only the tail is loaded. A
// missing file yields no lines; maxLines <= 0 returns every line.
func Tail(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	var buf []byte
	if maxLines <= 0 {
		if buf, err = io.ReadAll(file); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
	} else {
		if buf, err = readTail(file, info.Size(), maxLines); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
	}
	return splitLines(buf, maxLines), nil
}

// readTail reads blocks from the end of r until it holds more than maxLines
// line breaks or reaches the start of the file.
func readTail(r io.ReaderAt, size int64, maxLines int) ([]byte, error) {
	var buf []byte
	offset := size
	for offset > 0 && bytes.Count(buf, []byte{'\n'}) <= maxLines {
		n := int64(blockSize)
		if offset < n {
			n = offset
		}
		offset -= n
		block := make([]byte, n)
		if _, err := r.ReadAt(block, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		buf = append(block, buf...)
	}
	if offset > 0 {
		// Drop the partial first line.
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			buf = buf[i+1:]
		}
	}
	return buf, nil
}

func splitLines(buf []byte, maxLines int) []string {
	text := strings.TrimRight(string(buf), "\r\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Level extracts the level from a line written by slog's text handler. It
// reports false when the line carries no level.
func Level(line string) (slog.Level, bool) {
	idx := strings.Index(line, "level=")
	if idx < 0 {
		return 0, false
	}
	value := line[idx+len("level="):]
	if end := strings.IndexByte(value, ' '); end >= 0 {
		value = value[:end]
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, false
	}
	return level, true
}
