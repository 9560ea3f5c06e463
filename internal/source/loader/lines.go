package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// readLines reads r fully and rebuilds it line by line, terminating every
// line (including the last) with a single '\n'.
func readLines(r io.Reader, maxBytes int64) (string, error) {
	// maxBytes+1 overflows at MaxInt64.
	limited := r
	if maxBytes < math.MaxInt64 {
		limited = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("resource exceeds %d bytes", maxBytes)
	}
	if !utf8.Valid(data) {
		return "", errors.New("resource is not valid UTF-8")
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	var out strings.Builder
	out.Grow(len(data) + 1)
	for scanner.Scan() {
		out.WriteString(scanner.Text())
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return out.String(), nil
}
