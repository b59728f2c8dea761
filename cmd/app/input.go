package main

import (
	"fmt"
	"io"
	"strings"
)

// inputText joins args with spaces, or reads all of r when there are none.
func inputText(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
