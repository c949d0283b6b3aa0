// Package encoding provides text and path encoding helpers for packed game data.
package encoding

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF16LEToUTF8 converts little-endian UTF-16 code units to a UTF-8 string.
// A trailing odd byte is an error since it cannot form a code unit.
func UTF16LEToUTF8(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("utf-16 payload has odd length %d", len(data))
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decoding utf-16: %w", err)
	}
	return string(result), nil
}

// UTF8ToUTF16LE converts a UTF-8 string to little-endian UTF-16 code units.
func UTF8ToUTF16LE(s string) []byte {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return nil
	}
	return result
}

// NormalizePath converts backslash separators to forward slashes.
// Case is preserved; archive paths are compared exactly.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// SplitPath splits a normalized path into its non-empty segments.
func SplitPath(path string) []string {
	parts := strings.Split(NormalizePath(path), "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
