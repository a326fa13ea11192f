// Package binary provides bounds-checked fixed-offset reads over ROM images.
//
// Every accessor reports whether the requested range lies inside the data
// instead of panicking, so header parsers can map short files to a
// classification failure.
package binary

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// Slice returns data[offset:offset+n] if the whole range is inside data.
func Slice(data []byte, offset, n int) ([]byte, bool) {
	if offset < 0 || n < 0 || offset > len(data) || n > len(data)-offset {
		return nil, false
	}
	return data[offset : offset+n], true
}

// Uint8At reads a single byte at offset.
func Uint8At(data []byte, offset int) (uint8, bool) {
	if offset < 0 || offset >= len(data) {
		return 0, false
	}
	return data[offset], true
}

// Uint16LEAt reads a little-endian uint16 at offset.
func Uint16LEAt(data []byte, offset int) (uint16, bool) {
	buf, ok := Slice(data, offset, 2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(buf), true
}

// MatchAt reports whether the bytes at offset equal want.
// A range that runs past the end of data never matches.
func MatchAt(data []byte, offset int, want []byte) bool {
	buf, ok := Slice(data, offset, len(want))
	if !ok {
		return false
	}
	return bytes.Equal(buf, want)
}

// StringAt reads n bytes at offset as a string, trimming null bytes and spaces.
// Returns "" when the range is out of bounds.
func StringAt(data []byte, offset, n int) string {
	buf, ok := Slice(data, offset, n)
	if !ok {
		return ""
	}
	return CleanString(buf)
}

// PrintableAt reads n bytes at offset keeping only printable ASCII characters.
// Returns "" when the range is out of bounds.
func PrintableAt(data []byte, offset, n int) string {
	buf, ok := Slice(data, offset, n)
	if !ok {
		return ""
	}
	return ExtractPrintable(buf)
}

// CleanString converts bytes to a string, trimming null bytes and whitespace.
func CleanString(b []byte) string {
	// Find the first null byte
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(b[:end]))
}

// ExtractPrintable extracts only printable ASCII characters (0x20-0x7E) from bytes.
func ExtractPrintable(b []byte) string {
	var result strings.Builder
	for _, c := range b {
		if c >= 0x20 && c <= 0x7E {
			result.WriteByte(c)
		}
	}
	return strings.TrimSpace(result.String())
}
