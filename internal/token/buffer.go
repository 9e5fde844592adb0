package token

import (
	"fmt"
	"strings"
)

// Buffer is a mutable, length-prefixed byte sequence with amortised-O(1)
// append. It backs both the lexer's raw input accumulation and the literal
// runs assembled while building WORD parts.
//
// Interior NULs are not special-cased; Len is always authoritative and
// String never stops early at a zero byte.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// BufferFromString returns a Buffer seeded with s.
func BufferFromString(s string) *Buffer {
	return &Buffer{data: []byte(s)}
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int { return len(b.data) }

// At returns the byte at index i.
func (b *Buffer) At(i int) byte { return b.data[i] }

// Slice returns the bytes in [start, end) as a string without copying the
// backing array.
func (b *Buffer) Slice(start, end int) string { return string(b.data[start:end]) }

// PushByte appends a single byte.
func (b *Buffer) PushByte(c byte) { b.data = append(b.data, c) }

// PopByte removes and returns the last byte. It panics if the buffer is
// empty, matching the precondition every caller in this package already
// checks via Len.
func (b *Buffer) PopByte() byte {
	n := len(b.data)
	c := b.data[n-1]
	b.data = b.data[:n-1]
	return c
}

// AppendBytes appends raw bytes.
func (b *Buffer) AppendBytes(p []byte) { b.data = append(b.data, p...) }

// AppendString appends the bytes of s.
func (b *Buffer) AppendString(s string) { b.data = append(b.data, s...) }

// Append appends the contents of another Buffer.
func (b *Buffer) Append(other *Buffer) { b.data = append(b.data, other.data...) }

// Printf appends a printf-formatted string, mirroring the assembly helper
// the lexer uses when it stitches together diagnostic text.
func (b *Buffer) Printf(format string, args ...interface{}) {
	fmt.Fprintf((*bufWriter)(b), format, args...)
}

// bufWriter adapts *Buffer to io.Writer for Printf without exporting a
// Write method that could be mistaken for a streaming API.
type bufWriter Buffer

func (w *bufWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

// Find returns the index of the first occurrence of sub, or -1.
func (b *Buffer) Find(sub string) int { return strings.Index(string(b.data), sub) }

// RFind returns the index of the last occurrence of sub, or -1.
func (b *Buffer) RFind(sub string) int { return strings.LastIndex(string(b.data), sub) }

// HasPrefix reports whether the buffer starts with s.
func (b *Buffer) HasPrefix(s string) bool { return strings.HasPrefix(string(b.data), s) }

// HasSuffix reports whether the buffer ends with s.
func (b *Buffer) HasSuffix(s string) bool { return strings.HasSuffix(string(b.data), s) }

// Compare does a lexicographic comparison against s, returning -1, 0 or 1.
func (b *Buffer) Compare(s string) int { return strings.Compare(string(b.data), s) }

// String returns the buffer's contents. Length is authoritative; the
// string is not truncated at an interior NUL.
func (b *Buffer) String() string { return string(b.data) }

// Reset empties the buffer while keeping its backing array.
func (b *Buffer) Reset() { b.data = b.data[:0] }
