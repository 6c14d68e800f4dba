package buffer

import (
	"slices"
)

// Buffer is an owned, growable byte sequence with a hard limit on its length. Growth
// beyond the limit is refused rather than attempted, which is how an allocation failure
// manifests on targets that cannot afford it.
type Buffer struct {
	memory  []byte
	maxSize int
}

func New(initialSize, maxSize int) Buffer {
	return Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data, checking whether the new amount of elements (bytes) doesn't exceed the
// limit, otherwise discarding the data and returning false.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// AppendByte writes a single byte, checking whether it won't exceed the limit.
func (b *Buffer) AppendByte(c byte) (ok bool) {
	if len(b.memory)+1 > b.maxSize {
		return false
	}

	b.memory = append(b.memory, c)
	return true
}

// Extend lengthens the buffer by n bytes and returns the new window to be filled in.
// The capacity grows by exactly as much as needed.
func (b *Buffer) Extend(n int) (window []byte, ok bool) {
	if len(b.memory)+n > b.maxSize {
		return nil, false
	}

	b.memory = slices.Grow(b.memory, n)
	offset := len(b.memory)
	b.memory = b.memory[:offset+n]

	return b.memory[offset:], true
}

// Trunc truncates the last n bytes.
func (b *Buffer) Trunc(n int) {
	if n > len(b.memory) {
		n = len(b.memory)
	}

	b.memory = b.memory[:len(b.memory)-n]
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return len(b.memory)
}

// Bytes returns the written data without copying it.
func (b *Buffer) Bytes() []byte {
	return b.memory
}

// Clear just resets the pointers, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.memory = b.memory[:0]
}
