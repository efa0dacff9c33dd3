package csv

import (
	"bufio"
	"bytes"
)

// utf8BOM is stripped from the head of the byte stream if present, so the
// first cell never carries it into keys or values in either header mode.
const utf8BOM = "\uFEFF"

// stripBOM discards a leading UTF-8 byte order mark from br.
func stripBOM(br *bufio.Reader) {
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, []byte(utf8BOM)) {
		_, _ = br.Discard(len(utf8BOM))
	}
}
