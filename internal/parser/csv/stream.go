package csv

import (
	"bufio"
	"bytes"
	"io"
)

// rewriter is an io.Reader that performs a rolling find/replace on the
// stream: every occurrence of pat is replaced with repl without buffering
// the whole input. To catch a pattern that spans chunk boundaries it
// withholds the trailing len(pat)-1 bytes of each processed block and
// prepends them to the next one; the withheld tail is flushed at EOF,
// where it is too short to contain a match.
type rewriter struct {
	src  *bufio.Reader
	pat  []byte
	repl []byte
	tail []byte
	out  bytes.Buffer
	done bool
}

func newRewriter(r io.Reader, pat, repl []byte) *rewriter {
	return &rewriter{
		src:  bufio.NewReaderSize(r, 64*1024),
		pat:  pat,
		repl: repl,
	}
}

// Read serves rewritten bytes, refilling from the source as needed. It
// never returns a 0, nil pair; callers either get data, an error, or EOF.
func (rw *rewriter) Read(p []byte) (int, error) {
	for rw.out.Len() == 0 && !rw.done {
		if err := rw.fill(); err != nil {
			return 0, err
		}
	}
	if rw.out.Len() > 0 {
		return rw.out.Read(p)
	}
	return 0, io.EOF
}

// fill reads one chunk, applies the replacement over tail+chunk, emits
// everything except the new tail, and handles EOF flushing.
func (rw *rewriter) fill() error {
	chunk := make([]byte, 32*1024)
	n, err := rw.src.Read(chunk)
	if n > 0 {
		block := make([]byte, 0, len(rw.tail)+n)
		block = append(block, rw.tail...)
		block = append(block, chunk[:n]...)
		block = bytes.ReplaceAll(block, rw.pat, rw.repl)

		keep := len(rw.pat) - 1
		if keep < 0 {
			keep = 0
		}
		if keep > len(block) {
			keep = len(block)
		}
		cut := len(block) - keep
		rw.out.Write(block[:cut])
		rw.tail = append(rw.tail[:0], block[cut:]...)
	}
	if err == io.EOF {
		if len(rw.tail) > 0 {
			rw.out.Write(rw.tail)
			rw.tail = rw.tail[:0]
		}
		rw.done = true
		return nil
	}
	return err
}
