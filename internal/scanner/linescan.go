package scanner

import (
	"bufio"
	"io"
)

// newLineScanner returns a bufio.Scanner configured with a generous
// maximum token size, since a single CSV line holding a deep path can
// exceed bufio.Scanner's 64KiB default.
func newLineScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 16<<20)
	return s
}
