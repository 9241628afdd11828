package aggregator

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes the aggregate CSV (header + sorted rows) to w.
func WriteCSV(w io.Writer, rows []OutputRow) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CSVHeader + "\n"); err != nil {
		return err
	}

	buf := make([]byte, 0, 256)
	for _, r := range rows {
		buf = buf[:0]
		// Path bytes are sorted upstream as raw bytes (Aggregator.Rows);
		// only at this emit point are they coerced to valid UTF-8, with
		// U+FFFD standing in for anything that isn't, per §3.
		buf = appendCSVField(buf, strings.ToValidUTF8(r.Path, "\uFFFD"))
		buf = append(buf, ',')
		buf = appendCSVField(buf, r.User)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(r.Age), 10)
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, r.Files, 10)
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, r.Disk, 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, r.Accessed, 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, r.Modified, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// appendCSVField appends a field, quoting it only if it contains a comma,
// quote, or newline — the same "smart quoting" contract used by the
// scanner's path column, applied here to path and user.
func appendCSVField(dst []byte, field string) []byte {
	needsQuote := false
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '"', ',', '\n', '\r':
			needsQuote = true
		}
	}
	if !needsQuote {
		return append(dst, field...)
	}
	dst = append(dst, '"')
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			dst = append(dst, '"', '"')
		} else {
			dst = append(dst, field[i])
		}
	}
	return append(dst, '"')
}

// WriteUnknownUIDs writes the side file of unresolved uids, one per line.
func WriteUnknownUIDs(w io.Writer, uids []uint32) error {
	bw := bufio.NewWriter(w)
	for _, uid := range uids {
		if _, err := fmt.Fprintln(bw, uid); err != nil {
			return err
		}
	}
	return bw.Flush()
}
