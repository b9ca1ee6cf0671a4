package rawread

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a delimited export. Lines may have differing cell counts;
// the header line fixes Table.Width.
func ReadCSV(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	dec, err := decoderFor(opts.Encoding, data)
	if err != nil {
		return nil, err
	}
	var src io.Reader = bytes.NewReader(data)
	if dec != nil {
		src = transform.NewReader(src, dec.NewDecoder())
	}

	rows, err := parseCSV(src, opts.Comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	t := &Table{Path: path, Rows: rows}
	if len(rows) > 0 {
		t.Width = len(rows[0])
	}
	return t, nil
}

func parseCSV(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	if comma != 0 {
		reader.Comma = comma
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// decoderFor picks the decoder for the requested encoding. A nil encoding
// means the bytes are already UTF-8. In auto mode, anything that is not
// valid UTF-8 is treated as Windows-1252, the exporting tool's default.
func decoderFor(name string, data []byte) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		if utf8.Valid(data) {
			return nil, nil
		}
		return charmap.Windows1252, nil
	case "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}
