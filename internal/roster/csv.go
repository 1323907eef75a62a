package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw CSV bytes to UTF-8 text.
// A byte order mark selects UTF-8/UTF-16; valid UTF-8 is returned as is;
// otherwise each code page in encodings is tried in order.
// It returns the text and the name of the encoding that was used.
func Decode(raw []byte, encodings []string) (string, string, error) {
	if bytes.HasPrefix(raw, bomUTF8) || bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", "", fmt.Errorf("failed to decode BOM-prefixed input: %w", err)
		}
		return string(decoded), "bom", nil
	}

	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}

	for _, name := range encodings {
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			continue
		}
		decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err != nil {
			continue
		}
		return string(decoded), name, nil
	}

	return "", "", fmt.Errorf("input is not valid UTF-8 and none of %v could decode it", encodings)
}

// readCSV decodes and parses a delimited roster. Semicolon files written
// by spreadsheet programs in comma-decimal locales are detected from the
// header line.
func readCSV(raw []byte, encodings []string) ([][]string, error) {
	text, _, err := Decode(raw, encodings)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return reader.ReadAll()
}

func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}
