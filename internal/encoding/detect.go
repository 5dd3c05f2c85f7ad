// Package encoding normalizes uploaded timesheets to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input is inspected before deciding on a charset.
const sniffSize = 4096

type bom struct {
	prefix  []byte
	charset string
	decoder func() *encoding.Decoder
}

var boms = []bom{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: "UTF-8"},
	{
		prefix:  []byte{0xFF, 0xFE},
		charset: "UTF-16LE",
		decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder,
	},
	{
		prefix:  []byte{0xFE, 0xFF},
		charset: "UTF-16BE",
		decoder: unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder,
	},
}

// legacy maps chardet results to single-byte decoders. Spreadsheet exports
// from Windows hosts are by far the most common non-UTF-8 input.
var legacy = map[string]*charmap.Charmap{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// NewUTF8Reader returns a reader yielding r decoded to UTF-8, and the name of
// the charset it was decoded from. A byte order mark wins over content
// sniffing; undetectable input is read as Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.decoder == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.decoder()), b.charset, nil
	}

	if utf8.Valid(buf) {
		return br, "UTF-8", nil
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		if result.Charset == "UTF-8" {
			return br, result.Charset, nil
		}

		if cm, ok := legacy[result.Charset]; ok {
			return transform.NewReader(br, cm.NewDecoder()), result.Charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), "windows-1252", nil
}
