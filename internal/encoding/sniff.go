// Package encoding normalizes uploaded backup files to UTF-8 before they
// are parsed. Backups written by spreadsheet tools or re-saved on Windows
// commonly arrive as UTF-16 or Windows-1252 rather than plain UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

// UTF8Reader wraps r with whatever decoding is needed to yield UTF-8.
//
// A BOM wins outright: UTF-8 BOMs are stripped, UTF-16 BOMs select the
// matching decoder. Without one, content that already validates as UTF-8
// passes through, chardet gets a vote next, and Windows-1252 is the final
// fallback since it decodes any byte sequence.
func UTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniffing encoding: %w", err)
	}

	if decoder, skip := bomDecoder(head); skip > 0 || decoder != nil {
		if skip > 0 {
			_, _ = br.Discard(skip)
		}

		if decoder == nil {
			return br, nil
		}

		return transform.NewReader(br, decoder), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "UTF-16LE":
			return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()), nil
		case "UTF-16BE":
			return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()), nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// bomDecoder inspects the head for a byte-order mark. It returns the
// decoder to apply (nil for plain UTF-8) and how many bytes to discard.
func bomDecoder(head []byte) (transform.Transformer, int) {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return nil, 3
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), 0
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), 0
	}

	return nil, 0
}
