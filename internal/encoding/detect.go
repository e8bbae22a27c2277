// Package encoding normalizes raw extract bytes to UTF-8. Franchise POS
// systems disagree on encodings: most ship UTF-8, older ones drop
// Windows-1252 files with no BOM. Readers returned here always yield
// UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize covers BOM detection and gives chardet enough text to work
// with.
const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader wraps r with a decoder for whatever encoding the content
// turns out to use.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. content that already validates as UTF-8 passes through
//  3. chardet heuristics
//  4. Windows-1252 fallback
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	if enc := sniffEncoding(buf); enc != nil {
		return transform.NewReader(br, enc.NewDecoder()), nil
	}

	return br, nil
}

// sniffEncoding picks a decoder for content that did not validate as
// UTF-8. A nil result means pass the bytes through unchanged; chardet can
// still call the content UTF-8 when the peek window clipped a multibyte
// sequence.
func sniffEncoding(buf []byte) xenc.Encoding {
	detector := chardet.NewTextDetector()

	result, err := detector.DetectBest(buf)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return nil
	case "ISO-8859-2", "windows-1250":
		return charmap.Windows1250
	default:
		return charmap.Windows1252
	}
}
