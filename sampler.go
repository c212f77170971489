package confkit

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DefaultTextThreshold is the printable-byte fraction above which a sample
// is classified as text-like.
const DefaultTextThreshold = 0.90

// utf16Ratio is the ratio both halves of an alternating byte layout must
// reach for the UTF-16 fallback heuristic to accept a sample as text.
const utf16Ratio = 0.70

// Byte-order marks recognized by the sampler.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// SampleFile reads a bounded byte prefix of a file. It reads at most
// maxBytes+1 bytes so that truncation can be detected: truncated is true iff
// the file held more bytes than were sampled. The returned slice holds at
// most maxBytes bytes.
func SampleFile(path string, maxBytes int) (sample []byte, truncated bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	buf := make([]byte, maxBytes+1)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, false, err
	}
	buf = buf[:n]

	if len(buf) > maxBytes {
		return buf[:maxBytes], true, nil
	}
	return buf, false, nil
}

// LooksText classifies a sample as text-like or binary. An empty sample is
// text (vacuously), a recognized byte-order-mark prefix is text, and
// otherwise the fraction of printable-ASCII-plus-tab/CR/LF bytes decides
// against the threshold, with a UTF-16 alternating-byte heuristic as the
// final fallback for wide-character files.
func LooksText(sample []byte, threshold float64) bool {
	if len(sample) == 0 {
		return true
	}
	if hasBOM(sample) {
		return true
	}

	printable := 0
	for _, b := range sample {
		if (b >= 0x20 && b <= 0x7E) || b == '\t' || b == '\r' || b == '\n' {
			printable++
		}
	}
	if float64(printable)/float64(len(sample)) >= threshold {
		return true
	}

	return looksUTF16(sample, true) || looksUTF16(sample, false)
}

// looksUTF16 checks the alternating byte positions of a sample for a high
// ASCII ratio on one half paired with a high null-byte ratio on the other.
// littleEndian selects which half is expected to carry the ASCII bytes.
func looksUTF16(sample []byte, littleEndian bool) bool {
	if len(sample) < 4 {
		return false
	}

	asciiOffset, nullOffset := 0, 1
	if !littleEndian {
		asciiOffset, nullOffset = 1, 0
	}

	ascii, asciiTotal := 0, 0
	for i := asciiOffset; i < len(sample); i += 2 {
		asciiTotal++
		b := sample[i]
		if (b >= 0x20 && b <= 0x7E) || b == '\t' || b == '\r' || b == '\n' {
			ascii++
		}
	}

	nulls, nullTotal := 0, 0
	for i := nullOffset; i < len(sample); i += 2 {
		nullTotal++
		if sample[i] == 0x00 {
			nulls++
		}
	}

	if asciiTotal == 0 || nullTotal == 0 {
		return false
	}
	return float64(ascii)/float64(asciiTotal) >= utf16Ratio &&
		float64(nulls)/float64(nullTotal) >= utf16Ratio
}

// DecodeText decodes a text-like sample, trying candidate encodings in fixed
// order: the BOM-implied encoding if a BOM is present, then UTF-8, UTF-16LE,
// UTF-16BE, and finally Latin-1 as a lossless fallback that never fails. A
// leading BOM character is stripped from the result.
func DecodeText(sample []byte) (text string, encoding string) {
	switch {
	case startsWith(sample, bomUTF8):
		return stripBOM(string(sample[len(bomUTF8):])), "utf-8-sig"
	case startsWith(sample, bomUTF16LE):
		return stripBOM(decodeUTF16(sample[2:], true)), "utf-16-le"
	case startsWith(sample, bomUTF16BE):
		return stripBOM(decodeUTF16(sample[2:], false)), "utf-16-be"
	}

	// NUL bytes are valid UTF-8 but never appear in text files; letting
	// them through here would misread bomless UTF-16 as UTF-8.
	if utf8.Valid(sample) && !bytes.ContainsRune(sample, 0x00) {
		return stripBOM(string(sample)), "utf-8"
	}

	if len(sample)%2 == 0 {
		if s, ok := tryUTF16(sample, true); ok {
			return stripBOM(s), "utf-16-le"
		}
		if s, ok := tryUTF16(sample, false); ok {
			return stripBOM(s), "utf-16-be"
		}
	}

	// Latin-1 maps every byte to the code point of the same value.
	runes := make([]rune, len(sample))
	for i, b := range sample {
		runes[i] = rune(b)
	}
	return string(runes), "latin-1"
}

// tryUTF16 decodes strictly: any unpaired surrogate rejects the candidate.
func tryUTF16(sample []byte, littleEndian bool) (string, bool) {
	s := decodeUTF16(sample, littleEndian)
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", false
	}
	return s, true
}

func decodeUTF16(sample []byte, littleEndian bool) string {
	units := make([]uint16, 0, len(sample)/2)
	for i := 0; i+1 < len(sample); i += 2 {
		if littleEndian {
			units = append(units, uint16(sample[i])|uint16(sample[i+1])<<8)
		} else {
			units = append(units, uint16(sample[i])<<8|uint16(sample[i+1]))
		}
	}
	return string(utf16.Decode(units))
}

func hasBOM(sample []byte) bool {
	return startsWith(sample, bomUTF8) ||
		startsWith(sample, bomUTF16LE) ||
		startsWith(sample, bomUTF16BE)
}

func startsWith(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
