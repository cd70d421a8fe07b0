package format

import (
	"bytes"
	"math"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// garbledReplacer fixes the usual double-encoded sequences for accented
// Portuguese characters that survive the Latin-1 round trip below.
var garbledReplacer = strings.NewReplacer(
	"SÃ£O", "SÃO",
	"SÃƒO", "SÃO",
	"SÃO", "SÃO",
	"Ã ", "À",
	"Ã¡", "á",
	"Ã¢", "â",
	"Ã£", "ã",
	"Ã¤", "ä",
	"Ã§", "ç",
	"Ã©", "é",
	"Ãª", "ê",
	"Ã­", "í",
	"Ã³", "ó",
	"Ã´", "ô",
	"Ãµ", "õ",
	"Ãº", "ú",
	"Ã¼", "ü",
)

// OnlyDigits strips every non-digit character. Empty input yields "".
func OnlyDigits(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ZeroPad left-pads a digit string with zeros to width and cuts it to the
// left-most width characters. Empty input stays empty, never "000...".
func ZeroPad(s string, width int) string {
	if s == "" {
		return ""
	}
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s[:width]
}

// FormatCEP renders a postal code as exactly 8 digits, zero-padded.
func FormatCEP(cep string) string {
	return ZeroPad(OnlyDigits(cep), 8)
}

// FormatCNPJ renders a business document as exactly 14 digits, zero-padded.
func FormatCNPJ(cnpj string) string {
	return ZeroPad(OnlyDigits(cnpj), 14)
}

// FormatCPF renders a personal document as exactly 11 digits, zero-padded.
func FormatCPF(cpf string) string {
	return ZeroPad(OnlyDigits(cpf), 11)
}

// FormatPhone keeps digits only, capped at 11 (two-digit area code plus
// nine-digit number). No mask, no separator.
func FormatPhone(phone string) string {
	d := OnlyDigits(phone)
	if len(d) > 11 {
		return d[:11]
	}
	return d
}

// reinterpret re-encodes the string as Latin-1 bytes (dropping anything the
// charset cannot carry) and re-decodes those bytes as UTF-8 (dropping invalid
// sequences). This undoes the classic UTF-8-read-as-Latin-1 corruption.
func reinterpret(s string) string {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	b, _, err := transform.Bytes(enc, []byte(s))
	if err != nil {
		return s
	}
	// ReplaceUnsupported substitutes 0x1A for unmappable runes; the original
	// behavior is to ignore them.
	b = bytes.ReplaceAll(b, []byte{0x1a}, nil)
	return strings.ToValidUTF8(string(b), "")
}

// looksGarbled reports whether the text probably went through a wrong-charset
// decode: a replacement character, or code points far outside Latin script.
func looksGarbled(s string) bool {
	for _, r := range s {
		if r == '�' || r > 1000 {
			return true
		}
	}
	return false
}

// CleanText repairs double-encoded text, applies the known garbled-sequence
// substitutions and collapses whitespace runs to single spaces. It never
// fails; text it cannot repair is returned as-is (whitespace-collapsed).
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	if looksGarbled(s) {
		s = reinterpret(s)
	}
	s = garbledReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Clip cleans the text and truncates it to maxLen characters.
func Clip(s string, maxLen int) string {
	if s == "" {
		return ""
	}
	s = CleanText(s)
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen])
	}
	return s
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
