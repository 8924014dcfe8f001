package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

const maxBinaryCheckBytes = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Typographic quotes are kept. Only invisible characters and C1 control
// codes left over from cp1252 mis-decoding are rewritten.
var charReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\u00a0", " ",
	"\u200b", "",
	"\ufeff", "",
	"\u0091", "'", "\u0092", "'",
	"\u0093", "\"", "\u0094", "\"",
	"\u0096", "-", "\u0097", "--",
)

func IsLikelyBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, maxBinaryCheckBytes)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return bytes.Contains(buffer[:n], []byte{0}), nil
}

// CleanText strips a BOM, replaces invalid UTF-8 and normalises to NFC so
// that decomposed accents count as the letters they render as.
func CleanText(content []byte, src string) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	if !utf8.Valid(content) {
		log.Warnf("%s: invalid UTF-8, replacing invalid chars", src)
		content = bytes.ToValidUTF8(content, []byte(string(utf8.RuneError)))
	}

	str := norm.NFC.String(charReplacer.Replace(string(content)))

	if !utf8.ValidString(str) {
		log.Errorf("%s: still invalid after cleaning", src)
		return "", fmt.Errorf("invalid UTF-8 after replacements: %s", src)
	}
	return str, nil
}
