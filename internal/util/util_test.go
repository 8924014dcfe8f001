package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		name string
		in   []byte
		want string
	}{
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...), "hello"},
		{"invalid utf8", []byte("a\xffb"), "a\uFFFDb"},
		{"nbsp and crlf", []byte("a\u00a0b\r\nc"), "a b\nc"},
		{"curly quotes kept", []byte("“quoted”"), "“quoted”"},
		{"decomposed accent composed", []byte("cafe\u0301"), "caf\u00e9"},
		{"c1 quotes", []byte("\u0093hi\u0094"), "\"hi\""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CleanText(tc.in, "test")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsLikelyBinary(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "a.txt")
	bin := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(text, []byte("plain text"), 0o600))
	require.NoError(t, os.WriteFile(bin, []byte{0x01, 0x00, 0x02}, 0o600))

	isBin, err := IsLikelyBinary(text)
	require.NoError(t, err)
	assert.False(t, isBin)

	isBin, err = IsLikelyBinary(bin)
	require.NoError(t, err)
	assert.True(t, isBin)

	_, err = IsLikelyBinary(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short text", Preview("short\n  text", 50))
	assert.Equal(t, "abcdefg...", Preview("abcdefghijklmnop", 10))
	// CJK runes are two cells wide.
	assert.Equal(t, "日本...", Preview("日本語のテキスト", 7))
	assert.Equal(t, "unbounded", Preview("unbounded", 0))
}
