package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selectsense/internal/models"
)

func TestSplit(t *testing.T) {
	text := "First line here.\n\n  Second line. It has two sentences?\n\n\nThird\r\n"

	testCases := []struct {
		mode Mode
		want []string
	}{
		{ModeLine, []string{"First line here.", "Second line. It has two sentences?", "Third"}},
		{ModeParagraph, []string{"First line here.", "Second line. It has two sentences?", "Third"}},
		{ModeWhole, []string{"First line here.\n\n  Second line. It has two sentences?\n\n\nThird"}},
	}
	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			got, err := Split(text, tc.mode)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplit_Paragraphs(t *testing.T) {
	got, err := Split("one\ntwo\n \nthree\nfour", ModeParagraph)
	require.NoError(t, err)
	assert.Equal(t, []string{"one\ntwo", "three\nfour"}, got)
}

func TestSplit_Sentences(t *testing.T) {
	got, err := Split("Dr. Smith went to Washington. He arrived on Monday. What happened next?", ModeSentence)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Dr. Smith went to Washington.", got[0])
	assert.Equal(t, "What happened next?", got[2])
}

func TestSplit_EmptyInput(t *testing.T) {
	for _, m := range Modes() {
		got, err := Split("  \n\n ", m)
		require.NoError(t, err)
		assert.Empty(t, got, m)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Sentence ")
	require.NoError(t, err)
	assert.Equal(t, ModeSentence, m)

	_, err = ParseMode("word")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = Split("x", Mode("word"))
	assert.ErrorIs(t, err, models.ErrValidation)
}
