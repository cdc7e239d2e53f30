package llmutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "🔍📊...", Truncate("🔍📊⏰🧹", 2))
}

func TestStripThink(t *testing.T) {
	assert.Equal(t, "answer", StripThink("<think>hmm\nok</think>\nanswer"))
	assert.Equal(t, "plain", StripThink("plain"))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"hello"}, SplitMessage("hello", 10))

	parts := SplitMessage("line one\nline two\nline three", 12)
	assert.Equal(t, []string{"line one", "line two", "line three"}, parts)

	parts = SplitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, parts)

	for _, p := range SplitMessage(strings.Repeat("word ", 2000), 4000) {
		assert.LessOrEqual(t, len([]rune(p)), 4000)
	}
}
