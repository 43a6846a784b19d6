package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHelpers(t *testing.T) {
	assert.Equal(t, "春晓", OrDefault("  春晓 ", Untitled))
	assert.Equal(t, Untitled, OrDefault(" \t", Untitled))
	assert.Equal(t, []string{"春眠不觉晓", "处处闻啼鸟"}, CleanLines([]string{" 春眠不觉晓", "", "  ", "处处闻啼鸟 "}))
	assert.Equal(t, []string{"唐诗", "李白"}, Dedupe("唐诗", " ", "李白", "唐诗 "))
	assert.Empty(t, Dedupe())
}

func TestDecodeMetadataKeepsIntegers(t *testing.T) {
	meta, err := DecodeMetadata([]byte(`{"index": 7, "ratio": 0.5, "file": "poet.tang.0.json", "nested": {"n": 3}, "list": [1, 2.5]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"index":  7,
		"ratio":  0.5,
		"file":   "poet.tang.0.json",
		"nested": map[string]any{"n": 3},
		"list":   []any{1, 2.5},
	}, meta)

	_, err = DecodeMetadata([]byte(`[1]`))
	assert.Error(t, err)
}
