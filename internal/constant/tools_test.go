package constant

import (
	"testing"

	"ai-studio-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTool_AcceptsRoutePrefixes(t *testing.T) {
	for _, slug := range []string{"sdxl", "tools/sdxl", "/api/tools/sdxl"} {
		tool, ok := FindTool(slug)
		require.True(t, ok, slug)
		assert.Equal(t, "sdxl", tool.Slug)
	}
	_, ok := FindTool("nope")
	assert.False(t, ok)
}

func TestTools_AreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, tool := range Tools() {
		assert.False(t, seen[tool.Slug], "duplicate %s", tool.Slug)
		seen[tool.Slug] = true

		assert.Positive(t, tool.Cost, tool.Slug)
		assert.NotEmpty(t, tool.Fallback, tool.Slug)
		assert.GreaterOrEqual(t, tool.MinConfidence, 25, tool.Slug)
		assert.LessOrEqual(t, tool.MinConfidence, 30, tool.Slug)
		require.NotNil(t, tool.BuildInput, tool.Slug)
	}
}

func TestBuildInput_AddsStyleAndNegativePrompt(t *testing.T) {
	tool, _ := FindTool("anime-generator")
	in := tool.BuildInput(&dto.GenerateRequest{Prompt: " a cat ", Style: "ghibli", NegativePrompt: "dogs"})

	assert.Equal(t, "anime style, vibrant colors, detailed line art, a cat, ghibli style", in["prompt"])
	assert.Contains(t, in["negative_prompt"], "dogs, blurry")
}

func TestMissingFields(t *testing.T) {
	tool, _ := FindTool("background-remover")
	assert.Equal(t, []string{FieldImageUrl}, tool.MissingFields(&dto.GenerateRequest{Prompt: "x"}))
	assert.Empty(t, tool.MissingFields(&dto.GenerateRequest{ImageUrl: "https://x/y.png"}))
}

func TestFindCreditPack(t *testing.T) {
	p, ok := FindCreditPack("creator")
	require.True(t, ok)
	assert.Equal(t, 200, p.Credits)

	_, ok = FindCreditPack("free")
	assert.False(t, ok)
}
