package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/pattern"
	"github.com/rcliao/chatsort/internal/registry"
)

func TestReclassify_Literal(t *testing.T) {
	reg := registry.New([]string{"Coding"}, map[string][]string{"Coding": {"python"}})
	chats := []model.Chat{{URL: "u1", Title: "Scripts", Chats: []string{"I wrote a Python script"}}}

	got := Reclassify(reg, chats, nil)
	assert.Equal(t, []string{"Coding"}, got[0].Categories)
}

func TestReclassify_RegexPrefix(t *testing.T) {
	reg := registry.New([]string{"Coding"}, map[string][]string{"Coding": {"/^py.*/"}})
	chats := []model.Chat{{URL: "u1", Title: "pytest failed"}}

	got := Reclassify(reg, chats, nil)
	assert.Contains(t, got[0].Categories, "Coding")
}

func TestReclassify_ClearsManualTags(t *testing.T) {
	reg := registry.New([]string{"Coding", "Transcripts"}, map[string][]string{"Coding": {"bash"}})
	chats := []model.Chat{{URL: "u1", Title: "notes", Chats: []string{"nothing here"}, Categories: []string{"Transcripts", "Gone"}}}

	got := Reclassify(reg, chats, nil)
	assert.Empty(t, got[0].Categories)
	assert.Equal(t, []string{"Transcripts", "Gone"}, chats[0].Categories, "input must not change")
}

func TestReclassify_RegistryOrderAndMultipleCategories(t *testing.T) {
	reg := registry.New([]string{"MBTI", "Coding", "psychology"}, map[string][]string{
		"MBTI":       {"cognitive function"},
		"Coding":     {"ffmpeg", "bash"},
		"psychology": {"neuro"},
	})
	chats := []model.Chat{{URL: "u", Title: "Cognitive Function stack", Chats: []string{"use bash for it"}}}

	got := Reclassify(reg, chats, nil)
	assert.Equal(t, []string{"MBTI", "Coding"}, got[0].Categories)
}

func TestReclassify_Idempotent(t *testing.T) {
	reg := registry.New([]string{"Coding", "Media"}, map[string][]string{
		"Coding": {"python", "/java(script)?/"},
		"Media":  {"mp3", "flac"},
	})
	chats := []model.Chat{
		{URL: "a", Title: "JS help", Chats: []string{"JavaScript closures"}},
		{URL: "b", Title: "audio", Chats: []string{"convert flac to mp3 with python"}, Categories: []string{"Old"}},
		{URL: "c", Title: "misc"},
	}

	once := Reclassify(reg, chats, nil)
	twice := Reclassify(reg, once, nil)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"Coding", "Media"}, once[1].Categories)
	assert.Empty(t, once[2].Categories)
}

func TestReclassify_InvalidRegexWarnsAndFallsBack(t *testing.T) {
	reg := registry.New([]string{"Odd"}, map[string][]string{"Odd": {"/a(b/"}})
	chats := []model.Chat{
		{URL: "a", Title: "literally /a(b/ in text"},
		{URL: "b", Title: "ab"},
	}

	var warned []string
	cache := pattern.NewCache(func(err *pattern.RegexError) { warned = append(warned, err.Keyword) })

	got := Reclassify(reg, chats, cache)
	assert.Equal(t, []string{"/a(b/"}, warned)
	assert.Equal(t, []string{"Odd"}, got[0].Categories)
	assert.Empty(t, got[1].Categories)
}

func TestBulkSetCategory(t *testing.T) {
	chats := []model.Chat{
		{URL: "a", Categories: []string{"Coding"}},
		{URL: "b"},
		{URL: "c", Categories: []string{"MBTI"}},
	}

	added := BulkSetCategory(chats, []string{"a", "b"}, "Coding", true)
	assert.Equal(t, []string{"Coding"}, added[0].Categories)
	assert.Equal(t, []string{"Coding"}, added[1].Categories)
	assert.Equal(t, []string{"MBTI"}, added[2].Categories)
	assert.Nil(t, chats[1].Categories, "input must not change")

	again := BulkSetCategory(added, []string{"a", "b"}, "Coding", true)
	assert.Equal(t, added, again)

	removed := BulkSetCategory(added, []string{"a", "c"}, "Coding", false)
	assert.Empty(t, removed[0].Categories)
	assert.Equal(t, []string{"Coding"}, removed[1].Categories)
	assert.Equal(t, []string{"MBTI"}, removed[2].Categories)
}

func TestToggleCategory(t *testing.T) {
	c := model.Chat{URL: "a", Categories: []string{"Coding"}}

	off := ToggleCategory(c, "Coding")
	assert.Empty(t, off.Categories)
	on := ToggleCategory(off, "Coding")
	assert.Equal(t, []string{"Coding"}, on.Categories)
	assert.Equal(t, []string{"Coding"}, c.Categories)
}

func TestSummarize(t *testing.T) {
	reg := registry.New([]string{"Coding", "MBTI"}, map[string][]string{
		"Coding": {"python", "/^py/"},
	})
	chats := []model.Chat{
		{URL: "a", Categories: []string{"Coding"}},
		{URL: "b", Categories: []string{"Coding", "Gone"}},
		{URL: "c"},
	}

	r := Summarize(reg, chats)
	require.Len(t, r.Counts, 2)
	assert.Equal(t, Count{Category: "Coding", Chats: 2}, r.Counts[0])
	assert.Equal(t, Count{Category: "MBTI", Chats: 0}, r.Counts[1])
	assert.Equal(t, []Count{{Category: "Gone", Chats: 1}}, r.Orphans)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.Untagged)
	assert.Equal(t, 2, r.Keywords)
	assert.Equal(t, 1, r.Regexes)
}
