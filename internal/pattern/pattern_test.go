package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Literal(t *testing.T) {
	p, err := Compile("Chrome Extension")
	require.NoError(t, err)
	assert.False(t, p.IsRegex())
	assert.True(t, p.Match("building a chrome extension popup"))
	assert.False(t, p.Match("chrome only"))
}

func TestCompile_Regex(t *testing.T) {
	p, err := Compile("/^py.*/")
	require.NoError(t, err)
	assert.True(t, p.IsRegex())
	assert.True(t, p.Match("pytest failed"))
	assert.False(t, p.Match("i ran pytest"))
}

func TestCompile_RegexIsCaseInsensitive(t *testing.T) {
	p, err := Compile("/\\bTe\\b/")
	require.NoError(t, err)
	assert.True(t, p.Match("my te function"))
	assert.False(t, p.Match("the test"))
}

func TestCompile_TrimsBeforeDelimiterCheck(t *testing.T) {
	p, err := Compile("  /ffmpeg|obs/ ")
	require.NoError(t, err)
	assert.True(t, p.IsRegex())
	assert.True(t, p.Match("recording with obs"))
}

func TestCompile_ShortSlashesAreLiteral(t *testing.T) {
	for _, raw := range []string{"//", "/", "/a"} {
		p, err := Compile(raw)
		require.NoError(t, err)
		assert.False(t, p.IsRegex(), raw)
	}
	p, _ := Compile("//")
	assert.True(t, p.Match("see http://x"))
}

func TestCompile_InvalidRegexFallsBack(t *testing.T) {
	p, err := Compile("/Foo(/")
	require.Error(t, err)

	var re *RegexError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "/Foo(/", re.Keyword)

	assert.False(t, p.IsRegex())
	assert.True(t, p.Match("literal /foo(/ text"))
	assert.False(t, p.Match("foo"))
}

func TestDelimited(t *testing.T) {
	assert.True(t, Delimited("/x\\Sy/"))
	assert.True(t, Delimited("  /a/ "))
	assert.False(t, Delimited("//"))
	assert.False(t, Delimited("plain"))
	assert.False(t, Delimited("/a"))
}

func TestCache_MemoizesAndWarnsOnce(t *testing.T) {
	var warnings []string
	c := NewCache(func(err *RegexError) { warnings = append(warnings, err.Keyword) })

	c.Get("/(/")
	c.Get("/(/")
	c.Get("python")
	c.Get("python")

	assert.Equal(t, []string{"/(/"}, warnings)
	assert.Equal(t, 2, c.Len())
}

func TestCache_ZeroValue(t *testing.T) {
	var c Cache
	assert.True(t, c.Get("x").Match("xyz"))
}
