package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chatsort/internal/document"
	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/store"
)

const fixture = `{
  "categories": {
    "Coding": ["python", "/^bash/"],
    "MBTI": ["intj"]
  },
  "chats": [
    {"url": "u1", "title": "Python tips", "chats": ["list comprehension"], "categories": []},
    {"url": "u2", "title": "INTJ traits", "chats": ["introverted"], "categories": []},
    {"url": "u3", "title": "bash loops", "chats": ["for i in"], "categories": []},
    {"url": "u4", "title": "Dinner", "chats": ["pasta"], "categories": ["Cooking"]}
  ]
}`

type env struct {
	dir    string
	db     string
	config string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHATSORT_DB", "")
	t.Setenv("CHATSORT_CONFIG", "")
	return env{
		dir:    dir,
		db:     filepath.Join(dir, "chatsort.db"),
		config: filepath.Join(dir, "config.yaml"),
	}
}

func (e env) write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// run executes the root command with fresh flag values.
func (e env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(RootCmd)

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(append([]string{"--db", e.db, "--config", e.config, "--no-color"}, args...))
	err := RootCmd.Execute()
	return out.String(), errOut.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := e.run(t, args...)
	require.NoError(t, err, errOut)
	return out
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func categoriesByURL(chats []model.Chat) map[string][]string {
	out := map[string][]string{}
	for _, c := range chats {
		out[c.URL] = c.Categories
	}
	return out
}

func lines(s string) []string {
	return strings.Fields(s)
}

func TestClassify(t *testing.T) {
	e := newEnv(t)
	in := e.write(t, "chats.json", fixture)
	out := filepath.Join(e.dir, "chats_updated.json")

	stdout := e.mustRun(t, "classify", "-i", in, "-o", out)
	assert.Equal(t, "Categories have been reassigned. Updated file written to: "+out+"\n", stdout)

	doc, err := document.Load(out)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"u1": {"Coding"},
		"u2": {"MBTI"},
		"u3": {"Coding"},
		"u4": {},
	}, categoriesByURL(doc.Chats))
	assert.Equal(t, []string{"Coding", "MBTI"}, doc.Categories.Names())
}

func TestClassify_DefaultsFromConfig(t *testing.T) {
	e := newEnv(t)
	in := e.write(t, "in.json", fixture)
	out := filepath.Join(e.dir, "out.json")
	e.write(t, "config.yaml", "classify:\n  input: "+in+"\n  output: "+out+"\n")

	e.mustRun(t, "classify")
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestClassify_Errors(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run(t, "classify", "-i", filepath.Join(e.dir, "missing.json"), "-o", filepath.Join(e.dir, "x.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load")

	bad := e.write(t, "bad.json", `{"chats": {}}`)
	_, _, err = e.run(t, "classify", "-i", bad, "-o", filepath.Join(e.dir, "x.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrInvalidDocument)
}

func TestClassify_InvalidRegexWarnsAndMatchesLiterally(t *testing.T) {
	e := newEnv(t)
	in := e.write(t, "chats.json", `{
  "categories": {"Odd": ["/(ti/"]},
  "chats": [{"url": "a", "title": "about /(ti/ syntax", "chats": [], "categories": []}]
}`)
	out := filepath.Join(e.dir, "out.json")

	_, errOut, err := e.run(t, "classify", "-i", in, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, errOut, "invalid regex")

	doc, err := document.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Odd"}, doc.Chats[0].Categories)
}

func TestArchiveLifecycle(t *testing.T) {
	e := newEnv(t)
	in := e.write(t, "chats.json", fixture)

	var imp importResult
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "import", in)), &imp))
	assert.Equal(t, 4, imp.Imported)
	assert.Equal(t, 2, imp.Categories)
	assert.NotEmpty(t, imp.Backup)

	// Imported tags are kept until reclassify.
	assert.Equal(t, []string{"u4"}, lines(e.mustRun(t, "list", "--require", "Cooking", "--urls-only")))

	e.mustRun(t, "reclassify")
	assert.Equal(t, []string{"u1", "u3"}, lines(e.mustRun(t, "list", "--require", "Coding", "--urls-only")))
	assert.Equal(t, []string{"u2", "u4"}, lines(e.mustRun(t, "list", "--exclude", "Coding", "--urls-only")))
	assert.Equal(t, []string{"u2"}, lines(e.mustRun(t, "list", "--kw-any", "INTJ", "--urls-only")))
	assert.Equal(t, []string{"u3"}, lines(e.mustRun(t, "list", "--any", "Coding,MBTI", "--search", "loops", "--urls-only")))
	assert.Equal(t, []string{"u1"}, lines(e.mustRun(t, "list", "--limit", "1", "--urls-only")))

	var res changeResult
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "category", "rename", "Coding", "Programming")), &res))
	assert.True(t, res.Changed)
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "category", "rename", "Nope", "X")), &res))
	assert.False(t, res.Changed)

	e.mustRun(t, "keyword", "add", "MBTI", "/traits$/")
	e.mustRun(t, "keyword", "rename", "Programming", "python", "list")
	e.mustRun(t, "reclassify")

	var cats []categoryEntry
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "category", "list")), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, categoryEntry{Name: "Programming", Keywords: []string{"list", "/^bash/"}, Chats: 2}, cats[0])
	assert.Equal(t, []string{"intj", "/traits$/"}, cats[1].Keywords)

	var tag tagResult
	out, errOut, err := e.run(t, "tag", "MBTI", "u1", "u3", "zzz")
	require.NoError(t, err)
	assert.Contains(t, errOut, "no such chat: zzz")
	require.NoError(t, json.Unmarshal([]byte(out), &tag))
	assert.Equal(t, []string{"u1", "u3"}, tag.Tagged)
	assert.Equal(t, []string{"zzz"}, tag.Missing)
	assert.Equal(t, []string{"Programming", "MBTI"}, tag.Shared)

	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "tag", "--toggle", "MBTI", "u1", "u3")), &tag))
	assert.Equal(t, []string{"Programming"}, tag.Shared)

	e.mustRun(t, "category", "rm", "MBTI")

	var exported model.Document
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "export")), &exported))
	assert.Equal(t, []string{"Programming"}, exported.Categories.Names())
	assert.Equal(t, []string{"MBTI"}, categoriesByURL(exported.Chats)["u2"], "removing a category leaves chat tags alone")

	var stats struct {
		Backups int `json:"backups"`
		Report  struct {
			Total   int `json:"total"`
			Orphans []struct {
				Category string `json:"category"`
			} `json:"orphans"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "stats")), &stats))
	assert.Equal(t, 4, stats.Report.Total)
	assert.Equal(t, 1, stats.Backups)
	require.Len(t, stats.Report.Orphans, 1)
	assert.Equal(t, "MBTI", stats.Report.Orphans[0].Category)
}

func TestMergeAndBackups(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "import", e.write(t, "chats.json", fixture))

	incoming := e.write(t, "new.json", `{"chats": [
  {"url": "u1", "title": "Python tips v2", "chats": ["list comprehension", "generators"]},
  {"url": "u5", "title": "New chat", "chats": ["hello"]},
  {"title": "no url", "chats": []}
]}`)

	var m mergeOutput
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "merge", incoming)), &m))
	assert.Equal(t, []string{"u5"}, m.Added)
	assert.Equal(t, []string{"u1"}, m.Updated)
	assert.Equal(t, 1, m.Skipped)
	assert.NotEmpty(t, m.Backup)

	var found []model.Chat
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "search", "generators")), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Python tips", found[0].Title)

	var backups []struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
		Chats  int    `json:"chats"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "backup", "list")), &backups))
	require.Len(t, backups, 2)
	assert.True(t, strings.HasPrefix(backups[0].Reason, "merge"))
	assert.Equal(t, 4, backups[0].Chats)

	var restored restoreResult
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "backup", "restore", backups[0].ID)), &restored))
	assert.Equal(t, 4, restored.Chats)

	var exported model.Document
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "export")), &exported))
	assert.Len(t, exported.Chats, 4)

	_, _, err := e.run(t, "backup", "restore", "nope")
	assert.Error(t, err)
}

func TestWords(t *testing.T) {
	e := newEnv(t)
	in := e.write(t, "chats.json", `{
  "categories": {"A": ["x"], "B": ["y"]},
  "chats": [
    {"url": "1", "title": "the alpha", "chats": ["the 42"], "categories": ["A"]},
    {"url": "2", "title": "the beta", "chats": ["beta"], "categories": ["B"]}
  ]
}`)

	var common []struct {
		Word  string `json:"word"`
		Total int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "words", "common", "-i", in, "-t", "2")), &common))
	require.Len(t, common, 1)
	assert.Equal(t, "the", common[0].Word)
	assert.Equal(t, 3, common[0].Total)

	var top []struct {
		Category string `json:"category"`
		Words    []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		} `json:"words"`
	}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "words", "top", "-i", in, "-t", "2", "-n", "1")), &top))
	require.Len(t, top, 2)
	assert.Equal(t, "alpha", top[0].Words[0].Word)
	assert.Equal(t, "beta", top[1].Words[0].Word)
	assert.Equal(t, 2, top[1].Words[0].Count)
}

func TestTextFormat(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "import", e.write(t, "chats.json", fixture))

	out := e.mustRun(t, "--format", "text", "category", "list")
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "python, /^bash/")

	_, _, err := e.run(t, "--format", "yaml", "stats")
	assert.Error(t, err)
}

var errDiskFull = errors.New("disk full")

// readOnlyStore loads a document but fails every save.
type readOnlyStore struct {
	doc model.Document
}

func (s *readOnlyStore) Load(context.Context) (model.Document, error) {
	return s.doc.Clone(), nil
}

func (s *readOnlyStore) Save(context.Context, model.Document) error {
	return errDiskFull
}

func (s *readOnlyStore) Close() error { return nil }

func (s *readOnlyStore) Backup(context.Context, string) (*store.Backup, error) {
	return nil, errDiskFull
}

func TestEditFailsWhenSaveFails(t *testing.T) {
	e := newEnv(t)
	doc, err := document.Decode(strings.NewReader(fixture))
	require.NoError(t, err)

	orig := sessionStore
	sessionStore = func() (store.Store, error) { return &readOnlyStore{doc: doc}, nil }
	t.Cleanup(func() { sessionStore = orig })

	for _, args := range [][]string{
		{"category", "add", "Cooking"},
		{"keyword", "add", "MBTI", "enfp"},
		{"tag", "MBTI", "u1"},
		{"reclassify"},
	} {
		out, _, err := e.run(t, args...)
		require.Error(t, err, args)
		assert.ErrorIs(t, err, errDiskFull, args)
		assert.Contains(t, err.Error(), "save", args)
		assert.Empty(t, out, args)
	}

	// An edit that changes nothing never saves.
	var res changeResult
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "category", "add", "Coding")), &res))
	assert.False(t, res.Changed)
}

func TestListKeywordFilters(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "import", e.write(t, "chats.json", fixture))

	assert.Equal(t, []string{"u3"}, lines(e.mustRun(t, "list", "--kw-require", "/^bash l{1,2}oops/", "--urls-only")))
	assert.Equal(t, []string{"u1", "u2"}, lines(e.mustRun(t, "list", "--kw-any", "python", "--kw-any", "intj", "--urls-only")))
	assert.Equal(t, []string{"u1", "u2", "u4"}, lines(e.mustRun(t, "list", "--kw-exclude", "/^BASH\\s/", "--urls-only")))

	_, errOut, err := e.run(t, "--format", "text", "list", "--require", "Cooking", "--kw-any", "Pasta")
	require.NoError(t, err)
	assert.Contains(t, errOut, "require: Cooking; kw-any: pasta")
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t)

	e.mustRun(t, "config", "init")
	_, err := os.Stat(e.config)
	require.NoError(t, err)

	_, _, err = e.run(t, "config", "init")
	assert.Error(t, err, "refuses to overwrite")
	e.mustRun(t, "config", "init", "--force")

	out := e.mustRun(t, "config", "show")
	assert.Contains(t, out, "keep: 10")
	assert.Contains(t, out, "db: "+e.db)
}
