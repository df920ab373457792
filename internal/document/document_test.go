package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
	"git.home.luguber.info/inful/postforge/internal/frontmatter"
)

func md(title, date string, categories ...string) frontmatter.Metadata {
	return frontmatter.Metadata{Title: title, Date: date, Categories: categories}
}

func TestBuild_HelloScenario_DerivesExpectedIdentifier(t *testing.T) {
	b := NewBuilder(OrderInsertion)

	doc, err := b.Build(md("Hello!", "2017-05-21 10:18:00", "Rails"), "One line body\n", "One line body\n", "2017-05-21-hello.markdown")
	require.NoError(t, err)
	require.Equal(t, "/rails/2017/05/21/hello/", doc.Identifier)
	require.Equal(t, []string{"Rails"}, doc.Categories)
	require.Equal(t, "Hello!", doc.Title)
	require.Equal(t, time.Date(2017, 5, 21, 10, 18, 0, 0, time.UTC), doc.PublishedAt)
}

func TestBuild_NoCategories_Uncategorized(t *testing.T) {
	b := NewBuilder(OrderInsertion)
	doc, err := b.Build(md("A Post", "2020-01-02 03:04:05"), "", "", "a.md")
	require.NoError(t, err)
	require.Equal(t, "/uncategorized/2020/01/02/a-post/", doc.Identifier)
	require.Empty(t, doc.Categories)
}

func TestBuild_ExplicitSlugOverridesTitle(t *testing.T) {
	b := NewBuilder(OrderInsertion)
	meta := md("Some Long Title", "2020-01-02 03:04:05")
	meta.Slug = "Short One"
	doc, err := b.Build(meta, "", "", "a.md")
	require.NoError(t, err)
	require.Equal(t, "/uncategorized/2020/01/02/short-one/", doc.Identifier)
}

func TestBuild_UnparseableDate_InvalidDocument(t *testing.T) {
	b := NewBuilder(OrderInsertion)
	_, err := b.Build(md("T", "yesterday-ish"), "", "", "a.md")
	require.Error(t, err)
	require.True(t, ferrors.IsCode(err, ferrors.CodeInvalidDocument))

	var fe *ferrors.ForgeError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "unparseable date", fe.Context["reason"])
}

func TestBuild_EmptyTitle_InvalidDocument(t *testing.T) {
	b := NewBuilder(OrderInsertion)
	_, err := b.Build(md("   ", "2020-01-02 03:04:05"), "", "", "a.md")
	require.Error(t, err)
	require.True(t, ferrors.IsCode(err, ferrors.CodeInvalidDocument))
}

func TestBuild_PunctuationOnlyTitle_InvalidDocument(t *testing.T) {
	b := NewBuilder(OrderInsertion)
	_, err := b.Build(md("!!!", "2020-01-02 03:04:05"), "", "", "a.md")
	require.Error(t, err)
	require.True(t, ferrors.IsCode(err, ferrors.CodeInvalidDocument))
}

func TestParseDate_AcceptedLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2017-05-21 10:18:00":       time.Date(2017, 5, 21, 10, 18, 0, 0, time.UTC),
		"2017-05-21":                time.Date(2017, 5, 21, 0, 0, 0, 0, time.UTC),
		"2017-05-21T10:18:00Z":      time.Date(2017, 5, 21, 10, 18, 0, 0, time.UTC),
		"2017-05-21 10:18:00 +0200": time.Date(2017, 5, 21, 10, 18, 0, 0, time.FixedZone("", 2*3600)),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		require.True(t, want.Equal(got), "%s: want %v got %v", in, want, got)
	}

	_, err := ParseDate("21/05/2017")
	require.Error(t, err)
}

func TestNormalizeCategories_DedupAndOrder(t *testing.T) {
	got := NormalizeCategories([]string{" Rails ", "rails", "Deploys", "RAILS", ""}, OrderInsertion)
	require.Equal(t, []string{"Rails", "Deploys"}, got)

	got = NormalizeCategories([]string{"Zebra", "apple", "Mango"}, OrderAlphabetical)
	require.Equal(t, []string{"apple", "Mango", "Zebra"}, got)
}

func TestPermalink_DeterministicAcrossCalls(t *testing.T) {
	at := time.Date(2017, 5, 21, 10, 18, 0, 0, time.UTC)
	first := Permalink([]string{"Rails"}, at, "hello")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Permalink([]string{"Rails"}, at, "hello"))
	}
	require.Equal(t, "/rails/2017/05/21/hello/", first)
}

func TestSummarize_CopiesCategories(t *testing.T) {
	b := NewBuilder(OrderInsertion)
	doc, err := b.Build(md("T", "2020-01-02", "One"), "", "", "a.md")
	require.NoError(t, err)

	s := doc.Summarize()
	s.Categories[0] = "mutated"
	require.Equal(t, []string{"One"}, doc.Categories)
}
