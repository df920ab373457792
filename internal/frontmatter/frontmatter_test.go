package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
)

func TestSplit_MetadataAndBody_SplitsAtClosingDelimiter(t *testing.T) {
	input := []byte("---\ntitle: \"Hi\"\ndate: 2017-05-21 10:18:00\n---\nBody line\n")

	meta, body, _, err := Split(input, "a.md")
	require.NoError(t, err)
	require.Equal(t, []byte("title: \"Hi\"\ndate: 2017-05-21 10:18:00\n"), meta)
	require.Equal(t, []byte("Body line\n"), body)
}

func TestSplit_MissingOpeningDelimiter_MalformedDocument(t *testing.T) {
	input := []byte("title: no block\n\nBody\n")

	_, _, _, err := Split(input, "a.md")
	require.Error(t, err)
	require.True(t, ferrors.IsCode(err, ferrors.CodeMalformedDocument))
}

func TestSplit_MissingClosingDelimiter_UnterminatedMetadata(t *testing.T) {
	input := []byte("---\ntitle: dangling\nBody without close\n")

	_, _, _, err := Split(input, "a.md")
	require.Error(t, err)
	require.True(t, ferrors.IsCode(err, ferrors.CodeUnterminatedMetadata))
}

func TestSplit_EmptyMetadataBlock_ReturnsEmptyMeta(t *testing.T) {
	input := []byte("---\n---\nBody\n")

	meta, body, _, err := Split(input, "a.md")
	require.NoError(t, err)
	require.Empty(t, meta)
	require.Equal(t, []byte("Body\n"), body)
}

func TestSplit_CloseDelimiterAtEOF_EmptyBody(t *testing.T) {
	input := []byte("---\ntitle: t\n---")

	meta, body, _, err := Split(input, "a.md")
	require.NoError(t, err)
	require.Equal(t, []byte("title: t\n"), meta)
	require.Empty(t, body)
}

func TestSplit_CRLF_PreservesStyle(t *testing.T) {
	input := []byte("---\r\ntitle: t\r\n---\r\nBody\r\n")

	meta, body, style, err := Split(input, "a.md")
	require.NoError(t, err)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("title: t\r\n"), meta)
	require.Equal(t, []byte("Body\r\n"), body)
}

func TestSplit_BodyKeepsOnlyContentAfterDelimiterNewline(t *testing.T) {
	// Exactly the newline following the closing delimiter is consumed; a blank
	// line after it belongs to the body.
	input := []byte("---\ntitle: t\n---\n\nBody\n")

	_, body, _, err := Split(input, "a.md")
	require.NoError(t, err)
	require.Equal(t, []byte("\nBody\n"), body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("---\ntitle: t\n---\nBody\n"),
		[]byte("---\n---\nBody\n"),
		[]byte("---\r\ntitle: t\r\n---\r\nBody\r\n"),
	}

	for _, input := range cases {
		meta, body, style, err := Split(input, "a.md")
		require.NoError(t, err)
		require.Equal(t, input, Join(meta, body, style))
	}
}

func TestMetadataRoundTrip_FieldsSurviveSplitJoinSplit(t *testing.T) {
	input := []byte("---\nlayout: post\ntitle: \"Hello!\"\ndate: 2017-05-21 10:18:00\ncategories: Rails\n---\nOne line body\n")

	meta, body, style, err := Split(input, "a.md")
	require.NoError(t, err)
	first, warns := ParseFields(meta)
	require.Empty(t, warns)

	rejoined := Join(meta, body, style)
	meta2, _, _, err := Split(rejoined, "a.md")
	require.NoError(t, err)
	second, warns := ParseFields(meta2)
	require.Empty(t, warns)

	require.Equal(t, first, second)
}
