package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_ProseToHTML(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render([]byte("# Title\n\nSome *emphasis*.\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<h1>Title</h1>")
	require.Contains(t, string(out), "<em>emphasis</em>")
}

func TestRender_RawCodeContainerPassesThrough(t *testing.T) {
	r := NewRenderer()
	body := "Intro\n\n<figure class=\"highlight\"><pre><code class=\"language-ruby\" data-lang=\"ruby\">class A\nend\n</code></pre></figure>\n"
	out, err := r.Render([]byte(body))
	require.NoError(t, err)
	require.Contains(t, string(out), `<figure class="highlight">`)
	require.Contains(t, string(out), "class A\nend\n</code></pre></figure>")
}
