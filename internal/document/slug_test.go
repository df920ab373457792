package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello!":              "hello",
		"Hello, World!":       "hello-world",
		"  Spaces   galore  ": "spaces-galore",
		"snake_case_title":    "snake-case-title",
		"Café au Lait":        "cafe-au-lait",
		"Ünïcödé Tïtle":       "unicode-title",
		"C++ in 2020":         "c-in-2020",
		"already-a-slug":      "already-a-slug",
		"!!!":                 "",
		"":                    "",
		"MiXeD CaSe":          "mixed-case",
		"a/b/c":               "a-b-c",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugify_Stable(t *testing.T) {
	first := Slugify("Hello, Wörld! It's 2017.")
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Slugify("Hello, Wörld! It's 2017."))
	}
}
