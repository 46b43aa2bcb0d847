package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<ul>
			<li><a href="/c/NDg3">  Matemáticas
				3B </a></li>
			<li><a href="/c/OTIx"><span>Historia</span></a></li>
			<li><a href="://bad url">broken</a></li>
		</ul>
	`))
	require.NoError(t, err)

	anchors := GetAnchors(doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "Matemáticas 3B", Href: "/c/NDg3"},
		{Name: "Historia", Href: "/c/OTIx"},
	}, anchors)
}

func TestUnescapeFragment(t *testing.T) {
	in := "https://docs.google.com/document/d/abc123/edit?usp=drive_web&amp;ouid=1"
	require.Equal(t,
		"https://docs.google.com/document/d/abc123/edit?usp=drive_web&ouid=1",
		UnescapeFragment(in),
	)
}
