package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Source is one rendered-markup snapshot handed to every strategy of an
// extraction pass. Strategies never touch the live page, so running the
// same pass twice over one Source yields identical results.
type Source struct {
	html string
	doc  *goquery.Document
	err  error
}

func NewSource(html string) *Source {
	return &Source{html: html}
}

func (s *Source) HTML() string {
	return s.html
}

// Doc lazily parses the snapshot for structural strategies.
func (s *Source) Doc() (*goquery.Document, error) {
	if s.doc == nil && s.err == nil {
		s.doc, s.err = goquery.NewDocumentFromReader(strings.NewReader(s.html))
	}
	return s.doc, s.err
}
