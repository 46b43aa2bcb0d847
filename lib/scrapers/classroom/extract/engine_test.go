package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func strategy(name string, records []string, err error) Strategy[string] {
	return Strategy[string]{
		Name: name,
		Run: func(ctx context.Context, src *Source) ([]string, error) {
			return records, err
		},
	}
}

func TestRunFirstNonEmptyWins(t *testing.T) {
	src := NewSource("<html></html>")

	records := Run(context.Background(), "test", src,
		strategy("empty", nil, nil),
		strategy("second", []string{"b", "c"}, nil),
		strategy("third", []string{"never evaluated as a result"}, nil),
	)
	require.Equal(t, []string{"b", "c"}, records)
}

func TestRunNeverMergesStrategies(t *testing.T) {
	src := NewSource("")

	records := Run(context.Background(), "test", src,
		strategy("first", []string{"a"}, nil),
		strategy("second", []string{"b"}, nil),
	)
	require.Equal(t, []string{"a"}, records)
}

func TestRunSkipsFailedStrategies(t *testing.T) {
	src := NewSource("")

	records := Run(context.Background(), "test", src,
		strategy("broken", nil, fmt.Errorf("selector blew up")),
		strategy("working", []string{"x"}, nil),
	)
	require.Equal(t, []string{"x"}, records)
}

func TestRunAllEmpty(t *testing.T) {
	src := NewSource("")

	records := Run(context.Background(), "test", src,
		strategy("a", nil, nil),
		strategy("b", []string{}, nil),
	)
	require.Empty(t, records)
}

func TestSourceDocIsLazyAndReused(t *testing.T) {
	src := NewSource(`<div id="x">hello</div>`)

	doc1, err := src.Doc()
	require.NoError(t, err)
	doc2, err := src.Doc()
	require.NoError(t, err)
	require.Same(t, doc1, doc2)
	require.Equal(t, "hello", doc1.Find("#x").Text())
}
