// file: internal/report/renderer_test.go
// version: 1.0.0
// guid: 5a1d7e3c-8b2f-4c96-a0e4-6d9b1f3c7a58

package report

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/reading-report/internal/covers"
	"github.com/jdfalk/reading-report/internal/library"
	"github.com/jdfalk/reading-report/internal/stats"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleInput(n int) Input {
	books := make([]library.Book, n)
	results := make([]covers.CoverResult, n)
	for i := range books {
		read := time.Date(2020+i%3, 1, 1, 0, 0, 0, 0, time.UTC)
		books[i] = library.Book{
			Row:      i,
			BookID:   strconv.Itoa(100 + i),
			Title:    "Book number " + strconv.Itoa(i),
			Author:   "Author " + strconv.Itoa(i),
			Pages:    100 + i,
			DateRead: &read,
		}
		results[i] = covers.CoverResult{
			Source:  covers.SourcePlaceholder,
			Success: true,
			Image:   covers.GeneratePlaceholder(covers.PlaceholderSpec{Title: books[i].Title, Author: books[i].Author}),
		}
	}
	return Input{
		Books:       books,
		Covers:      results,
		Years:       stats.Aggregate(books),
		Summary:     stats.Summarize(books),
		GeneratedAt: fixedTime,
	}
}

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	res, err := NewRenderer().Render(&buf, sampleInput(3))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	// Title, summary, chart, one grid page.
	assert.Equal(t, 4, res.Pages)
	require.Len(t, res.Thumbnails, 3)
	for i, th := range res.Thumbnails {
		assert.Equal(t, i, th.Index)
		assert.Equal(t, strconv.Itoa(100+i), th.BookKey)
		assert.Equal(t, 4, th.Page)
		assert.False(t, th.Substituted)
	}
	assert.Zero(t, res.Substitutions)
}

func TestRenderPaginatesGrid(t *testing.T) {
	var buf bytes.Buffer
	res, err := NewRenderer().Render(&buf, sampleInput(13))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Pages)
	assert.Equal(t, 2, res.GridPages)
	assert.Equal(t, 4, res.Thumbnails[11].Page)
	assert.Equal(t, 5, res.Thumbnails[12].Page)
}

func TestRenderSubstitutesCorruptCover(t *testing.T) {
	in := sampleInput(3)
	in.Covers[1].Image = []byte("not a jpeg at all")
	in.Covers[2].Image = nil

	var buf bytes.Buffer
	res, err := NewRenderer().Render(&buf, in)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 2, res.Substitutions)
	assert.False(t, res.Thumbnails[0].Substituted)
	assert.True(t, res.Thumbnails[1].Substituted)
	assert.True(t, res.Thumbnails[2].Substituted)
}

func TestRenderLayoutIsRepeatable(t *testing.T) {
	in := sampleInput(5)
	first, err := NewRenderer().Render(&bytes.Buffer{}, in)
	require.NoError(t, err)
	second, err := NewRenderer().Render(&bytes.Buffer{}, in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderEmptyLibrary(t *testing.T) {
	var buf bytes.Buffer
	res, err := NewRenderer().Render(&buf, Input{GeneratedAt: fixedTime})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Zero(t, res.GridPages)
	assert.Empty(t, res.Thumbnails)
}

func TestRenderRejectsMisalignedCovers(t *testing.T) {
	in := sampleInput(2)
	in.Covers = in.Covers[:1]
	_, err := NewRenderer().Render(&bytes.Buffer{}, in)
	assert.Error(t, err)
}

func TestRenderNonLatinText(t *testing.T) {
	in := sampleInput(1)
	in.Books[0].Title = "Ночной дозор “Night Watch”"
	in.Books[0].Author = "Сергей Лукьяненко"

	var buf bytes.Buffer
	_, err := NewRenderer(WithTitle("Mes lectures à moi")).Render(&buf, in)
	require.NoError(t, err)
}
