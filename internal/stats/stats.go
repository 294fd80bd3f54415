// file: internal/stats/stats.go
// version: 1.0.0
// guid: 5d8e2b47-1c9a-4f63-b0e5-7a2d4c8f1e96

// Package stats derives per-year reading statistics from a loaded library.
package stats

import (
	"sort"

	"github.com/jdfalk/reading-report/internal/library"
)

// YearStat is the number of books and pages finished in one calendar year.
type YearStat struct {
	Year  int
	Books int
	Pages int
}

// Summary holds library-wide totals.
type Summary struct {
	TotalBooks    int
	DatedBooks    int
	TotalPages    int
	RatedBooks    int
	AverageRating float64
	FirstYear     int
	LastYear      int
}

// Aggregate groups books by the year they were read, ascending. Books
// without a read date are not counted.
func Aggregate(books []library.Book) []YearStat {
	byYear := make(map[int]*YearStat)
	for _, b := range books {
		if b.DateRead == nil {
			continue
		}
		y := b.DateRead.Year()
		s, ok := byYear[y]
		if !ok {
			s = &YearStat{Year: y}
			byYear[y] = s
		}
		s.Books++
		s.Pages += b.Pages
	}

	out := make([]YearStat, 0, len(byYear))
	for _, s := range byYear {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Summarize computes totals over every book, dated or not.
func Summarize(books []library.Book) Summary {
	var s Summary
	ratingSum := 0
	for _, b := range books {
		s.TotalBooks++
		s.TotalPages += b.Pages
		if b.Rating > 0 {
			s.RatedBooks++
			ratingSum += b.Rating
		}
		if b.DateRead == nil {
			continue
		}
		s.DatedBooks++
		y := b.DateRead.Year()
		if s.FirstYear == 0 || y < s.FirstYear {
			s.FirstYear = y
		}
		if y > s.LastYear {
			s.LastYear = y
		}
	}
	if s.RatedBooks > 0 {
		s.AverageRating = float64(ratingSum) / float64(s.RatedBooks)
	}
	return s
}

// Max returns the largest Books and Pages values across stats.
func Max(stats []YearStat) (books, pages int) {
	for _, s := range stats {
		books = max(books, s.Books)
		pages = max(pages, s.Pages)
	}
	return books, pages
}
