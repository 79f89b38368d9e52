// Package projection derives filtered, sorted views over in-memory
// collections. Project is a pure function: it never mutates its input and
// always returns the same output for the same inputs, which keeps it
// testable without the record store.
package projection

import (
	"sort"
	"strings"
	"time"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DateRange buckets are relative to Options.Now at evaluation time, rolling
// windows rather than calendar boundaries.
type DateRange string

const (
	DateAny   DateRange = ""
	DateToday DateRange = "today"
	DateWeek  DateRange = "week"
	DateMonth DateRange = "month"
)

type Options struct {
	SearchTerm string
	Status     string
	Category   string
	DateRange  DateRange
	SortBy     string
	SortOrder  SortOrder
	Now        time.Time
}

// Fields describes how one entity type exposes its projectable facets.
// Accessors left nil disable the corresponding filter for that entity.
type Fields[T any] struct {
	SearchText func(T) []string
	Status     func(T) string
	Category   func(T) string
	CreatedAt  func(T) time.Time
	// Less compares two records for a named sort field, ascending.
	SortLess map[string]func(a, b T) bool
}

// Project returns the ordered subset of items matching opts. Sort is stable
// for ties and defaults to descending creation time when no field is named.
func Project[T any](items []T, fields Fields[T], opts Options) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, fields, opts) {
			out = append(out, item)
		}
	}

	less := sortLess(fields, opts)
	if less != nil {
		desc := descending(opts)
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}
	return out
}

func descending(opts Options) bool {
	switch opts.SortOrder {
	case SortAsc:
		return false
	case SortDesc:
		return true
	default:
		// no explicit order: creation-time sorts newest first, named
		// fields sort ascending
		return opts.SortBy == ""
	}
}

func matches[T any](item T, fields Fields[T], opts Options) bool {
	if opts.SearchTerm != "" && fields.SearchText != nil {
		term := strings.ToLower(opts.SearchTerm)
		found := false
		for _, text := range fields.SearchText(item) {
			if strings.Contains(strings.ToLower(text), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if opts.Status != "" && fields.Status != nil && fields.Status(item) != opts.Status {
		return false
	}

	if opts.Category != "" && fields.Category != nil && fields.Category(item) != opts.Category {
		return false
	}

	if opts.DateRange != DateAny && fields.CreatedAt != nil {
		if !inRange(fields.CreatedAt(item), opts.DateRange, opts.Now) {
			return false
		}
	}

	return true
}

func inRange(t time.Time, r DateRange, now time.Time) bool {
	switch r {
	case DateToday:
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateWeek:
		return !t.Before(now.AddDate(0, 0, -7)) && !t.After(now)
	case DateMonth:
		return !t.Before(now.AddDate(0, 0, -30)) && !t.After(now)
	default:
		return true
	}
}

// sortLess returns the ascending comparator for the requested field, falling
// back to creation time.
func sortLess[T any](fields Fields[T], opts Options) func(a, b T) bool {
	if opts.SortBy != "" {
		if less, ok := fields.SortLess[opts.SortBy]; ok {
			return less
		}
	}
	if fields.CreatedAt == nil {
		return nil
	}
	return func(a, b T) bool { return fields.CreatedAt(a).Before(fields.CreatedAt(b)) }
}
