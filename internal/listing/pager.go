// Package listing derives paged views over the dislike-filtered job sequence.
// Pages are zero-based internally; everything user-facing in Header is
// 1-based. The input order is whatever the catalog loader produced, no
// further sorting is applied.
package listing

import "github.com/maabuz/ishbot/internal/model"

// DefaultPageSize is the number of postings shown per page.
const DefaultPageSize = 10

// Visible filters out postings the user has disliked, preserving order.
func Visible(jobs []model.JobPosting, disliked []int64) []model.JobPosting {
	if len(disliked) == 0 {
		return jobs
	}
	excluded := make(map[int64]struct{}, len(disliked))
	for _, id := range disliked {
		excluded[id] = struct{}{}
	}
	out := make([]model.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := excluded[j.ID]; ok {
			continue
		}
		out = append(out, j)
	}
	return out
}

// Slice returns the half-open [start, end) window for page and its items.
// A page beyond the end yields an empty slice.
func Slice(jobs []model.JobPosting, page, pageSize int) (start, end int, items []model.JobPosting) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	start = page * pageSize
	if start >= len(jobs) {
		return start, start, nil
	}
	end = start + pageSize
	if end > len(jobs) {
		end = len(jobs)
	}
	return start, end, jobs[start:end]
}

// Header carries the 1-based numbers rendered above a page.
type Header struct {
	Total        int
	PageNumber   int // 1-based
	PageCount    int // never below 1
	DisplayStart int // 1-based, 0 when the list is empty
	DisplayEnd   int
}

// HeaderFor computes the header for a page over total items.
func HeaderFor(total, page, pageSize int) Header {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	start := 0
	if total > 0 {
		start = page*pageSize + 1
	}
	end := (page + 1) * pageSize
	if end > total {
		end = total
	}
	return Header{
		Total:        total,
		PageNumber:   page + 1,
		PageCount:    pages,
		DisplayStart: start,
		DisplayEnd:   end,
	}
}

// HasPrev reports whether a previous page exists.
func HasPrev(page int) bool {
	return page > 0
}

// HasNext reports whether items remain after the current page window.
func HasNext(end, total int) bool {
	return end < total
}

// ClampPage pulls the page index back when the filtered list shrank under it,
// e.g. after the last visible item on a page was disliked. It steps back a
// single page, which is always enough because a dislike removes one item.
func ClampPage(page, total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page > 0 && page*pageSize >= total {
		return page - 1
	}
	if page < 0 {
		return 0
	}
	return page
}
