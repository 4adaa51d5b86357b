package application

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
)

const DefaultPageSize = 10

type ListingQuery struct {
	Filter   Filter
	Page     int
	PageSize int
}

type ListingEntry struct {
	ID         domain.ObservationID
	Author     string
	Content    string
	Anchor     domain.Location
	CreatedAt  time.Time
	Expiration *time.Time
	Temporary  bool
}

func (e ListingEntry) Summary() string {
	return domain.Summary(e.ID, e.Content, e.Author, e.Anchor)
}

type ListingPage struct {
	Filter  Filter
	Entries []ListingEntry
	Page    int
	Pages   int
	Total   int
}

// Page returns one page of matching observations ordered by id. Entries
// still waiting for a durable id sort last, oldest first.
func (r *ObservationRegistry) Page(q ListingQuery) ListingPage {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	entries := r.listingEntries(q.Filter)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ID.Assigned() != b.ID.Assigned() {
			return a.ID.Assigned()
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	total := len(entries)
	pages := (total + q.PageSize - 1) / q.PageSize
	if pages == 0 {
		pages = 1
	}
	page := min(max(q.Page, 1), pages)

	start := min((page-1)*q.PageSize, total)
	end := min(start+q.PageSize, total)

	return ListingPage{
		Filter:  q.Filter,
		Entries: entries[start:end],
		Page:    page,
		Pages:   pages,
		Total:   total,
	}
}

func (r *ObservationRegistry) listingEntries(f Filter) []ListingEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]ListingEntry, 0, len(r.entries))
	for _, o := range r.entries {
		if !f.match(o) {
			continue
		}
		entries = append(entries, ListingEntry{
			ID:         o.id,
			Author:     o.author,
			Content:    o.content,
			Anchor:     o.anchor,
			CreatedAt:  o.createdAt,
			Expiration: cloneTime(o.expiration),
			Temporary:  o.temporary,
		})
	}

	return entries
}

// CompleteIDs suggests durable ids starting with hint, in numeric order.
func (r *ObservationRegistry) CompleteIDs(hint string) []string {
	r.mu.Lock()
	ids := make([]domain.ObservationID, 0, len(r.entries))
	for _, o := range r.entries {
		if o.id.Assigned() {
			ids = append(ids, o.id)
		}
	}
	r.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []string
	for _, id := range ids {
		s := strconv.FormatInt(int64(id), 10)
		if strings.HasPrefix(s, hint) {
			out = append(out, s)
		}
	}

	return out
}

// CompleteAuthors suggests distinct author names starting with hint,
// ignoring case.
func (r *ObservationRegistry) CompleteAuthors(hint string) []string {
	r.mu.Lock()
	seen := map[string]struct{}{}
	for _, o := range r.entries {
		if hasPrefixFold(o.author, hint) {
			seen[o.author] = struct{}{}
		}
	}
	r.mu.Unlock()

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}
