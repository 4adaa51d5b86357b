package domain

import (
	"fmt"
	"strings"
	"time"
)

type ObservationID int64

// UnassignedID marks an observation whose durable id has not come back from
// storage yet.
const UnassignedID ObservationID = -1

func (id ObservationID) Assigned() bool {
	return id >= 0
}

// Glyph names the item shown on the first line of a marker.
type Glyph string

const DefaultGlyph Glyph = "OAK_SIGN"

const MaxContentLength = 256

// Record is the stored form of an observation.
type Record struct {
	ID         ObservationID
	CreatedAt  time.Time
	Author     string
	View       Location
	Content    string
	Expiration *time.Time
	Temporary  bool
}

func (r Record) Validate() error {
	content := strings.TrimSpace(r.Content)
	if content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidContent)
	}
	if len([]rune(content)) > MaxContentLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrInvalidContent, MaxContentLength)
	}
	if strings.TrimSpace(r.Author) == "" {
		return fmt.Errorf("author is required")
	}

	return r.View.Validate()
}

// Expired reports whether the record has an expiration and now is past it.
func (r Record) Expired(now time.Time) bool {
	return r.Expiration != nil && now.After(*r.Expiration)
}

// MarkerLine is one line of a rendered marker. A line with a Glyph is an
// item line; otherwise Text is shown.
type MarkerLine struct {
	Glyph Glyph
	Text  string
}

const dateLayout = "Jan 2, 2006 3:04 PM"

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// MarkerLines lays out the marker for a record: glyph, content, author and
// date, then optional expiry and temporary notes.
func MarkerLines(r Record, glyph Glyph) []MarkerLine {
	if glyph == "" {
		glyph = DefaultGlyph
	}

	lines := []MarkerLine{
		{Glyph: glyph},
		{Text: r.Content},
		{Text: fmt.Sprintf("%s - %s", r.Author, FormatDate(r.CreatedAt))},
	}
	if r.Expiration != nil {
		lines = append(lines, MarkerLine{Text: "Expires " + FormatDate(*r.Expiration)})
	}
	if r.Temporary {
		lines = append(lines, MarkerLine{Text: "*temporary*"})
	}

	return lines
}

const excerptLength = 20

// Excerpt shortens content to its first 20 characters.
func Excerpt(content string) string {
	text := []rune(strings.TrimSpace(content))
	if len(text) <= excerptLength {
		return string(text)
	}
	return string(text[:excerptLength]) + " . . ."
}

// Summary is the one-line listing form: id, truncated content, author and
// block position of the marker.
func Summary(id ObservationID, content, author string, anchor Location) string {
	return fmt.Sprintf("%d. %q > %s (%s)", id, Excerpt(content), author, anchor)
}
