package domain

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		ID:        UnassignedID,
		CreatedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		Author:    "Poi",
		View:      Location{World: "world", X: 1, Y: 2, Z: 3},
		Content:   "Cool rock formation",
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{name: "valid", mutate: func(*Record) {}},
		{name: "empty content", mutate: func(r *Record) { r.Content = "   " }, wantErr: ErrInvalidContent},
		{name: "long content", mutate: func(r *Record) { r.Content = strings.Repeat("é", MaxContentLength+1) }, wantErr: ErrInvalidContent},
		{name: "max content", mutate: func(r *Record) { r.Content = strings.Repeat("é", MaxContentLength) }},
		{name: "missing world", mutate: func(r *Record) { r.View.World = "" }, wantErr: ErrInvalidLocation},
		{name: "nan coordinate", mutate: func(r *Record) { r.View.Y = math.NaN() }, wantErr: ErrInvalidLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)

			err := r.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	r := validRecord()
	r.Author = ""
	require.Error(t, r.Validate())
}

func TestRecordExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r := validRecord()

	assert.False(t, r.Expired(now))

	at := now
	r.Expiration = &at
	assert.False(t, r.Expired(now))
	assert.True(t, r.Expired(now.Add(time.Millisecond)))
}

func TestObservationIDAssigned(t *testing.T) {
	assert.False(t, UnassignedID.Assigned())
	assert.True(t, ObservationID(0).Assigned())
}

func TestMarkerLines(t *testing.T) {
	r := validRecord()

	lines := MarkerLines(r, "")
	require.Len(t, lines, 3)
	assert.Equal(t, MarkerLine{Glyph: DefaultGlyph}, lines[0])
	assert.Equal(t, "Cool rock formation", lines[1].Text)
	assert.Equal(t, "Poi - May 1, 2026 9:30 AM", lines[2].Text)

	expires := time.Date(2026, 5, 2, 18, 5, 0, 0, time.UTC)
	r.Expiration = &expires
	r.Temporary = true
	lines = MarkerLines(r, "FERN")
	require.Len(t, lines, 5)
	assert.Equal(t, Glyph("FERN"), lines[0].Glyph)
	assert.Equal(t, "Expires May 2, 2026 6:05 PM", lines[3].Text)
	assert.Equal(t, "*temporary*", lines[4].Text)
}

func TestSummary(t *testing.T) {
	anchor := Location{World: "world", X: -0.5, Y: 64.9, Z: 12}

	assert.Equal(t, `3. "Short" > Poi (world, -1, 64, 12)`, Summary(3, "Short", "Poi", anchor))
	assert.Equal(t, `4. "exactly twenty chars" > Poi (world, -1, 64, 12)`, Summary(4, "exactly twenty chars", "Poi", anchor))
	assert.Equal(t, `5. "exactly twenty chars . . ." > Poi (world, -1, 64, 12)`, Summary(5, "exactly twenty chars!", "Poi", anchor))
}
