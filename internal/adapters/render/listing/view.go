package listing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/observation-displayer/internal/application"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

func headerLines(f application.Filter, s styles) []string {
	lines := []string{s.title.Render("Observations")}
	if filter := filterLabel(f); filter != "" {
		lines = append(lines, s.header.Render(filter))
	}
	return lines
}

func footerLine(page application.ListingPage, s styles) string {
	return s.footer.Render(fmt.Sprintf("page %d/%d (%d %s)", page.Page, page.Pages, page.Total, plural(page.Total, "observation")))
}

func renderEntry(entry application.ListingEntry, opts RenderOptions, s styles) string {
	id := s.id.Render(fmt.Sprintf("%d.", entry.ID))
	if !entry.ID.Assigned() {
		id = s.pending.Render("(saving)")
	}

	parts := []string{
		id,
		" ",
		s.content.Render(fmt.Sprintf("%q", domain.Excerpt(entry.Content))),
		" ",
		s.author.Render("> " + entry.Author),
		" ",
		s.location.Render("(" + entry.Anchor.String() + ")"),
	}

	if entry.Temporary {
		parts = append(parts, " ", s.temporary.Render("[temporary]"))
	} else if entry.Expiration != nil {
		parts = append(parts, " ", s.location.Render(formatExpiryRelative(*entry.Expiration, opts.Now)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func filterLabel(f application.Filter) string {
	var parts []string
	if f.Author != "" {
		parts = append(parts, "player: "+f.Author)
	}
	if f.World != "" {
		parts = append(parts, "world: "+f.World)
	}
	return strings.Join(parts, " | ")
}

func formatExpiryRelative(expiresAt, now time.Time) string {
	if now.IsZero() {
		return "expires " + domain.FormatDate(expiresAt)
	}

	if now.After(expiresAt) {
		return "expired"
	}

	remaining := expiresAt.Sub(now)
	if remaining < 24*time.Hour {
		hours := max(int(math.Ceil(remaining.Hours())), 1)
		return fmt.Sprintf("expires in %d %s", hours, plural(hours, "hour"))
	}

	days := max(int(math.Ceil(remaining.Hours()/24)), 1)
	return fmt.Sprintf("expires in %d %s", days, plural(days, "day"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
