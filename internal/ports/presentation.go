package ports

import "github.com/bnema/observation-displayer/internal/domain"

// MarkerHandle identifies a rendered marker. Zero is never a live marker.
type MarkerHandle uint64

// Presenter owns the visual surface markers are drawn on. Calls are
// synchronous and must not call back into the caller.
type Presenter interface {
	Render(anchor domain.Location, lines []domain.MarkerLine) MarkerHandle
	Destroy(handle MarkerHandle)
	ReplaceLine(handle MarkerHandle, index int, line domain.MarkerLine)
}

type Teleporter interface {
	Teleport(actor domain.Actor, to domain.Location)
}

type PromptOption struct {
	Label   string
	Token   domain.CallbackToken
	Command string
}

type Prompt struct {
	Text    string
	Options []PromptOption
	// FreeText is set when the actor may append their own answer to Command.
	FreeText *PromptOption
}

// Prompter talks to a single actor during guided entry.
type Prompter interface {
	ShowMenu(actor domain.Actor, catalog domain.Catalog)
	CloseMenu(actor domain.Actor)
	Prompt(actor domain.Actor, prompt Prompt)
	Message(actor domain.Actor, text string)
}

type TemplateSource interface {
	Catalog() domain.Catalog
}
