package domain

import (
	"fmt"
	"sort"
	"strings"
)

type TemplateType string

const (
	TemplateAnalogy     TemplateType = "ANALOGY"
	TemplateComparative TemplateType = "COMPARATIVE"
	TemplateDescriptive TemplateType = "DESCRIPTIVE"
	TemplateOther       TemplateType = "OTHER"
)

const placeholder = "{}"

// Prompt is one field of a template. Responses are offered as options;
// AllowCustom additionally accepts free text from the actor.
type Prompt struct {
	Text        string
	Responses   []string
	AllowCustom bool
}

type Template struct {
	Type     TemplateType
	Title    string
	Glyph    Glyph
	Lore     []string
	Position int
	Sentence string
	Prompts  []Prompt
}

// Compose fills the sentence placeholders with values in order. Without a
// sentence the values are joined with spaces.
func (t Template) Compose(values []string) string {
	if t.Sentence == "" {
		return strings.Join(values, " ")
	}

	var b strings.Builder
	rest := t.Sentence
	for _, value := range values {
		idx := strings.Index(rest, placeholder)
		if idx < 0 {
			break
		}
		b.WriteString(rest[:idx])
		b.WriteString(value)
		rest = rest[idx+len(placeholder):]
	}
	b.WriteString(rest)

	return b.String()
}

type MenuItem struct {
	Position int
	Glyph    Glyph
	Name     string
}

// Menu is the template picker: Rows*9 slots of filler with a cancel item and
// one item per template.
type Menu struct {
	Title  string
	Rows   int
	Filler Glyph
	Cancel MenuItem
}

func (m Menu) Size() int {
	return m.Rows * 9
}

type SlotKind int

const (
	SlotFiller SlotKind = iota
	SlotCancel
	SlotTemplate
)

type Catalog struct {
	Menu      Menu
	Templates []Template
}

func (c Catalog) Template(kind TemplateType) (Template, bool) {
	for _, t := range c.Templates {
		if t.Type == kind {
			return t, true
		}
	}

	return Template{}, false
}

// Slot resolves what sits at a menu position.
func (c Catalog) Slot(position int) (SlotKind, Template) {
	if position == c.Menu.Cancel.Position {
		return SlotCancel, Template{}
	}
	for _, t := range c.Templates {
		if t.Position == position {
			return SlotTemplate, t
		}
	}

	return SlotFiller, Template{}
}

// Sorted returns templates ordered by menu position.
func (c Catalog) Sorted() []Template {
	sorted := append([]Template(nil), c.Templates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return sorted
}

func (c Catalog) Validate() error {
	size := c.Menu.Size()
	if size <= 0 {
		return fmt.Errorf("%w: menu needs at least one row", ErrInvalidCatalog)
	}
	if c.Menu.Cancel.Position < 0 || c.Menu.Cancel.Position >= size {
		return fmt.Errorf("%w: cancel position %d outside menu of %d slots", ErrInvalidCatalog, c.Menu.Cancel.Position, size)
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("%w: no templates", ErrInvalidCatalog)
	}

	used := map[int]string{c.Menu.Cancel.Position: "cancel"}
	types := map[TemplateType]struct{}{}
	for _, t := range c.Templates {
		if t.Position < 0 || t.Position >= size {
			return fmt.Errorf("%w: template %s position %d outside menu of %d slots", ErrInvalidCatalog, t.Type, t.Position, size)
		}
		if other, ok := used[t.Position]; ok {
			return fmt.Errorf("%w: template %s shares position %d with %s", ErrInvalidCatalog, t.Type, t.Position, other)
		}
		used[t.Position] = string(t.Type)

		if _, ok := types[t.Type]; ok {
			return fmt.Errorf("%w: duplicate template %s", ErrInvalidCatalog, t.Type)
		}
		types[t.Type] = struct{}{}

		if len(t.Prompts) == 0 {
			return fmt.Errorf("%w: template %s has no prompts", ErrInvalidCatalog, t.Type)
		}
		if t.Sentence != "" && strings.Count(t.Sentence, placeholder) != len(t.Prompts) {
			return fmt.Errorf("%w: template %s sentence has %d placeholders for %d prompts",
				ErrInvalidCatalog, t.Type, strings.Count(t.Sentence, placeholder), len(t.Prompts))
		}
		for i, p := range t.Prompts {
			if len(p.Responses) == 0 && !p.AllowCustom {
				return fmt.Errorf("%w: template %s prompt %d accepts no answer", ErrInvalidCatalog, t.Type, i)
			}
		}
	}

	return nil
}
