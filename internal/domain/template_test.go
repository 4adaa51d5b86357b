package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		Menu: Menu{Title: "Observation type", Rows: 1, Filler: "GLASS_PANE", Cancel: MenuItem{Position: 8, Glyph: "BARRIER", Name: "Cancel"}},
		Templates: []Template{
			{Type: TemplateOther, Position: 6, Prompts: []Prompt{{Text: "Anything?", AllowCustom: true}}},
			{
				Type:     TemplateComparative,
				Position: 2,
				Sentence: "The {} is {} than the {}",
				Prompts: []Prompt{
					{Text: "First?", AllowCustom: true},
					{Text: "How?", Responses: []string{"taller", "older"}},
					{Text: "Second?", AllowCustom: true},
				},
			},
		},
	}
}

func TestTemplateCompose(t *testing.T) {
	catalog := testCatalog()

	comparative, ok := catalog.Template(TemplateComparative)
	require.True(t, ok)
	assert.Equal(t, "The oak is taller than the birch", comparative.Compose([]string{"oak", "taller", "birch"}))
	assert.Equal(t, "The oak is {} than the {}", comparative.Compose([]string{"oak"}))

	other, ok := catalog.Template(TemplateOther)
	require.True(t, ok)
	assert.Equal(t, "free form note", other.Compose([]string{"free form", "note"}))

	_, ok = catalog.Template(TemplateAnalogy)
	assert.False(t, ok)
}

func TestCatalogSlot(t *testing.T) {
	catalog := testCatalog()

	kind, _ := catalog.Slot(8)
	assert.Equal(t, SlotCancel, kind)

	kind, tmpl := catalog.Slot(2)
	assert.Equal(t, SlotTemplate, kind)
	assert.Equal(t, TemplateComparative, tmpl.Type)

	kind, _ = catalog.Slot(0)
	assert.Equal(t, SlotFiller, kind)

	sorted := catalog.Sorted()
	assert.Equal(t, TemplateComparative, sorted[0].Type)
	assert.Equal(t, TemplateOther, sorted[1].Type)
	assert.Equal(t, TemplateOther, catalog.Templates[0].Type)
}

func TestCatalogValidate(t *testing.T) {
	require.NoError(t, testCatalog().Validate())

	tests := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{name: "no rows", mutate: func(c *Catalog) { c.Menu.Rows = 0 }},
		{name: "cancel outside", mutate: func(c *Catalog) { c.Menu.Cancel.Position = 9 }},
		{name: "no templates", mutate: func(c *Catalog) { c.Templates = nil }},
		{name: "template outside", mutate: func(c *Catalog) { c.Templates[0].Position = -1 }},
		{name: "shares cancel slot", mutate: func(c *Catalog) { c.Templates[0].Position = 8 }},
		{name: "duplicate type", mutate: func(c *Catalog) { c.Templates[0].Type = TemplateComparative }},
		{name: "no prompts", mutate: func(c *Catalog) { c.Templates[0].Prompts = nil }},
		{name: "placeholder mismatch", mutate: func(c *Catalog) { c.Templates[1].Sentence = "The {} is {}" }},
		{name: "unanswerable prompt", mutate: func(c *Catalog) { c.Templates[0].Prompts[0].AllowCustom = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCatalog()
			tt.mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
		})
	}
}
