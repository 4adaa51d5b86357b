// Package templates loads the guided-entry template catalog from YAML.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultCatalog []byte

var glyphPattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("glyph", func(fl validator.FieldLevel) bool {
		return glyphPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register glyph validation: %v", err))
	}
	return v
}

type fileSchema struct {
	Menu      menuSchema       `yaml:"menu"`
	Templates []templateSchema `yaml:"templates" validate:"required,min=1,dive"`
}

type menuSchema struct {
	Title  string     `yaml:"title" validate:"required"`
	Rows   int        `yaml:"rows" validate:"min=1,max=6"`
	Filler string     `yaml:"filler" validate:"required,glyph"`
	Cancel itemSchema `yaml:"cancel"`
}

type itemSchema struct {
	Position int    `yaml:"position" validate:"min=0"`
	Glyph    string `yaml:"glyph" validate:"required,glyph"`
	Name     string `yaml:"name" validate:"required"`
}

type templateSchema struct {
	Type     string         `yaml:"type" validate:"required,oneof=ANALOGY COMPARATIVE DESCRIPTIVE OTHER"`
	Title    string         `yaml:"title" validate:"required"`
	Glyph    string         `yaml:"glyph" validate:"required,glyph"`
	Position int            `yaml:"position" validate:"min=0"`
	Lore     []string       `yaml:"lore"`
	Sentence string         `yaml:"sentence"`
	Prompts  []promptSchema `yaml:"prompts" validate:"required,min=1,dive"`
}

type promptSchema struct {
	Text      string   `yaml:"text" validate:"required"`
	Responses []string `yaml:"responses" validate:"dive,required"`
	Custom    bool     `yaml:"custom"`
}

// Default returns the embedded catalog.
func Default() domain.Catalog {
	catalog, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded template catalog: %v", err))
	}
	return catalog
}

// DefaultYAML returns the embedded catalog source, for writing a starter file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultCatalog...)
}

func LoadFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read template catalog %s: %w", path, err)
	}

	catalog, err := Parse(data)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load template catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (domain.Catalog, error) {
	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrInvalidCatalog, err)
	}

	if err := validate.Struct(file); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return domain.Catalog{}, fmt.Errorf("%w: %s failed %q", domain.ErrInvalidCatalog, first.Namespace(), first.Tag())
		}
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	catalog := file.toDomain()
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

func (f fileSchema) toDomain() domain.Catalog {
	catalog := domain.Catalog{
		Menu: domain.Menu{
			Title:  f.Menu.Title,
			Rows:   f.Menu.Rows,
			Filler: domain.Glyph(f.Menu.Filler),
			Cancel: domain.MenuItem{
				Position: f.Menu.Cancel.Position,
				Glyph:    domain.Glyph(f.Menu.Cancel.Glyph),
				Name:     f.Menu.Cancel.Name,
			},
		},
		Templates: make([]domain.Template, 0, len(f.Templates)),
	}

	for _, t := range f.Templates {
		prompts := make([]domain.Prompt, 0, len(t.Prompts))
		for _, p := range t.Prompts {
			prompts = append(prompts, domain.Prompt{
				Text:        p.Text,
				Responses:   append([]string(nil), p.Responses...),
				AllowCustom: p.Custom,
			})
		}
		catalog.Templates = append(catalog.Templates, domain.Template{
			Type:     domain.TemplateType(t.Type),
			Title:    t.Title,
			Glyph:    domain.Glyph(t.Glyph),
			Lore:     append([]string(nil), t.Lore...),
			Position: t.Position,
			Sentence: t.Sentence,
			Prompts:  prompts,
		})
	}

	return catalog
}
