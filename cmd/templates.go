package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/observation-displayer/internal/adapters/templates"
	"github.com/bnema/observation-displayer/internal/config"
	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Show the guided-entry templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			source, err := templates.NewSource(cfg.TemplatesPath, nil)
			if err != nil {
				return err
			}

			return writeCatalog(cmd, source.Catalog())
		},
	}

	cmd.AddCommand(newTemplatesInitCmd())

	return cmd
}

func newTemplatesInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default templates file for editing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			path := cfg.TemplatesPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return fmt.Errorf("create templates directory: %w", err)
			}
			if err := os.WriteFile(path, templates.DefaultYAML(), 0o600); err != nil {
				return fmt.Errorf("write templates: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func writeCatalog(cmd *cobra.Command, catalog domain.Catalog) error {
	out := cmd.OutOrStdout()

	if _, err := fmt.Fprintf(out, "%s (%d slots, cancel at %d)\n", catalog.Menu.Title, catalog.Menu.Size(), catalog.Menu.Cancel.Position); err != nil {
		return err
	}
	for _, t := range catalog.Sorted() {
		if _, err := fmt.Fprintf(out, "%d. %s [%s] %s\n", t.Position, t.Type, t.Glyph, t.Sentence); err != nil {
			return err
		}
		for i, p := range t.Prompts {
			answers := strings.Join(p.Responses, ", ")
			if p.AllowCustom {
				answers = strings.TrimPrefix(answers+", <custom>", ", ")
			}
			if _, err := fmt.Fprintf(out, "   %d) %s %s\n", i+1, p.Text, answers); err != nil {
				return err
			}
		}
	}

	return nil
}
