package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tilewright/tilewright/pkg/provider"
)

// renderCommand creates the render command for building widget payloads
// from map documents.
func (c *CLI) renderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [map.toml]",
		Short: "Build a widget payload from a TOML map document",
		Long: `Build a widget payload from a TOML map document.

The render command parses a map document, validates every layer against
the builder rules, and writes the finished widget payload as JSON. The
payload embeds the ordered operation log and the asset dependencies a
page must load, ready for the preview server or any rendering host.

Provider names are validated against the bundled tile-provider catalog;
use 'tilewright providers refresh' to update it.`,
		Example: `  # Write the payload next to the document
  tilewright render map.toml

  # Explicit output path
  tilewright render map.toml -o widget.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <input>.json)")

	return cmd
}

func (c *CLI) runRender(input, output string) error {
	prog := newProgress(c.Logger)

	doc, err := LoadDocument(input)
	if err != nil {
		return err
	}

	m, err := doc.Build(provider.Default(), filepath.Dir(input))
	if err != nil {
		return err
	}
	payload, err := m.MarshalPayload()
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".json"
	}
	if err := os.WriteFile(output, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	prog.done(fmt.Sprintf("Rendered %d operations", len(m.Operations())))
	printSuccess("Widget payload generated")
	printKeyValue("Map ID", m.ID())
	printKeyValue("Operations", fmt.Sprintf("%d", len(m.Operations())))
	printKeyValue("Assets", fmt.Sprintf("%d", len(m.Dependencies())))
	printFile(output)
	printNextStep("Preview it", fmt.Sprintf("tilewright serve %s", input))

	return nil
}
