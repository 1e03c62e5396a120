package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tilewright/tilewright/pkg/mapwidget"
)

// inspectCommand creates the inspect command for browsing a widget
// payload's operation log.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [widget.json]",
		Short: "Browse a widget payload's operation log",
		Long: `Browse a widget payload's operation log.

Opens an interactive view over the ordered method calls a rendered
payload carries, with the full argument list of the selected call. Use
--plain to print the log without the interactive view.`,
		Example: `  tilewright inspect map.json

  # Non-interactive listing for scripts and CI logs
  tilewright inspect --plain map.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}
			w, err := mapwidget.UnmarshalPayload(data)
			if err != nil {
				return err
			}

			if plain {
				printOperationLog(w)
				return nil
			}

			p := tea.NewProgram(NewOpLogModel(w))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspect view: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the log instead of opening the interactive view")

	return cmd
}

// printOperationLog prints the payload summary and call list without the
// interactive view.
func printOperationLog(w *mapwidget.Widget) {
	fmt.Println(StyleTitle.Render("Widget " + w.MapID))
	printKeyValue("Operations", fmt.Sprintf("%d", len(w.Calls)))
	printKeyValue("Assets", fmt.Sprintf("%d", len(w.Dependencies)))
	for i, op := range w.Calls {
		fmt.Printf("  %3d  %s %s\n", i+1,
			StyleHighlight.Render(op.Method),
			StyleDim.Render(formatArgs(op.Args)))
	}
	for _, dep := range w.Dependencies {
		printDetail("asset %s@%s", dep.Name, dep.Version)
	}
}
