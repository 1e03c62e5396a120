package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tilewright/tilewright/pkg/legend"
	"github.com/tilewright/tilewright/pkg/scale"
)

// legendCommand creates the legend command for previewing color legends in
// the terminal (debug tool).
func (c *CLI) legendCommand() *cobra.Command {
	var (
		kind    string
		palette string
		lo, hi  float64
		bins    int
		title   string
	)

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Preview a color legend in the terminal (debug tool)",
		Long: `Preview the legend a scale would produce, without building a map.

Swatches are rendered as colored blocks with the exact labels the widget
legend would carry, which makes palette and break choices easy to judge
before wiring them into a map document.`,
		Example: `  # Default viridis-like gradient over 0..100
  tilewright legend --domain-lo 0 --domain-hi 100

  # A binned scale with a custom palette
  tilewright legend --kind bin --palette "#ffffcc,#a1dab4,#41b6c4,#225ea8"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pal, err := scale.NewPalette(strings.Split(palette, ",")...)
			if err != nil {
				return err
			}
			payload, err := buildPreviewLegend(kind, pal, lo, hi, bins, title)
			if err != nil {
				return err
			}

			if payload.Title != nil {
				fmt.Println(StyleTitle.Render(*payload.Title))
			}
			printSwatches(payload)
			printDetail("type %s · %d swatches · position %s",
				payload.Type, len(payload.Colors), payload.Position)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "numeric", "scale kind: numeric, bin, quantile")
	cmd.Flags().StringVar(&palette, "palette", "#440154,#21918c,#fde725", "comma-separated hex stops")
	cmd.Flags().Float64Var(&lo, "domain-lo", 0, "domain lower bound")
	cmd.Flags().Float64Var(&hi, "domain-hi", 100, "domain upper bound")
	cmd.Flags().IntVar(&bins, "bins", legend.DefaultBins, "requested break count")
	cmd.Flags().StringVar(&title, "title", "", "legend title")

	return cmd
}

func buildPreviewLegend(kind string, pal scale.Palette, lo, hi float64, bins int, title string) (*legend.Payload, error) {
	opts := legend.Options{Title: title, Bins: bins}

	switch kind {
	case "numeric":
		s, err := scale.NewNumeric(pal, lo, hi)
		if err != nil {
			return nil, err
		}
		return legend.Build(s, nil, opts)
	case "bin":
		breaks := scale.PrettyBreaks(lo, hi, bins)
		s, err := scale.NewBin(pal, breaks)
		if err != nil {
			return nil, err
		}
		return legend.Build(s, nil, opts)
	case "quantile":
		// Sample the domain evenly so the preview has a value set to cut.
		values := make([]float64, 100)
		for i := range values {
			values[i] = lo + (hi-lo)*float64(i)/99
		}
		s, err := scale.NewQuantile(pal, values, []float64{0, 0.25, 0.5, 0.75, 1})
		if err != nil {
			return nil, err
		}
		return legend.Build(s, values, opts)
	default:
		return nil, fmt.Errorf("unknown scale kind %q", kind)
	}
}

// printSwatches renders each legend entry as a colored block plus label.
func printSwatches(p *legend.Payload) {
	labels := p.Labels
	for i, hex := range p.Colors {
		block := lipgloss.NewStyle().
			Background(lipgloss.Color(strings.Fields(hex)[0])).
			Render("  ")
		label := ""
		if i < len(labels) {
			label = stripMarkup(labels[i])
		}
		fmt.Println("  " + block + " " + StyleValue.Render(label))
	}
}

// stripMarkup removes the hover-text span numeric legends wrap their
// labels in.
func stripMarkup(s string) string {
	if i := strings.Index(s, ">"); strings.HasPrefix(s, "<span") && i >= 0 {
		s = s[i+1:]
		s = strings.TrimSuffix(s, "</span>")
	}
	return s
}
