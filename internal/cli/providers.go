package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tilewright/tilewright/pkg/httputil"
	"github.com/tilewright/tilewright/pkg/provider"
)

// catalogTTL bounds how long a refreshed catalog is trusted before the
// next refresh hits the network again.
const catalogTTL = 7 * 24 * time.Hour

// providersCommand groups the tile-provider catalog subcommands.
func (c *CLI) providersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List, check, and refresh the tile-provider catalog",
	}
	cmd.AddCommand(c.providersListCommand())
	cmd.AddCommand(c.providersCheckCommand())
	cmd.AddCommand(c.providersRefreshCommand())
	return cmd
}

func (c *CLI) providersListCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known tile providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := provider.Default()

			names := reg.Names()
			if filter != "" {
				var kept []string
				for _, n := range names {
					if strings.Contains(strings.ToLower(n), strings.ToLower(filter)) {
						kept = append(kept, n)
					}
				}
				names = kept
			}

			fmt.Println(StyleTitle.Render("Tile providers") + " " +
				StyleDim.Render(fmt.Sprintf("(catalog %s)", reg.Version())))
			printProviderTable(names)
			printDetail("%d names", len(names))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "only show names containing this substring")

	return cmd
}

func (c *CLI) providersCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [name...]",
		Short: "Check provider names against the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := provider.Default()

			var failed bool
			for _, name := range args {
				p, err := reg.Resolve(name)
				if err != nil {
					failed = true
					printError("%s", name)
					printDetail("%v", err)
					continue
				}
				printSuccess("%s", name)
				printDetail("plugin %s@%s", p.Plugin.Name, p.Plugin.Version)
			}
			if failed {
				return fmt.Errorf("some provider names are unknown")
			}
			return nil
		},
	}
}

func (c *CLI) providersRefreshCommand() *cobra.Command {
	var url string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the current provider catalog",
		Long: `Fetch the current provider catalog from its upstream source.

The fetched catalog is cached under ~/.cache/tilewright/ and used for
subsequent list and check runs until it expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)

			cache, err := newCatalogCache(noCache)
			if err != nil {
				return err
			}
			f := provider.NewFetcher(url, cache)
			if err := f.Invalidate(); err != nil {
				return err
			}

			reg, _, err := f.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			prog.done(fmt.Sprintf("Fetched %d providers", reg.Len()))
			printSuccess("Catalog refreshed")
			printKeyValue("Version", reg.Version())
			printKeyValue("Providers", fmt.Sprintf("%d", reg.Len()))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "catalog URL (defaults to the upstream source)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func newCatalogCache(noCache bool) (*httputil.Cache, error) {
	if noCache {
		return nil, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, nil
	}
	return httputil.NewCache(dir, catalogTTL)
}

// printProviderTable renders names in a compact multi-column table.
func printProviderTable(names []string) {
	const cols = 3
	cell := lipgloss.NewStyle().Foreground(colorWhite).Width(32)

	for i := 0; i < len(names); i += cols {
		var row strings.Builder
		for j := i; j < i+cols && j < len(names); j++ {
			row.WriteString(cell.Render(names[j]))
		}
		fmt.Println("  " + row.String())
	}
}
