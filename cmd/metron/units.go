package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/metron"
	"github.com/aretw0/metron/internal/presentation/tui"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units [domain]",
	Short: "List domains, or the units of one domain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv := metron.New()

		var markdown string
		if len(args) == 0 {
			var b strings.Builder
			b.WriteString(tui.DomainsMarkdown(conv.Domains()))
			for _, d := range conv.Domains() {
				units, err := conv.Units(d)
				if err != nil {
					return err
				}
				b.WriteString("\n")
				b.WriteString(tui.UnitsMarkdown(d, units))
			}
			markdown = b.String()
		} else {
			d, err := domain.ParseDomain(args[0])
			if err != nil {
				return err
			}
			units, err := conv.Units(d)
			if err != nil {
				return err
			}
			markdown = tui.UnitsMarkdown(d, units)
		}

		out := cmd.OutOrStdout()
		rendered, err := tui.NewRenderer(out)(markdown)
		if err != nil {
			rendered = markdown
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}
