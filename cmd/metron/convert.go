package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/metron/internal/presentation/tui"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <domain> <value> <from> <to>",
	Short: "Convert a value between two units",
	Long: `Converts a value between two units of the same domain.
Quote unit names that contain spaces:

  metron convert speed 100 "Kilometers per Hour" "Miles per Hour"
  metron convert currency 10 USD EUR`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := domain.ParseDomain(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidValue, args[1])
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.converter.Convert(cmd.Context(), d, value, args[2], args[3])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			profile := termenv.Ascii
			if tui.IsTerminal(out) {
				profile = termenv.EnvColorProfile()
			}
			from, to := unitOf(a, d, args[2]), unitOf(a, d, args[3])
			fmt.Fprintln(out, tui.FormatResult(profile, res, from, to))
		}

		if res.Unavailable {
			return errors.New(domain.RatesUnavailableMessage)
		}
		return nil
	},
}

func unitOf(a *app, d domain.Domain, name string) domain.Unit {
	units, _ := a.converter.Units(d)
	for _, u := range units {
		if u.Name == name {
			return u
		}
	}
	return domain.Unit{Name: name, Domain: d}
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().Bool("json", false, "Print the result as JSON")
}
