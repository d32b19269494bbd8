package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newVersionCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Config and logging are not needed.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(e.info, "", "  ")
				if err != nil {
					return errors.Wrap(err, "marshal version info")
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			_, err := fmt.Fprintf(out, "lazybuild %s (commit %s, built %s)\n", e.info.Version, e.info.Commit, e.info.Date)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output version information as JSON")

	return cmd
}
