package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type listEntry struct {
	Target         string   `json:"target"`
	Path           string   `json:"path"`
	Configurations []string `json:"configurations,omitempty"`
}

func newListCmd(e *env) *cobra.Command {
	var (
		withConfigs bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List targets of the open projects",
		Long: `List the targets of every project open in Xcode, one path per line.

Examples:
  lazybuild list                   # App, Widget, ...
  lazybuild list --configurations  # App > Debug, App > Release, ...
  lazybuild list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := e.open(ctx)
			if err != nil {
				return err
			}

			include := s.coord.IncludeProjects()
			var entries []listEntry
			for _, t := range s.coord.Snapshot().Targets {
				entry := listEntry{Target: t.Name, Path: s.coord.CurrentPath(t, include)}
				if withConfigs {
					configs, err := s.coord.EnsureConfigurations(ctx, t)
					if err != nil {
						return errors.Wrapf(err, "configurations of %s", entry.Path)
					}
					for _, c := range configs {
						entry.Configurations = append(entry.Configurations, c.Name)
					}
				}
				entries = append(entries, entry)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return errors.Wrap(err, "marshal targets")
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			for _, entry := range entries {
				if !withConfigs {
					fmt.Fprintln(out, entry.Path)
					continue
				}
				for _, name := range entry.Configurations {
					fmt.Fprintf(out, "%s > %s\n", entry.Path, name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withConfigs, "configurations", false, "list build configurations of every target")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")

	return cmd
}
