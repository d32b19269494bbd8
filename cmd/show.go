package cmd

import (
	"io"
	"os"

	"github.com/marjoballabani/lazybuild/pkg/export"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newShowCmd(e *env) *cobra.Command {
	var (
		filter string
		asJSON bool
		jq     string
		color  string
		style  string
	)

	cmd := &cobra.Command{
		Use:   "show [TARGET] [CONFIGURATION]",
		Short: "Print the build settings of a configuration",
		Long: `Print build settings as NAME = value lines. Without arguments the first
target and its first configuration are used, like the UI does after a reload.
TARGET may be a name or a path such as "Demo > App".

Examples:
  lazybuild show App Release
  lazybuild show App --filter swift
  lazybuild show App Debug --jq '.PRODUCT_BUNDLE_IDENTIFIER'`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			colored, err := useColor(out, color)
			if err != nil {
				return err
			}

			s, err := e.open(ctx)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if err := s.coord.SelectTarget(ctx, args[0]); err != nil {
					return err
				}
				if err := s.settle(ctx); err != nil {
					return err
				}
			}
			if len(args) > 1 {
				if err := s.coord.SelectConfiguration(ctx, args[1]); err != nil {
					return err
				}
				if err := s.settle(ctx); err != nil {
					return err
				}
			}

			selected := s.coord.SelectedConfiguration()
			if selected == nil {
				if t := s.coord.SelectedTarget(); t != nil {
					return errors.Errorf("target %s has no build configurations", t.Name)
				}
				return errors.New("no targets found")
			}

			s.coord.SetSearchString(filter)
			settings := s.coord.VisibleSettings()

			var data []byte
			switch {
			case jq != "":
				data, err = export.QueryJSON(settings, jq)
			case asJSON:
				data, err = export.JSON(settings)
				if err == nil {
					data = append(data, '\n')
				}
			default:
				_, err = io.WriteString(out, export.Text(settings))
				return err
			}
			if err != nil {
				return err
			}

			if colored {
				return export.Highlight(out, data, style)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only settings whose name or value contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output a JSON object")
	cmd.Flags().StringVar(&jq, "jq", "", "run a jq expression over the settings object")
	cmd.Flags().StringVar(&color, "color", "auto", "colour JSON output: auto, always or never")
	cmd.Flags().StringVar(&style, "style", export.DefaultStyle, "chroma style for coloured output")

	return cmd
}

// useColor decides whether JSON written to w is highlighted.
func useColor(w io.Writer, mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	}
	return false, errors.Errorf("invalid --color %q: want auto, always or never", mode)
}
