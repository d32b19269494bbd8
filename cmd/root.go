// Package cmd holds the lazybuild command line. Without a subcommand it
// starts the terminal UI; list and show print the same data for scripts.
package cmd

import (
	"context"
	"io"

	"github.com/marjoballabani/lazybuild/pkg/app"
	"github.com/marjoballabani/lazybuild/pkg/config"
	"github.com/marjoballabani/lazybuild/pkg/lazy"
	"github.com/marjoballabani/lazybuild/pkg/logging"
	"github.com/marjoballabani/lazybuild/pkg/selection"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// env is shared by every command. PersistentPreRunE fills cfg and log.
type env struct {
	info       *app.BuildInfo
	v          *viper.Viper
	configFile string

	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
}

// NewRootCmd builds the command tree.
func NewRootCmd(info *app.BuildInfo) *cobra.Command {
	e := &env{info: info, v: viper.New()}

	root := &cobra.Command{
		Use:   "lazybuild",
		Short: "Browse Xcode build settings in the terminal",
		Long: `lazybuild shows the targets, build configurations and build settings of
the projects open in Xcode. Data is fetched lazily and cached until reload.

Configuration is read from ~/.lazybuild/config.yaml or ./config.yaml.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.NewApp(e.info, e.cfg, e.log)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.configFile, "config", "", "config file (default ~/.lazybuild/config.yaml)")
	flags.String("fixture", "", "serve projects from a YAML fixture instead of Xcode")
	flags.Duration("timeout", 0, "limit for each Xcode call, 0 for none")
	flags.String("log-file", "", "log file (default ~/.lazybuild/lazybuild.log)")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	_ = e.v.BindPFlag("bridge.fixture", flags.Lookup("fixture"))
	_ = e.v.BindPFlag("bridge.timeout", flags.Lookup("timeout"))
	_ = e.v.BindPFlag("log.file", flags.Lookup("log-file"))
	_ = e.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(newListCmd(e))
	root.AddCommand(newShowCmd(e))
	root.AddCommand(newVersionCmd(e))

	return root
}

// Execute runs the command tree with os.Args.
func Execute(info *app.BuildInfo) error {
	return NewRootCmd(info).Execute()
}

func (e *env) setup(cmd *cobra.Command) error {
	if cmd.Flags().Changed("fixture") {
		e.v.Set("bridge.kind", config.BridgeFixture)
	}
	cfg, err := config.Load(e.v, e.configFile)
	if err != nil {
		return err
	}
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	e.cfg, e.log, e.closer = cfg, log, closer
	return nil
}

func (e *env) close() error {
	if e.closer == nil {
		return nil
	}
	err := e.closer.Close()
	e.closer = nil
	return err
}

// session drives a coordinator from the command's goroutine, draining its
// queue until each step settles.
type session struct {
	coord *selection.Coordinator
	queue *lazy.Queue
	errs  []error
}

// open connects to the bridge and performs the first reload.
func (e *env) open(ctx context.Context) (*session, error) {
	bridge, err := xcode.NewBridge(e.cfg.Bridge, e.log)
	if err != nil {
		return nil, err
	}
	s := &session{queue: lazy.NewQueue()}
	s.coord = selection.New(bridge, s.queue, selection.WithLogger(e.log))
	s.coord.OnError(func(err error) { s.errs = append(s.errs, err) })

	s.coord.Reload(ctx)
	if err := s.settle(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// settle waits until no fetch is in flight and returns the first failure
// reported meanwhile.
func (s *session) settle(ctx context.Context) error {
	if err := s.queue.RunUntil(ctx, s.coord.Idle); err != nil {
		return errors.Wrap(err, "waiting for Xcode")
	}
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = nil
		return err
	}
	return nil
}
