package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/rowantrollope/handycmd/internal/cli"
	"github.com/rowantrollope/handycmd/internal/cmd"
	"github.com/rowantrollope/handycmd/internal/config"
	"github.com/rowantrollope/handycmd/internal/fs"
	"github.com/rowantrollope/handycmd/internal/logger"
	"github.com/rowantrollope/handycmd/internal/output"
	"github.com/rowantrollope/handycmd/internal/watch"
	"github.com/spf13/cobra"
)

// backend is a statement filesystem that can also be listed for completion.
type backend interface {
	cmd.Filesystem
	cli.Lister
}

// app holds everything built from the resolved configuration.
type app struct {
	cfg       *config.Config
	formatter *output.Formatter
	log       *logger.ConsoleLogger
	fsys      backend
	label     string
	closers   []func() error
}

func newRootCommand() *cobra.Command {
	a := &app{cfg: config.DefaultConfig()}

	root := &cobra.Command{
		Use:   "handycmd [file]",
		Short: "Execute filesystem statements written into a watched text file",
		Long: `handycmd watches a command file and executes the statements written into it:

  CREATE FILE path;            CREATE FOLDER path;
  DELETE FILE path;            DELETE FOLDER path;         DELETE path FORCE;
  WRITE TO path THIS CONTENT: "text";
  APPEND TO path THIS CONTENT: "text";
  RENAME old TO new;

Without a subcommand it behaves like "handycmd watch".`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runWatch,
	}
	a.cfg.RegisterFlags(root.PersistentFlags())

	root.AddCommand(&cobra.Command{
		Use:   "watch [file]",
		Short: "Watch the command file and execute it on every change",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runWatch,
	})
	root.AddCommand(&cobra.Command{
		Use:   "run [file]",
		Short: "Execute the command file once and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runOnce,
	})
	root.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Type statements interactively",
		Args:  cobra.NoArgs,
		RunE:  a.runREPL,
	})
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "handycmd %s\n", version)
		},
	}
	// needs no configuration or backend
	versionCmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	root.AddCommand(versionCmd)

	return root
}

// setup resolves the configuration and opens the backend.
func (a *app) setup(c *cobra.Command, args []string) error {
	if err := a.cfg.Load(c.Flags()); err != nil {
		return err
	}
	if len(args) > 0 {
		a.cfg.File = args[0]
	}

	useColor := a.cfg.ShouldColor()
	if !useColor {
		color.NoColor = true
	}
	a.formatter = output.NewFormatter(a.cfg.JSON, useColor)
	a.log = logger.NewConsoleLogger(os.Stderr, a.cfg.LogLevel)

	switch a.cfg.Backend {
	case config.BackendRedis:
		return a.openRedis(c.Context())
	default:
		root := a.cfg.Root
		a.fsys = fs.NewLocal(root)
		if root == "" {
			root, _ = os.Getwd()
		}
		a.label = filepath.Base(root)
		return nil
	}
}

func (a *app) openRedis(ctx context.Context) error {
	rdb := redis.NewClient(a.cfg.RedisOptions())
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return fmt.Errorf("cannot connect to Redis at %s: %w", a.cfg.Addr(), err)
	}

	client := fs.NewClient(rdb, a.cfg.Volume)
	if err := client.Init(ctx); err != nil {
		rdb.Close()
		return fmt.Errorf("failed to initialize volume: %w", err)
	}
	a.closers = append(a.closers, rdb.Close)
	a.log.Debugf("using redis volume %q at %s", a.cfg.Volume, a.cfg.Addr())
	a.fsys = client
	a.label = a.cfg.Volume
	return nil
}

// close releases the backend. Run functions defer it; cobra runs no post-run
// hooks after a RunE error.
func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.Warnf("close: %v", err)
		}
	}
	a.closers = nil
}

func (a *app) dispatcher() *cmd.Dispatcher {
	return cmd.NewDispatcher(a.fsys, a.formatter, a.cfg.Concurrency)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func (a *app) runWatch(c *cobra.Command, _ []string) error {
	defer a.close()
	ctx, stop := signalContext(c.Context())
	defer stop()

	w, err := watch.New(a.cfg.File, a.dispatcher(), watch.Options{
		Debounce:   a.cfg.Debounce,
		CallNow:    a.cfg.CallNow,
		RunOnStart: a.cfg.RunOnStart,
		Logger:     a.log,
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func (a *app) runOnce(c *cobra.Command, _ []string) error {
	defer a.close()
	ctx, stop := signalContext(c.Context())
	defer stop()

	data, err := os.ReadFile(a.cfg.File)
	if err != nil {
		return fmt.Errorf("read command file: %w", err)
	}

	sum := a.dispatcher().Dispatch(ctx, string(data))
	if a.cfg.JSON {
		a.formatter.PrintSummary(sum)
	} else {
		a.log.Infof("%s", sum)
	}
	if !sum.OK() {
		return fmt.Errorf("%d of %d statements failed", sum.Failed, sum.Total())
	}
	return nil
}

func (a *app) runREPL(c *cobra.Command, _ []string) error {
	defer a.close()
	repl := cli.NewREPL(a.dispatcher(), a.fsys, a.cfg, a.formatter, a.label)
	return repl.Run(c.Context())
}
