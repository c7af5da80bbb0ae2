package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hayeah/foldermap"
	"github.com/hayeah/foldermap/internal/logging"
	"go.uber.org/zap"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Config string     `arg:"--config" help:"Path to a TOML config file"`
	Tui    *TuiCmd    `arg:"subcommand:tui" help:"Browse a directory interactively (default)"`
	Tree   *TreeCmd   `arg:"subcommand:tree" help:"Print the folder structure of a directory"`
	Export *ExportCmd `arg:"subcommand:export" help:"Write the folder structure report to a file"`
}

// RuleFlags are shared by the non-interactive subcommands.
type RuleFlags struct {
	Exclude     []string `arg:"-e,--exclude,separate" help:"Exclude paths matching pattern (repeatable)"`
	ExcludeFrom []string `arg:"--exclude-from,separate" help:"Read exclude patterns from file, one per line (repeatable)"`
	Gitignore   bool     `arg:"--gitignore" help:"Exclude paths ignored by .gitignore"`
}

// apply adds the flags on top of the config file settings.
func (f RuleFlags) apply(cfg *foldermap.Config) {
	cfg.Tree.Exclude = append(cfg.Tree.Exclude, f.Exclude...)
	cfg.Tree.ExcludeFrom = append(cfg.Tree.ExcludeFrom, f.ExcludeFrom...)
	if f.Gitignore {
		cfg.Tree.Gitignore = true
	}
}

// Runner encapsulates the state and behavior for the CLI
type Runner struct {
	Args   Args
	Config foldermap.Config
}

// NewRunner loads the config named by args.
func NewRunner(args Args) (*Runner, error) {
	cfg, err := foldermap.LoadConfig(args.Config)
	if err != nil {
		return nil, err
	}
	return &Runner{Args: args, Config: cfg}, nil
}

// Run dispatches to the appropriate subcommand
func (r *Runner) Run() error {
	switch {
	case r.Args.Tree != nil:
		cfg := r.Config
		r.Args.Tree.RuleFlags.apply(&cfg)
		session, logger, err := r.cliSession(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		return NewTreeRunner(*r.Args.Tree, session, os.Stdout).Run()
	case r.Args.Export != nil:
		cfg := r.Config
		r.Args.Export.RuleFlags.apply(&cfg)
		session, logger, err := r.cliSession(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		return NewExportRunner(*r.Args.Export, session, os.Stdout).Run()
	default:
		var cmd TuiCmd
		if r.Args.Tui != nil {
			cmd = *r.Args.Tui
		}
		return runTUI(cmd, r.Config)
	}
}

func (r *Runner) cliSession(cfg foldermap.Config) (*foldermap.Session, *zap.Logger, error) {
	logger, err := logging.ForCLI(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	session, err := foldermap.BuildSession(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up session: %w", err)
	}
	return session, logger, nil
}

// rootOrCwd defaults an omitted root argument to the working directory.
func rootOrCwd(root string) string {
	if root == "" {
		return "."
	}
	return root
}

// main is our entrypoint: parse args and run the application
func main() {
	var args Args
	arg.MustParse(&args)

	runner, err := NewRunner(args)
	if err != nil {
		log.Fatal(err)
	}
	if err := runner.Run(); err != nil {
		log.Fatal(err)
	}
}
