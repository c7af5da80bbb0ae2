package main

import (
	"fmt"
	"io"

	"github.com/hayeah/foldermap"
	"github.com/hayeah/foldermap/internal/opener"
)

// ExportCmd contains the arguments for the 'export' subcommand
type ExportCmd struct {
	Root string `arg:"positional" help:"Directory to map (default: current directory)"`
	RuleFlags
	Output string `arg:"-o,--output" help:"Report path (default: <root>/<name>-estructura.txt)"`
	Open   bool   `arg:"--open" help:"Open the report once written"`
}

// ExportRunner writes one report.
type ExportRunner struct {
	Args    ExportCmd
	Session *foldermap.Session
	Out     io.Writer

	open func(string) error
}

func NewExportRunner(args ExportCmd, session *foldermap.Session, out io.Writer) *ExportRunner {
	return &ExportRunner{Args: args, Session: session, Out: out, open: opener.Open}
}

func (r *ExportRunner) Run() error {
	root := rootOrCwd(r.Args.Root)
	if _, err := r.Session.SelectRoot(root); err != nil {
		return fmt.Errorf("error accessing %s: %w", root, err)
	}

	path, err := r.Session.Export(r.Args.Output)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "Archivo generado: %s\n", path)

	if r.Args.Open {
		if err := r.open(path); err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
	}
	return nil
}
