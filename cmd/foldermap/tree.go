package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/hayeah/foldermap"
	"github.com/hayeah/foldermap/internal/metrics"
	"golang.org/x/term"
)

// TreeCmd contains the arguments for the 'tree' subcommand
type TreeCmd struct {
	Root string `arg:"positional" help:"Directory to map (default: current directory)"`
	RuleFlags
	Copy  bool `arg:"-c,--copy" help:"Copy the tree to the clipboard instead of printing it"`
	Stats bool `arg:"--stats" help:"Print a size breakdown per top-level entry"`
	JSON  bool `arg:"--stats-json" help:"Print the per-entry breakdown as JSON"`
}

// TreeRunner prints one render of a directory.
type TreeRunner struct {
	Args    TreeCmd
	Session *foldermap.Session
	Out     io.Writer

	// copy is swapped in tests.
	copy func(string) error
}

func NewTreeRunner(args TreeCmd, session *foldermap.Session, out io.Writer) *TreeRunner {
	return &TreeRunner{Args: args, Session: session, Out: out, copy: clipboard.WriteAll}
}

func (r *TreeRunner) Run() error {
	root := rootOrCwd(r.Args.Root)
	if _, err := r.Session.SelectRoot(root); err != nil {
		return fmt.Errorf("error accessing %s: %w", root, err)
	}

	tree, err := r.Session.Preview()
	if err != nil {
		return err
	}

	if r.Args.Copy {
		if err := r.copy(tree); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %v", err)
		}
		fmt.Fprintln(os.Stderr, "Output copied to clipboard")
	} else if tree != "" {
		fmt.Fprintln(r.Out, tree)
	}

	if !r.Args.Stats && !r.Args.JSON {
		return nil
	}
	c := metrics.NewCollector(r.Session.Counter, 4)
	c.AddBlocks(metrics.SplitBlocks(tree))
	c.Wait()
	if r.Args.JSON {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		fmt.Fprintln(r.Out, string(data))
		return nil
	}
	PrintBlockBreakdown(r.Out, c, r.Session.Stats(tree), termWidth(), 0, '█')
	return nil
}

// termWidth returns the width of the terminal, or 80 as a fallback.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
