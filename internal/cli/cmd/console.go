package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/data-man/REDasm/internal/cli"
	"github.com/data-man/REDasm/internal/console"
	"github.com/data-man/REDasm/internal/log"
)

// Console is the command that opens an interactive pager over an object
// file's listing on the controlling terminal.
//
//	redasm console a.o
func Console() cli.Command {
	c := &pagerCmd{pageSize: 20}
	return c
}

type pagerCmd struct {
	pageSize int
}

func (pagerCmd) Description() string {
	return "browse an object file's listing in an interactive terminal pager"
}

func (pagerCmd) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `console [-lines N] file.o

Open an interactive pager over an object file's listing. Requires a
terminal on standard input. 'j'/space pages forward, 'k' pages back, 'q'
quits.`)

	return err
}

func (c *pagerCmd) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	fs.IntVar(&c.pageSize, "lines", 20, "instructions per page")

	return fs
}

func (c *pagerCmd) Run(ctx context.Context, args []string, _ io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("console: missing object file argument")
		return 1
	}

	lst, _, err := loadListing(args[0], "", logger)
	if err != nil {
		logger.Error("console: load failed", "err", err)
		return 1
	}
	defer lst.Close()

	cons, err := console.NewConsole(os.Stdin, os.Stdout)
	if err != nil {
		if errors.Is(err, console.ErrNoTTY) {
			logger.Error("console: standard input is not a terminal")
			return 1
		}

		logger.Error("console: failed to open terminal", "err", err)
		return 1
	}
	defer cons.Restore()

	go func() {
		if err := cons.Run(ctx); err != nil {
			logger.Info("console: terminal reader stopped", "err", err)
		}
	}()

	pager := console.NewPager(cons, lst, c.pageSize)
	if err := pager.Run(ctx); err != nil {
		logger.Error("console: pager failed", "err", err)
		return 1
	}

	return 0
}
