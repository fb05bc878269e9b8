// Command redasm is the command-line interface to the disassembly and
// lifting toolkit: assembling LC-3 object files, listing and analyzing
// their control flow, and interpreting them through the VMIL translator.
package main

import (
	"context"
	"os"

	"github.com/data-man/REDasm/internal/cli"
	"github.com/data-man/REDasm/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Assembler(),
	cmd.List(),
	cmd.Emulate(),
	cmd.Console(),
}

func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
