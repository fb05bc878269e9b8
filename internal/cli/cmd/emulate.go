package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/data-man/REDasm/internal/cli"
	"github.com/data-man/REDasm/internal/lc3"
	"github.com/data-man/REDasm/internal/log"
	"github.com/data-man/REDasm/internal/vmil"
)

// Emulate is the command that lifts an object file's instructions to VMIL
// and interprets them in address order, then prints the resulting register
// file.
//
//	redasm emulate a.o
func Emulate() cli.Command {
	return new(emulate)
}

type emulate struct {
	cache string
}

func (emulate) Description() string {
	return "lift an object file to VMIL and interpret it, printing final register state"
}

func (emulate) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `emulate [-cache path] file.o

Lift an object file's instructions to VMIL and interpret them in address
order, printing the machine registers once the listing is exhausted.`)

	return err
}

func (e *emulate) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("emulate", flag.ExitOnError)
	fs.StringVar(&e.cache, "cache", "", "back the listing with a bbolt-backed disk cache at this path, instead of memory")

	return fs
}

func (e *emulate) Run(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("emulate: missing object file argument")
		return 1
	}

	lst, img, err := loadListing(args[0], e.cache, logger)
	if err != nil {
		logger.Error("emulate: load failed", "err", err)
		return 1
	}
	defer lst.Close()

	translator := vmil.NewTranslator()
	lc3.RegisterLifters(translator)

	emulator := vmil.NewEmulator(translator,
		vmil.WithDecoder(img),
		vmil.WithEmulatorLogger(logger),
	)

	for cur := lst.First(); cur.Valid(); cur = cur.Next() {
		emulator.Emulate(cur.Instruction())
	}

	for id := lc3.GPR(0); id < lc3.NumGPR; id++ {
		fmt.Fprintf(stdout, "R%d = %#06x\n", id, emulator.Register(uint32(id)))
	}

	fmt.Fprintf(stdout, "PSR = %#x\n", emulator.Register(lc3.PSR))

	return 0
}
