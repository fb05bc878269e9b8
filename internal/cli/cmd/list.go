package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/data-man/REDasm/internal/cli"
	"github.com/data-man/REDasm/internal/image"
	"github.com/data-man/REDasm/internal/lc3"
	"github.com/data-man/REDasm/internal/listing"
	"github.com/data-man/REDasm/internal/log"
)

// List is the command that disassembles an object file produced by asm and
// prints its listing, one instruction per line.
//
//	redasm list a.o
func List() cli.Command {
	return new(lister)
}

type lister struct {
	paths bool
	cache string
}

func (lister) Description() string {
	return "disassemble an object file and print its listing"
}

func (lister) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `list [-paths] [-cache path] file.o

Disassemble object code and print its instruction listing.`)

	return err
}

func (l *lister) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fs.BoolVar(&l.paths, "paths", false, "also print computed function paths")
	fs.StringVar(&l.cache, "cache", "", "back the listing with a bbolt-backed disk cache at this path, instead of memory")

	return fs
}

func (l *lister) Run(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("list: missing object file argument")
		return 1
	}

	lst, _, err := loadListing(args[0], l.cache, logger)
	if err != nil {
		logger.Error("list: load failed", "err", err)
		return 1
	}
	defer lst.Close()

	for cur := lst.First(); cur.Valid(); cur = cur.Next() {
		instr := cur.Instruction()
		fmt.Fprintf(stdout, "%#06x  %s\n", uint64(instr.Address), instr.Mnemonic)
	}

	if l.paths {
		lst.CalculatePaths()

		for entry, path := range lst.Paths() {
			fmt.Fprintf(stdout, "function %#06x: %d instructions\n", uint64(entry), len(path.Addresses))
		}
	}

	return 0
}

// diskCacheHotSize is the in-memory LRU layer size for a disk-backed
// Listing cache, opened when a command's -cache flag is set.
const diskCacheHotSize = 256

// loadListing decodes the hex-encoded object file at filename and builds a
// Listing over its first object block, using an lc3.Image as the Listing's
// Processor. When cachePath is non-empty, the Listing is backed by a
// bbolt-backed DiskCache opened at that path instead of the default
// in-memory cache.
func loadListing(filename, cachePath string, logger *log.Logger) (*listing.Listing, *lc3.Image, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}

	var enc image.HexEncoding
	if err := enc.UnmarshalText(data); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}

	if len(enc.Code) == 0 {
		return nil, nil, fmt.Errorf("list: %s contains no object code", filename)
	}

	img := lc3.NewImage(enc.Code[0])
	opts := []listing.OptionFn{listing.WithProcessor(img), listing.WithLogger(logger)}

	if cachePath != "" {
		cache, err := listing.OpenDiskCache(cachePath, diskCacheHotSize)
		if err != nil {
			return nil, nil, fmt.Errorf("open disk cache: %w", err)
		}

		opts = append(opts, listing.WithCache(cache))
	}

	lst := listing.New(opts...)

	for _, instr := range img.DecodeAll() {
		lst.Commit(instr.Address, instr)
	}

	return lst, img, nil
}
