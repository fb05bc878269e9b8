// Package console provides an interactive, raw-terminal pager over a
// Listing, adapted from the teacher's serial-console terminal handling
// (originally written to bridge a simulated keyboard/display to the host
// tty) to browse decoded instructions instead of simulate I/O devices.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTTY is returned if standard input is not a terminal. In this case,
// the interactive pager is not available.
var ErrNoTTY error = errors.New("console: not a TTY")

// Console wraps the host terminal in raw mode, delivering key presses on a
// channel and accepting writes to redraw the screen.
type Console struct {
	in    *os.File
	out   *term.Terminal
	fd    int
	state *term.State

	keyCh chan byte
}

// NewConsole puts sin into raw mode and returns a Console reading from sin
// and writing to sout. Callers are responsible for calling Restore to
// return the terminal to its initial state.
func NewConsole(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	cons := &Console{
		fd:    fd,
		in:    sin,
		out:   term.NewTerminal(sout, ""),
		state: saved,
		keyCh: make(chan byte, 1),
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		return nil, err
	}

	return cons, nil
}

// Keys returns the channel key presses are delivered on.
func (c *Console) Keys() <-chan byte { return c.keyCh }

// Writer returns the writer the pager draws to.
func (c *Console) Writer() *term.Terminal { return c.out }

// Restore returns the terminal to its initial state and unblocks any
// in-progress read.
func (c *Console) Restore() {
	_ = c.in.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

// Run reads bytes from the terminal and delivers them on Keys until ctx is
// done or the read fails.
func (c *Console) Run(ctx context.Context) error {
	buf := bufio.NewReader(c.in)

	_ = syscall.SetNonblock(c.fd, false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b, err := buf.ReadByte()
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case c.keyCh <- b:
		}
	}
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = c.in.SetReadDeadline(time.Time{})

	return nil
}
