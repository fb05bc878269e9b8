package console

// pager.go implements an interactive scroller over a listing.Listing: the
// keyboard/display device bridge of the teacher's console is replaced with
// cursor movement and re-render against the Listing's ordered address
// space.

import (
	"context"
	"fmt"

	"github.com/data-man/REDasm/internal/listing"
)

// Pager renders a window of a Listing's instructions to a Console and
// advances or retreats through it on keypress.
type Pager struct {
	console  *Console
	listing  *listing.Listing
	pageSize int

	top      listing.Cursor
	history  []listing.Address // tops of previously rendered pages, for 'k'
}

// NewPager creates a Pager starting at the Listing's lowest committed
// address.
func NewPager(console *Console, l *listing.Listing, pageSize int) *Pager {
	return &Pager{
		console:  console,
		listing:  l,
		pageSize: pageSize,
		top:      l.First(),
	}
}

// Run renders the current page and then responds to keypresses until ctx is
// done or the key channel closes: 'j'/space advances a page, 'k' returns to
// the previous page, 'q' exits.
func (p *Pager) Run(ctx context.Context) error {
	p.render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok := <-p.console.Keys():
			if !ok {
				return nil
			}

			switch key {
			case 'q', 'Q':
				return nil
			case 'j', ' ':
				p.advance()
			case 'k':
				p.retreat()
			}

			p.render()
		}
	}
}

// advance pages forward, recording the current top so 'k' can return to it.
func (p *Pager) advance() {
	if !p.top.Valid() {
		return
	}

	next := p.top

	for i := 0; i < p.pageSize; i++ {
		n := next.Next()
		if !n.Valid() {
			return
		}

		next = n
	}

	p.history = append(p.history, p.top.Address())
	p.top = next
}

// retreat returns to the previous page's top, if any.
func (p *Pager) retreat() {
	if len(p.history) == 0 {
		return
	}

	last := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.top = p.listing.Find(last)
}

func (p *Pager) render() {
	fmt.Fprintf(p.console.Writer(), "\r\n--- listing ---\r\n")

	cur := p.top
	for i := 0; i < p.pageSize && cur.Valid(); i++ {
		instr := cur.Instruction()
		fmt.Fprintf(p.console.Writer(), "%#06x  %-8s (%d operands)\r\n",
			uint64(instr.Address), instr.Mnemonic, len(instr.Operands))

		cur = cur.Next()
	}
}
