package adapters

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"materialization-audit/internal/ports"
)

const progressBarWidth = 40

// TerminalProgressAdapter draws one progress bar per phase.
type TerminalProgressAdapter struct {
	Out io.Writer

	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	total int
	done  int
}

func NewTerminalProgressAdapter(out io.Writer) *TerminalProgressAdapter {
	return &TerminalProgressAdapter{Out: out}
}

func (p *TerminalProgressAdapter) Start(phase string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.done = 0
	p.bar = nil
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.Out),
		progressbar.OptionSetDescription(phase),
		progressbar.OptionSetWidth(progressBarWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *TerminalProgressAdapter) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil || p.done >= p.total {
		return
	}
	p.done++
	_ = p.bar.Add(1)
}

func (p *TerminalProgressAdapter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	if p.done >= p.total {
		_ = p.bar.Finish()
	}
	fmt.Fprintln(p.Out)
	p.bar = nil
}

type NoopProgressAdapter struct{}

func (NoopProgressAdapter) Start(string, int) {}

func (NoopProgressAdapter) Increment() {}

func (NoopProgressAdapter) Finish() {}

var _ ports.ProgressPort = (*TerminalProgressAdapter)(nil)
var _ ports.ProgressPort = NoopProgressAdapter{}
