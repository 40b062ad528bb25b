package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"comicrenamer/internal/logging"
)

// progressReporter renders batch progress as a bar on terminals and as debug
// log lines elsewhere.
type progressReporter struct {
	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	logger *slog.Logger
}

func newProgressReporter(w io.Writer, logger *slog.Logger, description string) *progressReporter {
	p := &progressReporter{logger: logger}
	if isTerminal(w) {
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
		)
	}
	return p
}

func (p *progressReporter) Update(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Set(int(percent))
		return
	}
	if p.logger != nil {
		p.logger.Debug("progress", logging.Float64("percent", percent))
	}
}

func (p *progressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
