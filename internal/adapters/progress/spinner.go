package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/abiemit/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SpinnerProgressReporter shows the running build stage on a spinner and
// keeps a trail of completed stages.
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	stages  []stageInfo
	title   cases.Caser
}

type stageInfo struct {
	Stage   string
	Message string
	Elapsed time.Duration
	Done    bool
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
		title:   cases.Title(language.English),
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Spinner {
		r.stages = append(r.stages, stageInfo{Stage: event.Stage, Message: event.Message})
		r.spinner.Suffix = " " + r.display()
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	if n := len(r.stages); n > 0 && r.stages[n-1].Stage == event.Stage {
		r.stages[n-1].Done = true
		if elapsed, ok := event.Metadata.(time.Duration); ok {
			r.stages[n-1].Elapsed = elapsed
		}
	}
	r.spinner.Suffix = " " + r.display()
}

// Stop halts the spinner
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// display renders the stage trail, e.g. "✓ Reading Sources (2ms) → ● Compiling Contracts"
func (r *SpinnerProgressReporter) display() string {
	parts := make([]string, 0, len(r.stages))
	for _, stage := range r.stages {
		name := r.title.String(stage.Message)
		if stage.Done {
			parts = append(parts, fmt.Sprintf("%s %s (%s)",
				color.GreenString("✓"), name, stage.Elapsed.Round(time.Millisecond)))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", color.YellowString("●"), color.New(color.FgYellow).Sprint(name)))
		}
	}
	return strings.Join(parts, " → ")
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
