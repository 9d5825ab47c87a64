package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/vovakirdan/tttarena/internal/engine"
	"github.com/vovakirdan/tttarena/internal/runner"
)

// Visualizer observes a run and presents it.
type Visualizer interface {
	runner.Observer

	// Finish presents the result. Interactive visualizers block until the
	// viewer closes them.
	Finish(res runner.Result) error

	// Done is closed when the viewer goes away before the run ends.
	// A nil channel means the visualizer never does.
	Done() <-chan struct{}
}

// Options configure a visualizer.
type Options struct {
	Title string
	Delay time.Duration
	Theme Theme
	In    io.Reader
	Out   io.Writer
}

func (o Options) output() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// Factory builds a visualizer. ctx bounds interactive visualizers.
type Factory func(ctx context.Context, opts Options) (Visualizer, error)

// CLIVisualizer prints a frame after every placement. On a terminal it
// redraws in place; otherwise frames are appended.
type CLIVisualizer struct {
	w     io.Writer
	delay time.Duration
	theme Theme
	tty   bool
	drawn int // lines of the previous frame
}

// NewCLIVisualizer creates a frame printer.
func NewCLIVisualizer(_ context.Context, opts Options) (Visualizer, error) {
	w := opts.output()
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &CLIVisualizer{w: w, delay: opts.Delay, theme: opts.Theme, tty: tty}, nil
}

// ObserveStep implements runner.Observer.
func (v *CLIVisualizer) ObserveStep(_, after engine.Snapshot) {
	frame := RenderBoard(after, v.theme)

	if v.tty && v.drawn > 0 {
		io.WriteString(v.w, rewind(v.drawn))
	} else if !v.tty && v.drawn > 0 {
		fmt.Fprintln(v.w)
	}
	fmt.Fprintln(v.w, frame)
	v.drawn = lipgloss.Height(frame)

	if v.delay > 0 {
		time.Sleep(v.delay)
	}
}

// rewind moves the cursor up over the previous frame of height lines and
// clears everything below it.
func rewind(lines int) string {
	if lines <= 0 {
		return ""
	}
	return ansi.CursorUp(lines) + ansi.EraseScreenBelow
}

// Finish prints the summary box.
func (v *CLIVisualizer) Finish(res runner.Result) error {
	_, err := fmt.Fprintln(v.w, RenderResult(res, v.theme))
	return err
}

// Done returns nil; a frame printer never goes away on its own.
func (v *CLIVisualizer) Done() <-chan struct{} {
	return nil
}

// TUIVisualizer runs a WatchModel in its own goroutine.
type TUIVisualizer struct {
	source  *ChannelObserver
	program *tea.Program
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// NewTUIVisualizer starts the watch screen. The program exits when the viewer
// quits or ctx is canceled.
func NewTUIVisualizer(ctx context.Context, opts Options) (Visualizer, error) {
	ctx, cancel := context.WithCancel(ctx)
	source := NewChannelObserver(ctx)

	title := opts.Title
	if title == "" {
		title = "TTT ARENA"
	}
	model := NewWatchModel(source, title, opts.Delay, opts.Theme)

	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(opts.output()),
	}
	if opts.In != nil {
		progOpts = append(progOpts, tea.WithInput(opts.In))
	}

	v := &TUIVisualizer{
		source:  source,
		program: tea.NewProgram(model, progOpts...),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(v.done)
		defer cancel()

		_, err := v.program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			v.mu.Lock()
			v.err = err
			v.mu.Unlock()
		}
	}()

	return v, nil
}

// ObserveStep implements runner.Observer.
func (v *TUIVisualizer) ObserveStep(before, after engine.Snapshot) {
	v.source.ObserveStep(before, after)
}

// Finish hands the result to the screen and waits for the viewer to quit.
func (v *TUIVisualizer) Finish(res runner.Result) error {
	v.source.Finish(res)
	<-v.done

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Done is closed once the program has exited.
func (v *TUIVisualizer) Done() <-chan struct{} {
	return v.done
}
