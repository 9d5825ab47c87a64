package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tttarena/internal/engine"
	"github.com/vovakirdan/tttarena/internal/runner"
)

// StepMsg carries one observed placement into a Bubble Tea program.
type StepMsg struct {
	Before engine.Snapshot
	After  engine.Snapshot
}

// ResultMsg carries the finished run.
type ResultMsg struct {
	Result runner.Result
}

// ChannelObserver forwards runner steps to a Bubble Tea model over an
// unbuffered channel. A send blocks until the model asks for the next step,
// so a paused screen pauses the run. Sends give up once ctx is done.
type ChannelObserver struct {
	ctx  context.Context
	ch   chan tea.Msg
	once sync.Once
}

// NewChannelObserver creates an observer bound to ctx.
func NewChannelObserver(ctx context.Context) *ChannelObserver {
	return &ChannelObserver{ctx: ctx, ch: make(chan tea.Msg)}
}

// ObserveStep implements runner.Observer.
func (o *ChannelObserver) ObserveStep(before, after engine.Snapshot) {
	o.send(StepMsg{Before: before, After: after})
}

// Finish delivers the result and closes the stream.
func (o *ChannelObserver) Finish(res runner.Result) {
	o.send(ResultMsg{Result: res})
	o.once.Do(func() { close(o.ch) })
}

func (o *ChannelObserver) send(msg tea.Msg) {
	select {
	case o.ch <- msg:
	case <-o.ctx.Done():
	}
}

// Next returns a command that receives the next message. A closed stream
// yields nil.
func (o *ChannelObserver) Next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-o.ch
		if !ok {
			return nil
		}
		return msg
	}
}
