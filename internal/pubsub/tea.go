package pubsub

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd creates a Bubble Tea command that waits for the next event on ch.
// Returns nil if the context is cancelled or the channel is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// ContinuousListener keeps a broker subscription alive across Update calls.
// Call Listen again after handling each event to keep receiving.
type ContinuousListener[T any] struct {
	ctx   context.Context
	ch    <-chan Event[T]
	types []EventType
}

// NewContinuousListener subscribes to broker. When types is non-empty only
// events of those types are delivered; the rest are skipped.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T], types ...EventType) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx:   ctx,
		ch:    broker.Subscribe(ctx),
		types: types,
	}
}

// Listen returns a tea.Cmd that waits for the next matching event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	if len(l.types) == 0 {
		return ListenCmd(l.ctx, l.ch)
	}
	return func() tea.Msg {
		for {
			select {
			case <-l.ctx.Done():
				return nil
			case event, ok := <-l.ch:
				if !ok {
					return nil
				}
				if slices.Contains(l.types, event.Type) {
					return event
				}
			}
		}
	}
}
