// Package statusbar is an in-memory status bar: it stores the items and click
// handlers the reconciler creates, orders them the way an editor would, and
// draws them to a terminal line.
package statusbar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"
	"github.com/telnet2/projactions/internal/reconciler"
)

// ErrNoItem is returned when a click names no clickable item.
var ErrNoItem = errors.New("statusbar: no such item")

type entry struct {
	seq  uint64
	item reconciler.Item
}

// Bar implements reconciler.Renderer.
type Bar struct {
	mu       sync.Mutex
	seq      uint64
	items    map[string]*entry
	commands map[string]func(context.Context)
	onChange func()
	renderer *lipgloss.Renderer
}

// Option configures a Bar.
type Option func(*Bar)

// WithRenderer sets the lipgloss renderer used by Render.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(b *Bar) { b.renderer = r }
}

// WithOnChange registers fn to run after every item change.
func WithOnChange(fn func()) Option {
	return func(b *Bar) { b.onChange = fn }
}

// New creates an empty bar.
func New(opts ...Option) *Bar {
	b := &Bar{
		items:    make(map[string]*entry),
		commands: make(map[string]func(context.Context)),
		renderer: lipgloss.DefaultRenderer(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateItem adds item to the bar. The returned handle removes it.
func (b *Bar) CreateItem(item reconciler.Item) (reconciler.Disposable, error) {
	b.mu.Lock()
	if _, dup := b.items[item.ID]; dup {
		b.mu.Unlock()
		return nil, fmt.Errorf("statusbar: item %s already exists", item.ID)
	}
	b.seq++
	b.items[item.ID] = &entry{seq: b.seq, item: item}
	b.mu.Unlock()
	b.changed()

	return reconciler.DisposeFunc(func() {
		b.mu.Lock()
		_, ok := b.items[item.ID]
		delete(b.items, item.ID)
		b.mu.Unlock()
		if ok {
			b.changed()
		}
	}), nil
}

// RegisterCommand binds handler to id until the returned handle is disposed.
func (b *Bar) RegisterCommand(id string, handler func(ctx context.Context)) (reconciler.Disposable, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.commands[id]; dup {
		return nil, fmt.Errorf("statusbar: command %s already registered", id)
	}
	b.commands[id] = handler
	return reconciler.DisposeFunc(func() {
		b.mu.Lock()
		delete(b.commands, id)
		b.mu.Unlock()
	}), nil
}

// Items returns the items left to right: higher priority first, then
// creation order.
func (b *Bar) Items() []reconciler.Item {
	b.mu.Lock()
	entries := make([]*entry, 0, len(b.items))
	for _, e := range b.items {
		entries = append(entries, e)
	}
	b.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].item.Priority != entries[j].item.Priority {
			return entries[i].item.Priority > entries[j].item.Priority
		}
		return entries[i].seq < entries[j].seq
	})
	out := make([]reconciler.Item, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out
}

// Click runs the command of the item at index, counting separators.
func (b *Bar) Click(ctx context.Context, index int) error {
	items := b.Items()
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: index %d out of range (%d items)", ErrNoItem, index, len(items))
	}
	item := items[index]
	if item.Separator {
		return fmt.Errorf("%w: index %d is a separator", ErrNoItem, index)
	}
	return b.Execute(ctx, item.Command)
}

// ClickLabel runs the command of the leftmost item whose label matches,
// comparing the raw label, its displayed text or its text without icons,
// case-insensitively.
func (b *Bar) ClickLabel(ctx context.Context, label string) error {
	want := strings.ToLower(strings.TrimSpace(label))
	var candidates []reconciler.Item
	for _, item := range b.Items() {
		if item.Separator {
			continue
		}
		for _, form := range []string{item.Text, DisplayText(item.Text), bareText(item.Text)} {
			if strings.ToLower(form) == want {
				return b.Execute(ctx, item.Command)
			}
		}
		candidates = append(candidates, item)
	}
	if s, ok := suggest(want, candidates); ok {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrNoItem, label, DisplayText(s.Text))
	}
	return fmt.Errorf("%w: %q", ErrNoItem, label)
}

// Execute runs the handler registered for commandID.
func (b *Bar) Execute(ctx context.Context, commandID string) error {
	b.mu.Lock()
	handler, ok := b.commands[commandID]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: command %s", ErrNoItem, commandID)
	}
	handler(ctx)
	return nil
}

func (b *Bar) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

// suggest returns the candidate whose text without icons is closest to want,
// if it is close enough.
func suggest(want string, candidates []reconciler.Item) (reconciler.Item, bool) {
	var best reconciler.Item
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(want, strings.ToLower(bareText(c.Text)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(want)/3) {
		return reconciler.Item{}, false
	}
	return best, true
}
