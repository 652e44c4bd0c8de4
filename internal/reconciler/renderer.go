package reconciler

import "context"

// Disposable releases a resource created by a Renderer.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to Disposable.
type DisposeFunc func()

func (f DisposeFunc) Dispose() { f() }

// Item is one element of the bar as handed to the Renderer.
type Item struct {
	ID      string
	Text    string
	Tooltip string
	Color   string
	// Command is the id of the click handler registered for the item.
	// Empty for separators.
	Command string
	// Priority orders the bar: higher priorities are placed further left.
	Priority  int
	Separator bool
}

// Renderer is the host surface the reconciler draws on. Only the reconciler
// creates and disposes items and commands.
type Renderer interface {
	CreateItem(item Item) (Disposable, error)
	RegisterCommand(id string, handler func(ctx context.Context)) (Disposable, error)
}
