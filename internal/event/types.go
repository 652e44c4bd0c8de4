package event

// EventType represents the type of event. It doubles as the watermill topic.
type EventType string

const (
	// LocalChanged fires when the local config file is created, written,
	// removed or renamed.
	LocalChanged EventType = "local.changed"
	// SettingsChanged fires when a settings file changes.
	SettingsChanged EventType = "settings.changed"
	// ActiveFileChanged fires when the active file changes.
	ActiveFileChanged EventType = "activefile.changed"
	// ReloadRequested asks for a full reload.
	ReloadRequested EventType = "reload.requested"
)

// Types lists every event type.
func Types() []EventType {
	return []EventType{LocalChanged, SettingsChanged, ActiveFileChanged, ReloadRequested}
}

// Event is a reload trigger.
type Event struct {
	Type EventType `json:"type"`
	// Path is the file the event is about, if any.
	Path string `json:"path,omitempty"`
	// Reason says who asked, for reload.requested.
	Reason string `json:"reason,omitempty"`
}
