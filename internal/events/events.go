// Package events carries UI signals from the world to the interface layer.
// Producers push during a frame; the game drains the queue once per frame.
package events

import "chosenoffset.com/stationkeeper/internal/world/direction"

// Event is a UI signal.
type Event interface {
	event()
}

// Subject is the object an action prompt is shown for.
type Subject interface {
	Index() int
}

// EnableActions shows the action prompt for an object the player faces.
type EnableActions struct {
	Dir    direction.Dir
	Object Subject
}

// DisableActions hides the action prompt.
type DisableActions struct{}

// UpdateActions re-reads the action set of the prompted object.
type UpdateActions struct {
	Object Subject
}

// MessageKind styles a log line.
type MessageKind int

const (
	Info MessageKind = iota
	Warning
	Success
)

// LogMessage adds a line to the on-screen log. A Once message is shown only
// the first time its text is logged.
type LogMessage struct {
	Text string
	Kind MessageKind
	Once bool
}

// ShowStorage opens the storage interface of an object.
type ShowStorage struct {
	Object Subject
}

// HideStorage closes the storage interface.
type HideStorage struct{}

func (EnableActions) event()  {}
func (DisableActions) event() {}
func (UpdateActions) event()  {}
func (LogMessage) event()     {}
func (ShowStorage) event()    {}
func (HideStorage) event()    {}

// Queue is a FIFO of events.
type Queue struct {
	items []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends e.
func (q *Queue) Push(e Event) {
	q.items = append(q.items, e)
}

// Log pushes an info message.
func (q *Queue) Log(text string) {
	q.Push(LogMessage{Text: text})
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.items)
}

// Drain removes and returns every queued event in push order.
func (q *Queue) Drain() []Event {
	out := q.items
	q.items = nil
	return out
}
