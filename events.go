package spin

import (
	"github.com/akmonengine/spin/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	TOUCH_BEGIN EventType = iota
	TOUCH_END
	MODE_CHANGE
	ON_SLEEP
	ON_WAKE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Touch events
type TouchBeginEvent struct {
	Object *actor.VirtualObject
	Point  mgl64.Vec3
}

func (e TouchBeginEvent) Type() EventType { return TOUCH_BEGIN }

// TouchEndEvent is sent when a drag ends. Interrupted is set when the finger
// left the object or a mode switch cut the drag.
type TouchEndEvent struct {
	Object      *actor.VirtualObject
	Interrupted bool
}

func (e TouchEndEvent) Type() EventType { return TOUCH_END }

type ModeChangeEvent struct {
	From Mode
	To   Mode
}

func (e ModeChangeEvent) Type() EventType { return MODE_CHANGE }

// Sleep/Wake events of the host physics body
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager. Listeners run on the update queue.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 16),
		sleepStates: make(map[*actor.RigidBody]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

func (e *Events) processSleepEvents(bodies ...*actor.RigidBody) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
