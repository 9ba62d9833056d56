package event

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pborman/uuid"
)

// Type describes what happened to a ship or container
type Type int

// valid event types
const (
	Loaded Type = iota
	LoadRejected
	Unloaded
	UnloadMissing
	Arrived
	Departed
	DepartMissing
)

func (t Type) String() string {
	switch t {
	case Loaded:
		return "Loaded"
	case LoadRejected:
		return "Load Rejected"
	case Unloaded:
		return "Unloaded"
	case UnloadMissing:
		return "Unload Missing"
	case Arrived:
		return "Arrived"
	case Departed:
		return "Departed"
	case DepartMissing:
		return "Depart Missing"
	}
	return ""
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is recorded for every load, unload, arrival and departure, whether
// or not the action took effect.
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	ShipID      int       `json:"ship_id"`
	ContainerID int       `json:"container_id,omitempty"`
	PortID      int       `json:"port_id,omitempty"`
	Weight      float64   `json:"weight,omitempty"`
	At          time.Time `json:"at"`
}

// New creates an event of the given type stamped with a fresh id.
func New(t Type) Event {
	return Event{
		ID:   NextID(),
		Type: t,
		At:   time.Now().UTC(),
	}
}

// NextID generates a new event id.
func NextID() string {
	return strings.Split(strings.ToUpper(uuid.New()), "-")[0]
}

// OK reports whether the action the event describes took effect.
func (e Event) OK() bool {
	switch e.Type {
	case Loaded, Unloaded, Arrived, Departed:
		return true
	}
	return false
}

// Message renders the event as a line of text.
func (e Event) Message() string {
	switch e.Type {
	case Loaded:
		return fmt.Sprintf("Container %d loaded into Ship %d.", e.ContainerID, e.ShipID)
	case LoadRejected:
		return fmt.Sprintf("Cannot load container %d into Ship %d: exceeds weight limit.", e.ContainerID, e.ShipID)
	case Unloaded:
		return fmt.Sprintf("Container %d unloaded from Ship %d.", e.ContainerID, e.ShipID)
	case UnloadMissing:
		return fmt.Sprintf("Container %d not found on Ship %d.", e.ContainerID, e.ShipID)
	case Arrived:
		return fmt.Sprintf("Ship %d has arrived at Port %d.", e.ShipID, e.PortID)
	case Departed:
		return fmt.Sprintf("Ship %d has left Port %d.", e.ShipID, e.PortID)
	case DepartMissing:
		return fmt.Sprintf("Ship %d is not in Port %d.", e.ShipID, e.PortID)
	}
	return ""
}

// Sink receives events for presentation or storage.
type Sink interface {
	Publish(e Event)
}

type logSink struct {
	logger log.Logger
}

// NewLogSink returns a Sink that writes every event to logger.
func NewLogSink(logger log.Logger) Sink {
	return &logSink{logger}
}

func (s *logSink) Publish(e Event) {
	s.logger.Log(
		"event", e.Type,
		"id", e.ID,
		"ok", e.OK(),
		"msg", e.Message(),
	)
}

// Recorder is a Sink that keeps published events in memory.
type Recorder struct {
	mtx    sync.RWMutex
	events []Event
}

// Publish appends e to the recorded events.
func (r *Recorder) Publish(e Event) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

type multiSink []Sink

// Multi fans every event out to all of sinks.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Publish(e Event) {
	for _, s := range m {
		s.Publish(e)
	}
}
