package port

import (
	"errors"
	"fmt"

	"github.com/Qalifah/harbor/container"
	"github.com/Qalifah/harbor/event"
	"github.com/Qalifah/harbor/ship"
)

// Coordinates locates a port
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Port holds the ships currently docked and those that have left
type Port struct {
	ID          int
	Coordinates Coordinates
	containers  []container.Container
	ships       []*ship.Ship
	history     []*ship.Ship
}

// New creates a port with no ships
func New(id int, c Coordinates) *Port {
	return &Port{ID: id, Coordinates: c}
}

// Arrive docks s at the port. It always succeeds.
func (p *Port) Arrive(s *ship.Ship) event.Event {
	p.ships = append(p.ships, s)
	return p.newEvent(event.Arrived, s)
}

// Depart moves the docked ship with the same id as s into the history. The
// returned event is DepartMissing when no such ship is docked.
func (p *Port) Depart(s *ship.Ship) event.Event {
	for i, docked := range p.ships {
		if docked.ID == s.ID {
			p.ships = append(p.ships[:i], p.ships[i+1:]...)
			p.history = append(p.history, docked)
			return p.newEvent(event.Departed, s)
		}
	}
	return p.newEvent(event.DepartMissing, s)
}

// Ship finds a docked ship by id.
func (p *Port) Ship(id int) (*ship.Ship, bool) {
	for _, s := range p.ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Ships returns the docked ships in arrival order.
func (p *Port) Ships() []*ship.Ship {
	return append([]*ship.Ship(nil), p.ships...)
}

// History returns the ships that have left, in departure order.
func (p *Port) History() []*ship.Ship {
	return append([]*ship.Ship(nil), p.history...)
}

// Containers returns the containers held by the port itself.
func (p *Port) Containers() []container.Container {
	return append([]container.Container(nil), p.containers...)
}

func (p *Port) newEvent(t event.Type, s *ship.Ship) event.Event {
	e := event.New(t)
	e.PortID = p.ID
	e.ShipID = s.ID
	return e
}

// Record is the serialized form of a port
type Record struct {
	ID          int                `json:"id"`
	Coordinates []float64          `json:"coordinates"`
	Containers  []container.Record `json:"containers"`
	Ships       []ship.Record      `json:"ships"`
	History     []ship.Record      `json:"history"`
}

// Record returns the serialized form of the port. Ships and history are
// written as full ship records.
func (p *Port) Record() Record {
	r := Record{
		ID:          p.ID,
		Coordinates: []float64{p.Coordinates.Latitude, p.Coordinates.Longitude},
		Containers:  make([]container.Record, 0, len(p.containers)),
		Ships:       make([]ship.Record, 0, len(p.ships)),
		History:     make([]ship.Record, 0, len(p.history)),
	}
	for _, c := range p.containers {
		r.Containers = append(r.Containers, c.Record())
	}
	for _, s := range p.ships {
		r.Ships = append(r.Ships, s.Record())
	}
	for _, s := range p.history {
		r.History = append(r.History, s.Record())
	}
	return r
}

// FromRecord rebuilds a port together with its containers, ships and history.
func FromRecord(r Record) (*Port, error) {
	if len(r.Coordinates) != 2 {
		return nil, fmt.Errorf("port %d: %d coordinates: %w", r.ID, len(r.Coordinates), ErrInvalidCoordinates)
	}
	p := New(r.ID, Coordinates{Latitude: r.Coordinates[0], Longitude: r.Coordinates[1]})
	for _, cr := range r.Containers {
		c, err := container.FromRecord(cr)
		if err != nil {
			return nil, fmt.Errorf("port %d: container %d: %w", r.ID, cr.ID, err)
		}
		p.containers = append(p.containers, c)
	}
	var err error
	if p.ships, err = shipsFromRecords(r.Ships); err != nil {
		return nil, fmt.Errorf("port %d: %w", r.ID, err)
	}
	if p.history, err = shipsFromRecords(r.History); err != nil {
		return nil, fmt.Errorf("port %d: history: %w", r.ID, err)
	}
	return p, nil
}

func shipsFromRecords(rs []ship.Record) ([]*ship.Ship, error) {
	var out []*ship.Ship
	for _, sr := range rs {
		s, err := ship.FromRecord(sr)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Repository provides access to a port store
type Repository interface {
	Store(p *Port) error
	Find(id int) (*Port, error)
	FindAll() []*Port
}

// ErrUnknown is used when a port can't be found
var ErrUnknown = errors.New("unknown port")

// ErrInvalidCoordinates is used when a record doesn't hold exactly a
// latitude and a longitude
var ErrInvalidCoordinates = errors.New("coordinates must be [latitude, longitude]")
