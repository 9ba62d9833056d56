package ship

import (
	"errors"
	"fmt"

	"github.com/Qalifah/harbor/container"
	"github.com/Qalifah/harbor/event"
)

// Ship carries containers up to a maximum total weight
type Ship struct {
	ID         int
	MaxWeight  float64
	containers []container.Container
}

// New creates a new, empty ship
func New(id int, maxWeight float64) *Ship {
	return &Ship{ID: id, MaxWeight: maxWeight}
}

// Containers returns the manifest in load order.
func (s *Ship) Containers() []container.Container {
	out := make([]container.Container, len(s.containers))
	copy(out, s.containers)
	return out
}

// TotalWeight returns the summed weight of the manifest.
func (s *Ship) TotalWeight() float64 {
	var total float64
	for _, c := range s.containers {
		total += c.Weight
	}
	return total
}

// TotalConsumption returns the fuel consumption of everything on board.
func (s *Ship) TotalConsumption() float64 {
	var total float64
	for _, c := range s.containers {
		total += c.Consumption()
	}
	return total
}

// Load puts c on board if the total weight stays within MaxWeight. The
// returned event is LoadRejected and the manifest untouched otherwise.
func (s *Ship) Load(c container.Container) event.Event {
	e := s.newEvent(event.Loaded, c)
	if !(s.TotalWeight()+c.Weight <= s.MaxWeight) {
		e.Type = event.LoadRejected
		return e
	}
	s.containers = append(s.containers, c)
	return e
}

// Unload removes the first container equal to c from the manifest.
func (s *Ship) Unload(c container.Container) event.Event {
	e := s.newEvent(event.Unloaded, c)
	for i, have := range s.containers {
		if have == c {
			s.containers = append(s.containers[:i], s.containers[i+1:]...)
			return e
		}
	}
	e.Type = event.UnloadMissing
	return e
}

// Container finds a container on board by id.
func (s *Ship) Container(id int) (container.Container, bool) {
	for _, c := range s.containers {
		if c.ID == id {
			return c, true
		}
	}
	return container.Container{}, false
}

func (s *Ship) newEvent(t event.Type, c container.Container) event.Event {
	e := event.New(t)
	e.ShipID = s.ID
	e.ContainerID = c.ID
	e.Weight = c.Weight
	return e
}

// Record is the serialized form of a ship
type Record struct {
	ID         int                `json:"id"`
	MaxWeight  float64            `json:"max_weight"`
	Containers []container.Record `json:"containers"`
}

// Record returns the serialized form of the ship.
func (s *Ship) Record() Record {
	r := Record{
		ID:         s.ID,
		MaxWeight:  s.MaxWeight,
		Containers: make([]container.Record, 0, len(s.containers)),
	}
	for _, c := range s.containers {
		r.Containers = append(r.Containers, c.Record())
	}
	return r
}

// FromRecord rebuilds a ship and its manifest. Container errors are
// returned wrapped, so container.ErrUnknownKind can still be matched.
func FromRecord(r Record) (*Ship, error) {
	s := New(r.ID, r.MaxWeight)
	for _, cr := range r.Containers {
		c, err := container.FromRecord(cr)
		if err != nil {
			return nil, fmt.Errorf("ship %d: container %d: %w", r.ID, cr.ID, err)
		}
		s.containers = append(s.containers, c)
	}
	return s, nil
}

// Repository provides access to a ship store
type Repository interface {
	Store(s *Ship) error
	Find(id int) (*Ship, error)
	FindAll() []*Ship
}

// ErrUnknown is used when a ship can't be found
var ErrUnknown = errors.New("unknown ship")
