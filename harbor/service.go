// Package harbor provides the use-cases for moving ships through ports and
// containers on and off ships.
package harbor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Qalifah/harbor/container"
	"github.com/Qalifah/harbor/event"
	"github.com/Qalifah/harbor/port"
	"github.com/Qalifah/harbor/ship"
)

// ErrInvalidArgument is returned when one or more arguments are invalid.
var ErrInvalidArgument = errors.New("invalid argument")

// Service is the interface that provides harbor methods.
type Service interface {
	// RegisterPort creates a new port at the given coordinates.
	RegisterPort(id int, latitude, longitude float64) error

	// RegisterShip creates a new empty ship.
	RegisterShip(id int, maxWeight float64) error

	// LoadContainer creates a container and puts it on board a ship. A
	// rejected load is reported through the returned event, not an error.
	LoadContainer(shipID, containerID int, kind string, weight float64) (event.Event, error)

	// UnloadContainer takes a container off a ship.
	UnloadContainer(shipID, containerID int) (event.Event, error)

	// Arrive docks a ship at a port.
	Arrive(portID, shipID int) (event.Event, error)

	// Depart sends a docked ship away from a port.
	Depart(portID, shipID int) (event.Event, error)

	// Consumption returns the total fuel consumption of a ship.
	Consumption(shipID int) (float64, error)

	// Port returns a read model of a port.
	Port(id int) (Port, error)

	// Ports returns read models of all registered ports.
	Ports() []Port

	// Ship returns a read model of a ship.
	Ship(id int) (Ship, error)

	// SavePort writes a port document to the data directory and returns
	// its path.
	SavePort(id int) (string, error)

	// RestorePort replaces a port with the document last saved for it. Ships
	// docked in the document replace their stored copies; departed ships are
	// only added when unknown. A ship docked elsewhere blocks the restore.
	RestorePort(id int) (Port, error)
}

type service struct {
	mtx     sync.Mutex
	ports   port.Repository
	ships   ship.Repository
	events  event.Sink
	dataDir string
}

func (s *service) RegisterPort(id int, latitude, longitude float64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, err := s.ports.Find(id); err == nil {
		return fmt.Errorf("port %d already registered: %w", id, ErrInvalidArgument)
	}
	return s.ports.Store(port.New(id, port.Coordinates{Latitude: latitude, Longitude: longitude}))
}

func (s *service) RegisterShip(id int, maxWeight float64) error {
	if maxWeight < 0 {
		return ErrInvalidArgument
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, err := s.ships.Find(id); err == nil {
		return fmt.Errorf("ship %d already registered: %w", id, ErrInvalidArgument)
	}
	return s.ships.Store(ship.NewBuilder().WithID(id).WithMaxWeight(maxWeight).Build())
}

func (s *service) LoadContainer(shipID, containerID int, kind string, weight float64) (event.Event, error) {
	if weight < 0 {
		return event.Event{}, ErrInvalidArgument
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	sh, err := s.ships.Find(shipID)
	if err != nil {
		return event.Event{}, err
	}
	if _, ok := sh.Container(containerID); ok {
		return event.Event{}, fmt.Errorf("container %d already on ship %d: %w", containerID, shipID, ErrInvalidArgument)
	}

	var c container.Container
	if kind == "" {
		c = container.New(containerID, weight)
	} else {
		c = container.NewOfType(containerID, kind, weight)
	}
	return s.publish(sh.Load(c)), nil
}

func (s *service) UnloadContainer(shipID, containerID int) (event.Event, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sh, err := s.ships.Find(shipID)
	if err != nil {
		return event.Event{}, err
	}
	c, ok := sh.Container(containerID)
	if !ok {
		c = container.Container{ID: containerID}
	}
	return s.publish(sh.Unload(c)), nil
}

func (s *service) Arrive(portID, shipID int) (event.Event, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, err := s.ports.Find(portID)
	if err != nil {
		return event.Event{}, err
	}
	sh, err := s.ships.Find(shipID)
	if err != nil {
		return event.Event{}, err
	}
	for _, other := range s.ports.FindAll() {
		if _, docked := other.Ship(shipID); docked {
			return event.Event{}, fmt.Errorf("ship %d already docked at port %d: %w", shipID, other.ID, ErrInvalidArgument)
		}
	}
	return s.publish(p.Arrive(sh)), nil
}

func (s *service) Depart(portID, shipID int) (event.Event, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, err := s.ports.Find(portID)
	if err != nil {
		return event.Event{}, err
	}
	sh, err := s.ships.Find(shipID)
	if err != nil {
		return event.Event{}, err
	}
	return s.publish(p.Depart(sh)), nil
}

func (s *service) Consumption(shipID int) (float64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sh, err := s.ships.Find(shipID)
	if err != nil {
		return 0, err
	}
	return sh.TotalConsumption(), nil
}

func (s *service) Port(id int) (Port, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, err := s.ports.Find(id)
	if err != nil {
		return Port{}, err
	}
	return assemblePort(p), nil
}

func (s *service) Ports() []Port {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var result []Port
	for _, p := range s.ports.FindAll() {
		result = append(result, assemblePort(p))
	}
	return result
}

func (s *service) Ship(id int) (Ship, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sh, err := s.ships.Find(id)
	if err != nil {
		return Ship{}, err
	}
	return assembleShip(sh), nil
}

func (s *service) SavePort(id int) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, err := s.ports.Find(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return "", &port.PersistenceError{Op: "save", Path: s.dataDir, Err: err}
	}
	path := s.portPath(id)
	if err := p.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *service) RestorePort(id int) (Port, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, err := port.Load(s.portPath(id))
	if err != nil {
		return Port{}, err
	}
	if p.ID != id {
		return Port{}, fmt.Errorf("document holds port %d, not %d: %w", p.ID, id, ErrInvalidArgument)
	}

	docked := p.Ships()
	for _, sh := range docked {
		for _, other := range s.ports.FindAll() {
			if other.ID == id {
				continue
			}
			if _, ok := other.Ship(sh.ID); ok {
				return Port{}, fmt.Errorf("ship %d is docked at port %d: %w", sh.ID, other.ID, ErrInvalidArgument)
			}
		}
	}

	for _, sh := range docked {
		if err := s.ships.Store(sh); err != nil {
			return Port{}, err
		}
	}
	// departed ships may have moved on since the snapshot; keep the live copy
	for _, sh := range p.History() {
		if _, err := s.ships.Find(sh.ID); err == nil {
			continue
		}
		if err := s.ships.Store(sh); err != nil {
			return Port{}, err
		}
	}
	if err := s.ports.Store(p); err != nil {
		return Port{}, err
	}
	return assemblePort(p), nil
}

func (s *service) portPath(id int) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("port-%d.json", id))
}

func (s *service) publish(e event.Event) event.Event {
	if s.events != nil {
		s.events.Publish(e)
	}
	return e
}

// NewService creates a harbor service with necessary dependencies.
func NewService(ports port.Repository, ships ship.Repository, events event.Sink, dataDir string) Service {
	return &service{
		ports:   ports,
		ships:   ships,
		events:  events,
		dataDir: dataDir,
	}
}

// Ship is a read model for ship views.
type Ship struct {
	ID          int                `json:"id"`
	MaxWeight   float64            `json:"max_weight"`
	TotalWeight float64            `json:"total_weight"`
	Consumption float64            `json:"consumption"`
	Containers  []container.Record `json:"containers"`
}

// Port is a read model for port views.
type Port struct {
	ID          int        `json:"id"`
	Coordinates [2]float64 `json:"coordinates"`
	Ships       []Ship     `json:"ships"`
	History     []Ship     `json:"history"`
}

func assembleShip(s *ship.Ship) Ship {
	return Ship{
		ID:          s.ID,
		MaxWeight:   s.MaxWeight,
		TotalWeight: s.TotalWeight(),
		Consumption: s.TotalConsumption(),
		Containers:  s.Record().Containers,
	}
}

func assemblePort(p *port.Port) Port {
	result := Port{
		ID:          p.ID,
		Coordinates: [2]float64{p.Coordinates.Latitude, p.Coordinates.Longitude},
		Ships:       make([]Ship, 0),
		History:     make([]Ship, 0),
	}
	for _, s := range p.Ships() {
		result.Ships = append(result.Ships, assembleShip(s))
	}
	for _, s := range p.History() {
		result.History = append(result.History, assembleShip(s))
	}
	return result
}
