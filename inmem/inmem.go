// Package inmem provides in-memory implementations of all the domain repositories.
package inmem

import (
	"sort"
	"sync"

	"github.com/Qalifah/harbor/port"
	"github.com/Qalifah/harbor/ship"
)

type portRepository struct {
	mtx   sync.RWMutex
	ports map[int]*port.Port
}

func (r *portRepository) Store(p *port.Port) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.ports[p.ID] = p
	return nil
}

func (r *portRepository) Find(id int) (*port.Port, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if p, ok := r.ports[id]; ok {
		return p, nil
	}
	return nil, port.ErrUnknown
}

func (r *portRepository) FindAll() []*port.Port {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	ps := make([]*port.Port, 0, len(r.ports))
	for _, p := range r.ports {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
	return ps
}

// NewPortRepository returns a new instance of a in-memory port repository.
func NewPortRepository() port.Repository {
	return &portRepository{
		ports: make(map[int]*port.Port),
	}
}

type shipRepository struct {
	mtx   sync.RWMutex
	ships map[int]*ship.Ship
}

func (r *shipRepository) Store(s *ship.Ship) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.ships[s.ID] = s
	return nil
}

func (r *shipRepository) Find(id int) (*ship.Ship, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if s, ok := r.ships[id]; ok {
		return s, nil
	}
	return nil, ship.ErrUnknown
}

func (r *shipRepository) FindAll() []*ship.Ship {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	ss := make([]*ship.Ship, 0, len(r.ships))
	for _, s := range r.ships {
		ss = append(ss, s)
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
	return ss
}

// NewShipRepository returns a new instance of a in-memory ship repository.
func NewShipRepository() ship.Repository {
	return &shipRepository{
		ships: make(map[int]*ship.Ship),
	}
}
