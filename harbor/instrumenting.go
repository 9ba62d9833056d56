package harbor

import (
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/Qalifah/harbor/event"
)

type instrumentingService struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	events         metrics.Counter
	Service
}

// NewInstrumentingService returns an instance of an instrumenting Service.
// events is labelled by "type" and "ok".
func NewInstrumentingService(counter metrics.Counter, latency metrics.Histogram, events metrics.Counter, s Service) Service {
	return &instrumentingService{
		requestCount:   counter,
		requestLatency: latency,
		events:         events,
		Service:        s,
	}
}

func (s *instrumentingService) observe(method string, begin time.Time) {
	s.requestCount.With("method", method).Add(1)
	s.requestLatency.With("method", method).Observe(time.Since(begin).Seconds())
}

func (s *instrumentingService) count(e event.Event, err error) {
	if err != nil {
		return
	}
	ok := "false"
	if e.OK() {
		ok = "true"
	}
	s.events.With("type", e.Type.String(), "ok", ok).Add(1)
}

func (s *instrumentingService) RegisterPort(id int, latitude, longitude float64) error {
	defer s.observe("register_port", time.Now())
	return s.Service.RegisterPort(id, latitude, longitude)
}

func (s *instrumentingService) RegisterShip(id int, maxWeight float64) error {
	defer s.observe("register_ship", time.Now())
	return s.Service.RegisterShip(id, maxWeight)
}

func (s *instrumentingService) LoadContainer(shipID, containerID int, kind string, weight float64) (event.Event, error) {
	defer s.observe("load_container", time.Now())
	e, err := s.Service.LoadContainer(shipID, containerID, kind, weight)
	s.count(e, err)
	return e, err
}

func (s *instrumentingService) UnloadContainer(shipID, containerID int) (event.Event, error) {
	defer s.observe("unload_container", time.Now())
	e, err := s.Service.UnloadContainer(shipID, containerID)
	s.count(e, err)
	return e, err
}

func (s *instrumentingService) Arrive(portID, shipID int) (event.Event, error) {
	defer s.observe("arrive", time.Now())
	e, err := s.Service.Arrive(portID, shipID)
	s.count(e, err)
	return e, err
}

func (s *instrumentingService) Depart(portID, shipID int) (event.Event, error) {
	defer s.observe("depart", time.Now())
	e, err := s.Service.Depart(portID, shipID)
	s.count(e, err)
	return e, err
}

func (s *instrumentingService) SavePort(id int) (string, error) {
	defer s.observe("save_port", time.Now())
	return s.Service.SavePort(id)
}

func (s *instrumentingService) RestorePort(id int) (Port, error) {
	defer s.observe("restore_port", time.Now())
	return s.Service.RestorePort(id)
}

func (s *instrumentingService) Consumption(shipID int) (float64, error) {
	defer s.observe("consumption", time.Now())
	return s.Service.Consumption(shipID)
}

func (s *instrumentingService) Port(id int) (Port, error) {
	defer s.observe("port", time.Now())
	return s.Service.Port(id)
}

func (s *instrumentingService) Ports() []Port {
	defer s.observe("list_ports", time.Now())
	return s.Service.Ports()
}

func (s *instrumentingService) Ship(id int) (Ship, error) {
	defer s.observe("ship", time.Now())
	return s.Service.Ship(id)
}
