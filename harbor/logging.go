package harbor

import (
	"time"

	"github.com/go-kit/kit/log"

	"github.com/Qalifah/harbor/event"
)

type loggingService struct {
	logger log.Logger
	Service
}

// NewLoggingService returns a new instance of a logging Service.
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{logger, s}
}

func (s *loggingService) RegisterPort(id int, latitude, longitude float64) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "register_port",
			"port_id", id,
			"latitude", latitude,
			"longitude", longitude,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.RegisterPort(id, latitude, longitude)
}

func (s *loggingService) RegisterShip(id int, maxWeight float64) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "register_ship",
			"ship_id", id,
			"max_weight", maxWeight,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.RegisterShip(id, maxWeight)
}

func (s *loggingService) LoadContainer(shipID, containerID int, kind string, weight float64) (e event.Event, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "load_container",
			"ship_id", shipID,
			"container_id", containerID,
			"kind", kind,
			"weight", weight,
			"ok", e.OK(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.LoadContainer(shipID, containerID, kind, weight)
}

func (s *loggingService) UnloadContainer(shipID, containerID int) (e event.Event, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "unload_container",
			"ship_id", shipID,
			"container_id", containerID,
			"ok", e.OK(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.UnloadContainer(shipID, containerID)
}

func (s *loggingService) Arrive(portID, shipID int) (e event.Event, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "arrive",
			"port_id", portID,
			"ship_id", shipID,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.Arrive(portID, shipID)
}

func (s *loggingService) Depart(portID, shipID int) (e event.Event, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "depart",
			"port_id", portID,
			"ship_id", shipID,
			"ok", e.OK(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.Depart(portID, shipID)
}

func (s *loggingService) Consumption(shipID int) (total float64, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "consumption",
			"ship_id", shipID,
			"total", total,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.Consumption(shipID)
}

func (s *loggingService) Port(id int) (p Port, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "port",
			"port_id", id,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.Port(id)
}

func (s *loggingService) Ports() []Port {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "list_ports",
			"took", time.Since(begin),
		)
	}(time.Now())
	return s.Service.Ports()
}

func (s *loggingService) Ship(id int) (sh Ship, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "ship",
			"ship_id", id,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.Ship(id)
}

func (s *loggingService) SavePort(id int) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "save_port",
			"port_id", id,
			"path", path,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.SavePort(id)
}

func (s *loggingService) RestorePort(id int) (p Port, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "restore_port",
			"port_id", id,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.Service.RestorePort(id)
}
