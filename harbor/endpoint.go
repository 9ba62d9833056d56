package harbor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/tracing/opentracing"
	"github.com/go-kit/kit/tracing/zipkin"

	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/sony/gobreaker"

	"github.com/Qalifah/harbor/event"
)

type registerPortRequest struct {
	ID          int
	Coordinates [2]float64
}

type registerPortResponse struct {
	Err error `json:"error,omitempty"`
}

func (r registerPortResponse) error() error { return r.Err }

func makeRegisterPortEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(registerPortRequest)
		err := s.RegisterPort(req.ID, req.Coordinates[0], req.Coordinates[1])
		return registerPortResponse{Err: err}, nil
	}
}

type registerShipRequest struct {
	ID        int
	MaxWeight float64
}

type registerShipResponse struct {
	Err error `json:"error,omitempty"`
}

func (r registerShipResponse) error() error { return r.Err }

func makeRegisterShipEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(registerShipRequest)
		err := s.RegisterShip(req.ID, req.MaxWeight)
		return registerShipResponse{Err: err}, nil
	}
}

// eventResponse is shared by every endpoint that moves ships or containers.
type eventResponse struct {
	Event *event.Event `json:"event,omitempty"`
	OK    bool         `json:"ok"`
	Err   error        `json:"error,omitempty"`
}

func (r eventResponse) error() error { return r.Err }

func newEventResponse(e event.Event, err error) eventResponse {
	if err != nil {
		return eventResponse{Err: err}
	}
	return eventResponse{Event: &e, OK: e.OK()}
}

type loadContainerRequest struct {
	ShipID      int
	ContainerID int
	Kind        string
	Weight      float64
}

func makeLoadContainerEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(loadContainerRequest)
		return newEventResponse(s.LoadContainer(req.ShipID, req.ContainerID, req.Kind, req.Weight)), nil
	}
}

type unloadContainerRequest struct {
	ShipID      int
	ContainerID int
}

func makeUnloadContainerEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(unloadContainerRequest)
		return newEventResponse(s.UnloadContainer(req.ShipID, req.ContainerID)), nil
	}
}

type arriveRequest struct {
	PortID int
	ShipID int
}

func makeArriveEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(arriveRequest)
		return newEventResponse(s.Arrive(req.PortID, req.ShipID)), nil
	}
}

type departRequest struct {
	PortID int
	ShipID int
}

func makeDepartEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(departRequest)
		return newEventResponse(s.Depart(req.PortID, req.ShipID)), nil
	}
}

type consumptionRequest struct {
	ShipID int
}

type consumptionResponse struct {
	ShipID      int     `json:"ship_id"`
	Consumption float64 `json:"consumption"`
	Err         error   `json:"error,omitempty"`
}

func (r consumptionResponse) error() error { return r.Err }

func makeConsumptionEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(consumptionRequest)
		total, err := s.Consumption(req.ShipID)
		return consumptionResponse{ShipID: req.ShipID, Consumption: total, Err: err}, nil
	}
}

type portRequest struct {
	ID int
}

type portResponse struct {
	Port *Port `json:"port,omitempty"`
	Err  error `json:"error,omitempty"`
}

func (r portResponse) error() error { return r.Err }

func makePortEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(portRequest)
		p, err := s.Port(req.ID)
		if err != nil {
			return portResponse{Err: err}, nil
		}
		return portResponse{Port: &p}, nil
	}
}

type listPortsRequest struct{}

type listPortsResponse struct {
	Ports []Port `json:"ports"`
	Err   error  `json:"error,omitempty"`
}

func (r listPortsResponse) error() error { return r.Err }

func makeListPortsEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		_ = request.(listPortsRequest)
		ports := s.Ports()
		if ports == nil {
			ports = []Port{}
		}
		return listPortsResponse{Ports: ports}, nil
	}
}

type shipRequest struct {
	ID int
}

type shipResponse struct {
	Ship *Ship `json:"ship,omitempty"`
	Err  error `json:"error,omitempty"`
}

func (r shipResponse) error() error { return r.Err }

func makeShipEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(shipRequest)
		sh, err := s.Ship(req.ID)
		if err != nil {
			return shipResponse{Err: err}, nil
		}
		return shipResponse{Ship: &sh}, nil
	}
}

type savePortRequest struct {
	ID int
}

type savePortResponse struct {
	Path string `json:"path,omitempty"`
	Err  error  `json:"error,omitempty"`
}

func (r savePortResponse) error() error { return r.Err }

func makeSavePortEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(savePortRequest)
		path, err := s.SavePort(req.ID)
		return savePortResponse{Path: path, Err: err}, nil
	}
}

type restorePortRequest struct {
	ID int
}

func makeRestorePortEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(restorePortRequest)
		p, err := s.RestorePort(req.ID)
		if err != nil {
			return portResponse{Err: err}, nil
		}
		return portResponse{Port: &p}, nil
	}
}

// Set collects all of the endpoints that compose the harbor service.
type Set struct {
	RegisterPortEndpoint    endpoint.Endpoint
	RegisterShipEndpoint    endpoint.Endpoint
	LoadContainerEndpoint   endpoint.Endpoint
	UnloadContainerEndpoint endpoint.Endpoint
	ArriveEndpoint          endpoint.Endpoint
	DepartEndpoint          endpoint.Endpoint
	ConsumptionEndpoint     endpoint.Endpoint
	PortEndpoint            endpoint.Endpoint
	ListPortsEndpoint       endpoint.Endpoint
	ShipEndpoint            endpoint.Endpoint
	SavePortEndpoint        endpoint.Endpoint
	RestorePortEndpoint     endpoint.Endpoint
}

// Limits configures the per-endpoint rate limiter.
type Limits struct {
	Rate  rate.Limit
	Burst int
}

// NewSet returns a Set that wraps the provided server, and wires in all of the
// expected endpoint middlewares via the various parameters.
func NewSet(svc Service, logger log.Logger, duration metrics.Histogram, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, limits Limits) Set {
	wrap := func(e endpoint.Endpoint, name string) endpoint.Endpoint {
		e = ratelimit.NewErroringLimiter(rate.NewLimiter(limits.Rate, limits.Burst))(e)
		e = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: name}))(e)
		e = opentracing.TraceServer(otTracer, name)(e)
		if zipkinTracer != nil {
			e = zipkin.TraceEndpoint(zipkinTracer, name)(e)
		}
		e = LoggingMiddleware(log.With(logger, "endpoint", name))(e)
		e = InstrumentingMiddleware(duration.With("method", name))(e)
		return e
	}

	return Set{
		RegisterPortEndpoint:    wrap(makeRegisterPortEndpoint(svc), "RegisterPort"),
		RegisterShipEndpoint:    wrap(makeRegisterShipEndpoint(svc), "RegisterShip"),
		LoadContainerEndpoint:   wrap(makeLoadContainerEndpoint(svc), "LoadContainer"),
		UnloadContainerEndpoint: wrap(makeUnloadContainerEndpoint(svc), "UnloadContainer"),
		ArriveEndpoint:          wrap(makeArriveEndpoint(svc), "Arrive"),
		DepartEndpoint:          wrap(makeDepartEndpoint(svc), "Depart"),
		ConsumptionEndpoint:     wrap(makeConsumptionEndpoint(svc), "Consumption"),
		PortEndpoint:            wrap(makePortEndpoint(svc), "Port"),
		ListPortsEndpoint:       wrap(makeListPortsEndpoint(svc), "ListPorts"),
		ShipEndpoint:            wrap(makeShipEndpoint(svc), "Ship"),
		SavePortEndpoint:        wrap(makeSavePortEndpoint(svc), "SavePort"),
		RestorePortEndpoint:     wrap(makeRestorePortEndpoint(svc), "RestorePort"),
	}
}

// LoggingMiddleware logs endpoint failures, such as a tripped rate limiter or
// circuit breaker. Business errors travel inside the response instead.
func LoggingMiddleware(logger log.Logger) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func() {
				if err != nil {
					logger.Log("transport_error", err)
				}
			}()
			return next(ctx, request)
		}
	}
}

// InstrumentingMiddleware records the duration of each invocation.
func InstrumentingMiddleware(duration metrics.Histogram) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				duration.With("success", fmt.Sprint(err == nil)).Observe(time.Since(begin).Seconds())
			}(time.Now())
			return next(ctx, request)
		}
	}
}
