package harbor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/transport"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/sony/gobreaker"

	"github.com/Qalifah/harbor/container"
	"github.com/Qalifah/harbor/port"
	"github.com/Qalifah/harbor/ship"
)

// MakeHandler returns a handler for the harbor service.
func MakeHandler(endpoints Set, logger kitlog.Logger) http.Handler {
	r := mux.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		kithttp.ServerErrorEncoder(encodeError),
	}

	r.Handle("/harbor/v1/ports", kithttp.NewServer(
		endpoints.RegisterPortEndpoint, decodeRegisterPortRequest, encodeResponse, opts...,
	)).Methods("POST")
	r.Handle("/harbor/v1/ports", kithttp.NewServer(
		endpoints.ListPortsEndpoint, decodeListPortsRequest, encodeResponse, opts...,
	)).Methods("GET")
	r.Handle("/harbor/v1/ports/{id}", kithttp.NewServer(
		endpoints.PortEndpoint, decodePortRequest, encodeResponse, opts...,
	)).Methods("GET")
	r.Handle("/harbor/v1/ports/{id}/ships", kithttp.NewServer(
		endpoints.ArriveEndpoint, decodeArriveRequest, encodeResponse, opts...,
	)).Methods("POST")
	r.Handle("/harbor/v1/ports/{id}/ships/{ship}", kithttp.NewServer(
		endpoints.DepartEndpoint, decodeDepartRequest, encodeResponse, opts...,
	)).Methods("DELETE")
	r.Handle("/harbor/v1/ports/{id}/snapshot", kithttp.NewServer(
		endpoints.SavePortEndpoint, decodeSavePortRequest, encodeResponse, opts...,
	)).Methods("POST")
	r.Handle("/harbor/v1/ports/{id}/restore", kithttp.NewServer(
		endpoints.RestorePortEndpoint, decodeRestorePortRequest, encodeResponse, opts...,
	)).Methods("POST")
	r.Handle("/harbor/v1/ships", kithttp.NewServer(
		endpoints.RegisterShipEndpoint, decodeRegisterShipRequest, encodeResponse, opts...,
	)).Methods("POST")
	r.Handle("/harbor/v1/ships/{id}", kithttp.NewServer(
		endpoints.ShipEndpoint, decodeShipRequest, encodeResponse, opts...,
	)).Methods("GET")
	r.Handle("/harbor/v1/ships/{id}/consumption", kithttp.NewServer(
		endpoints.ConsumptionEndpoint, decodeConsumptionRequest, encodeResponse, opts...,
	)).Methods("GET")
	r.Handle("/harbor/v1/ships/{id}/containers", kithttp.NewServer(
		endpoints.LoadContainerEndpoint, decodeLoadContainerRequest, encodeResponse, opts...,
	)).Methods("POST")
	r.Handle("/harbor/v1/ships/{id}/containers/{container}", kithttp.NewServer(
		endpoints.UnloadContainerEndpoint, decodeUnloadContainerRequest, encodeResponse, opts...,
	)).Methods("DELETE")

	return r
}

var errBadRoute = errors.New("bad route")

func pathInt(r *http.Request, name string) (int, error) {
	v, ok := mux.Vars(r)[name]
	if !ok {
		return 0, errBadRoute
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ErrInvalidArgument
	}
	return n, nil
}

func decodeRegisterPortRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var body struct {
		ID          int        `json:"id"`
		Coordinates [2]float64 `json:"coordinates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return registerPortRequest{ID: body.ID, Coordinates: body.Coordinates}, nil
}

func decodeListPortsRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return listPortsRequest{}, nil
}

func decodePortRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	return portRequest{ID: id}, nil
}

func decodeArriveRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	var body struct {
		ShipID int `json:"ship_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return arriveRequest{PortID: id, ShipID: body.ShipID}, nil
}

func decodeDepartRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	shipID, err := pathInt(r, "ship")
	if err != nil {
		return nil, err
	}
	return departRequest{PortID: id, ShipID: shipID}, nil
}

func decodeSavePortRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	return savePortRequest{ID: id}, nil
}

func decodeRestorePortRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	return restorePortRequest{ID: id}, nil
}

func decodeRegisterShipRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var body struct {
		ID        int     `json:"id"`
		MaxWeight float64 `json:"max_weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return registerShipRequest{ID: body.ID, MaxWeight: body.MaxWeight}, nil
}

func decodeShipRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	return shipRequest{ID: id}, nil
}

func decodeConsumptionRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	return consumptionRequest{ShipID: id}, nil
}

func decodeLoadContainerRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	var body struct {
		ID     int     `json:"id"`
		Type   string  `json:"type"`
		Weight float64 `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return loadContainerRequest{
		ShipID:      id,
		ContainerID: body.ID,
		Kind:        body.Type,
		Weight:      body.Weight,
	}, nil
}

func decodeUnloadContainerRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, err := pathInt(r, "id")
	if err != nil {
		return nil, err
	}
	containerID, err := pathInt(r, "container")
	if err != nil {
		return nil, err
	}
	return unloadContainerRequest{ShipID: id, ContainerID: containerID}, nil
}

func encodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if e, ok := response.(errorer); ok && e.error() != nil {
		encodeError(ctx, e.error(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

type errorer interface {
	error() error
}

// encode errors from business-logic
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}

func statusCode(err error) int {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		persistErr *port.PersistenceError
	)
	switch {
	case errors.Is(err, port.ErrUnknown), errors.Is(err, ship.ErrUnknown), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, errBadRoute):
		return http.StatusBadRequest
	case errors.Is(err, container.ErrUnknownKind):
		return http.StatusUnprocessableEntity
	case errors.As(err, &persistErr):
		// a snapshot on disk that doesn't decode is the server's fault
		return http.StatusInternalServerError
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest
	case errors.Is(err, ratelimit.ErrLimited), errors.Is(err, gobreaker.ErrOpenState):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
