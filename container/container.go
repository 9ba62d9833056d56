package container

import (
	"errors"
	"strings"
)

// Kind describes the type of a container
type Kind int

// valid container kinds
const (
	Basic Kind = iota
	Heavy
)

// HeavyThreshold is the weight above which New produces a heavy container.
const HeavyThreshold = 3000.0

// unit fuel consumption per weight unit, indexed by Kind
var unitRates = map[Kind]float64{
	Basic: 2.5,
	Heavy: 3.0,
}

func (k Kind) String() string {
	switch k {
	case Basic:
		return "Basic"
	case Heavy:
		return "Heavy"
	}
	return ""
}

// UnitRate returns the fuel consumed per weight unit by containers of this kind.
func (k Kind) UnitRate() float64 {
	return unitRates[k]
}

// ErrUnknownKind is used when a record names a container kind that doesn't exist
var ErrUnknownKind = errors.New("unknown container kind")

// ParseKind resolves a record type tag. The long names written by earlier
// tools ("BasicContainer", "HeavyContainer") are accepted as well.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Basic", "BasicContainer":
		return Basic, nil
	case "Heavy", "HeavyContainer":
		return Heavy, nil
	}
	return 0, ErrUnknownKind
}

// Container is a cargo unit with a fixed weight and kind.
type Container struct {
	ID     int
	Kind   Kind
	Weight float64
}

// Consumption returns the fuel needed to carry the container.
func (c Container) Consumption() float64 {
	return c.Kind.UnitRate() * c.Weight
}

// New creates a container, choosing the kind from its weight.
func New(id int, weight float64) Container {
	if weight > HeavyThreshold {
		return Container{ID: id, Kind: Heavy, Weight: weight}
	}
	return Container{ID: id, Kind: Basic, Weight: weight}
}

// NewOfType creates a container of the kind named by tag. Unrecognised tags
// fall back to a basic container.
func NewOfType(id int, tag string, weight float64) Container {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "heavy":
		return Container{ID: id, Kind: Heavy, Weight: weight}
	default:
		return Container{ID: id, Kind: Basic, Weight: weight}
	}
}

// Record is the serialized form of a container
type Record struct {
	Type   string  `json:"type"`
	ID     int     `json:"id"`
	Weight float64 `json:"weight"`
}

// Record returns the serialized form of the container.
func (c Container) Record() Record {
	return Record{Type: c.Kind.String(), ID: c.ID, Weight: c.Weight}
}

// FromRecord rebuilds a container. It fails with ErrUnknownKind if the record
// type matches no known kind.
func FromRecord(r Record) (Container, error) {
	k, err := ParseKind(r.Type)
	if err != nil {
		return Container{}, err
	}
	return Container{ID: r.ID, Kind: k, Weight: r.Weight}, nil
}
