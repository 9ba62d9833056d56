package harbor

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qalifah/harbor/container"
	"github.com/Qalifah/harbor/event"
	"github.com/Qalifah/harbor/inmem"
	"github.com/Qalifah/harbor/port"
	"github.com/Qalifah/harbor/ship"
)

func newTestService(t *testing.T) (Service, *event.Recorder) {
	t.Helper()

	var rec event.Recorder
	s := NewService(inmem.NewPortRepository(), inmem.NewShipRepository(), &rec, t.TempDir())
	require.NoError(t, s.RegisterPort(port.KyivID, port.Kyiv.Latitude, port.Kyiv.Longitude))
	require.NoError(t, s.RegisterShip(101, 10000))
	require.NoError(t, s.RegisterShip(102, 15000))
	return s, &rec
}

func TestRegister_Duplicates(t *testing.T) {
	s, _ := newTestService(t)

	assert.ErrorIs(t, s.RegisterPort(port.KyivID, 0, 0), ErrInvalidArgument)
	assert.ErrorIs(t, s.RegisterShip(101, 5), ErrInvalidArgument)
	assert.ErrorIs(t, s.RegisterShip(103, -1), ErrInvalidArgument)
}

func TestLoadContainer(t *testing.T) {
	s, rec := newTestService(t)

	e, err := s.LoadContainer(101, 3, "", 1960)
	require.NoError(t, err)
	assert.True(t, e.OK())
	e, err = s.LoadContainer(101, 6, "", 3320)
	require.NoError(t, err)
	assert.True(t, e.OK())

	total, err := s.Consumption(101)
	require.NoError(t, err)
	assert.Equal(t, 14860.0, total)

	e, err = s.LoadContainer(101, 2, "heavy", 4100)
	require.NoError(t, err)
	assert.True(t, e.OK())

	e, err = s.LoadContainer(101, 9, "basic", 621)
	require.NoError(t, err)
	assert.Equal(t, event.LoadRejected, e.Type)

	sh, err := s.Ship(101)
	require.NoError(t, err)
	assert.Equal(t, 9380.0, sh.TotalWeight)
	assert.Len(t, sh.Containers, 3)
	assert.Equal(t, "Heavy", sh.Containers[1].Type)

	events := rec.Events()
	require.Len(t, events, 4)
	assert.Equal(t, event.LoadRejected, events[3].Type)
}

func TestLoadContainer_Errors(t *testing.T) {
	s, rec := newTestService(t)

	_, err := s.LoadContainer(999, 1, "", 10)
	assert.ErrorIs(t, err, ship.ErrUnknown)

	_, err = s.LoadContainer(101, 1, "", -10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.LoadContainer(101, 1, "", 10)
	require.NoError(t, err)
	_, err = s.LoadContainer(101, 1, "", 20)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Len(t, rec.Events(), 1)
}

func TestUnloadContainer(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.LoadContainer(101, 3, "", 1960)
	require.NoError(t, err)

	e, err := s.UnloadContainer(101, 3)
	require.NoError(t, err)
	assert.Equal(t, event.Unloaded, e.Type)

	e, err = s.UnloadContainer(101, 3)
	require.NoError(t, err)
	assert.Equal(t, event.UnloadMissing, e.Type)

	total, err := s.Consumption(101)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestArriveDepart(t *testing.T) {
	s, rec := newTestService(t)
	require.NoError(t, s.RegisterPort(port.OdesaID, port.Odesa.Latitude, port.Odesa.Longitude))

	e, err := s.Arrive(port.KyivID, 101)
	require.NoError(t, err)
	assert.Equal(t, event.Arrived, e.Type)

	_, err = s.Arrive(port.OdesaID, 101)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	e, err = s.Depart(port.KyivID, 102)
	require.NoError(t, err)
	assert.Equal(t, event.DepartMissing, e.Type)

	p, err := s.Port(port.KyivID)
	require.NoError(t, err)
	require.Len(t, p.Ships, 1)
	assert.Empty(t, p.History)

	e, err = s.Depart(port.KyivID, 101)
	require.NoError(t, err)
	assert.Equal(t, event.Departed, e.Type)

	p, err = s.Port(port.KyivID)
	require.NoError(t, err)
	assert.Empty(t, p.Ships)
	require.Len(t, p.History, 1)
	assert.Equal(t, 101, p.History[0].ID)

	_, err = s.Arrive(port.OdesaID, 101)
	assert.NoError(t, err)

	_, err = s.Arrive(42, 101)
	assert.ErrorIs(t, err, port.ErrUnknown)
	_, err = s.Depart(port.KyivID, 999)
	assert.ErrorIs(t, err, ship.ErrUnknown)

	assert.Len(t, rec.Events(), 4)
}

func TestPorts(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.RegisterPort(port.OdesaID, port.Odesa.Latitude, port.Odesa.Longitude))

	ps := s.Ports()
	require.Len(t, ps, 2)
	assert.Equal(t, [2]float64{50.4501, 30.5234}, ps[0].Coordinates)
	assert.Equal(t, port.OdesaID, ps[1].ID)

	_, err := s.Port(77)
	assert.ErrorIs(t, err, port.ErrUnknown)
}

func TestSaveRestorePort(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.LoadContainer(101, 3, "", 1960)
	require.NoError(t, err)
	_, err = s.LoadContainer(102, 2, "", 4100)
	require.NoError(t, err)
	_, err = s.Arrive(port.KyivID, 101)
	require.NoError(t, err)
	_, err = s.Arrive(port.KyivID, 102)
	require.NoError(t, err)
	_, err = s.Depart(port.KyivID, 102)
	require.NoError(t, err)

	path, err := s.SavePort(port.KyivID)
	require.NoError(t, err)
	assert.FileExists(t, path)
	saved, err := s.Port(port.KyivID)
	require.NoError(t, err)

	// diverge from the snapshot, then restore it
	_, err = s.LoadContainer(101, 7, "", 100)
	require.NoError(t, err)
	_, err = s.Depart(port.KyivID, 101)
	require.NoError(t, err)

	restored, err := s.RestorePort(port.KyivID)
	require.NoError(t, err)
	assert.Equal(t, saved, restored)

	sh, err := s.Ship(101)
	require.NoError(t, err)
	assert.Equal(t, 1960.0, sh.TotalWeight)

	// restored ships are the ones the port holds
	e, err := s.Depart(port.KyivID, 101)
	require.NoError(t, err)
	assert.True(t, e.OK())
}

func TestRestorePort_ShipDockedElsewhere(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.RegisterPort(port.OdesaID, port.Odesa.Latitude, port.Odesa.Longitude))

	_, err := s.LoadContainer(101, 3, "", 1960)
	require.NoError(t, err)
	_, err = s.Arrive(port.KyivID, 101)
	require.NoError(t, err)
	_, err = s.SavePort(port.KyivID)
	require.NoError(t, err)

	_, err = s.Depart(port.KyivID, 101)
	require.NoError(t, err)
	_, err = s.Arrive(port.OdesaID, 101)
	require.NoError(t, err)
	_, err = s.LoadContainer(101, 4, "", 500)
	require.NoError(t, err)

	_, err = s.RestorePort(port.KyivID)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	kyiv, err := s.Port(port.KyivID)
	require.NoError(t, err)
	assert.Empty(t, kyiv.Ships)
	odesa, err := s.Port(port.OdesaID)
	require.NoError(t, err)
	require.Len(t, odesa.Ships, 1)
	assert.Equal(t, 2460.0, odesa.Ships[0].TotalWeight)

	// the stored ship is still the one docked at Odesa
	e, err := s.LoadContainer(101, 8, "", 100)
	require.NoError(t, err)
	require.True(t, e.OK())
	odesa, err = s.Port(port.OdesaID)
	require.NoError(t, err)
	assert.Equal(t, 2560.0, odesa.Ships[0].TotalWeight)
}

func TestRestorePort_KeepsLiveDepartedShips(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.RegisterPort(port.OdesaID, port.Odesa.Latitude, port.Odesa.Longitude))

	_, err := s.Arrive(port.KyivID, 102)
	require.NoError(t, err)
	_, err = s.Depart(port.KyivID, 102)
	require.NoError(t, err)
	_, err = s.SavePort(port.KyivID)
	require.NoError(t, err)

	_, err = s.Arrive(port.OdesaID, 102)
	require.NoError(t, err)
	_, err = s.LoadContainer(102, 5, "", 700)
	require.NoError(t, err)

	restored, err := s.RestorePort(port.KyivID)
	require.NoError(t, err)
	require.Len(t, restored.History, 1)
	assert.Equal(t, 0.0, restored.History[0].TotalWeight)

	sh, err := s.Ship(102)
	require.NoError(t, err)
	assert.Equal(t, 700.0, sh.TotalWeight)
	odesa, err := s.Port(port.OdesaID)
	require.NoError(t, err)
	require.Len(t, odesa.Ships, 1)
	assert.Equal(t, 700.0, odesa.Ships[0].TotalWeight)
}

func TestRestorePort_NoSnapshot(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.RestorePort(port.KyivID)
	var perr *port.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	p, err := s.Port(port.KyivID)
	require.NoError(t, err)
	assert.Empty(t, p.Ships)
}

func TestSavePort_Unknown(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.SavePort(5)
	assert.ErrorIs(t, err, port.ErrUnknown)
}

func TestNilSink(t *testing.T) {
	s := NewService(inmem.NewPortRepository(), inmem.NewShipRepository(), nil, t.TempDir())
	require.NoError(t, s.RegisterShip(1, 10))
	e, err := s.LoadContainer(1, 1, "basic", 5)
	require.NoError(t, err)
	assert.True(t, e.OK())

	sh, err := s.Ship(1)
	require.NoError(t, err)
	assert.Equal(t, container.Basic.String(), sh.Containers[0].Type)
}
