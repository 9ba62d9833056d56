package ship

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qalifah/harbor/container"
	"github.com/Qalifah/harbor/event"
)

func TestLoad_CapacityBoundary(t *testing.T) {
	s := New(101, 10000)

	e := s.Load(container.New(3, 1960))
	require.True(t, e.OK())
	e = s.Load(container.New(6, 3320))
	require.True(t, e.OK())
	assert.Equal(t, 5280.0, s.TotalWeight())
	assert.Equal(t, 14860.0, s.TotalConsumption())

	// 1960 + 3320 + 4100 = 9380 <= 10000
	e = s.Load(container.New(2, 4100))
	assert.True(t, e.OK())
	assert.Equal(t, event.Loaded, e.Type)
	assert.Equal(t, 9380.0, s.TotalWeight())

	// 9380 + 620 lands exactly on the limit
	e = s.Load(container.New(8, 620))
	assert.True(t, e.OK())
	assert.Equal(t, 10000.0, s.TotalWeight())

	e = s.Load(container.New(9, 0.5))
	assert.False(t, e.OK())
	assert.Equal(t, event.LoadRejected, e.Type)
	assert.Equal(t, 9, e.ContainerID)
	assert.Equal(t, 101, e.ShipID)
	assert.Len(t, s.Containers(), 4)
	assert.Equal(t, 10000.0, s.TotalWeight())
}

func TestLoad_RejectedLeavesManifestUnchanged(t *testing.T) {
	s := New(1, 1000)
	require.True(t, s.Load(container.New(1, 900)).OK())
	before := s.Containers()

	e := s.Load(container.New(2, 101))
	assert.Equal(t, event.LoadRejected, e.Type)
	assert.Equal(t, before, s.Containers())
}

func TestLoad_NaNWeightRejected(t *testing.T) {
	s := New(1, 1000)

	e := s.Load(container.New(1, math.NaN()))
	assert.Equal(t, event.LoadRejected, e.Type)
	assert.Empty(t, s.Containers())

	e = s.Load(container.New(2, 1e9))
	assert.False(t, e.OK())
	assert.Equal(t, 0.0, s.TotalWeight())
}

func TestLoad_ZeroCapacity(t *testing.T) {
	s := NewBuilder().Build()
	assert.True(t, s.Load(container.New(1, 0)).OK())
	assert.False(t, s.Load(container.New(2, 1)).OK())
}

func TestUnload(t *testing.T) {
	s := New(101, 10000)
	c1 := container.New(3, 1960)
	c2 := container.New(6, 3320)
	require.True(t, s.Load(c1).OK())
	before := s.Containers()

	require.True(t, s.Load(c2).OK())
	e := s.Unload(c2)
	assert.Equal(t, event.Unloaded, e.Type)
	assert.Equal(t, before, s.Containers())

	e = s.Unload(c2)
	assert.Equal(t, event.UnloadMissing, e.Type)
	assert.False(t, e.OK())
	assert.Equal(t, before, s.Containers())
}

func TestUnload_MatchesFullValue(t *testing.T) {
	s := New(1, 10000)
	require.True(t, s.Load(container.New(1, 500)).OK())

	// same kind and weight, different id
	e := s.Unload(container.New(2, 500))
	assert.Equal(t, event.UnloadMissing, e.Type)
	assert.Len(t, s.Containers(), 1)
}

func TestTotalConsumption(t *testing.T) {
	s := New(1, 100000)
	assert.Equal(t, 0.0, s.TotalConsumption())

	cs := []container.Container{
		container.New(1, 1000),
		container.New(2, 5000),
		container.NewOfType(3, "basic", 4000),
	}
	var want float64
	for _, c := range cs {
		require.True(t, s.Load(c).OK())
		want += c.Consumption()
	}
	assert.Equal(t, want, s.TotalConsumption())
	assert.Equal(t, 2500.0+15000.0+10000.0, s.TotalConsumption())
}

func TestContainers_ReturnsCopy(t *testing.T) {
	s := New(1, 1000)
	require.True(t, s.Load(container.New(1, 10)).OK())

	cs := s.Containers()
	cs[0].Weight = 999
	got, ok := s.Container(1)
	require.True(t, ok)
	assert.Equal(t, 10.0, got.Weight)

	_, ok = s.Container(2)
	assert.False(t, ok)
}

func TestRecordRoundTrip(t *testing.T) {
	s := New(101, 10000)
	require.True(t, s.Load(container.New(3, 1960)).OK())
	require.True(t, s.Load(container.New(6, 3320)).OK())

	got, err := FromRecord(s.Record())
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestRecord_EmptyManifest(t *testing.T) {
	r := New(5, 10).Record()
	assert.NotNil(t, r.Containers)
	assert.Empty(t, r.Containers)
}

func TestFromRecord_UnknownKind(t *testing.T) {
	r := Record{
		ID:        1,
		MaxWeight: 100,
		Containers: []container.Record{
			{Type: "Basic", ID: 1, Weight: 10},
			{Type: "Liquid", ID: 2, Weight: 10},
		},
	}
	_, err := FromRecord(r)
	assert.ErrorIs(t, err, container.ErrUnknownKind)
}

func TestBuilder(t *testing.T) {
	s := NewBuilder().WithID(101).WithMaxWeight(10000).Build()
	assert.Equal(t, 101, s.ID)
	assert.Equal(t, 10000.0, s.MaxWeight)
	assert.Empty(t, s.Containers())

	def := NewBuilder().Build()
	assert.Equal(t, 0, def.ID)
	assert.Equal(t, 0.0, def.MaxWeight)
}

func TestBuilder_BuildsIndependentShips(t *testing.T) {
	b := NewBuilder().WithID(1).WithMaxWeight(100)
	first := b.Build()
	require.True(t, first.Load(container.New(1, 50)).OK())

	second := b.WithMaxWeight(200).Build()
	assert.Equal(t, 100.0, first.MaxWeight)
	assert.Equal(t, 200.0, second.MaxWeight)
	assert.Empty(t, second.Containers())
	assert.NotSame(t, first, second)
}
