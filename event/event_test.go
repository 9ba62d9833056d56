package event

import (
	"bytes"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		t        Type
		expected string
	}{
		{Loaded, "Loaded"},
		{LoadRejected, "Load Rejected"},
		{Unloaded, "Unloaded"},
		{UnloadMissing, "Unload Missing"},
		{Arrived, "Arrived"},
		{Departed, "Departed"},
		{DepartMissing, "Depart Missing"},
		{Type(99), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.t.String())
	}
}

func TestOK(t *testing.T) {
	assert.True(t, New(Loaded).OK())
	assert.True(t, New(Unloaded).OK())
	assert.True(t, New(Arrived).OK())
	assert.True(t, New(Departed).OK())
	assert.False(t, New(LoadRejected).OK())
	assert.False(t, New(UnloadMissing).OK())
	assert.False(t, New(DepartMissing).OK())
}

func TestMessage(t *testing.T) {
	e := New(Loaded)
	e.ContainerID, e.ShipID = 3, 101
	assert.Equal(t, "Container 3 loaded into Ship 101.", e.Message())

	e = New(DepartMissing)
	e.ShipID, e.PortID = 102, 1
	assert.Equal(t, "Ship 102 is not in Port 1.", e.Message())
}

func TestNew_UniqueIDs(t *testing.T) {
	a, b := New(Arrived), New(Arrived)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.At.IsZero())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(log.NewLogfmtLogger(&buf))

	e := New(LoadRejected)
	e.ContainerID, e.ShipID = 2, 101
	sink.Publish(e)

	out := buf.String()
	assert.Contains(t, out, `event="Load Rejected"`)
	assert.Contains(t, out, "ok=false")
	assert.Contains(t, out, "exceeds weight limit")
}

func TestRecorderAndMulti(t *testing.T) {
	var a, b Recorder
	sink := Multi(&a, &b)

	sink.Publish(New(Arrived))
	sink.Publish(New(Departed))

	require.Len(t, a.Events(), 2)
	assert.Equal(t, a.Events(), b.Events())
	assert.Equal(t, Departed, a.Events()[1].Type)
}
