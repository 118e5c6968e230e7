package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRoundTrip(t *testing.T) {
	env, err := Wrap(EventPlayerUpdate, PlayerUpdatePayload{ID: "p1", X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, EventPlayerUpdate, env.Event)

	decoded, err := Decode[PlayerUpdatePayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, "p1", decoded.ID)
	assert.Equal(t, 3, decoded.X)
	assert.Equal(t, 4, decoded.Y)
}

func TestDecode_RejectsMalformedJSON(t *testing.T) {
	_, err := Decode[MovePayload](json.RawMessage(`{"x": "three"}`))
	assert.Error(t, err)

	_, err = Decode[MovePayload](json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestDecode_RejectsInvalidPayloads(t *testing.T) {
	cases := []struct {
		name string
		run  func() error
	}{
		{"join with negative position", func() error {
			_, err := Decode[JoinPayload](json.RawMessage(`{"player":{"id":"p1","x":-1,"y":0}}`))
			return err
		}},
		{"move with negative position", func() error {
			_, err := Decode[MovePayload](json.RawMessage(`{"x":-2,"y":0}`))
			return err
		}},
		{"door open with negative position", func() error {
			_, err := Decode[DoorOpenPayload](json.RawMessage(`{"x":0,"y":-1}`))
			return err
		}},
		{"pickup without id", func() error {
			_, err := Decode[ItemPickupPayload](json.RawMessage(`{}`))
			return err
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Error(t, c.run())
		})
	}
}

func TestDecode_AcceptsValidPayloads(t *testing.T) {
	join, err := Decode[JoinPayload](json.RawMessage(`{"room":"","player":{"id":"p1","x":0,"y":0,"color":"#b43b3b"}}`))
	require.NoError(t, err)
	// Пустая комната валидна: сервер подставит комнату по умолчанию.
	assert.Equal(t, "", join.Room)
	assert.Equal(t, "#b43b3b", join.Player.Color)

	// Пустой id игрока валиден: сервер выдаст такому клиенту свой.
	anon, err := Decode[JoinPayload](json.RawMessage(`{"room":"default","player":{"x":1,"y":1}}`))
	require.NoError(t, err)
	assert.Equal(t, "", anon.Player.ID)

	_, err = Decode[ItemPickupPayload](json.RawMessage(`{"id":"k-red"}`))
	assert.NoError(t, err)
}
