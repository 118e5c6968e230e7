package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/pkg/api"
	"github.com/Golloumette/escape-game/pkg/gamemap"
)

func testWorld(t *testing.T) *gamemap.Map {
	t.Helper()
	red := domain.NeedRed
	m, err := gamemap.Load(gamemap.Source{
		Width:  6,
		Height: 4,
		Grid: []string{
			`######`,
			`#...D#`,
			`#....#`,
			`######`,
		},
		Spawn: domain.Position{X: 1, Y: 1},
		Doors: []gamemap.DoorSpec{{X: 4, Y: 1, Locked: true, Need: &red}},
		Items: []domain.Item{{ID: "k1", Kind: domain.ItemKeyRed, Name: "Red key", X: 2, Y: 1}},
	}, nil)
	require.NoError(t, err)
	return m
}

// drain вычитывает все накопленные сообщения канала без блокировки.
func drain(ch chan api.Envelope) []api.Envelope {
	var out []api.Envelope
	for {
		select {
		case msg := <-ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func joinRoom(r *Room, id string, x, y int) chan api.Envelope {
	ch := r.Hub.Register(id)
	r.Join(domain.Player{ID: id, X: x, Y: y, Color: "#b43b3b"})
	return ch
}

func TestRoom_JoinSnapshotAndAnnounce(t *testing.T) {
	svc := NewService(testWorld(t))
	room := svc.EnsureRoom("alpha")

	chA := joinRoom(room, "a", 1, 1)

	msgs := drain(chA)
	require.Len(t, msgs, 1)
	assert.Equal(t, api.EventStateInit, msgs[0].Event)

	var snap api.StateInitPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &snap))
	assert.Contains(t, snap.Players, "a")
	require.Len(t, snap.Doors, 1)
	assert.True(t, snap.Doors[0].Locked)
	require.NotNil(t, snap.Doors[0].Need)
	assert.Equal(t, domain.NeedRed, *snap.Doors[0].Need)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "k1", snap.Items[0].ID)

	// Второй игрок: сам получает снапшот с обоими, первый — player:join.
	chB := joinRoom(room, "b", 2, 2)

	bMsgs := drain(chB)
	require.Len(t, bMsgs, 1)
	assert.Equal(t, api.EventStateInit, bMsgs[0].Event)

	aMsgs := drain(chA)
	require.Len(t, aMsgs, 1)
	assert.Equal(t, api.EventPlayerJoin, aMsgs[0].Event)
}

// Сценарий E: конфликтные player:move двух клиентов применяются и
// рассылаются в порядке поступления, ничего не теряется.
func TestRoom_MoveOrderingAndExclusion(t *testing.T) {
	svc := NewService(testWorld(t))
	room := svc.EnsureRoom("alpha")

	chA := joinRoom(room, "a", 1, 1)
	chB := joinRoom(room, "b", 2, 2)
	drain(chA)
	drain(chB)

	room.Move("a", 2, 1)
	room.Move("b", 3, 2)
	room.Move("a", 3, 1)

	// Отправитель своих player:update не получает.
	aMsgs := drain(chA)
	require.Len(t, aMsgs, 1)
	assert.Equal(t, api.EventPlayerUpdate, aMsgs[0].Event)

	// Наблюдатель видит оба хода игрока "a" в порядке применения.
	bMsgs := drain(chB)
	require.Len(t, bMsgs, 2)
	var first, second api.PlayerUpdatePayload
	require.NoError(t, json.Unmarshal(bMsgs[0].Payload, &first))
	require.NoError(t, json.Unmarshal(bMsgs[1].Payload, &second))
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, 2, first.X)
	assert.Equal(t, "a", second.ID)
	assert.Equal(t, 3, second.X)

	// Ход неизвестного игрока — no-op.
	room.Move("ghost", 1, 1)
	assert.Empty(t, drain(chB))
}

func TestRoom_DoorOpenMirroredForNewcomers(t *testing.T) {
	svc := NewService(testWorld(t))
	room := svc.EnsureRoom("alpha")

	chA := joinRoom(room, "a", 1, 1)
	drain(chA)

	room.OpenDoor("a", 4, 1)

	// door:opened приходит всем, включая инициатора.
	msgs := drain(chA)
	require.Len(t, msgs, 1)
	assert.Equal(t, api.EventDoorOpened, msgs[0].Event)

	// Поздний новичок получает уже открытую дверь в снапшоте.
	chB := joinRoom(room, "b", 2, 2)
	bMsgs := drain(chB)
	require.Len(t, bMsgs, 1)
	var snap api.StateInitPayload
	require.NoError(t, json.Unmarshal(bMsgs[0].Payload, &snap))
	require.Len(t, snap.Doors, 1)
	assert.False(t, snap.Doors[0].Locked)
}

func TestRoom_PickupRemovesOnce(t *testing.T) {
	svc := NewService(testWorld(t))
	room := svc.EnsureRoom("alpha")

	chA := joinRoom(room, "a", 1, 1)
	drain(chA)

	room.PickupItem("a", "k1")
	room.PickupItem("a", "k1") // идемпотентно

	msgs := drain(chA)
	require.Len(t, msgs, 2) // item:removed рассылается и инициатору
	for _, m := range msgs {
		assert.Equal(t, api.EventItemRemoved, m.Event)
	}

	snap := room.Snapshot()
	assert.Empty(t, snap.Items)
}

func TestRoom_Leave(t *testing.T) {
	svc := NewService(testWorld(t))
	room := svc.EnsureRoom("alpha")

	chA := joinRoom(room, "a", 1, 1)
	chB := joinRoom(room, "b", 2, 2)
	drain(chA)
	drain(chB)

	room.Leave("b")
	require.Equal(t, 1, room.PlayerCount())

	msgs := drain(chA)
	require.Len(t, msgs, 1)
	assert.Equal(t, api.EventPlayerLeave, msgs[0].Event)

	// Повторный уход — no-op.
	room.Leave("b")
	assert.Empty(t, drain(chA))
}

func TestService_LazyRooms(t *testing.T) {
	svc := NewService(testWorld(t))

	assert.Equal(t, 0, svc.RoomCount())
	r1 := svc.EnsureRoom("alpha")
	r2 := svc.EnsureRoom("alpha")
	assert.Same(t, r1, r2)

	// Пустое имя комнаты — комната по умолчанию.
	def := svc.EnsureRoom("")
	assert.Equal(t, DefaultRoom, def.ID)
	assert.Equal(t, 2, svc.RoomCount())

	_, ok := svc.Room("missing")
	assert.False(t, ok)
}
