package agent

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/internal/engine"
	"github.com/Golloumette/escape-game/internal/relay"
	"github.com/Golloumette/escape-game/internal/server"
	"github.com/Golloumette/escape-game/pkg/api"
	"github.com/Golloumette/escape-game/pkg/gamemap"
)

// Коридор: загадочная дверь с наградой на пути, за ней предмет.
func corridorSource() gamemap.Source {
	rewardKey := domain.ItemKeyRed
	return gamemap.Source{
		Width:  6,
		Height: 3,
		Grid: []string{
			`######`,
			`#.D..#`,
			`######`,
		},
		Spawn: domain.Position{X: 1, Y: 1},
		Doors: []gamemap.DoorSpec{
			{X: 2, Y: 1, Locked: true, Riddle: true, Reward: &rewardKey},
		},
		Items: []domain.Item{
			{ID: "loot", Kind: domain.ItemVaccine, Name: "Vaccine", X: 3, Y: 1},
		},
	}
}

func loadCorridor(t *testing.T, seed int64) *gamemap.Map {
	t.Helper()
	m, err := gamemap.Load(corridorSource(), gamemap.NewPuzzleAllocator(seed))
	require.NoError(t, err)
	return m
}

func TestBotWalksRouteAndSolvesDoor(t *testing.T) {
	const seed = 7

	serverWorld := loadCorridor(t, seed)
	srv := server.New(relay.NewService(serverWorld), "127.0.0.1", 0, "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	// Наблюдатель входит первым и смотрит на кадры бота.
	observer, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer observer.Close()

	join, err := api.Wrap(api.EventJoin, api.JoinPayload{
		Room:   "lab",
		Player: api.PlayerView{ID: "watcher", X: 4, Y: 1},
	})
	require.NoError(t, err)
	require.NoError(t, observer.WriteJSON(join))
	waitForEvent(t, observer, api.EventStateInit)

	// Карта бота грузится с тем же сидом: загадки совпадают с серверными.
	botWorld := loadCorridor(t, seed)
	bot := New(botWorld, engine.Config{TargetSolved: engine.DefaultTargetSolved, PuzzleSeed: seed}, Options{
		ServerURL: wsURL,
		Room:      "lab",
		ID:        "walker",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Шаг на дверь (подтверждение и загадка внутри), потом на предмет.
	require.NoError(t, bot.Run(ctx, []Step{{Dx: 1, Dy: 0}, {Dx: 1, Dy: 0}}))

	waitForEvent(t, observer, api.EventPlayerJoin)

	opened := waitForEvent(t, observer, api.EventDoorOpened)
	var door api.DoorOpenedPayload
	require.NoError(t, json.Unmarshal(opened.Payload, &door))
	assert.Equal(t, 2, door.X)
	assert.Equal(t, 1, door.Y)

	upd := waitForEvent(t, observer, api.EventPlayerUpdate)
	var moved api.PlayerUpdatePayload
	require.NoError(t, json.Unmarshal(upd.Payload, &moved))
	assert.Equal(t, "walker", moved.ID)
	assert.Equal(t, 2, moved.X)

	removed := waitForEvent(t, observer, api.EventItemRemoved)
	var rem api.ItemRemovedPayload
	require.NoError(t, json.Unmarshal(removed.Payload, &rem))
	assert.Equal(t, "loot", rem.ID)
}

func TestBotBlockedStepSendsNothing(t *testing.T) {
	serverWorld := loadCorridor(t, 1)
	srv := server.New(relay.NewService(serverWorld), "127.0.0.1", 0, "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	bot := New(loadCorridor(t, 1), engine.NewConfig(), Options{
		ServerURL: wsURL,
		Room:      "lab",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Шаг в стену: маршрут завершается без единого кадра наружу.
	require.NoError(t, bot.Run(ctx, []Step{{Dx: 0, Dy: -1}}))

	room, ok := srv.Relay.Room("lab")
	require.True(t, ok)
	snap := room.Snapshot()
	require.Len(t, snap.Items, 1) // предмет на месте
	assert.True(t, snap.Doors[0].Locked)
}

func waitForEvent(t *testing.T, conn *websocket.Conn, event string) api.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var env api.Envelope
		require.NoError(t, conn.ReadJSON(&env), "waiting for %s", event)
		if env.Event == event {
			return env
		}
	}
}
