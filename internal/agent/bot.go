package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/internal/engine"
	"github.com/Golloumette/escape-game/pkg/api"
	"github.com/Golloumette/escape-game/pkg/gamemap"
	"github.com/Golloumette/escape-game/pkg/logger"
	"github.com/Golloumette/escape-game/pkg/utils"
)

// Bot — "игрок-компьютер" (Headless Agent). Это пример ВНЕШНЕГО клиента:
// он подключается к серверу по WebSocket так же, как браузерный игрок,
// держит свою локальную копию мира через engine.Session и шагает по
// заданному маршруту, сам подтверждая двери и решая загадки.
//
// Жизненный цикл:
//  1. New -> локальная сессия засеяна той же картой, что у сервера.
//  2. Run -> dial, join, ожидание state:init, затем маршрут шаг за шагом.
//  3. Каждый исход движка превращается в кадры протокола: player:move,
//     door:open, item:pickup.
//  4. Между шагами бот применяет к сессии все накопленные чужие события.
type Bot struct {
	ID    string
	Color string

	session *engine.Session
	opts    Options
	conn    *websocket.Conn
	inbox   chan api.Envelope
	log     *logrus.Entry
}

// Step — смещение одного шага маршрута.
type Step struct {
	Dx, Dy int
}

type Options struct {
	ServerURL string // ws://host:port/ws
	Room      string
	ID        string
	Color     string

	// Пауза между шагами маршрута. Ноль — шагать без пауз.
	StepDelay time.Duration
}

func New(world *gamemap.Map, cfg engine.Config, opts Options) *Bot {
	if opts.ID == "" {
		opts.ID = "bot-" + utils.GenerateID()
	}
	if opts.Color == "" {
		opts.Color = utils.RandomColor()
	}

	b := &Bot{
		ID:      opts.ID,
		Color:   opts.Color,
		session: engine.NewSession(world, cfg),
		opts:    opts,
		inbox:   make(chan api.Envelope, 256),
		log:     logger.Log.WithField("bot", opts.ID),
	}

	spawn := world.Spawn
	b.session.AddPlayer(domain.Player{ID: b.ID, X: spawn.X, Y: spawn.Y, Color: b.Color})
	return b
}

// Run подключается к серверу и проходит маршрут. Возвращается после
// последнего шага, по ошибке соединения или по отмене контекста.
func (b *Bot) Run(ctx context.Context, script []Step) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.opts.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", b.opts.ServerURL, err)
	}
	b.conn = conn
	defer conn.Close()

	me, _ := b.session.Player(b.ID)
	join, err := api.Wrap(api.EventJoin, api.JoinPayload{
		Room:   b.opts.Room,
		Player: api.PlayerView{ID: b.ID, X: me.X, Y: me.Y, Color: b.Color},
	})
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	go b.readLoop()

	// Сервер обязан ответить снапшотом до любых чужих событий.
	if err := b.awaitSnapshot(ctx); err != nil {
		return err
	}
	b.log.WithField("room", b.opts.Room).Info("Bot joined")

	for i, step := range script {
		if err := b.pause(ctx); err != nil {
			return err
		}
		b.drainInbox()

		if err := b.makeStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	b.log.WithField("solved", b.session.SolvedCount()).Info("Bot finished route")
	return nil
}

// makeStep прогоняет один шаг маршрута через движок и публикует результат.
func (b *Bot) makeStep(step Step) error {
	out := b.session.AttemptMove(b.ID, step.Dx, step.Dy)

	switch out.Kind {
	case engine.OutcomeMoved:
		return b.announce(out)

	case engine.OutcomeBlocked:
		fields := logrus.Fields{"x": out.X, "y": out.Y, "reason": out.Reason}
		for _, ev := range out.Events {
			if ev.Type == domain.EventMessage {
				fields["hint"] = ev.Text
			}
		}
		b.log.WithFields(fields).Debug("Step blocked")
		return nil

	case engine.OutcomePendingConfirmation:
		return b.openDoor(out.X, out.Y)
	}

	return nil
}

// openDoor подтверждает открытие и, если дверь с загадкой, решает ее.
// Бот играет на той же карте, что и сервер, так что ответ он знает.
func (b *Bot) openDoor(x, y int) error {
	out := b.session.ConfirmOpen(b.ID, x, y)

	if out.Kind == engine.OutcomePendingPuzzle {
		out = b.session.ResolvePuzzle(b.ID, x, y, out.Puzzle.Check(answerFor(out.Puzzle)))
		if out.Kind == engine.OutcomePendingPuzzle {
			// Ответ не сошелся: карта бота разошлась с серверной.
			b.log.WithFields(logrus.Fields{"x": x, "y": y}).Warn("Puzzle unsolved, door stays locked")
			b.session.CancelOpen(b.ID)
			return nil
		}
	}

	if out.Kind != engine.OutcomeMoved {
		return nil
	}
	return b.announce(out)
}

// announce превращает побочные эффекты исхода в кадры протокола.
func (b *Bot) announce(out engine.MoveOutcome) error {
	for _, ev := range out.Events {
		switch ev.Type {
		case domain.EventDoorOpened:
			if err := b.send(api.EventDoorOpen, api.DoorOpenPayload{X: ev.X, Y: ev.Y}); err != nil {
				return err
			}
		case domain.EventItemRemoved:
			if err := b.send(api.EventItemPickup, api.ItemPickupPayload{ID: ev.ItemID}); err != nil {
				return err
			}
		}
	}
	return b.send(api.EventPlayerMove, api.MovePayload{X: out.X, Y: out.Y})
}

func (b *Bot) send(event string, payload any) error {
	env, err := api.Wrap(event, payload)
	if err != nil {
		return err
	}
	return b.conn.WriteJSON(env)
}

// readLoop складывает входящие кадры в inbox до закрытия соединения.
func (b *Bot) readLoop() {
	defer close(b.inbox)
	for {
		var env api.Envelope
		if err := b.conn.ReadJSON(&env); err != nil {
			return
		}
		select {
		case b.inbox <- env:
		default:
			// Переполненный inbox роняет кадр, бот живет дальше.
		}
	}
}

func (b *Bot) awaitSnapshot(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-b.inbox:
			if !ok {
				return fmt.Errorf("connection closed before state:init")
			}
			b.applyRemote(env)
			if env.Event == api.EventStateInit {
				return nil
			}
		}
	}
}

// drainInbox применяет к сессии все накопленные чужие события.
func (b *Bot) drainInbox() {
	for {
		select {
		case env, ok := <-b.inbox:
			if !ok {
				return
			}
			b.applyRemote(env)
		default:
			return
		}
	}
}

func (b *Bot) applyRemote(env api.Envelope) {
	switch env.Event {
	case api.EventStateInit:
		var snap api.StateInitPayload
		if err := json.Unmarshal(env.Payload, &snap); err != nil {
			b.log.WithError(err).Warn("Dropped malformed state:init")
			return
		}
		b.mergeSnapshot(snap)

	case api.EventPlayerJoin:
		var pv api.PlayerView
		if err := json.Unmarshal(env.Payload, &pv); err != nil {
			return
		}
		b.session.AddPlayer(domain.Player{ID: pv.ID, X: pv.X, Y: pv.Y, Color: pv.Color})

	case api.EventPlayerUpdate:
		var upd api.PlayerUpdatePayload
		if err := json.Unmarshal(env.Payload, &upd); err != nil {
			return
		}
		b.session.ApplyPlayerUpdate(upd.ID, upd.X, upd.Y)

	case api.EventDoorOpened:
		var door api.DoorOpenedPayload
		if err := json.Unmarshal(env.Payload, &door); err != nil {
			return
		}
		b.session.ApplyDoorOpened(door.X, door.Y)

	case api.EventItemRemoved:
		var rem api.ItemRemovedPayload
		if err := json.Unmarshal(env.Payload, &rem); err != nil {
			return
		}
		b.session.ApplyItemRemoved(rem.ID)

	case api.EventPlayerLeave:
		var pl api.PlayerLeavePayload
		if err := json.Unmarshal(env.Payload, &pl); err != nil {
			return
		}
		b.session.RemovePlayer(pl.ID)
	}
}

// mergeSnapshot переводит DTO снапшота в доменные сущности для сессии.
func (b *Bot) mergeSnapshot(snap api.StateInitPayload) {
	players := make([]domain.Player, 0, len(snap.Players))
	for _, pv := range snap.Players {
		players = append(players, domain.Player{ID: pv.ID, X: pv.X, Y: pv.Y, Color: pv.Color})
	}
	doors := make([]domain.Door, 0, len(snap.Doors))
	for _, dv := range snap.Doors {
		doors = append(doors, domain.Door{X: dv.X, Y: dv.Y, Locked: dv.Locked, Need: dv.Need})
	}
	b.session.MergeSnapshot(players, doors, snap.Items, b.ID)
}

func (b *Bot) pause(ctx context.Context) error {
	if b.opts.StepDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.opts.StepDelay):
		return nil
	}
}

// answerFor строит заведомо правильный ответ по описанию загадки.
func answerFor(p *domain.PuzzleDef) domain.Answer {
	switch p.Type {
	case domain.PuzzleText:
		return domain.Answer{Text: p.Answer}
	case domain.PuzzleMCQ:
		return domain.Answer{Index: p.CorrectIndex}
	case domain.PuzzleTF:
		return domain.Answer{Truth: p.Correct}
	}
	return domain.Answer{}
}
