package engine

import (
	"github.com/Golloumette/escape-game/internal/domain"
	"github.com/Golloumette/escape-game/internal/systems"
	"github.com/Golloumette/escape-game/pkg/gamemap"
)

// pendingDoor — дверь, ожидающая от игрока подтверждения или решения загадки.
// Пока она висит, состояние мира не тронуто: отмена ничего не откатывает.
type pendingDoor struct {
	x, y   int
	puzzle bool // true после ConfirmOpen по двери с загадкой
}

// Session — движок движения и гейтинга поверх локального зеркала мира
// одного клиента. Синхронный и неблокирующий: подтверждение и загадка —
// отдельные точки входа, а не подвешенное вычисление.
//
// Контракт конкурентности: одна горутина на сессию. Клиентский цикл
// событий (клавиатура + сеть) и так обрабатывает по одному событию за раз.
type Session struct {
	world *gamemap.Map
	cfg   Config

	// Мутабельное зеркало комнаты.
	doors   map[domain.Position]*domain.Door
	items   map[string]domain.Item
	players map[string]*domain.Player

	inv      *systems.Inventory
	progress *systems.Progress

	// По одной незакрытой модалке на игрока.
	pending map[string]*pendingDoor
}

// NewSession строит сессию, снимая с карты стартовое состояние дверей
// и предметов.
func NewSession(world *gamemap.Map, cfg Config) *Session {
	if cfg.TargetSolved <= 0 {
		cfg.TargetSolved = DefaultTargetSolved
	}

	s := &Session{
		world:    world,
		cfg:      cfg,
		doors:    make(map[domain.Position]*domain.Door),
		items:    make(map[string]domain.Item),
		players:  make(map[string]*domain.Player),
		inv:      systems.NewInventory(),
		progress: systems.NewProgress(cfg.TargetSolved),
		pending:  make(map[string]*pendingDoor),
	}
	for _, d := range world.Doors() {
		door := d
		s.doors[door.Pos()] = &door
	}
	for _, it := range world.Items() {
		s.items[it.ID] = it
	}
	return s
}

// --- Доступ к зеркалу ---

// DoorAt реализует systems.DoorState поверх зеркала сессии.
func (s *Session) DoorAt(x, y int) (domain.Door, bool) {
	d, ok := s.doors[domain.Position{X: x, Y: y}]
	if !ok {
		return domain.Door{}, false
	}
	return *d, true
}

// ItemsAt возвращает предметы зеркала, лежащие на клетке.
func (s *Session) ItemsAt(x, y int) []domain.Item {
	var out []domain.Item
	for _, it := range s.items {
		if it.X == x && it.Y == y {
			out = append(out, it)
		}
	}
	return out
}

// Player возвращает копию игрока.
func (s *Session) Player(id string) (domain.Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return domain.Player{}, false
	}
	return *p, true
}

// Players возвращает копии всех игроков зеркала.
func (s *Session) Players() []domain.Player {
	out := make([]domain.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	return out
}

// Inventory возвращает отсортированный снимок инвентаря игрока.
func (s *Session) Inventory(playerID string) []domain.ItemKind {
	return s.inv.Snapshot(playerID)
}

// SolvedCount возвращает счетчик решенных не-access дверей.
func (s *Session) SolvedCount() int {
	return s.progress.SolvedCount()
}

// AddPlayer вставляет игрока в зеркало (свой или удаленный).
// Существующий игрок с тем же ID не перезаписывается.
func (s *Session) AddPlayer(p domain.Player) {
	if _, ok := s.players[p.ID]; ok {
		return
	}
	cp := p
	s.players[p.ID] = &cp
}

// RemovePlayer убирает игрока вместе с его незакрытой модалкой и
// инвентарем: предметы ушедшего не должны открывать двери дальше.
func (s *Session) RemovePlayer(id string) {
	delete(s.players, id)
	delete(s.pending, id)
	s.inv.Drop(id)
}

// --- Операции движка ---

// AttemptMove обрабатывает запрошенный единичный шаг игрока.
// Ход на пол или в открытую дверь применяется сразу (вместе со сбором
// предметов); запертая дверь с выполненным требованием переводит игрока
// в ожидание подтверждения, ничего не меняя.
func (s *Session) AttemptMove(playerID string, dx, dy int) MoveOutcome {
	p, ok := s.players[playerID]
	if !ok {
		// Ход несуществующего игрока — защитный no-op, не ошибка.
		return ignored()
	}

	step := systems.CalculateStep(s.world, s, s.inv, playerID, p.Pos(), dx, dy)

	switch step.Kind {
	case systems.StepBlockedTerrain:
		return blocked(BlockTerrain, step.X, step.Y, nil)

	case systems.StepBlockedLocked:
		out := blocked(BlockLocked, step.X, step.Y, step.Need)
		out.Events = []domain.Event{domain.MessageEvent(lockedHint(step.Need))}
		return out

	case systems.StepNeedsConfirm:
		s.pending[playerID] = &pendingDoor{x: step.X, y: step.Y}
		return MoveOutcome{
			Kind: OutcomePendingConfirmation,
			X:    step.X,
			Y:    step.Y,
			Need: step.Need,
		}
	}

	events := s.applyMove(p, step.X, step.Y)
	return MoveOutcome{Kind: OutcomeMoved, X: step.X, Y: step.Y, Events: events}
}

// ConfirmOpen — игрок ответил "да" на предложение открыть дверь (x,y).
// Дверь с загадкой остается запертой и переходит в ожидание решения;
// иначе открытие, шаг внутрь и сбор предметов применяются одним куском.
func (s *Session) ConfirmOpen(playerID string, x, y int) MoveOutcome {
	pd, ok := s.pending[playerID]
	if !ok || pd.x != x || pd.y != y {
		// Подтверждение по двери, которой движок не предлагал: устаревшая
		// модалка, молча игнорируем.
		return ignored()
	}

	p, ok := s.players[playerID]
	if !ok {
		delete(s.pending, playerID)
		return ignored()
	}

	door, ok := s.doors[domain.Position{X: x, Y: y}]
	if !ok || !door.Locked {
		// Дверь исчезла из зеркала или уже открыта кем-то другим.
		delete(s.pending, playerID)
		return ignored()
	}

	if door.Puzzle != nil {
		pd.puzzle = true
		return MoveOutcome{Kind: OutcomePendingPuzzle, X: x, Y: y, Puzzle: door.Puzzle}
	}

	delete(s.pending, playerID)
	return MoveOutcome{Kind: OutcomeMoved, X: x, Y: y, Events: s.openAndEnter(p, door)}
}

// CancelOpen — игрок закрыл модалку. Никаких частичных изменений:
// незакрытое ожидание просто выбрасывается.
func (s *Session) CancelOpen(playerID string) {
	delete(s.pending, playerID)
}

// ResolvePuzzle — исход загадки двери (x,y). Провал оставляет дверь
// запертой, а ожидание — живым (игрок может пробовать дальше).
// Успех применяет открытие, шаг, награду и прогресс атомарно.
func (s *Session) ResolvePuzzle(playerID string, x, y int, success bool) MoveOutcome {
	pd, ok := s.pending[playerID]
	if !ok || !pd.puzzle || pd.x != x || pd.y != y {
		return ignored()
	}

	p, ok := s.players[playerID]
	if !ok {
		delete(s.pending, playerID)
		return ignored()
	}

	door, ok := s.doors[domain.Position{X: x, Y: y}]
	if !ok || !door.Locked {
		delete(s.pending, playerID)
		return ignored()
	}

	if !success {
		return MoveOutcome{Kind: OutcomePendingPuzzle, X: x, Y: y, Puzzle: door.Puzzle}
	}

	delete(s.pending, playerID)

	var events []domain.Event
	if door.Reward != nil {
		s.inv.Add(playerID, *door.Reward)
		events = append(events, domain.ItemGrantedEvent(*door.Reward))
	}
	events = append(events, s.openAndEnter(p, door)...)
	return MoveOutcome{Kind: OutcomeMoved, X: x, Y: y, Events: events}
}

// openAndEnter — общий хвост ConfirmOpen/ResolvePuzzle: отпереть, шагнуть,
// собрать предметы, учесть прогресс, прогнать порог. Вызывается только
// когда решение уже принято — частичных исходов нет.
func (s *Session) openAndEnter(p *domain.Player, door *domain.Door) []domain.Event {
	door.Locked = false
	events := []domain.Event{domain.DoorOpenedEvent(door.X, door.Y)}
	events = append(events, s.applyMove(p, door.X, door.Y)...)

	if !door.IsAccess() {
		s.progress.RecordSolved(door.X, door.Y)
	}
	events = append(events, s.runThreshold()...)
	return events
}

// applyMove переставляет игрока и прогоняет сбор предметов на новой клетке.
func (s *Session) applyMove(p *domain.Player, x, y int) []domain.Event {
	p.X, p.Y = x, y

	var events []domain.Event
	for _, it := range s.ItemsAt(x, y) {
		delete(s.items, it.ID)
		s.inv.Add(p.ID, it.Kind)
		events = append(events, domain.ItemRemovedEvent(it.ID, it.Kind))
	}
	return events
}

// runThreshold — правило порога прогресса: после каждого изменения
// состояния дверей, если решено достаточно, все запертые access-двери
// открываются одной пачкой с единственным событием.
func (s *Session) runThreshold() []domain.Event {
	if !s.progress.MeetsThreshold() {
		return nil
	}

	count := 0
	for _, door := range s.doors {
		if door.Locked && door.IsAccess() {
			door.Locked = false
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return []domain.Event{domain.AccessUnlockedEvent(count)}
}

// --- Применение удаленных событий (зеркалирование без коррекции) ---

// ApplyDoorOpened применяет door:opened от relay. Идемпотентно; неизвестная
// дверь пропускается (у зеркала нет метаданных, чтобы её завести).
// Игра кооперативная: чужое открытие не-access двери идет в общий
// прогресс и может дотянуть комнату до порога.
func (s *Session) ApplyDoorOpened(x, y int) {
	door, ok := s.doors[domain.Position{X: x, Y: y}]
	if !ok || !door.Locked {
		return
	}
	door.Locked = false
	if !door.IsAccess() {
		s.progress.RecordSolved(x, y)
		s.runThreshold()
	}
}

// ApplyItemRemoved применяет item:removed: предмет пропадает из мира,
// в чужой инвентарь он не попадает (им владеет поднявший).
func (s *Session) ApplyItemRemoved(id string) {
	delete(s.items, id)
}

// ApplyPlayerUpdate применяет player:update удаленного игрока.
func (s *Session) ApplyPlayerUpdate(id string, x, y int) {
	if p, ok := s.players[id]; ok {
		p.X, p.Y = x, y
	}
}

// MergeSnapshot накатывает state:init на зеркало: игроки и предметы
// замещаются, двери мержатся поштучно по (x,y) с приоритетом серверных
// полей. Локальные need/puzzle сохраняются, если сервер их не прислал.
// Уже открытые не-access двери засеивают прогресс комнаты.
func (s *Session) MergeSnapshot(players []domain.Player, doors []domain.Door, items []domain.Item, selfID string) {
	self, hadSelf := s.players[selfID]

	s.players = make(map[string]*domain.Player, len(players)+1)
	for _, p := range players {
		cp := p
		s.players[p.ID] = &cp
	}
	if hadSelf {
		if _, ok := s.players[selfID]; !ok {
			s.players[selfID] = self
		}
	}

	for _, remote := range doors {
		pos := remote.Pos()
		local, ok := s.doors[pos]
		if !ok {
			cp := remote
			s.doors[pos] = &cp
			continue
		}
		local.Locked = remote.Locked
		if remote.Need != nil {
			local.Need = remote.Need
		}
		if remote.Puzzle != nil {
			local.Puzzle = remote.Puzzle
		}
	}

	if items != nil {
		s.items = make(map[string]domain.Item, len(items))
		for _, it := range items {
			s.items[it.ID] = it
		}
	}

	// Не-access двери, пришедшие уже открытыми, кто-то решил до нас:
	// поздний новичок засеивает общий прогресс и догоняет порог.
	for pos, local := range s.doors {
		if local.Locked || local.IsAccess() {
			continue
		}
		if initial, ok := s.world.DoorAt(pos.X, pos.Y); ok && initial.Locked {
			s.progress.RecordSolved(pos.X, pos.Y)
		}
	}
	s.runThreshold()
}
