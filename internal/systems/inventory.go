package systems

import (
	"sort"

	"github.com/Golloumette/escape-game/internal/domain"
)

// Inventory — предметы на руках по игрокам. Набор игрока только растет:
// двери предметы не расходуют; целиком он исчезает лишь вместе с игроком.
type Inventory struct {
	held map[string]map[domain.ItemKind]struct{}
}

func NewInventory() *Inventory {
	return &Inventory{held: make(map[string]map[domain.ItemKind]struct{})}
}

// Has проверяет, держит ли игрок предмет данного вида.
func (inv *Inventory) Has(playerID string, kind domain.ItemKind) bool {
	_, ok := inv.held[playerID][kind]
	return ok
}

// Add кладет предмет игроку. Повторное добавление того же вида — no-op.
func (inv *Inventory) Add(playerID string, kind domain.ItemKind) {
	set, ok := inv.held[playerID]
	if !ok {
		set = make(map[domain.ItemKind]struct{})
		inv.held[playerID] = set
	}
	set[kind] = struct{}{}
}

// Snapshot возвращает отсортированную копию инвентаря игрока.
func (inv *Inventory) Snapshot(playerID string) []domain.ItemKind {
	set := inv.held[playerID]
	if len(set) == 0 {
		return nil
	}
	out := make([]domain.ItemKind, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Drop удаляет все записи игрока (при выходе из комнаты).
func (inv *Inventory) Drop(playerID string) {
	delete(inv.held, playerID)
}
