package systems

import (
	"testing"

	"github.com/Golloumette/escape-game/internal/domain"
)

func TestInventory_AddHas(t *testing.T) {
	inv := NewInventory()

	if inv.Has("p1", domain.ItemKeyRed) {
		t.Error("Fresh inventory must be empty")
	}

	inv.Add("p1", domain.ItemKeyRed)
	if !inv.Has("p1", domain.ItemKeyRed) {
		t.Error("Added item must be reported by Has")
	}
	if inv.Has("p2", domain.ItemKeyRed) {
		t.Error("Inventories are per player")
	}
}

func TestInventory_Snapshot(t *testing.T) {
	inv := NewInventory()
	inv.Add("p1", domain.ItemVaccine)
	inv.Add("p1", domain.ItemAccessCard)
	inv.Add("p1", domain.ItemAccessCard) // дубль не множится

	snap := inv.Snapshot("p1")
	if len(snap) != 2 {
		t.Fatalf("Expected 2 kinds, got %v", snap)
	}
	// Snapshot отсортирован и не связан с внутренним состоянием.
	if snap[0] != domain.ItemAccessCard || snap[1] != domain.ItemVaccine {
		t.Errorf("Unexpected snapshot order: %v", snap)
	}
	snap[0] = domain.ItemKeyBlue
	if !inv.Has("p1", domain.ItemAccessCard) {
		t.Error("Mutating a snapshot must not affect the store")
	}

	if got := inv.Snapshot("ghost"); got != nil {
		t.Errorf("Unknown player snapshot must be nil, got %v", got)
	}
}

func TestInventory_Drop(t *testing.T) {
	inv := NewInventory()
	inv.Add("p1", domain.ItemKeyGreen)
	inv.Drop("p1")
	if inv.Has("p1", domain.ItemKeyGreen) {
		t.Error("Dropped player must lose held items")
	}
}
