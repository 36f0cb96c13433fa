// Package inventory holds what the player carries and what map storages
// contain. The player's inventory is a counted set of named items, including
// the access cards terminals check; storages are grids of sized items.
package inventory

import (
	"fmt"
	"sort"
	"sync"
)

// AccessPrefix marks an access card item. The card for code "med" is the
// item "access:med".
const AccessPrefix = "access:"

// Item describes an item type.
type Item struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Size        Size   `json:"size"`
	MaxStack    int    `json:"max_stack,omitempty"` // 0 = unlimited
}

// Slot is an item and its quantity.
type Slot struct {
	ItemName string
	Count    int
}

// Inventory holds the items of one character.
type Inventory struct {
	mu sync.RWMutex

	slots map[string]int
	defs  map[string]*Item

	// MaxSlots limits unique item types (0 = unlimited)
	MaxSlots int

	// OnChange is called after every change, for UI updates
	OnChange func()
}

// New creates an empty inventory.
func New() *Inventory {
	return &Inventory{
		slots: make(map[string]int),
		defs:  make(map[string]*Item),
	}
}

// WithAccess returns an inventory holding one access card per code.
func WithAccess(codes ...string) *Inventory {
	inv := New()
	for _, c := range codes {
		inv.AddItem(AccessPrefix+c, 1)
	}
	return inv
}

// RegisterItem adds an item definition.
func (inv *Inventory) RegisterItem(item *Item) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.defs[item.Name] = item
}

// HasItem reports whether at least one of the named item is held.
func (inv *Inventory) HasItem(name string) bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.slots[name] > 0
}

// HasAccess reports whether the access card for code is held.
func (inv *Inventory) HasAccess(code string) bool {
	if inv == nil || code == "" {
		return false
	}
	return inv.HasItem(AccessPrefix + code)
}

// ItemCount returns the quantity of an item.
func (inv *Inventory) ItemCount(name string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.slots[name]
}

// AddItem adds items and returns how many were added.
func (inv *Inventory) AddItem(name string, count int) int {
	if count <= 0 {
		return 0
	}

	inv.mu.Lock()
	_, exists := inv.slots[name]
	if !exists && inv.MaxSlots > 0 && len(inv.slots) >= inv.MaxSlots {
		inv.mu.Unlock()
		return 0
	}
	if def, ok := inv.defs[name]; ok && def.MaxStack > 0 {
		count = min(count, def.MaxStack-inv.slots[name])
	}
	if count > 0 {
		inv.slots[name] += count
	}
	inv.mu.Unlock()

	if count > 0 {
		inv.notifyChange()
	}
	return max(count, 0)
}

// RemoveItem removes items. It fails when fewer than count are held.
func (inv *Inventory) RemoveItem(name string, count int) bool {
	if count <= 0 {
		return true
	}

	inv.mu.Lock()
	current := inv.slots[name]
	if current < count {
		inv.mu.Unlock()
		return false
	}
	inv.slots[name] -= count
	if inv.slots[name] == 0 {
		delete(inv.slots, name)
	}
	inv.mu.Unlock()

	inv.notifyChange()
	return true
}

// Items returns every held item sorted by name.
func (inv *Inventory) Items() []Slot {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]Slot, 0, len(inv.slots))
	for name, count := range inv.slots {
		out = append(out, Slot{ItemName: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out
}

// Count returns the number of unique item types.
func (inv *Inventory) Count() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.slots)
}

// notifyChange runs outside the lock so the callback may read the inventory.
func (inv *Inventory) notifyChange() {
	if inv.OnChange != nil {
		inv.OnChange()
	}
}

func (inv *Inventory) String() string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return fmt.Sprintf("Inventory{%d items}", len(inv.slots))
}
