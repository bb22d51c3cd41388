// Package inventory moves treasure between a player's inventory and equipment
// slots and manages the creature dock. It does not check turn phase, roll
// dice or apply effects. Every function returns its input pointer unchanged
// when it is a no-op, so callers can compare pointers to detect changes.
package inventory

import "github.com/wanderdeck/engine/internal/game/model"

// AddItem appends item to the inventory.
func AddItem(p *model.Player, item *model.TreasureCard) *model.Player {
	if item == nil {
		return p
	}
	next := p.Clone()
	next.Inventory = appendItem(p.Inventory, item)
	return next
}

// AddItems appends every item in order.
func AddItems(p *model.Player, items []*model.TreasureCard) *model.Player {
	if len(items) == 0 {
		return p
	}
	next := p.Clone()
	next.Inventory = appendItem(p.Inventory, items...)
	return next
}

// RemoveItem removes the first inventory card with itemID.
func RemoveItem(p *model.Player, itemID string) *model.Player {
	rest, removed := removeFirst(p.Inventory, itemID)
	if removed == nil {
		return p
	}
	next := p.Clone()
	next.Inventory = rest
	return next
}

// EquipWeapon moves weaponID from the inventory into the weapon slot and
// returns any previously equipped weapon to the inventory.
func EquipWeapon(p *model.Player, weaponID string) *model.Player {
	rest, removed := removeFirst(p.Inventory, weaponID)
	if removed == nil || removed.TreasureKind != model.TreasureWeapon {
		return p
	}
	next := p.Clone()
	if p.EquippedWeapon != nil {
		rest = append(rest, p.EquippedWeapon)
	}
	next.Inventory = rest
	next.EquippedWeapon = removed
	return next
}

// EquipClothing is EquipWeapon for the clothing slot.
func EquipClothing(p *model.Player, clothingID string) *model.Player {
	rest, removed := removeFirst(p.Inventory, clothingID)
	if removed == nil || removed.TreasureKind != model.TreasureClothing {
		return p
	}
	next := p.Clone()
	if p.WornClothing != nil {
		rest = append(rest, p.WornClothing)
	}
	next.Inventory = rest
	next.WornClothing = removed
	return next
}

// UnequipWeapon returns the equipped weapon to the inventory.
func UnequipWeapon(p *model.Player) *model.Player {
	if p.EquippedWeapon == nil {
		return p
	}
	next := p.Clone()
	next.Inventory = appendItem(p.Inventory, p.EquippedWeapon)
	next.EquippedWeapon = nil
	return next
}

// UnequipClothing returns the worn clothing to the inventory.
func UnequipClothing(p *model.Player) *model.Player {
	if p.WornClothing == nil {
		return p
	}
	next := p.Clone()
	next.Inventory = appendItem(p.Inventory, p.WornClothing)
	next.WornClothing = nil
	return next
}

// AddCreature appends c to the creature dock.
func AddCreature(p *model.Player, c *model.Creature) *model.Player {
	if c == nil {
		return p
	}
	next := p.Clone()
	next.CreatureDock = append(append(make([]*model.Creature, 0, len(p.CreatureDock)+1), p.CreatureDock...), c)
	return next
}

// AssignCompanion fields the dock creature with creatureID. The creature
// stays in the dock.
func AssignCompanion(p *model.Player, creatureID string) *model.Player {
	c, _ := p.FindCreature(creatureID)
	if c == nil || c == p.Companion {
		return p
	}
	next := p.Clone()
	next.Companion = c
	return next
}

// RemoveCompanion benches the companion without touching the dock.
func RemoveCompanion(p *model.Player) *model.Player {
	if p.Companion == nil {
		return p
	}
	next := p.Clone()
	next.Companion = nil
	return next
}

// ReleaseCreature removes creatureID from the dock, clearing the companion
// slot when it was fielded.
func ReleaseCreature(p *model.Player, creatureID string) *model.Player {
	c, idx := p.FindCreature(creatureID)
	if c == nil {
		return p
	}
	next := p.Clone()
	dock := make([]*model.Creature, 0, len(p.CreatureDock)-1)
	dock = append(dock, p.CreatureDock[:idx]...)
	next.CreatureDock = append(dock, p.CreatureDock[idx+1:]...)
	if p.Companion != nil && p.Companion.ID == creatureID {
		next.Companion = nil
	}
	return next
}

func appendItem(items []*model.TreasureCard, add ...*model.TreasureCard) []*model.TreasureCard {
	out := make([]*model.TreasureCard, 0, len(items)+len(add))
	out = append(out, items...)
	return append(out, add...)
}

func removeFirst(items []*model.TreasureCard, id string) ([]*model.TreasureCard, *model.TreasureCard) {
	for i, item := range items {
		if item.ID != id {
			continue
		}
		rest := make([]*model.TreasureCard, 0, len(items))
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		return rest, item
	}
	return items, nil
}
