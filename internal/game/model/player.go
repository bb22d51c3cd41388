package model

// Player is one seat at the table. Players are shared by pointer between
// game states, so a *Player is never modified after construction; use Clone
// and replace slices wholesale instead.
type Player struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	ClassID ClassID `json:"class_id" yaml:"class_id"`

	HP    int `json:"hp" yaml:"hp"`
	MaxHP int `json:"max_hp" yaml:"max_hp"`
	Coin  int `json:"coin" yaml:"coin"`

	Stats Stats `json:"stats" yaml:"stats"`

	Inventory      []*TreasureCard `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	EquippedWeapon *TreasureCard   `json:"equipped_weapon,omitempty" yaml:"equipped_weapon,omitempty"`
	WornClothing   *TreasureCard   `json:"worn_clothing,omitempty" yaml:"worn_clothing,omitempty"`

	// CreatureDock is the roster of charmed creatures; Companion, when set,
	// is one of them.
	CreatureDock []*Creature `json:"creature_dock,omitempty" yaml:"creature_dock,omitempty"`
	Companion    *Creature   `json:"companion,omitempty" yaml:"companion,omitempty"`
}

// Clone returns a shallow copy. Slices are shared with p and must be
// replaced, not written through.
func (p *Player) Clone() *Player {
	c := *p
	return &c
}

// FindItem returns the inventory card with id.
func (p *Player) FindItem(id string) (*TreasureCard, int) {
	for i, item := range p.Inventory {
		if item.ID == id {
			return item, i
		}
	}
	return nil, -1
}

// FindCreature returns the dock creature with id.
func (p *Player) FindCreature(id string) (*Creature, int) {
	for i, c := range p.CreatureDock {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

// ClampHP bounds hp to [0, maxHP].
func ClampHP(hp, maxHP int) int {
	if hp < 0 {
		return 0
	}
	if hp > maxHP {
		return maxHP
	}
	return hp
}
