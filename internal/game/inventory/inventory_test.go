package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderdeck/engine/internal/game/model"
)

var (
	katana = &model.TreasureCard{ID: "weapon:red-katana", TreasureKind: model.TreasureWeapon}
	club   = &model.TreasureCard{ID: "weapon:club", TreasureKind: model.TreasureWeapon}
	cloak  = &model.TreasureCard{ID: "clothing:cloak", TreasureKind: model.TreasureClothing}
	potion = &model.TreasureCard{ID: "singleuse:potion", TreasureKind: model.TreasureSingleUse}
)

func ids(items []*model.TreasureCard) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestAddRemoveItem(t *testing.T) {
	p := &model.Player{ID: "p1"}

	withItems := AddItem(AddItem(p, katana), potion)
	assert.Equal(t, []string{katana.ID, potion.ID}, ids(withItems.Inventory))
	assert.Empty(t, p.Inventory)

	removed := RemoveItem(withItems, katana.ID)
	assert.Equal(t, []string{potion.ID}, ids(removed.Inventory))
	assert.Len(t, withItems.Inventory, 2)

	assert.Same(t, removed, RemoveItem(removed, "missing"))
	assert.Same(t, p, AddItem(p, nil))
	assert.Same(t, p, AddItems(p, nil))
}

func TestEquipWeaponSwapsSlot(t *testing.T) {
	p := &model.Player{ID: "p1", Inventory: []*model.TreasureCard{katana, club}}

	first := EquipWeapon(p, katana.ID)
	require.NotSame(t, p, first)
	assert.Same(t, katana, first.EquippedWeapon)
	assert.Equal(t, []string{club.ID}, ids(first.Inventory))

	second := EquipWeapon(first, club.ID)
	assert.Same(t, club, second.EquippedWeapon)
	assert.Equal(t, []string{katana.ID}, ids(second.Inventory))

	assert.Nil(t, p.EquippedWeapon, "original player must not change")
	assert.Len(t, p.Inventory, 2)
}

func TestEquipNoops(t *testing.T) {
	p := &model.Player{ID: "p1", Inventory: []*model.TreasureCard{cloak, potion}}

	assert.Same(t, p, EquipWeapon(p, "missing"))
	assert.Same(t, p, EquipWeapon(p, cloak.ID), "clothing is not a weapon")
	assert.Same(t, p, EquipClothing(p, potion.ID), "single-use is not clothing")
	assert.Same(t, p, UnequipWeapon(p))
	assert.Same(t, p, UnequipClothing(p))
}

func TestEquipAndUnequipClothing(t *testing.T) {
	p := &model.Player{ID: "p1", Inventory: []*model.TreasureCard{cloak}}

	worn := EquipClothing(p, cloak.ID)
	assert.Same(t, cloak, worn.WornClothing)
	assert.Empty(t, worn.Inventory)

	back := UnequipClothing(worn)
	assert.Nil(t, back.WornClothing)
	assert.Equal(t, []string{cloak.ID}, ids(back.Inventory))
}

func TestUnequipWeapon(t *testing.T) {
	p := &model.Player{ID: "p1", EquippedWeapon: katana}
	next := UnequipWeapon(p)
	assert.Nil(t, next.EquippedWeapon)
	assert.Equal(t, []string{katana.ID}, ids(next.Inventory))
}

func TestAssignCompanion(t *testing.T) {
	buddy := &model.Creature{ID: "c1", Name: "Buddy", AttackDice: []int{4}, Defense: 4}
	goose := &model.Creature{ID: "c2", Name: "Goose", AttackDice: []int{4}, Defense: 1}
	p := &model.Player{ID: "p1", CreatureDock: []*model.Creature{buddy, goose}}

	next := AssignCompanion(p, "c2")
	require.NotNil(t, next.Companion)
	assert.Equal(t, "c2", next.Companion.ID)
	assert.Len(t, next.CreatureDock, 2, "companion stays in the dock")

	assert.Same(t, p, AssignCompanion(p, "missing"))
	assert.Same(t, next, AssignCompanion(next, "c2"))

	benched := RemoveCompanion(next)
	assert.Nil(t, benched.Companion)
	assert.Len(t, benched.CreatureDock, 2)
	assert.Same(t, benched, RemoveCompanion(benched))
}

func TestAddAndReleaseCreature(t *testing.T) {
	buddy := &model.Creature{ID: "c1"}
	goose := &model.Creature{ID: "c2"}
	p := AddCreature(AddCreature(&model.Player{ID: "p1"}, buddy), goose)
	p = AssignCompanion(p, "c1")

	released := ReleaseCreature(p, "c1")
	assert.Nil(t, released.Companion)
	require.Len(t, released.CreatureDock, 1)
	assert.Equal(t, "c2", released.CreatureDock[0].ID)
	assert.Len(t, p.CreatureDock, 2)

	kept := ReleaseCreature(p, "c2")
	assert.Same(t, buddy, kept.Companion)

	assert.Same(t, p, ReleaseCreature(p, "missing"))
}
