// Package catalog holds card content: character classes, weather, treasure
// and the encounter deck. Content comes from the built-in tables, a YAML file
// or PostgreSQL, and is turned into players and shuffled decks here.
package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/wanderdeck/engine/internal/game/deck"
	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
)

var (
	ErrUnknownClass    = errors.New("unknown class")
	ErrUnknownWeather  = errors.New("unknown weather")
	ErrUnknownTreasure = errors.New("unknown treasure")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)

// instanceNamespace seeds the name-based uuids given to copies of a card.
var instanceNamespace = uuid.MustParse("6f1d3c2e-8a0b-5c4d-9e7f-1a2b3c4d5e6f")

// ClassDefinition is a playable class: its max HP and the single starting
// die of each stat.
type ClassDefinition struct {
	ID       model.ClassID `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	MaxHP    int           `json:"max_hp" yaml:"max_hp"`
	Attack   int           `json:"attack" yaml:"attack"`
	Charisma int           `json:"charisma" yaml:"charisma"`
	Speed    int           `json:"speed" yaml:"speed"`
}

// EncounterEntry is one line of the encounter deck: the card and its copies.
type EncounterEntry struct {
	Card  model.EncounterCard `yaml:",inline"`
	Count int                 `yaml:"count"`
}

// Catalog is a complete content set.
type Catalog struct {
	Classes    []ClassDefinition     `yaml:"classes"`
	Weather    []*model.WeatherCard  `yaml:"weather"`
	Treasure   []*model.TreasureCard `yaml:"treasure"`
	Encounters []EncounterEntry      `yaml:"encounters"`
}

// Class looks up a class by id.
func (c *Catalog) Class(id model.ClassID) (ClassDefinition, error) {
	for _, def := range c.Classes {
		if def.ID == id {
			return def, nil
		}
	}
	return ClassDefinition{}, fmt.Errorf("%w: %q", ErrUnknownClass, id)
}

// WeatherCard looks up a weather card by id.
func (c *Catalog) WeatherCard(id model.WeatherID) (*model.WeatherCard, error) {
	for _, w := range c.Weather {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWeather, id)
}

// TreasureCard looks up a treasure card by id.
func (c *Catalog) TreasureCard(id string) (*model.TreasureCard, error) {
	for _, t := range c.Treasure {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTreasure, id)
}

// EncounterSpec returns the encounter deck as a quantity specification.
func (c *Catalog) EncounterSpec() []deck.Entry[*model.EncounterCard] {
	spec := make([]deck.Entry[*model.EncounterCard], 0, len(c.Encounters))
	for i := range c.Encounters {
		card := c.Encounters[i].Card
		spec = append(spec, deck.Entry[*model.EncounterCard]{Card: &card, Count: c.Encounters[i].Count})
	}
	return spec
}

// Validate checks the content for shapes the engine cannot play.
func (c *Catalog) Validate() error {
	if len(c.Classes) == 0 {
		return fmt.Errorf("%w: no classes", ErrInvalidCatalog)
	}
	for _, def := range c.Classes {
		if !def.ID.Valid() {
			return fmt.Errorf("%w: class %q", ErrInvalidCatalog, def.ID)
		}
		if def.MaxHP <= 0 {
			return fmt.Errorf("%w: class %s has max hp %d", ErrInvalidCatalog, def.ID, def.MaxHP)
		}
		for _, sides := range []int{def.Attack, def.Charisma, def.Speed} {
			if err := dice.ValidatePool(dice.Pool{Dice: []int{sides}}); err != nil {
				return fmt.Errorf("%w: class %s: %w", ErrInvalidCatalog, def.ID, err)
			}
		}
	}
	treasureIDs := make(map[string]bool, len(c.Treasure))
	for _, t := range c.Treasure {
		if treasureIDs[t.ID] {
			return fmt.Errorf("%w: duplicate treasure %s", ErrInvalidCatalog, t.ID)
		}
		treasureIDs[t.ID] = true
		switch t.TreasureKind {
		case model.TreasureWeapon, model.TreasureClothing, model.TreasureSingleUse:
		default:
			return fmt.Errorf("%w: treasure %s has kind %q", ErrInvalidCatalog, t.ID, t.TreasureKind)
		}
	}
	encounterIDs := make(map[string]bool, len(c.Encounters))
	for i, entry := range c.Encounters {
		if entry.Card.ID == "" {
			return fmt.Errorf("%w: encounter %d has no id", ErrInvalidCatalog, i)
		}
		if encounterIDs[entry.Card.ID] {
			return fmt.Errorf("%w: duplicate encounter %s", ErrInvalidCatalog, entry.Card.ID)
		}
		encounterIDs[entry.Card.ID] = true
		if entry.Count < 0 {
			return fmt.Errorf("%w: encounter %s: %w", ErrInvalidCatalog, entry.Card.ID, deck.ErrInvalidCount)
		}
		if !hasAnyTarget(entry.Card.Targets) {
			return fmt.Errorf("%w: encounter %s has no targets", ErrInvalidCatalog, entry.Card.ID)
		}
		if err := validateEncounterDice(&entry.Card); err != nil {
			return fmt.Errorf("%w: encounter %s: %w", ErrInvalidCatalog, entry.Card.ID, err)
		}
	}
	return nil
}

func validateEncounterDice(card *model.EncounterCard) error {
	if err := validateRoll("attack", card.Attack); err != nil {
		return err
	}
	if err := validateRoll("defense", card.Targets.Defense); err != nil {
		return err
	}
	if card.Charm != nil {
		for _, sides := range card.Charm.Creature.AttackDice {
			if !dice.IsCanonical(sides) {
				return fmt.Errorf("creature attack: %w: D%d", dice.ErrInvalidPool, sides)
			}
		}
	}
	return nil
}

func validateRoll(field string, spec *model.RollSpec) error {
	if spec == nil {
		return nil
	}
	switch spec.Kind {
	case model.RollStatic:
		return nil
	case model.RollDice:
		if !dice.IsCanonical(spec.Sides) {
			return fmt.Errorf("%s: %w: D%d", field, dice.ErrInvalidPool, spec.Sides)
		}
		return nil
	default:
		return fmt.Errorf("%s: roll kind %q", field, spec.Kind)
	}
}

func hasAnyTarget(t model.Targets) bool {
	for _, intention := range model.Intentions {
		if t.Has(intention) {
			return true
		}
	}
	return false
}

// NewPlayer builds a full-HP player with one die per stat from def.
func NewPlayer(id, name string, def ClassDefinition) *model.Player {
	return &model.Player{
		ID:      id,
		Name:    name,
		ClassID: def.ID,
		HP:      def.MaxHP,
		MaxHP:   def.MaxHP,
		Stats: model.Stats{
			Attack:   dice.Pool{Dice: []int{def.Attack}},
			Charisma: dice.Pool{Dice: []int{def.Charisma}},
			Speed:    dice.Pool{Dice: []int{def.Speed}},
		},
	}
}

// BuildEncounterDeck expands the catalog's encounter deck into distinct card
// copies and shuffles them with rng. Copies get stable instance ids derived
// from the card id and copy number.
func (c *Catalog) BuildEncounterDeck(rng dice.Rng) ([]*model.EncounterCard, error) {
	cards, err := deck.Build(c.EncounterSpec())
	if err != nil {
		return nil, err
	}
	copies := make(map[string]int, len(c.Encounters))
	instances := make([]*model.EncounterCard, 0, len(cards))
	for _, card := range cards {
		copies[card.ID]++
		instance := *card
		instance.InstanceID = uuid.NewSHA1(instanceNamespace, []byte(card.ID+"#"+strconv.Itoa(copies[card.ID]))).String()
		instances = append(instances, &instance)
	}
	return deck.Shuffle(instances, rng), nil
}
