// Package effects applies typed effect specs to players. Every function is a
// pure player-to-player transform that returns its input unchanged when
// nothing applies.
package effects

import (
	"fmt"

	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
)

// Context names the trigger window an application runs in. A spec only fires
// when its Repeat tag matches the context; otherwise it is skipped.
type Context string

const (
	ContextOnce      Context = "applyOnce"
	ContextTurnStart Context = "turnStart"
)

func (c Context) matches(repeat model.Repeat) bool {
	if c == ContextTurnStart {
		return repeat == model.RepeatEachTurnStart
	}
	return repeat == model.RepeatOnce
}

// ApplyWeatherTurnStart applies the weather's eachTurnStart specs and
// conditionals to p. A nil weather leaves p untouched.
func ApplyWeatherTurnStart(p *model.Player, weather *model.WeatherCard) (*model.Player, error) {
	if weather == nil {
		return p, nil
	}
	return ApplySpecs(p, ContextTurnStart, weather.Effects, weather.Conditionals)
}

// ApplyCompanionTurnStart applies the fielded companion's eachTurnStart specs.
func ApplyCompanionTurnStart(p *model.Player) (*model.Player, error) {
	if p.Companion == nil {
		return p, nil
	}
	return ApplySpecs(p, ContextTurnStart, p.Companion.Effects, nil)
}

// ApplyOnce applies the once-tagged specs, then the once-tagged conditionals.
func ApplyOnce(p *model.Player, specs []model.EffectSpec, conditionals []model.ConditionalEffectSpec) (*model.Player, error) {
	return ApplySpecs(p, ContextOnce, specs, conditionals)
}

// ApplySpecs applies specs then conditionals in list order under ctx. The
// returned pointer equals p when nothing changed.
func ApplySpecs(p *model.Player, ctx Context, specs []model.EffectSpec, conditionals []model.ConditionalEffectSpec) (*model.Player, error) {
	next := p
	var err error
	for _, spec := range specs {
		if next, err = applySpec(next, spec, ctx); err != nil {
			return nil, err
		}
	}
	for _, spec := range conditionals {
		ok, err := Matches(next, spec.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if next, err = applySpec(next, spec.EffectSpec, ctx); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// Matches evaluates a condition against p.
func Matches(p *model.Player, cond model.Condition) (bool, error) {
	switch cond.Kind {
	case model.ConditionClassIs:
		return p.ClassID == cond.ClassID, nil
	default:
		return false, fmt.Errorf("unknown condition kind %q", cond.Kind)
	}
}

func applySpec(p *model.Player, spec model.EffectSpec, ctx Context) (*model.Player, error) {
	if !ctx.matches(spec.Repeat) {
		return p, nil
	}
	return Apply(p, spec.Effect)
}

// Apply runs a single effect. hp.add clamps into [0, MaxHP]; stat modifiers
// are unclamped and may go negative.
func Apply(p *model.Player, effect model.Effect) (*model.Player, error) {
	switch effect.Kind {
	case model.EffectHPAdd:
		hp := model.ClampHP(p.HP+effect.Amount, p.MaxHP)
		if hp == p.HP {
			return p, nil
		}
		next := p.Clone()
		next.HP = hp
		return next, nil

	case model.EffectCoinAdd:
		coin := p.Coin + effect.Amount
		if coin < 0 {
			coin = 0
		}
		if coin == p.Coin {
			return p, nil
		}
		next := p.Clone()
		next.Coin = coin
		return next, nil

	case model.EffectDieUpgrade:
		if effect.Steps <= 0 {
			return p, nil
		}
		pool, ok := p.Stats.Get(effect.Stat)
		if !ok {
			return nil, fmt.Errorf("%s: unknown stat %q", effect.Kind, effect.Stat)
		}
		return withStat(p, effect.Stat, dice.UpgradePool(pool, effect.Steps))

	case model.EffectModifierAdd:
		if effect.Amount == 0 {
			return p, nil
		}
		pool, ok := p.Stats.Get(effect.Stat)
		if !ok {
			return nil, fmt.Errorf("%s: unknown stat %q", effect.Kind, effect.Stat)
		}
		pool = pool.Clone()
		pool.Modifier += effect.Amount
		return withStat(p, effect.Stat, pool)

	default:
		return nil, fmt.Errorf("unknown effect kind %q", effect.Kind)
	}
}

func withStat(p *model.Player, key model.StatKey, pool dice.Pool) (*model.Player, error) {
	stats, ok := p.Stats.With(key, pool)
	if !ok {
		return nil, fmt.Errorf("unknown stat %q", key)
	}
	next := p.Clone()
	next.Stats = stats
	return next, nil
}
