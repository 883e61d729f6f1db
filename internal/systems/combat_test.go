package systems

import (
	"testing"

	"frontline-server/internal/domain"
	"frontline-server/pkg/geom"
)

func makeUnit(id string, team int, arch string, pos geom.Vec2) *domain.Unit {
	return domain.NewUnit(id, team, "p-"+id, domain.DefaultArchetypes[arch], pos)
}

func TestResolveAttackInRange(t *testing.T) {
	attacker := makeUnit("a1", domain.TeamRed, "soldier", geom.Vec2{X: 0, Y: 0})
	target := makeUnit("b1", domain.TeamBlue, "soldier", geom.Vec2{X: 30, Y: 0})

	hit, died := ResolveAttack(attacker, target)
	if !hit {
		t.Fatal("Expected hit inside attack range with cooldown ready")
	}
	if died {
		t.Error("Single soldier hit must not kill a full-health soldier")
	}
	if target.Health != target.Archetype.MaxHealth-attacker.Archetype.AttackDamage {
		t.Errorf("Expected %d HP, got %d",
			target.Archetype.MaxHealth-attacker.Archetype.AttackDamage, target.Health)
	}
	if attacker.CooldownLeft != attacker.Archetype.AttackCooldown {
		t.Error("Attack must reset attacker cooldown")
	}
}

func TestResolveAttackCooldownGate(t *testing.T) {
	attacker := makeUnit("a1", domain.TeamRed, "soldier", geom.Vec2{X: 0, Y: 0})
	target := makeUnit("b1", domain.TeamBlue, "soldier", geom.Vec2{X: 30, Y: 0})
	attacker.CooldownLeft = 0.5

	if hit, _ := ResolveAttack(attacker, target); hit {
		t.Error("Attack must not land while cooldown is ticking")
	}
	if target.Health != target.Archetype.MaxHealth {
		t.Error("Gated attack must not deal damage")
	}
}

func TestResolveAttackOutOfRange(t *testing.T) {
	attacker := makeUnit("a1", domain.TeamRed, "soldier", geom.Vec2{X: 0, Y: 0})
	target := makeUnit("b1", domain.TeamBlue, "soldier", geom.Vec2{X: 500, Y: 0})

	if hit, _ := ResolveAttack(attacker, target); hit {
		t.Error("Attack must not land beyond attack range")
	}
}

func TestResolveAttackKill(t *testing.T) {
	attacker := makeUnit("a1", domain.TeamRed, "heavy", geom.Vec2{X: 0, Y: 0})
	target := makeUnit("b1", domain.TeamBlue, "scout", geom.Vec2{X: 50, Y: 0})
	target.Health = 10

	hit, died := ResolveAttack(attacker, target)
	if !hit || !died {
		t.Fatalf("Expected killing blow, got hit=%v died=%v", hit, died)
	}
	if target.State != domain.StateDead {
		t.Errorf("Expected Dead, got %v", target.State)
	}

	// Труп больше не цель: повторный удар не проходит.
	attacker.CooldownLeft = 0
	if hit, _ := ResolveAttack(attacker, target); hit {
		t.Error("Dead target must not be attackable")
	}
}
