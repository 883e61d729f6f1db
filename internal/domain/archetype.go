package domain

// Archetype - базовые характеристики класса юнита.
// Мутабельное состояние живет в Unit, архетип только читается.
type Archetype struct {
	Name string `json:"name"`

	MaxHealth int     `json:"maxHealth"`
	Speed     float64 `json:"speed"` // мировых единиц в секунду

	AttackRange    float64 `json:"attackRange"`
	AttackDamage   int     `json:"attackDamage"`
	AttackCooldown float64 `json:"attackCooldown"` // секунд между ударами

	VisionRange float64 `json:"visionRange"`
}

// DefaultArchetypes - каталог по умолчанию. Значения можно переопределить
// в конфигурации (см. config.Archetypes), здесь только разумные дефолты.
var DefaultArchetypes = map[string]Archetype{
	"scout": {
		Name: "scout", MaxHealth: 60, Speed: 90,
		AttackRange: 40, AttackDamage: 10, AttackCooldown: 0.8,
		VisionRange: 220,
	},
	"soldier": {
		Name: "soldier", MaxHealth: 100, Speed: 60,
		AttackRange: 60, AttackDamage: 25, AttackCooldown: 1.0,
		VisionRange: 160,
	},
	"heavy": {
		Name: "heavy", MaxHealth: 180, Speed: 40,
		AttackRange: 80, AttackDamage: 40, AttackCooldown: 2.0,
		VisionRange: 140,
	},
}

// ArchetypeOrDefault возвращает архетип по имени, либо "soldier".
func ArchetypeOrDefault(catalog map[string]Archetype, name string) Archetype {
	if a, ok := catalog[name]; ok {
		return a
	}
	return catalog["soldier"]
}
