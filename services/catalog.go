package services

import (
	"galaxymath/internal/games"
	"galaxymath/models"
)

// Avatar slots
const (
	SlotHelmet = "helmet"
	SlotSuit   = "suit"
	SlotPet    = "pet"
)

// Planets is the galaxy map in unlock order
var Planets = []models.Planet{
	{ID: "learning", Name: "Learning", Order: 0},
	{ID: "counting", Name: "Counting", Order: 1},
	{ID: "pattern", Name: "Patterns", Order: 2},
	{ID: "addition", Name: "Addition", Order: 3},
	{ID: "subtraction", Name: "Subtraction", Order: 4},
	{ID: "multiplication", Name: "Multiplication", Order: 5},
	{ID: "division", Name: "Division", Order: 6},
	{ID: "fraction", Name: "Fractions", Order: 7},
	{ID: "memory", Name: "Memory", Order: 8},
}

var Badges = []models.Badge{
	{ID: "counting-cmder", Name: "Counting Commander", Icon: "🪐", Description: "Mastered the art of counting planets.", Category: "skill"},
	{ID: "pattern-pro", Name: "Pattern Pro", Icon: "🌌", Description: "Solved complex galactic sequences.", Category: "skill"},
	{ID: "math-explorer", Name: "Number Explorer", Icon: "🔭", Description: "Discovered the secrets of math fun.", Category: "skill"},
	{ID: "streak-3", Name: "3-Day Comet", Icon: "☄️", Description: "Played for 3 days in a row!", Category: "streak"},
	{ID: "streak-7", Name: "7-Day Star", Icon: "🌟", Description: "A full week of space learning!", Category: "streak"},
	{ID: "coin-lord", Name: "Star Multi-Millionaire", Icon: "💎", Description: "Collected over 1000 Star Coins.", Category: "wealth"},
}

var AvatarItems = []models.AvatarItem{
	{ID: "default", Slot: SlotHelmet, Name: "Standard Issue", Cost: 0, Icon: "👨‍🚀"},
	{ID: "gold", Slot: SlotHelmet, Name: "Golden Explorer", Cost: 50, Icon: "🌟"},
	{ID: "alien", Slot: SlotHelmet, Name: "Alien Tech", Cost: 100, Icon: "👽"},
	{ID: "crown", Slot: SlotHelmet, Name: "Galactic King", Cost: 200, Icon: "👑"},

	{ID: "default", Slot: SlotSuit, Name: "Standard Suit", Cost: 0},
	{ID: "red", Slot: SlotSuit, Name: "Mars Rover", Cost: 50},
	{ID: "blue", Slot: SlotSuit, Name: "Neptune Diver", Cost: 50},
	{ID: "black", Slot: SlotSuit, Name: "Stealth Ops", Cost: 100},

	{ID: "none", Slot: SlotPet, Name: "No Companion", Cost: 0},
	{ID: "dog", Slot: SlotPet, Name: "Space Dog", Cost: 150, Icon: "🐕"},
	{ID: "cat", Slot: SlotPet, Name: "Moon Cat", Cost: 150, Icon: "🐱"},
	{ID: "robot", Slot: SlotPet, Name: "Beep Boop", Cost: 200, Icon: "🤖"},
}

// PlanetIndex returns the position of id on the galaxy map, or -1
func PlanetIndex(id string) int {
	for i, p := range Planets {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// IsStage reports whether game names a playable stage
func IsStage(game string) bool {
	return PlanetIndex(game) >= 0
}

func FindBadge(id string) (models.Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return models.Badge{}, false
}

func FindAvatarItem(slot, id string) (models.AvatarItem, bool) {
	for _, item := range AvatarItems {
		if item.Slot == slot && item.ID == id {
			return item, true
		}
	}
	return models.AvatarItem{}, false
}

// ownedKey is how a purchased item is recorded in User.OwnedItems; ids repeat across slots
func ownedKey(slot, id string) string {
	return slot + ":" + id
}

// Stage is one playable planet as listed to game clients
type Stage struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	HasRound bool   `json:"hasRound"`
}

// Stages lists every planet in play order and whether the server generates its rounds
func Stages() []Stage {
	stages := make([]Stage, 0, len(Planets))
	for _, p := range Planets {
		stages = append(stages, Stage{ID: p.ID, Name: p.Name, Order: p.Order, HasRound: games.HasGenerator(p.ID)})
	}
	return stages
}
