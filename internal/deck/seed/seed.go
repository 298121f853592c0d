// Package seed installs the official game presets and statblock configs.
// Seeding is idempotent: records already present are never overwritten, so
// user customizations survive repeated runs.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/statdeck/statdeck/internal/deck/domain"
	"github.com/statdeck/statdeck/internal/deck/storage"
)

// Official record IDs are stable across installs so shared decks can
// reference them by ID.
const (
	PresetAdventureID = "official-preset-adventure"
	PresetMysteryID   = "official-preset-mystery"
	PresetWarbandID   = "official-preset-warband"

	ConfigStandardID = "official-config-standard"
	ConfigGrittyID   = "official-config-gritty"
)

var officialEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// OfficialPresets returns the built-in game presets.
func OfficialPresets() []domain.GamePreset {
	return []domain.GamePreset{
		{
			ID:         PresetAdventureID,
			Name:       "Adventure",
			IsOfficial: true,
			Stats: []domain.StatDefinition{
				{ID: "str", Label: "Strength"},
				{ID: "agi", Label: "Agility"},
				{ID: "wit", Label: "Wits"},
				{ID: "cha", Label: "Charm"},
			},
			Mechanics: []domain.Mechanic{
				{Type: domain.MechanicHealth, Name: "Hit Points", Value: "10", Tracked: true},
				{Type: domain.MechanicAttack, Name: "Attack", Value: "+2"},
				{Type: domain.MechanicDefense, Name: "Defense", Value: "12"},
			},
			CreatedAt: officialEpoch,
		},
		{
			ID:         PresetMysteryID,
			Name:       "Mystery",
			IsOfficial: true,
			Stats: []domain.StatDefinition{
				{ID: "reason", Label: "Reason"},
				{ID: "nerve", Label: "Nerve"},
				{ID: "contacts", Label: "Contacts"},
			},
			Mechanics: []domain.Mechanic{
				{Type: domain.MechanicHealth, Name: "Composure", Value: "6", Tracked: true},
				{Type: domain.MechanicResource, Name: "Clues", Value: "0", Tracked: true},
			},
			CreatedAt: officialEpoch,
		},
		{
			ID:         PresetWarbandID,
			Name:       "Warband",
			IsOfficial: true,
			Stats: []domain.StatDefinition{
				{ID: "might", Label: "Might"},
				{ID: "morale", Label: "Morale"},
			},
			Mechanics: []domain.Mechanic{
				{Type: domain.MechanicHealth, Name: "Wounds", Value: "3", Tracked: true},
				{Type: domain.MechanicSpeed, Name: "Movement", Value: "6\""},
				{Type: domain.MechanicTrait, Name: "Fearless"},
			},
			CreatedAt: officialEpoch,
		},
	}
}

// OfficialConfigs returns the built-in statblock configs.
func OfficialConfigs() []domain.StatblockConfig {
	return []domain.StatblockConfig{
		{
			ID:         ConfigStandardID,
			Name:       "Standard",
			IsOfficial: true,
			Vocabulary: domain.Vocabulary{
				domain.MechanicHealth:   {Label: "Health", DefaultValue: "10", Tracked: true},
				domain.MechanicAttack:   {Label: "Attack"},
				domain.MechanicDefense:  {Label: "Defense"},
				domain.MechanicSpeed:    {Label: "Speed"},
				domain.MechanicResource: {Label: "Resource", Tracked: true},
				domain.MechanicTrait:    {Label: "Trait"},
			},
			CreatedAt: officialEpoch,
		},
		{
			ID:         ConfigGrittyID,
			Name:       "Gritty",
			IsOfficial: true,
			Vocabulary: domain.Vocabulary{
				domain.MechanicHealth:   {Label: "Wounds", DefaultValue: "3", Tracked: true},
				domain.MechanicAttack:   {Label: "Violence"},
				domain.MechanicDefense:  {Label: "Grit"},
				domain.MechanicResource: {Label: "Supplies", Tracked: true},
			},
			CreatedAt: officialEpoch,
		},
	}
}

// Result reports what a seeding run created.
type Result struct {
	PresetsCreated int
	ConfigsCreated int
}

// Run seeds every official record that is not already present.
func Run(ctx context.Context, store storage.Store) (Result, error) {
	var result Result

	for _, preset := range OfficialPresets() {
		_, err := store.GetPreset(ctx, preset.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return result, err
		}
		if err := store.PutPreset(ctx, preset); err != nil {
			return result, err
		}
		result.PresetsCreated++
	}

	for _, config := range OfficialConfigs() {
		_, err := store.GetConfig(ctx, config.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return result, err
		}
		if err := store.PutConfig(ctx, config); err != nil {
			return result, err
		}
		result.ConfigsCreated++
	}

	return result, nil
}
