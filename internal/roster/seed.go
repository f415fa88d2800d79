package roster

import "time"

// SeedRoster returns the built-in AI House cast. The voice ids reference
// custom Hume voices provisioned for the flagship show.
func SeedRoster() []Character {
	created := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []Character{
		{
			ID:            "claire",
			Name:          "Claire Delish",
			Role:          "Food personality",
			Description:   "Warm, nurturing food personality. Cozy, kitchen-focused visuals.",
			VoiceProvider: "hume",
			VoiceID:       "09eccfe9-8068-42c3-8f0a-e91f5d50d160",
			CreatedAt:     created,
		},
		{
			ID:            "olly",
			Name:          "Olly Bennett",
			Role:          "Adventurer",
			Description:   "Quirky British adventurer. Eclectic, travel-themed visuals.",
			VoiceProvider: "hume",
			VoiceID:       "de25054e-a18d-41d7-93f3-d9fb6fb63078",
			CreatedAt:     created,
		},
		{
			ID:            "vv",
			Name:          "VV Steele",
			Role:          "Gossip queen",
			Description:   "Dramatic gossip diva. Glamorous, social media aesthetic.",
			VoiceProvider: "hume",
			VoiceID:       "d513161a-3be9-4eaa-9612-711f77268b63",
			CreatedAt:     created,
		},
		{
			ID:            "pennie",
			Name:          "Pennie Power",
			Role:          "Finance expert",
			Description:   "Smart finance personality. Modern, organized aesthetic.",
			VoiceProvider: "hume",
			VoiceID:       "240fb214-35c0-4c46-ad08-ac16fe48499b",
			CreatedAt:     created,
		},
		{
			ID:            "roxie",
			Name:          "Roxie Rush",
			Role:          "Narrator",
			Description:   "Energetic narrator with commentary flair.",
			VoiceProvider: "hume",
			VoiceID:       "33e57cc2-1727-465b-ab0f-8ac4bca82e9b",
			CreatedAt:     created,
		},
	}
}
