package domain

const (
	RecommendationsPerSection = 5
	NoRecommendation          = "No specific recommendation available"
)

type RecommendationSet struct {
	Exercise []string `json:"exercise"`
	Diet     []string `json:"diet"`
	Health   []string `json:"health"`
}

func DefaultRecommendations() RecommendationSet {
	return RecommendationSet{
		Exercise: []string{
			"Incorporate 30 minutes of moderate cardio 3-4 times per week",
			"Add strength training 2-3 times per week focusing on major muscle groups",
			"Try yoga or stretching to improve flexibility and reduce stress",
			"Consider interval training to boost metabolism and cardiovascular health",
			"Ensure proper warm-up and cool-down for each workout session",
		},
		Diet: []string{
			"Increase protein intake to support muscle recovery",
			"Add more leafy greens and colorful vegetables to your meals",
			"Consider reducing processed food consumption",
			"Stay hydrated by drinking at least 8 glasses of water daily",
			"Balance your macronutrients for optimal energy throughout the day",
		},
		Health: []string{
			"Prioritize 7-8 hours of quality sleep each night",
			"Practice stress management techniques like meditation",
			"Consider regular health check-ups to monitor progress",
			"Take short breaks during long periods of sitting",
			"Maintain social connections to support mental wellbeing",
		},
	}
}

// Normalize pads or truncates each section to RecommendationsPerSection.
func (s RecommendationSet) Normalize() RecommendationSet {
	return RecommendationSet{
		Exercise: normalizeSection(s.Exercise),
		Diet:     normalizeSection(s.Diet),
		Health:   normalizeSection(s.Health),
	}
}

func normalizeSection(items []string) []string {
	out := make([]string, 0, RecommendationsPerSection)
	for _, item := range items {
		if len(out) == RecommendationsPerSection {
			break
		}
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	for len(out) < RecommendationsPerSection {
		out = append(out, NoRecommendation)
	}
	return out
}
