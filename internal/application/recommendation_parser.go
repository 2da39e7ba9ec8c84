package application

import (
	"encoding/json"
	"strings"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
)

type recommendationPayload struct {
	Exercise     []string `json:"exercise"`
	ExerciseAlt  []string `json:"exeRCeise"`
	Diet         []string `json:"diet"`
	DietAlt      []string `json:"dieet"`
	Health       []string `json:"health"`
	Observations []string `json:"observations"`
}

// ParseRecommendationSet extracts a recommendation set from a model reply.
// It reports false and returns the defaults when the reply holds no usable
// JSON.
func ParseRecommendationSet(reply string) (domain.RecommendationSet, bool) {
	text := stripCodeFence(reply)

	for _, candidate := range jsonCandidates(text) {
		payload, ok := decodeRecommendationPayload(candidate)
		if !ok {
			continue
		}

		set := domain.RecommendationSet{
			Exercise: firstNonEmpty(payload.Exercise, payload.ExerciseAlt),
			Diet:     firstNonEmpty(payload.Diet, payload.DietAlt),
			Health:   firstNonEmpty(payload.Health, payload.Observations),
		}
		if len(set.Exercise) == 0 && len(set.Diet) == 0 && len(set.Health) == 0 {
			continue
		}
		return set.Normalize(), true
	}

	return domain.DefaultRecommendations(), false
}

func decodeRecommendationPayload(raw string) (recommendationPayload, bool) {
	var payload recommendationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		return payload, true
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return recommendationPayload{}, false
	}
	for _, item := range items {
		if err := json.Unmarshal(item, &payload); err == nil {
			return payload, true
		}
	}
	return recommendationPayload{}, false
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}

	body := text[start+3:]
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		body = body[newline+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// jsonCandidates returns the balanced object and array spans in text, in
// order of appearance.
func jsonCandidates(text string) []string {
	var candidates []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		end := matchingBracket(text, i)
		if end < 0 {
			continue
		}
		candidates = append(candidates, text[i:end+1])
		i = end
	}
	return candidates
}

func matchingBracket(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func firstNonEmpty(lists ...[]string) []string {
	for _, list := range lists {
		if len(list) > 0 {
			return list
		}
	}
	return nil
}
