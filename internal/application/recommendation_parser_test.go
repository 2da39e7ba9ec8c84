package application

import (
	"testing"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseRecommendationSet(t *testing.T) {
	t.Parallel()

	pad := func(items ...string) []string {
		for len(items) < domain.RecommendationsPerSection {
			items = append(items, domain.NoRecommendation)
		}
		return items
	}

	tests := []struct {
		name       string
		reply      string
		want       domain.RecommendationSet
		wantParsed bool
	}{
		{
			name:       "plain object",
			reply:      `{"exercise":["a"],"diet":["b"],"health":["c"]}`,
			want:       domain.RecommendationSet{Exercise: pad("a"), Diet: pad("b"), Health: pad("c")},
			wantParsed: true,
		},
		{
			name:       "fenced with prose",
			reply:      "Here you go:\n```json\n{\"exercise\":[\"squat\"],\"diet\":[],\"health\":[\"rest\"]}\n```\nEnjoy!",
			want:       domain.RecommendationSet{Exercise: pad("squat"), Diet: pad(), Health: pad("rest")},
			wantParsed: true,
		},
		{
			name:       "misspelled keys",
			reply:      `{"exeRCeise":["row"],"dieet":["beans"]}`,
			want:       domain.RecommendationSet{Exercise: pad("row"), Diet: pad("beans"), Health: pad()},
			wantParsed: true,
		},
		{
			name:       "array wrapper",
			reply:      `[{"exercise":["swim"]}]`,
			want:       domain.RecommendationSet{Exercise: pad("swim"), Diet: pad(), Health: pad()},
			wantParsed: true,
		},
		{
			name:       "object after prose with braces in strings",
			reply:      `Note {not json} then {"diet":["use {brackets} sparingly"]}`,
			want:       domain.RecommendationSet{Exercise: pad(), Diet: pad("use {brackets} sparingly"), Health: pad()},
			wantParsed: true,
		},
		{
			name:       "truncates long lists",
			reply:      `{"health":["1","2","3","4","5","6","7"]}`,
			want:       domain.RecommendationSet{Exercise: pad(), Diet: pad(), Health: []string{"1", "2", "3", "4", "5"}},
			wantParsed: true,
		},
		{
			name:       "no json falls back",
			reply:      "Drink water and sleep well.",
			want:       domain.DefaultRecommendations(),
			wantParsed: false,
		},
		{
			name:       "empty object falls back",
			reply:      `{}`,
			want:       domain.DefaultRecommendations(),
			wantParsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, parsed := ParseRecommendationSet(tt.reply)
			assert.Equal(t, tt.wantParsed, parsed)
			assert.Equal(t, tt.want, got)
		})
	}
}
