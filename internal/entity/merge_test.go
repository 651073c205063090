package entity

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func articleOfLength(n int, html bool) *Article {
	text := strings.Repeat("x", n)
	a := &Article{Title: "t", Content: "<p>" + text + "</p>", TextContent: text, Length: n, SiteName: "s"}
	if html {
		a.HTMLContent = "<html><body>" + text + "</body></html>"
	}
	return a
}

func TestDecideMerge(t *testing.T) {
	tests := []struct {
		name      string
		resident  *Article
		valid     bool
		candidate *Article
		replace   bool
		outcome   MergeOutcome
	}{
		{"empty slot", nil, false, articleOfLength(10, false), true, MergeStoredEmpty},
		{"invalid resident", articleOfLength(9000, true), false, articleOfLength(10, false), true, MergeReplacedInvalid},
		{"html gained beats length", articleOfLength(9000, false), true, articleOfLength(10, true), true, MergeGainedHTML},
		{"longer wins", articleOfLength(10, true), true, articleOfLength(11, true), true, MergeLonger},
		{"shorter loses", articleOfLength(5000, false), true, articleOfLength(3000, false), false, MergeKeptResident},
		{"equal is a no-op", articleOfLength(5000, true), true, articleOfLength(5000, true), false, MergeKeptResident},
		{"html lost does not matter when shorter", articleOfLength(50, true), true, articleOfLength(40, false), false, MergeKeptResident},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			replace, outcome := DecideMerge(tc.resident, tc.valid, tc.candidate)
			assert.Equal(t, tc.replace, replace)
			assert.Equal(t, tc.outcome, outcome)
		})
	}
}

func TestDecideMerge_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var resident *Article
	for i := 0; i < 500; i++ {
		candidate := articleOfLength(1+rng.Intn(10000), rng.Intn(4) == 0)
		replace, _ := DecideMerge(resident, true, candidate)
		if !replace {
			continue
		}
		if resident != nil {
			gainedHTML := !resident.HasHTMLContent() && candidate.HasHTMLContent()
			assert.True(t, candidate.Length >= resident.Length || gainedHTML,
				"length decreased from %d to %d without gaining html", resident.Length, candidate.Length)
		}
		resident = candidate
	}
}
