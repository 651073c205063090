// Package paywall classifies sites whose articles cannot be retrieved by any strategy.
package paywall

import "strings"

// DetailBasePath is where the explanation page for each blocked site lives.
const DetailBasePath = "/hard-paywalls/"

// Verdict is the gate's decision for one hostname.
type Verdict struct {
	Blocked     bool
	DisplayName string
	DetailURL   string
}

type site struct {
	domain string
	name   string
	slug   string
}

var hardPaywalls = []site{
	{"barrons.com", "Barron's", "barrons"},
	{"economist.com", "The Economist", "economist"},
	{"ft.com", "Financial Times", "financial-times"},
	{"wsj.com", "The Wall Street Journal", "wall-street-journal"},
	{"theathletic.com", "The Athletic", "the-athletic"},
	{"thetimes.co.uk", "The Times", "the-times"},
	{"theinformation.com", "The Information", "the-information"},
	{"seekingalpha.com", "Seeking Alpha", "seeking-alpha"},
	{"puck.news", "Puck", "puck"},
}

var byDomain = func() map[string]site {
	m := make(map[string]site, len(hardPaywalls))
	for _, s := range hardPaywalls {
		m[s.domain] = s
	}
	return m
}()

// Classify reports whether hostname, or any parent domain of it, is a known
// hard paywall. The hostname must already be normalized (lower case, no port).
func Classify(hostname string) Verdict {
	host := hostname
	for host != "" {
		if s, ok := byDomain[host]; ok {
			return Verdict{
				Blocked:     true,
				DisplayName: s.name,
				DetailURL:   DetailBasePath + s.slug,
			}
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return Verdict{}
}
