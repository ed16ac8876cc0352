package attune

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

const (
	varietyWeight       = 0.3
	personalityWeight   = 0.4
	timeWeight          = 0.2
	effectivenessWeight = 0.1
	contextWeight       = 0.2
	moodWeight          = 0.15
)

// styleCompatibility gives partial credit when a prompt's style is adjacent
// to the user's preferred one. Missing pairs score zero.
var styleCompatibility = map[Style]map[Style]float64{
	StyleGentle:     {StyleSupportive: 0.8, StyleCurious: 0.5, StyleCasual: 0.3, StyleDirect: 0.2},
	StyleSupportive: {StyleGentle: 0.8, StyleCurious: 0.6, StyleCasual: 0.4, StyleDirect: 0.3},
	StyleCurious:    {StyleGentle: 0.5, StyleSupportive: 0.6, StyleDirect: 0.7, StyleCasual: 0.8},
	StyleCasual:     {StyleCurious: 0.8, StyleDirect: 0.6, StyleGentle: 0.3, StyleSupportive: 0.4},
	StyleDirect:     {StyleCurious: 0.7, StyleCasual: 0.6, StyleSupportive: 0.3, StyleGentle: 0.2},
}

var toneCompatibility = map[Tone]map[Tone]float64{
	ToneWarm:       {ToneEmpathetic: 0.9, ToneCalm: 0.7, ToneNeutral: 0.5, ToneEnergetic: 0.4},
	ToneEmpathetic: {ToneWarm: 0.9, ToneCalm: 0.8, ToneNeutral: 0.6, ToneEnergetic: 0.3},
	ToneCalm:       {ToneWarm: 0.7, ToneEmpathetic: 0.8, ToneNeutral: 0.9, ToneEnergetic: 0.2},
	ToneNeutral:    {ToneCalm: 0.9, ToneWarm: 0.5, ToneEmpathetic: 0.6, ToneEnergetic: 0.7},
	ToneEnergetic:  {ToneNeutral: 0.7, ToneWarm: 0.4, ToneEmpathetic: 0.3, ToneCalm: 0.2},
}

// SelectionContext carries the per-turn signals the selector scores against.
type SelectionContext struct {
	Flow             FlowStage
	Mood             int
	DetectedEmotions []string
	RecentCategories map[Category]bool
	RecentStyles     map[Style]bool
}

// Selector scores and ranks prompts against a learned profile. It holds no
// mutable state of its own.
type Selector struct {
	profile *UserProfile
}

// NewSelector returns a selector bound to a profile.
func NewSelector(profile *UserProfile) *Selector {
	return &Selector{profile: profile}
}

// Score computes the full multi-factor score for one prompt. Given identical
// inputs the result is identical; selection is deterministic up to ties.
func (s *Selector) Score(p Prompt, ctx SelectionContext) float64 {
	score := 1.0
	score += s.personalityScore(p) * personalityWeight
	score += s.timeScore(p) * timeWeight
	score += (p.Effectiveness - 1.0) * effectivenessWeight
	score += s.contextScore(p, ctx) * contextWeight
	score += s.moodScore(p, ctx.Mood) * moodWeight
	return score
}

func (s *Selector) personalityScore(p Prompt) float64 {
	var score float64

	if p.Style == s.profile.PreferredStyle {
		score += 0.4
	} else {
		score += styleCompatibility[p.Style][s.profile.PreferredStyle] * 0.2
	}

	if p.Tone == s.profile.PreferredTone {
		score += 0.3
	} else {
		score += toneCompatibility[p.Tone][s.profile.PreferredTone] * 0.15
	}

	if len(s.profile.PreferredCategories) == 0 {
		score += 0.1
	} else {
		for _, c := range s.profile.PreferredCategories {
			if c == p.Category {
				score += 0.3
				break
			}
		}
	}
	return score
}

func (s *Selector) timeScore(p Prompt) float64 {
	affinity, ok := s.profile.TimePreferences[p.TimeOfDay]
	if !ok {
		affinity = 0.25
	}
	return affinity * 2.0
}

func (s *Selector) contextScore(p Prompt, ctx SelectionContext) float64 {
	var score float64

	switch ctx.Flow {
	case FlowInitial:
		if p.Category == CategoryOpenEnded || p.Style == StyleGentle {
			score += 0.3
		}
	case FlowFollowUp:
		if p.Category == CategorySpecific || p.Style == StyleCurious {
			score += 0.3
		}
	case FlowDeepDive:
		if p.Category == CategoryReflective || p.Style == StyleSupportive {
			score += 0.3
		}
	case FlowClosing:
		if p.Category == CategoryGratitude || p.Style == StyleGentle {
			score += 0.3
		}
	}

	if len(ctx.DetectedEmotions) > 0 {
	triggers:
		for _, t := range p.FollowUpTriggers {
			for _, e := range ctx.DetectedEmotions {
				if t == e {
					score += 0.2
					break triggers
				}
			}
		}
	}
	return score
}

func (s *Selector) moodScore(p Prompt, mood int) float64 {
	switch {
	case mood >= 1 && mood <= 3:
		if p.Category == CategoryCoping || p.Tone == ToneEmpathetic {
			return 0.3
		}
		if p.Category == CategoryGratitude && p.Tone == ToneWarm {
			return 0.2
		}
	case mood >= 4 && mood <= 6:
		if p.Category == CategoryOpenEnded || p.Category == CategoryReflective {
			return 0.2
		}
	case mood >= 7 && mood <= 10:
		if p.Category == CategoryGratitude || p.Tone == ToneEnergetic {
			return 0.3
		}
		if p.Category == CategoryFuture {
			return 0.2
		}
	}
	return 0.1
}

// ScoredPrompt pairs a prompt with its selection score.
type ScoredPrompt struct {
	Prompt Prompt
	Score  float64
}

// Rank scores every candidate, applies variety damping for recently used
// categories and styles, and returns the result sorted best first. The sort
// is stable so equal scores keep catalog order.
func (s *Selector) Rank(candidates []Prompt, ctx SelectionContext) []ScoredPrompt {
	out := make([]ScoredPrompt, len(candidates))
	for i, p := range candidates {
		score := s.Score(p, ctx)
		if ctx.RecentCategories[p.Category] {
			score *= 1.0 - varietyWeight
		}
		if ctx.RecentStyles[p.Style] {
			score *= 1.0 - varietyWeight*0.5
		}
		out[i] = ScoredPrompt{Prompt: p, Score: score}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// SelectBest returns the highest-ranked candidate, or false when there are
// none.
func (s *Selector) SelectBest(candidates []Prompt, ctx SelectionContext) (Prompt, bool) {
	if len(candidates) == 0 {
		return Prompt{}, false
	}
	return s.Rank(candidates, ctx)[0].Prompt, true
}

// SelectBestPrompts returns the top n ranked candidates.
func (s *Selector) SelectBestPrompts(candidates []Prompt, ctx SelectionContext, n int) []Prompt {
	ranked := s.Rank(candidates, ctx)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]Prompt, len(ranked))
	for i, sp := range ranked {
		out[i] = sp.Prompt
	}
	return out
}

// Recommendation explains why a prompt ranks where it does.
type Recommendation struct {
	Prompt        Prompt  `json:"prompt"`
	Score         float64 `json:"score"`
	Compatibility float64 `json:"compatibility"`
	Reason        string  `json:"reason"`
}

// Recommendations ranks candidates and attaches a human-readable reason and
// the profile compatibility score to each of the top n.
func (s *Selector) Recommendations(candidates []Prompt, ctx SelectionContext, n int) []Recommendation {
	ranked := s.Rank(candidates, ctx)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]Recommendation, len(ranked))
	for i, sp := range ranked {
		out[i] = Recommendation{
			Prompt:        sp.Prompt,
			Score:         sp.Score,
			Compatibility: s.profile.CompatibilityScore(sp.Prompt),
			Reason:        s.recommendationReason(sp.Prompt),
		}
	}
	return out
}

func (s *Selector) recommendationReason(p Prompt) string {
	var reasons []string
	if p.Style == s.profile.PreferredStyle {
		reasons = append(reasons, fmt.Sprintf("matches your preferred %s style", p.Style))
	}
	if p.Tone == s.profile.PreferredTone {
		reasons = append(reasons, fmt.Sprintf("uses your preferred %s tone", p.Tone))
	}
	for _, c := range s.profile.PreferredCategories {
		if c == p.Category {
			reasons = append(reasons, fmt.Sprintf("focuses on %s topics you enjoy", p.Category))
			break
		}
	}
	if s.profile.TimePreferences[p.TimeOfDay] > 0.3 {
		reasons = append(reasons, fmt.Sprintf("fits your active %s time", p.TimeOfDay))
	}
	if len(reasons) == 0 {
		return "Good general fit for your conversation preferences"
	}
	return strings.Join(reasons, ", ")
}

// FollowUpQuestion returns one of the prompt's follow-ups when the reply text
// hits a trigger keyword, chosen uniformly from the pool. Returns false when
// no trigger matches or the prompt has no follow-ups.
func FollowUpQuestion(p Prompt, replyText string, rng *rand.Rand) (string, bool) {
	if len(p.FollowUps) == 0 {
		return "", false
	}
	lower := strings.ToLower(replyText)
	for _, trigger := range p.FollowUpTriggers {
		if strings.Contains(lower, strings.ToLower(trigger)) {
			return p.FollowUps[rng.Intn(len(p.FollowUps))], true
		}
	}
	return "", false
}

// Similarity is word-set Jaccard overlap between two texts.
func Similarity(a, b string) float64 {
	aw, bw := wordSet(a), wordSet(b)
	if len(aw) == 0 && len(bw) == 0 {
		return 0
	}
	inter := 0
	for w := range aw {
		if _, ok := bw[w]; ok {
			inter++
		}
	}
	union := len(aw) + len(bw) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// chooseUnique picks uniformly among the variants not too similar to any of
// the recent questions. When every variant is too similar it falls back to a
// uniform pick over all of them.
func chooseUnique(variants []string, recent []string, rng *rand.Rand) string {
	var fresh []string
	for _, v := range variants {
		similar := false
		for _, r := range recent {
			if Similarity(v, r) > 0.7 {
				similar = true
				break
			}
		}
		if !similar {
			fresh = append(fresh, v)
		}
	}
	if len(fresh) == 0 {
		fresh = variants
	}
	return fresh[rng.Intn(len(fresh))]
}
