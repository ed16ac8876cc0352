package attune

import "strings"

// EmotionFamily groups lexicon words that express the same underlying feeling.
type EmotionFamily string

const (
	FamilyAnxiety    EmotionFamily = "anxiety"
	FamilySadness    EmotionFamily = "sadness"
	FamilyJoy        EmotionFamily = "joy"
	FamilyAnger      EmotionFamily = "anger"
	FamilyFear       EmotionFamily = "fear"
	FamilyLove       EmotionFamily = "love"
	FamilyGuilt      EmotionFamily = "guilt"
	FamilyExhaustion EmotionFamily = "exhaustion"
	FamilyConfusion  EmotionFamily = "confusion"
	FamilyPeace      EmotionFamily = "peace"
	FamilyGratitude  EmotionFamily = "gratitude"
	FamilyLoneliness EmotionFamily = "loneliness"
	FamilyHope       EmotionFamily = "hope"
	FamilySurprise   EmotionFamily = "surprise"
)

// Valence is the coarse polarity of an emotion family.
type Valence int

const (
	ValenceNeutral Valence = iota
	ValencePositive
	ValenceNegative
)

// familyValence assigns each family a polarity used for state classification.
var familyValence = map[EmotionFamily]Valence{
	FamilyAnxiety:    ValenceNegative,
	FamilySadness:    ValenceNegative,
	FamilyJoy:        ValencePositive,
	FamilyAnger:      ValenceNegative,
	FamilyFear:       ValenceNegative,
	FamilyLove:       ValencePositive,
	FamilyGuilt:      ValenceNegative,
	FamilyExhaustion: ValenceNegative,
	FamilyConfusion:  ValenceNeutral,
	FamilyPeace:      ValencePositive,
	FamilyGratitude:  ValencePositive,
	FamilyLoneliness: ValenceNegative,
	FamilyHope:       ValencePositive,
	FamilySurprise:   ValenceNeutral,
}

type lexiconEntry struct {
	Family    EmotionFamily
	Intensity float64
}

// emotionLexicon is the single source of truth for emotion words. Each word
// maps to its family and a fixed intensity in (0, 1].
var emotionLexicon = map[string]lexiconEntry{
	// anxiety
	"anxious":     {FamilyAnxiety, 0.9},
	"worried":     {FamilyAnxiety, 0.8},
	"nervous":     {FamilyAnxiety, 0.7},
	"stressed":    {FamilyAnxiety, 0.9},
	"overwhelmed": {FamilyAnxiety, 1.0},
	"panicked":    {FamilyAnxiety, 1.0},
	"fearful":     {FamilyAnxiety, 0.8},
	"tense":       {FamilyAnxiety, 0.6},
	"uneasy":      {FamilyAnxiety, 0.5},
	"restless":    {FamilyAnxiety, 0.6},
	"agitated":    {FamilyAnxiety, 0.7},

	// sadness
	"sad":         {FamilySadness, 0.8},
	"depressed":   {FamilySadness, 1.0},
	"down":        {FamilySadness, 0.6},
	"blue":        {FamilySadness, 0.5},
	"devastated":  {FamilySadness, 1.0},
	"heartbroken": {FamilySadness, 1.0},
	"empty":       {FamilySadness, 0.8},
	"hopeless":    {FamilySadness, 1.0},
	"melancholy":  {FamilySadness, 0.7},
	"grief":       {FamilySadness, 0.9},
	"sorrow":      {FamilySadness, 0.8},
	"despondent":  {FamilySadness, 0.9},
	"dejected":    {FamilySadness, 0.7},
	"gloomy":      {FamilySadness, 0.6},
	"miserable":   {FamilySadness, 0.9},

	// joy
	"happy":     {FamilyJoy, 0.8},
	"excited":   {FamilyJoy, 0.9},
	"thrilled":  {FamilyJoy, 1.0},
	"ecstatic":  {FamilyJoy, 1.0},
	"delighted": {FamilyJoy, 0.9},
	"cheerful":  {FamilyJoy, 0.7},
	"content":   {FamilyJoy, 0.6},
	"joyful":    {FamilyJoy, 0.9},
	"elated":    {FamilyJoy, 1.0},
	"euphoric":  {FamilyJoy, 1.0},
	"blissful":  {FamilyJoy, 0.9},
	"gleeful":   {FamilyJoy, 0.8},
	"upbeat":    {FamilyJoy, 0.7},
	"radiant":   {FamilyJoy, 0.8},

	// anger
	"angry":      {FamilyAnger, 0.8},
	"furious":    {FamilyAnger, 1.0},
	"mad":        {FamilyAnger, 0.7},
	"irritated":  {FamilyAnger, 0.6},
	"frustrated": {FamilyAnger, 0.8},
	"rage":       {FamilyAnger, 1.0},
	"livid":      {FamilyAnger, 1.0},
	"irate":      {FamilyAnger, 0.9},
	"annoyed":    {FamilyAnger, 0.5},
	"aggravated": {FamilyAnger, 0.7},
	"incensed":   {FamilyAnger, 0.9},
	"outraged":   {FamilyAnger, 1.0},
	"resentful":  {FamilyAnger, 0.8},
	"bitter":     {FamilyAnger, 0.7},
	"hostile":    {FamilyAnger, 0.8},

	// fear
	"scared":       {FamilyFear, 0.8},
	"afraid":       {FamilyFear, 0.7},
	"frightened":   {FamilyFear, 0.8},
	"terrified":    {FamilyFear, 1.0},
	"petrified":    {FamilyFear, 1.0},
	"horrified":    {FamilyFear, 0.9},
	"alarmed":      {FamilyFear, 0.7},
	"startled":     {FamilyFear, 0.5},
	"intimidated":  {FamilyFear, 0.6},
	"apprehensive": {FamilyFear, 0.6},
	"dread":        {FamilyFear, 0.9},

	// love
	"loved":        {FamilyLove, 0.9},
	"cherished":    {FamilyLove, 0.9},
	"adored":       {FamilyLove, 1.0},
	"appreciated":  {FamilyLove, 0.7},
	"valued":       {FamilyLove, 0.6},
	"treasured":    {FamilyLove, 0.8},
	"beloved":      {FamilyLove, 0.9},
	"devoted":      {FamilyLove, 0.8},
	"affectionate": {FamilyLove, 0.7},
	"tender":       {FamilyLove, 0.6},
	"caring":       {FamilyLove, 0.7},

	// guilt
	"guilty":      {FamilyGuilt, 0.8},
	"ashamed":     {FamilyGuilt, 0.9},
	"embarrassed": {FamilyGuilt, 0.7},
	"regretful":   {FamilyGuilt, 0.8},
	"remorseful":  {FamilyGuilt, 0.9},
	"mortified":   {FamilyGuilt, 1.0},
	"humiliated":  {FamilyGuilt, 0.9},
	"sheepish":    {FamilyGuilt, 0.5},
	"contrite":    {FamilyGuilt, 0.7},
	"repentant":   {FamilyGuilt, 0.8},

	// exhaustion
	"tired":     {FamilyExhaustion, 0.6},
	"exhausted": {FamilyExhaustion, 0.9},
	"drained":   {FamilyExhaustion, 0.8},
	"weary":     {FamilyExhaustion, 0.7},
	"fatigued":  {FamilyExhaustion, 0.8},
	"depleted":  {FamilyExhaustion, 0.9},
	"worn":      {FamilyExhaustion, 0.7},
	"spent":     {FamilyExhaustion, 0.8},
	"burned":    {FamilyExhaustion, 0.9},
	"wiped":     {FamilyExhaustion, 0.7},

	// confusion
	"confused":   {FamilyConfusion, 0.6},
	"lost":       {FamilyConfusion, 0.8},
	"uncertain":  {FamilyConfusion, 0.6},
	"puzzled":    {FamilyConfusion, 0.5},
	"bewildered": {FamilyConfusion, 0.7},
	"perplexed":  {FamilyConfusion, 0.6},
	"baffled":    {FamilyConfusion, 0.6},
	"unclear":    {FamilyConfusion, 0.5},
	"mixed":      {FamilyConfusion, 0.4},
	"torn":       {FamilyConfusion, 0.7},

	// peace
	"calm":     {FamilyPeace, 0.6},
	"peaceful": {FamilyPeace, 0.8},
	"serene":   {FamilyPeace, 0.9},
	"tranquil": {FamilyPeace, 0.8},
	"relaxed":  {FamilyPeace, 0.7},
	"centered": {FamilyPeace, 0.7},
	"balanced": {FamilyPeace, 0.6},
	"grounded": {FamilyPeace, 0.7},
	"zen":      {FamilyPeace, 0.8},
	"still":    {FamilyPeace, 0.6},

	// gratitude
	"grateful":     {FamilyGratitude, 0.8},
	"thankful":     {FamilyGratitude, 0.7},
	"blessed":      {FamilyGratitude, 0.8},
	"appreciative": {FamilyGratitude, 0.7},
	"fortunate":    {FamilyGratitude, 0.6},
	"lucky":        {FamilyGratitude, 0.5},
	"indebted":     {FamilyGratitude, 0.6},

	// loneliness
	"lonely":       {FamilyLoneliness, 0.8},
	"isolated":     {FamilyLoneliness, 0.9},
	"alone":        {FamilyLoneliness, 0.6},
	"disconnected": {FamilyLoneliness, 0.8},
	"abandoned":    {FamilyLoneliness, 1.0},
	"forsaken":     {FamilyLoneliness, 0.9},
	"solitary":     {FamilyLoneliness, 0.6},
	"excluded":     {FamilyLoneliness, 0.7},

	// hope
	"hopeful":    {FamilyHope, 0.7},
	"optimistic": {FamilyHope, 0.6},
	"positive":   {FamilyHope, 0.5},
	"encouraged": {FamilyHope, 0.7},
	"inspired":   {FamilyHope, 0.8},
	"motivated":  {FamilyHope, 0.7},
	"determined": {FamilyHope, 0.6},
	"confident":  {FamilyHope, 0.7},

	// surprise
	"surprised":     {FamilySurprise, 0.5},
	"shocked":       {FamilySurprise, 0.8},
	"amazed":        {FamilySurprise, 0.7},
	"astonished":    {FamilySurprise, 0.8},
	"stunned":       {FamilySurprise, 0.9},
	"flabbergasted": {FamilySurprise, 0.8},
	"astounded":     {FamilySurprise, 0.8},
}

// FamilyOf returns the family an emotion word belongs to, or "" when the word
// is not in the lexicon.
func FamilyOf(word string) EmotionFamily {
	if e, ok := emotionLexicon[word]; ok {
		return e.Family
	}
	return ""
}

// IntensityOf returns the fixed lexicon intensity for a word, or 0 when the
// word is not in the lexicon.
func IntensityOf(word string) float64 {
	return emotionLexicon[word].Intensity
}

// ExtractEmotions scans lowercased text for lexicon words using substring
// matching and returns the detected words with their intensities.
func ExtractEmotions(text string) map[string]float64 {
	lower := strings.ToLower(text)
	found := map[string]float64{}
	for word, entry := range emotionLexicon {
		if strings.Contains(lower, word) {
			found[word] = entry.Intensity
		}
	}
	return found
}

// ClassifyState reduces a set of detected emotions to a coarse state. An empty
// set is neutral. A side dominates when its summed intensity exceeds 1.5x the
// other side's; the highly variants require a mean intensity of at least 0.8.
func ClassifyState(emotions map[string]float64) EmotionalState {
	if len(emotions) == 0 {
		return StateNeutral
	}
	var total, pos, neg float64
	for word, intensity := range emotions {
		total += intensity
		switch familyValence[FamilyOf(word)] {
		case ValencePositive:
			pos += intensity
		case ValenceNegative:
			neg += intensity
		}
	}
	avg := total / float64(len(emotions))
	switch {
	case neg > pos*1.5:
		if avg >= 0.8 {
			return StateHighlyNegative
		}
		return StateNegative
	case pos > neg*1.5:
		if avg >= 0.8 {
			return StateHighlyPositive
		}
		return StatePositive
	default:
		return StateMixed
	}
}

// EmotionScore is the signed mean intensity of a detected set: positive words
// add, negative words subtract, neutral words only dilute.
func EmotionScore(emotions map[string]float64) float64 {
	if len(emotions) == 0 {
		return 0
	}
	var score float64
	for word, intensity := range emotions {
		switch familyValence[FamilyOf(word)] {
		case ValencePositive:
			score += intensity
		case ValenceNegative:
			score -= intensity
		}
	}
	return score / float64(len(emotions))
}

// Trend compares the current turn's emotions to the previous turn's. A score
// shift greater than 0.2 in either direction breaks stability.
func Trend(current, previous map[string]float64) EmotionalTrend {
	cur, prev := EmotionScore(current), EmotionScore(previous)
	switch {
	case cur > prev+0.2:
		return TrendImproving
	case cur < prev-0.2:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// DominantEmotion returns the detected word with the highest intensity, with
// lexicographic order breaking ties so the result is deterministic.
func DominantEmotion(emotions map[string]float64) (string, float64, bool) {
	var bestWord string
	var bestIntensity float64
	for word, intensity := range emotions {
		if bestWord == "" || intensity > bestIntensity ||
			(intensity == bestIntensity && word < bestWord) {
			bestWord, bestIntensity = word, intensity
		}
	}
	return bestWord, bestIntensity, bestWord != ""
}
