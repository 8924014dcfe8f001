package categorizer

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// scorecard accumulates the score and signals of a single category.
type scorecard struct {
	category Category
	score    float64
	signals  []Signal
}

func (s *scorecard) add(name string, weight float64, detail string) {
	if weight == 0 {
		return
	}
	s.score += weight
	s.signals = append(s.signals, Signal{Category: s.category, Name: name, Weight: weight, Detail: detail})
}

// penalize subtracts up to weight without taking the card below zero.
func (s *scorecard) penalize(name string, weight float64, detail string) {
	w := math.Min(weight, s.score)
	if w <= 0 {
		return
	}
	s.add(name, -w, detail)
}

// tally is the per-call score table.
type tally struct {
	scores  Scores
	signals []Signal
}

func (t *tally) add(c Category, name string, weight float64, detail string) {
	t.scores.add(c, weight)
	t.signals = append(t.signals, Signal{Category: c, Name: name, Weight: weight, Detail: detail})
}

func (t *tally) merge(card scorecard) {
	t.scores.add(card.category, card.score)
	t.signals = append(t.signals, card.signals...)
}

var scorers = []func(string, *tally){
	func(s string, t *tally) { t.merge(scoreCode(s)) },
	func(s string, t *tally) { t.merge(scoreMath(s)) },
	func(s string, t *tally) { t.merge(scoreQuestion(s)) },
	func(s string, t *tally) { t.merge(scoreTerm(s)) },
	func(s string, t *tally) { t.merge(scoreForeign(s)) },
	func(s string, t *tally) { t.merge(scoreParagraph(s)) },
}

var (
	codeKeywordRe  = regexp.MustCompile(`\b(?:const|let|var|function|class|if|else|for|while|return|import|export|this|async|await|try|catch)\b`)
	codeOperatorRe = regexp.MustCompile(`=>|===|!==|&&|\|\||<<|>>|\+=|-=|\*=|/=`)
	codeCommentRe  = regexp.MustCompile(`//|/\*`)
	codeIndentRe   = regexp.MustCompile(`(?m)^[ \t]+\w`)
	codeDOMRe      = regexp.MustCompile(`console\.log|document\.get|window\.`)
)

const (
	codeKeywordCap = 3
	codeBracketCap = 2
	shortCodeLen   = 10
)

func scoreCode(text string) scorecard {
	card := scorecard{category: CategoryCode}

	if kws := codeKeywordRe.FindAllString(text, -1); len(kws) > 0 {
		n := min(len(kws), codeKeywordCap)
		card.add("keyword", float64(n), strings.Join(kws[:n], ","))
	}
	if op := codeOperatorRe.FindString(text); op != "" {
		card.add("operator", 2, op)
	}
	if n := countRunes(text, "{}[]()"); n > 0 {
		card.add("brackets", math.Min(float64(n)/2, codeBracketCap), "")
	}
	if m := codeCommentRe.FindString(text); m != "" {
		card.add("comment", 1.5, m)
	}
	if codeIndentRe.MatchString(text) {
		card.add("indentation", 0.5, "")
	}
	if m := codeDOMRe.FindString(text); m != "" {
		card.add("dom_api", 1, m)
	}
	if utf8.RuneCountInString(text) < shortCodeLen {
		card.penalize("short_snippet", 1, "")
	}
	return card
}

var (
	mathTokenRe = regexp.MustCompile(`\b(?:\d+(?:\.\d+)?|[A-Za-z])\b`)
	mathWordRe  = regexp.MustCompile(`(?i)\b(?:equation|function|integral|derivative|sum|product|limit|infinity)\b`)
	latexRe     = regexp.MustCompile(`\\[A-Za-z]+\{|\\sum_`)
)

const (
	mathSymbols     = "+-*/^=<>≤≥≠∑∏∫∂√π"
	mathSymbolCap   = 2
	mathTokenCap    = 1.5
	quoteColonChars = "\"'`:"
)

func scoreMath(text string) scorecard {
	card := scorecard{category: CategoryMath}

	if n := countRunes(text, mathSymbols); n > 0 {
		card.add("symbols", math.Min(float64(n)/2, mathSymbolCap), "")
	}
	if n := len(mathTokenRe.FindAllStringIndex(text, -1)); n > 0 {
		card.add("operands", math.Min(float64(n)/2, mathTokenCap), "")
	}
	if w := mathWordRe.FindString(text); w != "" {
		card.add("vocabulary", 1, strings.ToLower(w))
	}
	if m := latexRe.FindString(text); m != "" {
		card.add("latex", 2, m)
	}
	if strings.Contains(text, "=") && strings.IndexFunc(text, isASCIIDigit) >= 0 && !strings.ContainsAny(text, quoteColonChars) {
		card.add("equation", 1, "")
	}
	return card
}

var (
	questionWordRe  = regexp.MustCompile(`(?i)^(?:what|how|why|when|where|who|which|can|could|would|will|shall|should|may|might|do|does|did|is|are|was|were)\b`)
	instructionRe   = regexp.MustCompile(`(?i)^(?:explain|describe|define|list|identify|analyze|compare|contrast|evaluate|examine|discuss|elaborate)\b`)
	politeRequestRe = regexp.MustCompile(`(?i)\b(?:can|could|would|will|have|do) you\b`)
)

func scoreQuestion(text string) scorecard {
	card := scorecard{category: CategoryQuestion}
	marks := strings.Count(text, "?")

	if strings.HasSuffix(text, "?") {
		card.add("question_mark", 2, "")
	}
	if m := questionWordRe.FindString(text); m != "" {
		card.add("question_word", 2, strings.ToLower(m))
	}
	if m := instructionRe.FindString(text); m != "" {
		card.add("instruction", 1.5, strings.ToLower(m))
	}
	if m := politeRequestRe.FindString(text); m != "" && marks == 0 {
		card.add("polite_request", 1, strings.ToLower(m))
	}
	if marks > 1 {
		card.add("multiple_questions", 0.5, "")
	}
	return card
}

var (
	titleCaseRe  = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+$`)
	identifierRe = regexp.MustCompile(`\b[A-Z]{2,}\b|\b\d+\.\d+(?:\.\d+)*\b|\b[a-z]+[A-Z][A-Za-z0-9]*\b`)
	sentenceRe   = regexp.MustCompile(`(?s)^[A-Z].*[.!?]$`)
)

const sentenceEnders = ".!?"

func scoreTerm(text string) scorecard {
	card := scorecard{category: CategoryTerm}

	switch words := len(strings.Fields(text)); {
	case words <= 3:
		card.add("few_words", 2, "")
	case words <= 5:
		card.add("few_words", 1, "")
	}
	if !strings.ContainsAny(text, sentenceEnders) {
		card.add("no_terminal_punctuation", 1, "")
	}
	if titleCaseRe.MatchString(text) {
		card.add("title_case", 1.5, "")
	}
	if m := identifierRe.FindString(text); m != "" {
		card.add("identifier", 1, m)
	}
	if !sentenceRe.MatchString(text) {
		card.add("not_a_sentence", 0.5, "")
	}
	return card
}

const (
	foreignHighRatio = 0.3
	foreignLowRatio  = 0.1
)

var (
	rtlScripts = []*unicode.RangeTable{unicode.Hebrew, unicode.Arabic, unicode.Syriac, unicode.Thaana, unicode.Nko}
	cjkScripts = []*unicode.RangeTable{unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul, unicode.Bopomofo}
)

func scoreForeign(text string) scorecard {
	card := scorecard{category: CategoryForeign}

	var total, nonASCII int
	var diacritics, rtl, cjk bool
	for _, r := range text {
		total++
		if r <= unicode.MaxASCII {
			continue
		}
		nonASCII++
		switch {
		case isLatinDiacritic(r):
			diacritics = true
		case unicode.In(r, rtlScripts...):
			rtl = true
		case unicode.In(r, cjkScripts...):
			cjk = true
		}
	}

	if total > 0 {
		switch ratio := float64(nonASCII) / float64(total); {
		case ratio > foreignHighRatio:
			card.add("non_ascii_ratio", 3, "")
		case ratio > foreignLowRatio:
			card.add("non_ascii_ratio", 1.5, "")
		}
	}
	if diacritics {
		card.add("latin_diacritics", 1, "")
	}
	if rtl {
		card.add("rtl_script", 2, "")
	}
	if cjk {
		card.add("cjk_script", 2, "")
	}
	if scoreCode(text).score > 2 {
		card.penalize("looks_like_code", 1, "")
	}
	return card
}

// isLatinDiacritic reports letters from Latin-1 Supplement and Latin
// Extended-A/B, excluding the multiplication and division signs.
func isLatinDiacritic(r rune) bool {
	return r >= 0xC0 && r <= 0x24F && r != 0xD7 && r != 0xF7
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)
	connectorRe     = regexp.MustCompile(`(?i)\b(?:however|therefore|furthermore|moreover|consequently|additionally|nevertheless|although|despite|thus|hence|whereas)\b`)
)

const curlyQuotes = "“”‘’„"

func scoreParagraph(text string) scorecard {
	card := scorecard{category: CategoryParagraph}

	switch words := len(strings.Fields(text)); {
	case words > 30:
		card.add("word_count", 3, "")
	case words > 15:
		card.add("word_count", 2, "")
	case words > 8:
		card.add("word_count", 1, "")
	}
	switch n := countSentences(text); {
	case n > 2:
		card.add("sentences", 2, "")
	case n > 1:
		card.add("sentences", 1, "")
	}
	if m := connectorRe.FindString(text); m != "" {
		card.add("connector", 1, strings.ToLower(m))
	}
	if strings.ContainsAny(text, curlyQuotes) {
		card.add("typographic_quotes", 0.5, "")
	}
	return card
}

func countSentences(text string) int {
	n := 0
	for _, part := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

const arithmeticChars = "+-*/=<>^≤≥≠"

// disambiguate resolves known confusions between scorers. Scores are not
// floored afterwards.
func disambiguate(text string, t *tally) {
	code := t.scores.Get(CategoryCode)
	if code > 0 && t.scores.Get(CategoryMath) > 0 &&
		utf8.RuneCountInString(text) < 20 && strings.ContainsAny(text, arithmeticChars) {
		t.add(CategoryCode, "short_math_fragment", -2, "")
	}
	if t.scores.Get(CategoryQuestion) > 0 && t.scores.Get(CategoryCode) > 0 && strings.HasSuffix(text, "?") {
		t.add(CategoryCode, "question_about_code", -2, "")
	}
}

func countRunes(text, set string) int {
	n := 0
	for _, r := range text {
		if strings.ContainsRune(set, r) {
			n++
		}
	}
	return n
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
