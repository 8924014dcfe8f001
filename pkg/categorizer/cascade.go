package categorizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cascade is the first-match-wins classifier: markup code, code text, markup
// or text math, question, term, foreign, paragraph, then general. It is kept
// for callers that want the older binary behaviour. It disagrees with the
// scoring strategy on edge cases; in particular almost any short text that
// contains a digit or the letter "e" is reported as math.
func Cascade(text string, hint StructuralHint) Category {
	clean := strings.TrimSpace(text)
	switch {
	case clean == "":
		return CategoryUnknown
	case hint.LooksLikeCode, isCodeText(clean):
		return CategoryCode
	case hint.LooksLikeMath, isMathExpression(clean):
		return CategoryMath
	case isQuestion(clean):
		return CategoryQuestion
	case isTermDefinition(clean):
		return CategoryTerm
	case isForeignLanguage(clean):
		return CategoryForeign
	case isParagraph(clean):
		return CategoryParagraph
	default:
		return CategoryGeneral
	}
}

var (
	cascadeKeywordRe  = regexp.MustCompile(`\b(?:const|let|var|function|class|if|else|for|while|return|import|export)\b`)
	cascadeOperatorRe = regexp.MustCompile(`=>|::|===?|!==?|<<|>>|//|/\*`)
	cascadeBracketRe  = regexp.MustCompile(`[{}\[\]()]`)
	cascadeMathRe     = regexp.MustCompile(`[\d+\-*/^=<>∑∏∫∂√]|pi|e`)
	cascadeQuestionRe = regexp.MustCompile(`^(?:what|how|why|when|where|who|can|could|would|will|shall|should|may|might|must|do|does|did|is|are|was|were)\b.*\?$`)
	cascadeCommandRe  = regexp.MustCompile(`^(?:explain|describe|define|list|identify|analyze|evaluate|summarize)\b\s+\w+`)
	cascadeSplitRe    = regexp.MustCompile(`[.!?]+`)
)

const (
	cascadeMaxCodeLines = 5
	cascadeMaxMathLen   = 50
	cascadeMaxTermWords = 4
	cascadeMinForeign   = 15
	cascadeMinParaWords = 10
)

func isCodeText(text string) bool {
	return cascadeKeywordRe.MatchString(text) &&
		(cascadeOperatorRe.MatchString(text) || cascadeBracketRe.MatchString(text)) &&
		strings.Count(text, "\n")+1 <= cascadeMaxCodeLines
}

func isMathExpression(text string) bool {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	return cascadeMathRe.MatchString(compact) && utf8.RuneCountInString(text) < cascadeMaxMathLen
}

func isQuestion(text string) bool {
	lower := strings.ToLower(text)
	return cascadeQuestionRe.MatchString(lower) || cascadeCommandRe.MatchString(lower)
}

func isTermDefinition(text string) bool {
	return len(strings.Fields(text)) <= cascadeMaxTermWords && !strings.ContainsAny(text, sentenceEnders)
}

func isForeignLanguage(text string) bool {
	return utf8.RuneCountInString(text) > cascadeMinForeign &&
		strings.IndexFunc(text, func(r rune) bool { return r > unicode.MaxASCII }) >= 0 &&
		!isCodeText(text) && !isMathExpression(text)
}

func isParagraph(text string) bool {
	return len(strings.Fields(text)) > cascadeMinParaWords && len(cascadeSplitRe.Split(text, -1)) > 1
}
