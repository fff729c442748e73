package llm

import "unicode/utf8"

// charsPerToken calibrates the estimator to modern LLM tokenizers, which
// average roughly four characters of English prose per token.
const charsPerToken = 4.0

// EstimateTokens gives a cheap, tokenizer-free estimate of s's token count,
// used to keep prompts inside a model's context window without invoking the
// provider's real tokenizer.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return int(float64(utf8.RuneCountInString(s)) / charsPerToken)
}

// TrimToBudget truncates s (by rune) so its estimated token count fits
// within maxTokens, preferring to cut at the last paragraph boundary before
// the limit so the trimmed prompt doesn't end mid-sentence. A maxTokens of
// zero or less disables trimming.
func TrimToBudget(s string, maxTokens int) string {
	if maxTokens <= 0 || EstimateTokens(s) <= maxTokens {
		return s
	}

	maxChars := int(float64(maxTokens) * charsPerToken)
	runes := []rune(s)
	if maxChars >= len(runes) {
		return s
	}
	cut := runes[:maxChars]

	if idx := lastIndexRune(cut, '\n'); idx > maxChars/2 {
		return string(cut[:idx])
	}
	return string(cut)
}

func lastIndexRune(rs []rune, target rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == target {
			return i
		}
	}
	return -1
}
