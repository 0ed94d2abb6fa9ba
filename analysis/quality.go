package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// 乱码特征
var (
	keyboardMashing = regexp.MustCompile(`(?i)qwert|asdf|zxcv|hjkl|uiop|qazwsx`)
	vowelPattern    = regexp.MustCompile(`(?i)[aeiou]`)
)

// hasRepeatedRun 等价于 `(?i)(.)\1{3,}`（同一字符忽略大小写连续出现 4 次及以上，
// 不含换行）；Go 的 RE2 不支持反向引用，无法直接用正则表达。
func hasRepeatedRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == '\n' {
			run = 0
			continue
		}
		lr := unicode.ToLower(r)
		if run > 0 && lr == prev {
			run++
			if run >= 4 {
				return true
			}
		} else {
			prev = lr
			run = 1
		}
	}
	return false
}

// 脏话词表，按词边界匹配
var profanityPattern = regexp.MustCompile(`(?i)\b(fuck|shit|bitch|asshole|bastard|dick|cunt|damn)\b`)

// ScoreQuality 文本质量评分，基准50分，范围限制在 [0,100]
func ScoreQuality(text string) float64 {
	score := 50.0
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	words := strings.Fields(trimmed)
	wordCount := len(words)

	// 词数档位
	switch {
	case wordCount < 10:
		score -= 10
	case wordCount >= 100:
		score += 15
	case wordCount >= 30:
		score += 10
	}

	// 句子数量
	sentences := 0
	for _, r := range trimmed {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences >= 3 {
		score += 5
	}

	// 词汇多样性
	unique := make(map[string]bool)
	for _, w := range words {
		unique[strings.ToLower(strings.Trim(w, ".,!?;:\"'"))] = true
	}
	diversity := float64(len(unique)) / float64(wordCount)
	switch {
	case diversity >= 0.7:
		score += 10
	case diversity >= 0.5:
		score += 5
	case diversity < 0.3:
		score -= 5
	}

	// 大写占比与标点密度
	letters, uppers, puncts := 0, 0, 0
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
		if unicode.IsPunct(r) {
			puncts++
		}
	}
	if letters > 0 && float64(uppers)/float64(letters) > 0.5 {
		score -= 10
	}
	if float64(puncts)/float64(len(trimmed)) > 0.15 {
		score -= 5
	}

	if looksGibberish(trimmed, words) {
		score -= 30
	}
	if profanityPattern.MatchString(trimmed) {
		score -= 15
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// looksGibberish 检测键盘乱敲：重复字符、键盘序列、长词无元音、长词字符重复度过高
func looksGibberish(text string, words []string) bool {
	if hasRepeatedRun(text) {
		return true
	}
	if keyboardMashing.MatchString(text) {
		return true
	}
	for _, w := range words {
		cleaned := strings.Trim(strings.ToLower(w), ".,!?;:\"'")
		if len(cleaned) < 7 {
			continue
		}
		if !vowelPattern.MatchString(cleaned) {
			return true
		}
		chars := make(map[rune]bool)
		for _, r := range cleaned {
			chars[r] = true
		}
		if float64(len(chars))/float64(len([]rune(cleaned))) < 0.4 {
			return true
		}
	}
	return false
}
