package analysis

import (
	"strings"
	"time"

	"MemoryFarmGo/models"
)

// ComparisonMinEntries 过去与现在对比所需的最少记录数
const ComparisonMinEntries = 15

// RecentDigestCount 画像中保留的最近记忆摘要数量
const RecentDigestCount = 5

// analyzeComparison 比较历史前后两半的情绪积极度与平均词数
// 记录不足15条时返回 nil
func analyzeComparison(memories []models.Memory) *PeriodComparison {
	if len(memories) < ComparisonMinEntries {
		return nil
	}

	mid := len(memories) / 2
	recent := memories[:mid]
	past := memories[mid:]

	return &PeriodComparison{
		PastPositivity:   positivityRatio(past),
		RecentPositivity: positivityRatio(recent),
		PastAvgWords:     avgWordCount(past),
		RecentAvgWords:   avgWordCount(recent),
	}
}

// positivityRatio 积极家族记录占有情绪家族记录的比例
func positivityRatio(memories []models.Memory) float64 {
	withFamily := 0
	positive := 0
	for _, m := range memories {
		f := FamilyOf(strings.ToLower(m.Emotion))
		if f == "" {
			continue
		}
		withFamily++
		if IsPositiveFamily(f) {
			positive++
		}
	}
	if withFamily == 0 {
		return 0
	}
	return float64(positive) / float64(withFamily)
}

// buildDigests 生成最近记忆摘要
func buildDigests(memories []models.Memory, now time.Time) []MemoryDigest {
	n := len(memories)
	if n > RecentDigestCount {
		n = RecentDigestCount
	}

	digests := make([]MemoryDigest, 0, n)
	for _, m := range memories[:n] {
		emotion := strings.ToLower(strings.TrimSpace(m.Emotion))
		digests = append(digests, MemoryDigest{
			Title:     m.Title,
			Summary:   summarize(m.Content, 20),
			Emotion:   emotion,
			Family:    FamilyOf(emotion),
			Themes:    ExtractThemes(m.Content, 3),
			Quality:   ScoreQuality(m.Content),
			WordCount: countWords(m.Content),
			AgeDays:   int(now.Sub(m.MemoryDate).Hours() / 24),
		})
	}
	return digests
}

// summarize 截取前 maxWords 个词
func summarize(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "…"
}
