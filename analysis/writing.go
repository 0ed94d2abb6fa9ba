package analysis

import (
	"strings"

	"MemoryFarmGo/models"
)

// countWords 按空白切分统计词数
func countWords(text string) int {
	return len(strings.Fields(text))
}

// classifyStyle 按平均词数划分写作风格
func classifyStyle(avgWords float64) string {
	switch {
	case avgWords < 30:
		return StyleBrief
	case avgWords < 75:
		return StyleConversational
	case avgWords < 150:
		return StyleReflective
	default:
		return StyleDetailed
	}
}

// analyzeWriting 返回写作风格、平均词数与平均文本质量
func analyzeWriting(memories []models.Memory) (string, float64, float64) {
	if len(memories) == 0 {
		return StyleBrief, 0, 0
	}

	totalWords := 0
	totalQuality := 0.0
	for _, m := range memories {
		totalWords += countWords(m.Content)
		totalQuality += ScoreQuality(m.Content)
	}

	avgWords := float64(totalWords) / float64(len(memories))
	avgQuality := totalQuality / float64(len(memories))
	return classifyStyle(avgWords), avgWords, avgQuality
}

// analyzeEvolution 比较历史前后两半的平均词数
// memories 按时间倒序，后半即更早的记录
func analyzeEvolution(memories []models.Memory) string {
	if len(memories) < 4 {
		return EvolutionStable
	}

	mid := len(memories) / 2
	newerAvg := avgWordCount(memories[:mid])
	olderAvg := avgWordCount(memories[mid:])
	if olderAvg == 0 {
		return EvolutionStable
	}

	switch {
	case newerAvg > olderAvg*1.15:
		return EvolutionDeepening
	case newerAvg < olderAvg*0.85:
		return EvolutionShortening
	default:
		return EvolutionStable
	}
}

func avgWordCount(memories []models.Memory) float64 {
	if len(memories) == 0 {
		return 0
	}
	total := 0
	for _, m := range memories {
		total += countWords(m.Content)
	}
	return float64(total) / float64(len(memories))
}
