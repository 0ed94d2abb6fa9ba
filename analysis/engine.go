package analysis

import (
	"time"

	"MemoryFarmGo/config"
	"MemoryFarmGo/models"
)

// PreviousMilestone 返回某条目数对应的上一个里程碑
// 里程碑序列为 1,5,10,...,50，50以后每逢5的倍数
func PreviousMilestone(count int) int {
	switch {
	case count <= 1:
		return 0
	case count == 5:
		return 1
	case count%5 == 0:
		return count - 5
	default:
		if count-5 < 0 {
			return 0
		}
		return count - 5
	}
}

// BuildProfile 拉取用户全部记忆并构建行为画像
func BuildProfile(userID string, entryCount int) (*PatternProfile, error) {
	var memories []models.Memory
	err := config.DB.
		Where("user_id = ?", userID).
		Order("memory_date desc, created_at desc").
		Find(&memories).Error
	if err != nil {
		return nil, err
	}
	return BuildProfileFromMemories(memories, entryCount), nil
}

// BuildProfileFromMemories 从记忆列表构建画像，列表须按时间倒序
// 无记录时返回固定默认画像，下游不需要对空历史做分支
func BuildProfileFromMemories(memories []models.Memory, entryCount int) *PatternProfile {
	if len(memories) == 0 {
		return defaultProfile()
	}

	// 里程碑窗口内的条数，作为"最近"窗口
	recentCount := entryCount - PreviousMilestone(entryCount)
	if recentCount <= 0 || recentCount > len(memories) {
		recentCount = len(memories)
	}

	emotions, families, dominant, dominantFamily, diversity := analyzeEmotions(memories, recentCount)
	style, avgWords, avgQuality := analyzeWriting(memories)

	return &PatternProfile{
		TotalEntries:      len(memories),
		Emotions:          emotions,
		Families:          families,
		DominantEmotion:   dominant,
		DominantFamily:    dominantFamily,
		Diversity:         diversity,
		EmotionalShift:    analyzeShift(memories, recentCount, dominantFamily),
		EmotionalVelocity: analyzeVelocity(memories),
		WritingStyle:      style,
		AvgWordCount:      avgWords,
		AvgQuality:        avgQuality,
		WritingEvolution:  analyzeEvolution(memories),
		Themes:            analyzeThemes(memories),
		Temporal:          analyzeTemporal(memories),
		Silence:           analyzeSilence(memories),
		Comparison:        analyzeComparison(memories),
		RecentMemories:    buildDigests(memories, time.Now()),
	}
}

func defaultProfile() *PatternProfile {
	return &PatternProfile{
		DominantEmotion:   DefaultEmotion,
		EmotionalShift:    "steady",
		EmotionalVelocity: VelocityStable,
		WritingStyle:      StyleBrief,
		WritingEvolution:  EvolutionStable,
		Temporal:          TemporalPattern{ActiveTime: "anytime", Cadence: CadenceOccasional},
	}
}
