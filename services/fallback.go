package services

import (
	"fmt"

	"MemoryFarmGo/analysis"
)

// 情绪到一词性格特质的映射，未收录的情绪统一落到 unique
var emotionTraits = map[string]string{
	"happy":    "optimistic",
	"joyful":   "radiant",
	"excited":  "passionate",
	"grateful": "appreciative",
	"calm":     "grounded",
	"peaceful": "serene",
	"content":  "balanced",
	"loved":    "warmhearted",
	"proud":    "determined",
	"sad":      "deeply feeling",
	"anxious":  "thoughtful",
	"worried":  "caring",
	"angry":    "honest",
	"tired":    "hardworking",
	"curious":  "inquisitive",
	"hopeful":  "resilient",

	analysis.DefaultEmotion: "reflective",
}

// traitFor 查找情绪对应的特质
func traitFor(emotion string) string {
	if t, ok := emotionTraits[emotion]; ok {
		return t
	}
	return "unique"
}

// BuildFallbackInsight 静态兜底生成器
// 纯模板填充，无外部依赖，任何输入都不会失败，是整条生成链路的正确性保底
func BuildFallbackInsight(entryCount int, profile *analysis.PatternProfile) string {
	trait := traitFor(profile.DominantEmotion)

	switch entryCount {
	case 1:
		return fmt.Sprintf("You just planted your first memory. Starting with \"%s\" says something real about where you are right now — and taking a moment to write it down shows a %s side of you. Every collection starts with a single entry. Welcome.", profile.DominantEmotion, trait)
	case 5:
		return fmt.Sprintf("Five memories in. \"%s\" keeps showing up in your entries, which hints at a %s nature beneath your days. You're starting to build a record of your inner life — keep going and the patterns will get clearer.", profile.DominantEmotion, trait)
	case 10:
		return fmt.Sprintf("Ten memories now, spanning %d different emotions. \"%s\" leads the way, and your %s side comes through in how you write. A real picture of you is starting to form here.", nonZero(profile.Diversity), profile.DominantEmotion, trait)
	case 15:
		return fmt.Sprintf("Fifteen entries is where journaling becomes a habit. You usually write around %.0f words, and \"%s\" remains your most familiar companion. That steady, %s voice of yours is worth keeping.", profile.AvgWordCount, profile.DominantEmotion, trait)
	case 25:
		return fmt.Sprintf("Twenty-five memories — a real archive. You've expressed %d distinct emotions along the way, led by \"%s\". Looking back through them now would show you a %s person quietly documenting a life.", nonZero(profile.Diversity), profile.DominantEmotion, trait)
	case 50:
		return fmt.Sprintf("Fifty memories. That is dedication very few people manage. Through all of them, \"%s\" has been your anchor emotion, and the %s way you write keeps deepening. This collection is becoming something you'll treasure.", profile.DominantEmotion, trait)
	case 100:
		return fmt.Sprintf("One hundred memories. A milestone worth sitting with. Your dominant emotion across this whole journey has been \"%s\", told in your own %s voice, one entry at a time. Thank you for trusting this space with your story.", profile.DominantEmotion, trait)
	}

	if profile.Temporal.CurrentStreak >= 7 {
		return fmt.Sprintf("You've written for %d days in a row. Streaks like this don't happen by accident — they come from a %s kind of commitment. Whatever \"%s\" days bring, you keep showing up for yourself.", profile.Temporal.CurrentStreak, trait, profile.DominantEmotion)
	}

	theme := "your days"
	if len(profile.Themes) > 0 {
		theme = fmt.Sprintf("\"%s\"", profile.Themes[0])
	}
	return fmt.Sprintf("With %d memories written, your collection keeps growing. \"%s\" colors many of your entries, and %s comes up again and again — a sign of what genuinely occupies you. Your %s way of noticing your own life is the whole point of this.", nonZero(entryCount), profile.DominantEmotion, theme, trait)
}

func nonZero(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
