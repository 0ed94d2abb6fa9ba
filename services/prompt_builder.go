package services

import (
	"fmt"
	"strings"

	"MemoryFarmGo/analysis"
	"MemoryFarmGo/models"
)

// 共情模式
const (
	EmpathyStruggling = "struggling"
	EmpathyThriving   = "thriving"
	EmpathyMixed      = "mixed"
)

// BuildPrompt 按条目数选择提示词档位
// 生成的提示词必须明确写出词数目标，模型自律加编排器截断共同保证长度
func BuildPrompt(entryCount int, profile *analysis.PatternProfile, latest *models.Memory) string {
	switch {
	case entryCount == 1:
		return buildWelcomePrompt(profile, latest)
	case entryCount == 5:
		return buildEarlyPatternPrompt(profile)
	case entryCount == 10:
		return buildDeeperPrompt(profile)
	default:
		return buildAdaptivePrompt(entryCount, profile)
	}
}

// buildWelcomePrompt 第1条记录的欢迎档
func buildWelcomePrompt(profile *analysis.PatternProfile, latest *models.Memory) string {
	title := "their first memory"
	if latest != nil && latest.Title != "" {
		title = fmt.Sprintf("a memory titled \"%s\"", latest.Title)
	}

	return fmt.Sprintf(`The user just wrote their very first journal entry: %s. The dominant emotion was "%s".

Write a warm welcome insight for them, requirements:
1.Between 60 and 80 words
2.Acknowledge this first step and the emotion they recorded
3.Gently encourage them to keep writing, without pressure
4.Do not mention statistics or patterns, there is only one entry`, title, profile.DominantEmotion)
}

// buildEarlyPatternPrompt 第5条记录的早期规律档
func buildEarlyPatternPrompt(profile *analysis.PatternProfile) string {
	topEmotion := profile.DominantEmotion
	topCount := 0
	if len(profile.Emotions) > 0 {
		topCount = profile.Emotions[0].Count
	}

	return fmt.Sprintf(`The user has written 5 journal entries. Their most frequent emotion is "%s" (%d of 5 entries) and their writing style is %s (about %.0f words per entry).

Write an early-pattern insight, requirements:
1.Between 80 and 100 words
2.Point out the emotion that keeps showing up and what that might mean
3.Mention their writing style as a budding habit
4.Stay curious and encouraging, never diagnostic`, topEmotion, topCount, profile.WritingStyle, profile.AvgWordCount)
}

// buildDeeperPrompt 第10条记录的深入分析档
func buildDeeperPrompt(profile *analysis.PatternProfile) string {
	themes := "no clear themes yet"
	if len(profile.Themes) > 0 {
		n := len(profile.Themes)
		if n > 3 {
			n = 3
		}
		themes = strings.Join(profile.Themes[:n], ", ")
	}

	streakNote := ""
	if profile.Temporal.CurrentStreak > 1 {
		streakNote = fmt.Sprintf("\n5.They are on a %d-day writing streak, acknowledge it", profile.Temporal.CurrentStreak)
	}

	return fmt.Sprintf(`The user has written 10 journal entries. Dominant emotion: "%s". They have used %d distinct emotions. Recurring themes: %s. Writing style: %s.

Write a deeper analysis insight, requirements:
1.Between 100 and 130 words
2.Reflect on the emotional range they have shown
3.Connect the recurring themes to what seems to matter in their life
4.Note their writing style without judging it%s`, profile.DominantEmotion, profile.Diversity, themes, profile.WritingStyle, streakNote)
}

// buildAdaptivePrompt 第15条起的自适应档，拼装7个标注块
func buildAdaptivePrompt(entryCount int, profile *analysis.PatternProfile) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("The user has written %d journal entries. Based on the following analysis, write one personal insight, between 120 and 150 words, one paragraph, no markdown.\n", entryCount))
	sb.WriteString(fmt.Sprintf("\nCONTEXT: %s\n", framingForCount(entryCount)))
	sb.WriteString(fmt.Sprintf("\nEMOTIONAL LANDSCAPE:\n%s", emotionalLandscape(profile)))
	sb.WriteString(fmt.Sprintf("\nCONNECTIONS ACROSS RECENT MEMORIES:\n%s", recentConnections(profile)))
	sb.WriteString(fmt.Sprintf("\nTEMPORAL PATTERN:\n%s", temporalNotes(profile)))
	sb.WriteString(fmt.Sprintf("\nEXPRESSION EVOLUTION:\n%s", expressionNotes(profile)))
	sb.WriteString(fmt.Sprintf("\nLIFE-AREA BALANCE:\n%s", lifeAreaNotes(profile)))
	sb.WriteString(fmt.Sprintf("\nGROWTH TRAJECTORY:\n%s", growthNotes(profile)))
	sb.WriteString(fmt.Sprintf("\nTONE DIRECTIVE: the user currently reads as %s; %s\n", empathyMode(profile), empathyDirective(empathyMode(profile))))

	return sb.String()
}

// framingForCount 按条目数档位给出语境框架
func framingForCount(entryCount int) string {
	switch {
	case entryCount >= 100:
		return "this is a long-term journaler with a deep archive; speak to them as someone who knows themselves well"
	case entryCount >= 50:
		return "journaling is clearly part of their life now; you can reference long-running patterns with confidence"
	case entryCount >= 30:
		return "the habit is established; patterns are reliable enough to name directly"
	case entryCount >= 20:
		return "the habit is taking hold; patterns are emerging but stay tentative about them"
	default:
		return "they are past the beginner stage; early patterns are visible but still forming"
	}
}

// emotionalLandscape 情绪全景块
func emotionalLandscape(profile *analysis.PatternProfile) string {
	var sb strings.Builder

	if len(profile.RecentMemories) > 0 {
		path := make([]string, 0, len(profile.RecentMemories))
		for _, d := range profile.RecentMemories {
			if d.Emotion != "" {
				path = append(path, d.Emotion)
			}
		}
		if len(path) > 0 {
			sb.WriteString(fmt.Sprintf("- recent emotional path: %s\n", strings.Join(path, " → ")))
		}
	}

	n := len(profile.Emotions)
	if n > 4 {
		n = 4
	}
	for _, e := range profile.Emotions[:n] {
		sb.WriteString(fmt.Sprintf("- %s: %.0f%% of entries\n", e.Emotion, e.Percent))
	}

	fn := len(profile.Families)
	if fn > 3 {
		fn = 3
	}
	for _, f := range profile.Families[:fn] {
		sb.WriteString(fmt.Sprintf("- family %s: %.0f%%\n", f.Family, f.Percent))
	}

	sb.WriteString(fmt.Sprintf("- overall shift: %s\n", profile.EmotionalShift))
	return sb.String()
}

// recentConnections 最近记忆之间的关联块
func recentConnections(profile *analysis.PatternProfile) string {
	if len(profile.RecentMemories) == 0 {
		return "- no recent memories available\n"
	}

	var sb strings.Builder
	themeCounts := make(map[string]int)
	for i, d := range profile.RecentMemories {
		for _, t := range d.Themes {
			themeCounts[t]++
		}
		if i > 0 {
			prev := profile.RecentMemories[i-1]
			if prev.Emotion != "" && d.Emotion != "" && prev.Emotion != d.Emotion {
				sb.WriteString(fmt.Sprintf("- moved from %s to %s between entries\n", d.Emotion, prev.Emotion))
			}
		}
	}
	for t, c := range themeCounts {
		if c > 1 {
			sb.WriteString(fmt.Sprintf("- theme \"%s\" recurs across %d recent entries\n", t, c))
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("- recent entries stand on their own, no strong links\n")
	}
	return sb.String()
}

// temporalNotes 时间规律块
func temporalNotes(profile *analysis.PatternProfile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("- most active in the %s, cadence: %s\n", profile.Temporal.ActiveTime, profile.Temporal.Cadence))
	if profile.Temporal.CurrentStreak > 1 {
		sb.WriteString(fmt.Sprintf("- current streak: %d days (longest ever: %d)\n", profile.Temporal.CurrentStreak, profile.Temporal.LongestStreak))
	}
	if profile.Silence.RecentGap {
		sb.WriteString(fmt.Sprintf("- there was a silence of up to %d days recently, treat it without guilt\n", profile.Silence.LongestGapDays))
	}
	return sb.String()
}

// expressionNotes 表达演变块
func expressionNotes(profile *analysis.PatternProfile) string {
	recentAvg := 0.0
	for _, d := range profile.RecentMemories {
		recentAvg += float64(d.WordCount)
	}
	if len(profile.RecentMemories) > 0 {
		recentAvg /= float64(len(profile.RecentMemories))
	}

	return fmt.Sprintf("- style: %s, average %.0f words, quality score %.0f/100, evolution: %s\n- recent entries average %.0f words vs %.0f overall\n",
		profile.WritingStyle, profile.AvgWordCount, profile.AvgQuality, profile.WritingEvolution, recentAvg, profile.AvgWordCount)
}

// lifeAreaNotes 生活领域平衡块
func lifeAreaNotes(profile *analysis.PatternProfile) string {
	areas := analysis.LifeAreas(profile.Themes)
	if len(areas) == 0 {
		return "- themes do not map to clear life areas yet\n"
	}

	var sb strings.Builder
	for _, area := range []string{"work", "relationships", "personal", "health", "leisure"} {
		if areas[area] > 0 {
			sb.WriteString(fmt.Sprintf("- %s: %d theme(s)\n", area, areas[area]))
		}
	}
	if analysis.WorkImbalance(areas) {
		sb.WriteString("- warning: work dominates with no leisure or health signal, gently surface this\n")
	}
	return sb.String()
}

// growthNotes 成长轨迹块，15条以上才有对比数据
func growthNotes(profile *analysis.PatternProfile) string {
	if profile.Comparison == nil {
		return "- not enough history for a past-vs-present comparison yet\n"
	}
	c := profile.Comparison
	return fmt.Sprintf("- emotional positivity: %.0f%% then vs %.0f%% now\n- average length: %.0f words then vs %.0f words now\n",
		c.PastPositivity*100, c.RecentPositivity*100, c.PastAvgWords, c.RecentAvgWords)
}

// empathyMode 根据最近3条情绪的积极/消极倾向选择共情模式
func empathyMode(profile *analysis.PatternProfile) string {
	positive, negative := 0, 0
	checked := 0
	for _, d := range profile.RecentMemories {
		if d.Family == "" {
			continue
		}
		if analysis.IsPositiveFamily(d.Family) {
			positive++
		} else {
			negative++
		}
		checked++
		if checked == 3 {
			break
		}
	}

	switch {
	case negative > positive:
		return EmpathyStruggling
	case positive > negative && negative == 0:
		return EmpathyThriving
	default:
		return EmpathyMixed
	}
}

func empathyDirective(mode string) string {
	switch mode {
	case EmpathyStruggling:
		return "lead with validation and softness, no cheerleading"
	case EmpathyThriving:
		return "celebrate with them and reinforce what is working"
	default:
		return "hold both the hard and the good without forcing a resolution"
	}
}
