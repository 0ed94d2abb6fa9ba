package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"MemoryFarmGo/models"
)

// 8个固定情绪家族，标签通过关键词正则归入唯一家族，无匹配则不参与家族统计
const (
	FamilyJoy      = "joy"
	FamilySadness  = "sadness"
	FamilyAnger    = "anger"
	FamilyFear     = "fear"
	FamilyLove     = "love"
	FamilySurprise = "surprise"
	FamilyCalm     = "calm"
	FamilyAnxiety  = "anxiety"
)

var emotionFamilies = []string{
	FamilyJoy, FamilySadness, FamilyAnger, FamilyFear,
	FamilyLove, FamilySurprise, FamilyCalm, FamilyAnxiety,
}

// 家族关键词表，按声明顺序匹配，命中即归入
var familyPatterns = []struct {
	family  string
	pattern *regexp.Regexp
}{
	{FamilyJoy, regexp.MustCompile(`(?i)happ|joy|excit|delight|cheer|grate|thrill|proud|amus|optimis|playful`)},
	{FamilySadness, regexp.MustCompile(`(?i)sad|down|depress|gloom|grie|lonel|melanchol|disappoint|hopeless|hurt`)},
	{FamilyAnger, regexp.MustCompile(`(?i)ang|mad|furious|annoy|frustrat|irritat|rage|resent|bitter`)},
	{FamilyFear, regexp.MustCompile(`(?i)afraid|fear|scare|terrif|dread|panic|insecure`)},
	{FamilyLove, regexp.MustCompile(`(?i)love|affection|caring|tender|romantic|cherish|warmth`)},
	{FamilySurprise, regexp.MustCompile(`(?i)surpris|amaz|astonish|shock|wonder|awe|curious`)},
	{FamilyCalm, regexp.MustCompile(`(?i)calm|peace|relax|seren|tranquil|content|reliev|grounded`)},
	{FamilyAnxiety, regexp.MustCompile(`(?i)anxi|nervous|stress|worri|tense|overwhelm|uneas|restless`)},
}

// 积极家族，用于积极度占比和共情模式判断
var positiveFamilies = map[string]bool{
	FamilyJoy:      true,
	FamilyLove:     true,
	FamilyCalm:     true,
	FamilySurprise: true,
}

func init() {
	// 启动时校验关键词表覆盖且仅覆盖固定家族集合
	seen := make(map[string]bool)
	for _, fp := range familyPatterns {
		seen[fp.family] = true
	}
	if len(seen) != len(emotionFamilies) {
		panic(fmt.Sprintf("家族关键词表不完整: %d/%d", len(seen), len(emotionFamilies)))
	}
	for _, f := range emotionFamilies {
		if !seen[f] {
			panic(fmt.Sprintf("家族关键词表缺少: %s", f))
		}
	}
}

// FamilyOf 返回情绪标签归属的家族，无匹配返回空串
func FamilyOf(emotion string) string {
	if emotion == "" {
		return ""
	}
	for _, fp := range familyPatterns {
		if fp.pattern.MatchString(emotion) {
			return fp.family
		}
	}
	return ""
}

// IsPositiveFamily 家族是否属于积极方向
func IsPositiveFamily(family string) bool {
	return positiveFamilies[family]
}

// analyzeEmotions 计算情绪分布、家族分布、主导情绪与多样性
// memories 按时间倒序，recentCount 为里程碑窗口内的条数
func analyzeEmotions(memories []models.Memory, recentCount int) ([]EmotionStat, []FamilyStat, string, string, int) {
	counts := make(map[string]int)
	recentCounts := make(map[string]int)
	familyCounts := make(map[string]int)
	familyTotal := 0
	total := 0

	for i, m := range memories {
		if m.Emotion == "" {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(m.Emotion))
		counts[label]++
		total++
		if i < recentCount {
			recentCounts[label]++
		}
		if f := FamilyOf(label); f != "" {
			familyCounts[f]++
			familyTotal++
		}
	}

	if total == 0 {
		return nil, nil, DefaultEmotion, "", 0
	}

	stats := make([]EmotionStat, 0, len(counts))
	for label, c := range counts {
		overallShare := float64(c) / float64(total)
		recentShare := 0.0
		if recentCount > 0 {
			recentShare = float64(recentCounts[label]) / float64(recentCount)
		}
		trend := "stable"
		if recentShare > overallShare {
			trend = "increasing"
		}
		stats = append(stats, EmotionStat{
			Emotion:     label,
			Count:       c,
			Percent:     overallShare * 100,
			RecentCount: recentCounts[label],
			Trend:       trend,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Emotion < stats[j].Emotion
	})

	families := make([]FamilyStat, 0, len(familyCounts))
	for f, c := range familyCounts {
		families = append(families, FamilyStat{
			Family:  f,
			Count:   c,
			Percent: float64(c) / float64(familyTotal) * 100,
		})
	}
	sort.Slice(families, func(i, j int) bool {
		if families[i].Count != families[j].Count {
			return families[i].Count > families[j].Count
		}
		return families[i].Family < families[j].Family
	})

	dominantFamily := ""
	if len(families) > 0 {
		dominantFamily = families[0].Family
	}

	return stats, families, stats[0].Emotion, dominantFamily, len(counts)
}

// analyzeShift 比较全历史与里程碑窗口内的主导家族
// 不同则返回 "familyA → familyB"，相同或无法判断则返回稳定描述
func analyzeShift(memories []models.Memory, recentCount int, overallFamily string) string {
	if overallFamily == "" {
		return "steady"
	}

	recentFamilyCounts := make(map[string]int)
	for i, m := range memories {
		if i >= recentCount {
			break
		}
		if f := FamilyOf(strings.ToLower(m.Emotion)); f != "" {
			recentFamilyCounts[f]++
		}
	}
	recentFamily := ""
	best := 0
	for f, c := range recentFamilyCounts {
		if c > best || (c == best && f < recentFamily) {
			recentFamily = f
			best = c
		}
	}

	if recentFamily == "" || recentFamily == overallFamily {
		return "steady"
	}
	return fmt.Sprintf("%s → %s", overallFamily, recentFamily)
}

// analyzeVelocity 基于最近10条记录相邻情绪是否相同的比例判断变化速率
func analyzeVelocity(memories []models.Memory) string {
	labels := make([]string, 0, 10)
	for _, m := range memories {
		if m.Emotion == "" {
			continue
		}
		labels = append(labels, strings.ToLower(strings.TrimSpace(m.Emotion)))
		if len(labels) == 10 {
			break
		}
	}
	if len(labels) < 2 {
		return VelocityStable
	}

	changes := 0
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			changes++
		}
	}
	ratio := float64(changes) / float64(len(labels)-1)

	switch {
	case ratio >= 0.7:
		return VelocityRapid
	case ratio >= 0.4:
		return VelocityModerate
	case ratio > 0.15:
		return VelocitySlow
	default:
		return VelocityStable
	}
}
