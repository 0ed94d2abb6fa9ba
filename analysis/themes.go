package analysis

import (
	"sort"
	"strings"

	"MemoryFarmGo/models"
)

// TopThemeCount 画像中保留的主题词数量
const TopThemeCount = 5

// 停用词表
var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"before": true, "being": true, "could": true, "did": true, "didn": true,
	"does": true, "doing": true, "down": true, "even": true, "every": true,
	"felt": true, "feel": true, "feeling": true, "from": true, "going": true,
	"have": true, "haven": true, "her": true, "here": true, "him": true,
	"his": true, "how": true, "into": true, "just": true, "like": true,
	"made": true, "make": true, "more": true, "most": true, "much": true,
	"never": true, "only": true, "other": true, "over": true, "really": true,
	"said": true, "same": true, "should": true, "since": true, "some": true,
	"something": true, "still": true, "such": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "thing": true, "things": true, "think": true, "this": true,
	"those": true, "through": true, "time": true, "today": true, "very": true,
	"want": true, "wanted": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "will": true, "with": true,
	"would": true, "your": true, "because": true, "myself": true, "might": true,
}

// 生活领域关键词表，用于主题归类
var lifeAreaKeywords = map[string][]string{
	"work":          {"work", "job", "meeting", "project", "deadline", "boss", "office", "career", "client", "interview", "promotion"},
	"relationships": {"friend", "family", "mother", "father", "partner", "wife", "husband", "brother", "sister", "relationship", "date", "parents"},
	"personal":      {"goal", "learning", "reading", "growth", "habit", "journal", "reflection", "plan", "dream", "study"},
	"health":        {"sleep", "exercise", "doctor", "workout", "running", "diet", "tired", "sick", "therapy", "meditation", "gym"},
	"leisure":       {"travel", "movie", "music", "game", "hiking", "cooking", "vacation", "party", "concert", "beach", "hobby"},
}

// tokenize 切词并过滤停用词和短词
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) < 4 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ExtractThemes 从文本中提取出现最多的主题词
func ExtractThemes(text string, topN int) []string {
	counts := make(map[string]int)
	for _, w := range tokenize(text) {
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > topN {
		words = words[:topN]
	}
	return words
}

// analyzeThemes 汇总全部记忆文本提取主题
func analyzeThemes(memories []models.Memory) []string {
	var sb strings.Builder
	for _, m := range memories {
		sb.WriteString(m.Content)
		sb.WriteString(" ")
	}
	return ExtractThemes(sb.String(), TopThemeCount)
}

// LifeAreas 将主题词归入生活领域并计数
func LifeAreas(themes []string) map[string]int {
	areas := make(map[string]int)
	for _, theme := range themes {
		for area, keywords := range lifeAreaKeywords {
			for _, kw := range keywords {
				if theme == kw || strings.HasPrefix(theme, kw) {
					areas[area]++
				}
			}
		}
	}
	return areas
}

// WorkImbalance 工作主题占据主导且完全没有休闲和健康信号
func WorkImbalance(areas map[string]int) bool {
	if areas["work"] == 0 {
		return false
	}
	for area, c := range areas {
		if area != "work" && c >= areas["work"] {
			return false
		}
	}
	return areas["leisure"] == 0 && areas["health"] == 0
}
