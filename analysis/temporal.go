package analysis

import (
	"time"

	"MemoryFarmGo/models"
)

// SilenceGapDays 超过该天数即视为记录中断
const SilenceGapDays = 2

// timeBucket 按创建时间划分时段
func timeBucket(t time.Time) string {
	h := t.Hour()
	switch {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 18:
		return "afternoon"
	case h >= 18 && h < 23:
		return "evening"
	default:
		return "night"
	}
}

// analyzeTemporal 计算主导时段、记录节奏与连续记录天数
// memories 按时间倒序
func analyzeTemporal(memories []models.Memory) TemporalPattern {
	if len(memories) == 0 {
		return TemporalPattern{ActiveTime: "anytime", Cadence: CadenceOccasional}
	}

	// 主导时段
	buckets := make(map[string]int)
	for _, m := range memories {
		buckets[timeBucket(m.CreatedAt)]++
	}
	activeTime := ""
	best := 0
	for b, c := range buckets {
		if c > best || (c == best && b < activeTime) {
			activeTime = b
			best = c
		}
	}

	days := uniqueDays(memories)
	current, longest := streaks(days)

	return TemporalPattern{
		ActiveTime:    activeTime,
		Cadence:       cadence(days),
		CurrentStreak: current,
		LongestStreak: longest,
	}
}

// uniqueDays 提取去重后的记录日期，按时间倒序
func uniqueDays(memories []models.Memory) []time.Time {
	seen := make(map[string]bool)
	days := make([]time.Time, 0, len(memories))
	for _, m := range memories {
		d := m.MemoryDate.Truncate(24 * time.Hour)
		key := d.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, d)
	}
	return days
}

// cadence 按相邻记录日的平均间隔划分节奏
func cadence(days []time.Time) string {
	if len(days) < 2 {
		return CadenceOccasional
	}
	span := days[0].Sub(days[len(days)-1]).Hours() / 24
	avgGap := span / float64(len(days)-1)
	switch {
	case avgGap <= 1.5:
		return CadenceDaily
	case avgGap <= 3:
		return CadenceFrequent
	case avgGap <= 7:
		return CadenceRegular
	default:
		return CadenceOccasional
	}
}

// streaks 计算当前连续天数与历史最长连续天数
func streaks(days []time.Time) (int, int) {
	if len(days) == 0 {
		return 0, 0
	}

	current := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]).Hours() <= 24 {
			current++
		} else {
			break
		}
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]).Hours() <= 24 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return current, longest
}

// analyzeSilence 检测记录间隔
func analyzeSilence(memories []models.Memory) SilencePattern {
	if len(memories) < 2 {
		return SilencePattern{}
	}

	result := SilencePattern{}
	for i := 1; i < len(memories); i++ {
		gap := int(memories[i-1].MemoryDate.Sub(memories[i].MemoryDate).Hours() / 24)
		if gap > SilenceGapDays {
			result.HasGap = true
			if i < 5 {
				result.RecentGap = true
			}
		}
		if gap > result.LongestGapDays {
			result.LongestGapDays = gap
		}
	}
	return result
}
