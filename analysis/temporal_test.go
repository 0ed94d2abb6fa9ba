package analysis

import (
	"testing"
	"time"

	"MemoryFarmGo/models"

	"github.com/stretchr/testify/assert"
)

// dailyMemories 生成连续 n 天的记录，按时间倒序
func dailyMemories(n int) []models.Memory {
	memories := make([]models.Memory, 0, n)
	base := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < n; i++ {
		d := base.AddDate(0, 0, -i)
		memories = append(memories, models.Memory{
			ID:         d.Format("20060102"),
			Content:    "daily entry",
			MemoryDate: d,
			CreatedAt:  d.Add(20 * time.Hour), // 晚上写
		})
	}
	return memories
}

func TestStreaks(t *testing.T) {
	pattern := analyzeTemporal(dailyMemories(7))
	assert.Equal(t, 7, pattern.CurrentStreak)
	assert.Equal(t, 7, pattern.LongestStreak)
	assert.Equal(t, CadenceDaily, pattern.Cadence)

	// 中断后的当前连续天数从最近一段算起
	memories := dailyMemories(3)
	old := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, -10)
	memories = append(memories,
		models.Memory{ID: "old1", MemoryDate: old, CreatedAt: old},
		models.Memory{ID: "old2", MemoryDate: old.AddDate(0, 0, -1), CreatedAt: old},
	)
	pattern = analyzeTemporal(memories)
	assert.Equal(t, 3, pattern.CurrentStreak)
	assert.Equal(t, 3, pattern.LongestStreak)
}

func TestActiveTime(t *testing.T) {
	pattern := analyzeTemporal(dailyMemories(4))
	assert.Equal(t, "evening", pattern.ActiveTime)

	empty := analyzeTemporal(nil)
	assert.Equal(t, "anytime", empty.ActiveTime)
	assert.Equal(t, CadenceOccasional, empty.Cadence)
}

func TestAnalyzeSilence(t *testing.T) {
	// 连续记录无中断
	silence := analyzeSilence(dailyMemories(5))
	assert.False(t, silence.HasGap)
	assert.False(t, silence.RecentGap)

	// 最近记录之间有6天空档
	base := time.Now().Truncate(24 * time.Hour)
	memories := []models.Memory{
		{ID: "a", MemoryDate: base},
		{ID: "b", MemoryDate: base.AddDate(0, 0, -6)},
		{ID: "c", MemoryDate: base.AddDate(0, 0, -7)},
	}
	silence = analyzeSilence(memories)
	assert.True(t, silence.HasGap)
	assert.True(t, silence.RecentGap)
	assert.Equal(t, 6, silence.LongestGapDays)

	assert.False(t, analyzeSilence(nil).HasGap)
}
