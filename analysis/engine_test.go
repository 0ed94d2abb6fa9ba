package analysis

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"MemoryFarmGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviousMilestone(t *testing.T) {
	cases := map[int]int{
		1:   0,
		5:   1,
		10:  5,
		15:  10,
		50:  45,
		55:  50,
		100: 95,
		7:   2,
		3:   0,
		17:  12,
	}
	for count, expected := range cases {
		assert.Equal(t, expected, PreviousMilestone(count), "count %d", count)
	}
}

func TestBuildProfileFromMemoriesEmpty(t *testing.T) {
	profile := BuildProfileFromMemories(nil, 1)

	require.NotNil(t, profile)
	assert.Equal(t, DefaultEmotion, profile.DominantEmotion)
	assert.Equal(t, 0, profile.Diversity)
	assert.Equal(t, 0, profile.TotalEntries)
	assert.Equal(t, StyleBrief, profile.WritingStyle)
	assert.Equal(t, VelocityStable, profile.EmotionalVelocity)
	assert.Nil(t, profile.Comparison)
	assert.Empty(t, profile.RecentMemories)
}

func TestBuildProfileFromMemories(t *testing.T) {
	base := time.Now().Truncate(24 * time.Hour)
	memories := make([]models.Memory, 0, 10)
	for i := 0; i < 10; i++ {
		emotion := "happy"
		if i%3 == 0 {
			emotion = "anxious"
		}
		memories = append(memories, models.Memory{
			ID:         fmt.Sprintf("m%d", i),
			Emotion:    emotion,
			Content:    "Spent the morning working on the garden project and felt pretty good about the slow progress we are making out there.",
			MemoryDate: base.AddDate(0, 0, -i),
			CreatedAt:  base.AddDate(0, 0, -i).Add(9 * time.Hour),
		})
	}

	profile := BuildProfileFromMemories(memories, 10)

	assert.Equal(t, 10, profile.TotalEntries)
	assert.Equal(t, "happy", profile.DominantEmotion)
	assert.Equal(t, FamilyJoy, profile.DominantFamily)
	assert.Equal(t, 2, profile.Diversity)
	assert.Equal(t, 10, profile.Temporal.CurrentStreak)
	assert.Equal(t, "morning", profile.Temporal.ActiveTime)
	assert.Len(t, profile.RecentMemories, 5)
	// 不足15条不做前后对比
	assert.Nil(t, profile.Comparison)

	digest := profile.RecentMemories[0]
	assert.Equal(t, "anxious", digest.Emotion)
	assert.Equal(t, FamilyAnxiety, digest.Family)
	assert.LessOrEqual(t, len(strings.Fields(digest.Summary)), 21)
	assert.Greater(t, digest.Quality, 0.0)
}

func TestBuildProfileComparison(t *testing.T) {
	base := time.Now().Truncate(24 * time.Hour)
	memories := make([]models.Memory, 0, 16)
	for i := 0; i < 16; i++ {
		// 前半积极，后半消极
		emotion := "happy"
		if i >= 8 {
			emotion = "sad"
		}
		memories = append(memories, models.Memory{
			ID:         fmt.Sprintf("m%d", i),
			Emotion:    emotion,
			Content:    "a quiet day with nothing much to report",
			MemoryDate: base.AddDate(0, 0, -i),
			CreatedAt:  base.AddDate(0, 0, -i),
		})
	}

	profile := BuildProfileFromMemories(memories, 16)

	require.NotNil(t, profile.Comparison)
	assert.InDelta(t, 1.0, profile.Comparison.RecentPositivity, 0.01)
	assert.InDelta(t, 0.0, profile.Comparison.PastPositivity, 0.01)
}
