package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"MemoryFarmGo/analysis"
	"MemoryFarmGo/config"
	"MemoryFarmGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 每个测试一个独立的内存库
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Insight{}, &models.Memory{}))
	config.DB = db
	config.RedisClient = nil
}

func createTestUser(t *testing.T, id string) *models.User {
	t.Helper()
	user := models.User{
		ID:                id,
		Username:          "tester",
		AIInsightsEnabled: true,
		CreatedAt:         time.Now(),
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return &user
}

func createTestMemories(t *testing.T, userID string, count int) {
	t.Helper()
	base := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		m := models.Memory{
			ID:         fmt.Sprintf("%s-m%d", userID, i),
			UserID:     userID,
			Title:      fmt.Sprintf("Day %d", i),
			Content:    "Went for a long walk after work and felt the week finally loosen its grip a little.",
			Emotion:    "calm",
			MemoryDate: base.AddDate(0, 0, -i),
			CreatedAt:  base.AddDate(0, 0, -i),
		}
		require.NoError(t, config.DB.Create(&m).Error)
	}
}

func newTestService(primaryFail, secondaryFail bool) (*InsightService, *stubProvider, *stubProvider) {
	o, primary, secondary := newTestOrchestrator(primaryFail, secondaryFail)
	return NewInsightService(o), primary, secondary
}

func TestGenerateInsightForUser(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	createTestMemories(t, "u1", 10)
	svc, primary, _ := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "u1-m0")

	require.NoError(t, err)
	require.NotNil(t, insight)
	assert.Equal(t, "u1", insight.UserID)
	assert.Equal(t, 10, insight.TriggerCount)
	assert.Equal(t, ProviderDeepseek, insight.Model)
	assert.Equal(t, models.InsightTypeWritingPattern, insight.Type)
	assert.Equal(t, "Your Writing Voice", insight.Title)
	assert.NotEmpty(t, insight.Message)
	assert.True(t, insight.IsVisible)
	assert.Equal(t, 1, primary.calls)

	var user models.User
	require.NoError(t, config.DB.Where("id = ?", "u1").First(&user).Error)
	assert.Equal(t, 1, user.NotificationCount)
	assert.NotNil(t, user.LastNotifiedAt)
}

func TestGenerateInsightIdempotent(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	createTestMemories(t, "u1", 10)
	svc, primary, _ := newTestService(false, false)

	first, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Message, second.Message)
	// 第二次调用不再触发模型
	assert.Equal(t, 1, primary.calls)
}

func TestGenerateInsightStaticFallback(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	createTestMemories(t, "u1", 10)
	svc, _, _ := newTestService(true, true)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")

	require.NoError(t, err)
	require.NotNil(t, insight)
	assert.Equal(t, ProviderStatic, insight.Model)
	assert.NotEmpty(t, insight.Message)
	assert.NotEmpty(t, insight.FallbackReason)
	assert.Greater(t, insight.WordCount, 0)
}

func TestGenerateInsightPreferenceDisabled(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "u1")
	require.NoError(t, config.DB.Model(user).Update("ai_insights_enabled", false).Error)
	svc, primary, secondary := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")

	assert.NoError(t, err)
	assert.Nil(t, insight)
	assert.Equal(t, 0, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestGenerateInsightUnknownUser(t *testing.T) {
	setupTestDB(t)
	svc, _, _ := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "ghost", 10, "")

	assert.NoError(t, err)
	assert.Nil(t, insight)
}

func TestGenerateInsightStreakClassification(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	// 12不是里程碑表条目，连续12天触发连续记录分类
	createTestMemories(t, "u1", 12)
	svc, _, _ := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 12, "")

	require.NoError(t, err)
	require.NotNil(t, insight)
	assert.Equal(t, models.InsightTypeStreak, insight.Type)
	assert.Equal(t, "12-Day Streak", insight.Title)
}

func TestRegenerateInsightQuota(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	createTestMemories(t, "u1", 10)
	svc, _, _ := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")
	require.NoError(t, err)
	require.NotNil(t, insight)

	// 月度配额3次，逐次递减
	for i, wantRemaining := range []int{2, 1, 0} {
		outcome, err := svc.RegenerateInsight(context.Background(), insight.ID, "u1")
		require.NoError(t, err, "regen %d", i+1)
		require.NotNil(t, outcome)
		assert.False(t, outcome.Declined)
		assert.Equal(t, wantRemaining, outcome.Remaining)
		assert.Equal(t, i+1, outcome.Insight.RegenerateCount)
	}

	outcome, err := svc.RegenerateInsight(context.Background(), insight.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Declined)
	assert.Equal(t, DeclineMonthlyLimit, outcome.DeclineReason)
	assert.Equal(t, 0, outcome.Remaining)
}

func TestRegenerateInsightPerInsightCap(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	createTestMemories(t, "u1", 10)
	svc, _, _ := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")
	require.NoError(t, err)
	require.NoError(t, config.DB.Model(insight).Update("regenerate_count", MaxRegeneratePerInsight).Error)

	outcome, err := svc.RegenerateInsight(context.Background(), insight.ID, "u1")

	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Declined)
	assert.Equal(t, DeclineInsightLimit, outcome.DeclineReason)
}

func TestRegenerateInsightMonthlyReset(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "u1")
	createTestMemories(t, "u1", 10)
	svc, _, _ := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")
	require.NoError(t, err)

	// 上个月用满配额，自然月切换后清零
	require.NoError(t, config.DB.Model(user).Updates(map[string]interface{}{
		"monthly_regen_count": MaxRegeneratePerMonth,
		"monthly_regen_month": "2000-01",
	}).Error)

	outcome, err := svc.RegenerateInsight(context.Background(), insight.ID, "u1")

	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.False(t, outcome.Declined)
	assert.Equal(t, MaxRegeneratePerMonth-1, outcome.Remaining)

	var fresh models.User
	require.NoError(t, config.DB.Where("id = ?", "u1").First(&fresh).Error)
	assert.Equal(t, 1, fresh.MonthlyRegenCount)
	assert.Equal(t, time.Now().Format("2006-01"), fresh.MonthlyRegenMonth)
}

func TestRegenerateInsightWrongOwner(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	createTestUser(t, "u2")
	createTestMemories(t, "u1", 10)
	svc, _, _ := newTestService(false, false)

	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")
	require.NoError(t, err)

	outcome, err := svc.RegenerateInsight(context.Background(), insight.ID, "u2")

	assert.NoError(t, err)
	assert.Nil(t, outcome)
}

func TestRegenerateStaticInsightRunsCascade(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	createTestMemories(t, "u1", 10)

	// 第一次两个模型都挂了，落到静态兜底
	svc, primary, secondary := newTestService(true, true)
	insight, err := svc.GenerateInsightForUser(context.Background(), "u1", 10, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderStatic, insight.Model)

	// 模型恢复后重新生成走完整级联
	primary.fail = false
	secondary.fail = false
	svc.orchestrator.health.lastFailure = time.Time{}

	outcome, err := svc.RegenerateInsight(context.Background(), insight.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.False(t, outcome.Declined)
	assert.Equal(t, ProviderDeepseek, outcome.Insight.Model)
	assert.Empty(t, outcome.Insight.FallbackReason)
}

func TestGetUserDashboardInsights(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	base := time.Now()
	for i := 0; i < 3; i++ {
		insight := models.Insight{
			ID:           fmt.Sprintf("i%d", i),
			UserID:       "u1",
			TriggerCount: (i + 1) * 10,
			Message:      "message",
			IsVisible:    true,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, config.DB.Create(&insight).Error)
	}
	require.NoError(t, config.DB.Model(&models.Insight{ID: "i0"}).Update("is_visible", false).Error)
	svc, _, _ := newTestService(false, false)

	insights, err := svc.GetUserDashboardInsights("u1", 10)

	require.NoError(t, err)
	require.Len(t, insights, 2)
	// 按创建时间倒序，隐藏的不返回
	assert.Equal(t, "i2", insights[0].ID)
	assert.Equal(t, "i1", insights[1].ID)
}

func TestMarkInsightRead(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	insight := models.Insight{ID: "i1", UserID: "u1", TriggerCount: 10, IsVisible: true, CreatedAt: time.Now()}
	require.NoError(t, config.DB.Create(&insight).Error)
	svc, _, _ := newTestService(false, false)

	updated, err := svc.MarkInsightRead("i1", "u1")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.IsRead)
	require.NotNil(t, updated.ReadAt)

	// 已读后重复标记不报错
	again, err := svc.MarkInsightRead("i1", "u1")
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	// 非本人返回 nil
	other, err := svc.MarkInsightRead("i1", "u2")
	assert.NoError(t, err)
	assert.Nil(t, other)
}

func TestToggleInsightFavorite(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "u1")
	insight := models.Insight{ID: "i1", UserID: "u1", TriggerCount: 10, IsVisible: true, CreatedAt: time.Now()}
	require.NoError(t, config.DB.Create(&insight).Error)
	svc, _, _ := newTestService(false, false)

	updated, err := svc.ToggleInsightFavorite("i1", "u1")
	require.NoError(t, err)
	assert.True(t, updated.IsFavorite)
	assert.NotNil(t, updated.FavoritedAt)

	updated, err = svc.ToggleInsightFavorite("i1", "u1")
	require.NoError(t, err)
	assert.False(t, updated.IsFavorite)
}

func TestClampMessage(t *testing.T) {
	short := "fits fine"
	assert.Equal(t, short, clampMessage(short))

	long := strings.Repeat("あ", 600)
	clamped := clampMessage(long)
	assert.Equal(t, MaxMessageLength, len([]rune(clamped)))
	assert.True(t, strings.HasSuffix(clamped, "."))
}

func TestClassify(t *testing.T) {
	profile := &analysis.PatternProfile{}

	c := classify(50, profile)
	assert.Equal(t, models.InsightTypeMilestone, c.Type)
	assert.Equal(t, "Fifty Memories", c.Title)
	assert.Equal(t, 5, c.Priority)

	profile.Temporal.CurrentStreak = 8
	c = classify(13, profile)
	assert.Equal(t, models.InsightTypeStreak, c.Type)
	assert.Equal(t, "8-Day Streak", c.Title)

	profile.Temporal.CurrentStreak = 2
	c = classify(13, profile)
	assert.Equal(t, models.InsightTypeEmotionPattern, c.Type)
	assert.Equal(t, models.InsightCategoryEncouragement, c.Category)
}
