package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"MemoryFarmGo/analysis"
	"MemoryFarmGo/config"
	"MemoryFarmGo/models"
	"MemoryFarmGo/utils"

	"gorm.io/gorm"
)

// 重新生成配额与消息长度限制
const (
	MaxRegeneratePerInsight = 3
	MaxRegeneratePerMonth   = 3
	MaxMessageLength        = 500

	profileCacheTTL = 10 * time.Minute
)

// 重新生成被拒绝的原因
const (
	DeclineMonthlyLimit = "monthly_limit"
	DeclineInsightLimit = "insight_limit"
)

// RegenerateOutcome 重新生成的结果
// 配额不足按声明式拒绝返回，不作为错误抛出
type RegenerateOutcome struct {
	Insight       *models.Insight
	Declined      bool
	DeclineReason string
	Remaining     int
}

type InsightService struct {
	orchestrator *Orchestrator
}

func NewInsightService(orchestrator *Orchestrator) *InsightService {
	return &InsightService{orchestrator: orchestrator}
}

// classification 洞察分类元数据
type classification struct {
	Type     string
	Category string
	Title    string
	Icon     string
	Color    string
	Priority int
}

// 里程碑分类表
var milestoneClassifications = map[int]classification{
	1:   {models.InsightTypeMilestone, models.InsightCategoryAchievement, "First Memory", "🌱", "#4CAF50", 4},
	5:   {models.InsightTypeEmotionPattern, models.InsightCategoryDiscovery, "Early Patterns", "🔍", "#2196F3", 3},
	10:  {models.InsightTypeWritingPattern, models.InsightCategoryDiscovery, "Your Writing Voice", "✍️", "#9C27B0", 3},
	15:  {models.InsightTypeMilestone, models.InsightCategoryAchievement, "Habit Forming", "📈", "#FF9800", 3},
	20:  {models.InsightTypeConsistency, models.InsightCategoryTrend, "Staying Steady", "🧭", "#00BCD4", 3},
	25:  {models.InsightTypeMilestone, models.InsightCategoryAchievement, "Quarter Century", "🏅", "#FFC107", 4},
	30:  {models.InsightTypeDiversity, models.InsightCategoryDiscovery, "Emotional Range", "🎨", "#E91E63", 3},
	50:  {models.InsightTypeMilestone, models.InsightCategoryAchievement, "Fifty Memories", "🏆", "#FF5722", 5},
	100: {models.InsightTypeMilestone, models.InsightCategoryAchievement, "One Hundred", "💎", "#3F51B5", 5},
}

// classify 选择分类元数据，非里程碑看连续天数，最后落到通用条目
func classify(entryCount int, profile *analysis.PatternProfile) classification {
	if c, ok := milestoneClassifications[entryCount]; ok {
		return c
	}
	if profile.Temporal.CurrentStreak >= 7 {
		return classification{
			Type:     models.InsightTypeStreak,
			Category: models.InsightCategoryEncouragement,
			Title:    fmt.Sprintf("%d-Day Streak", profile.Temporal.CurrentStreak),
			Icon:     "🔥",
			Color:    "#FF5722",
			Priority: 4,
		}
	}
	return classification{
		Type:     models.InsightTypeEmotionPattern,
		Category: models.InsightCategoryEncouragement,
		Title:    "A Note From Your Memories",
		Icon:     "💬",
		Color:    "#607D8B",
		Priority: 2,
	}
}

// GenerateInsightForUser 为用户生成新洞察
// 同一 (userID, entryCount) 只生成一次，重复调用返回已有记录
// 存储读取失败或用户关闭AI洞察时返回 nil，不向调用方抛错
func (s *InsightService) GenerateInsightForUser(ctx context.Context, userID string, entryCount int, triggerMemoryID string) (*models.Insight, error) {
	// 幂等检查
	var existing models.Insight
	err := config.DB.Where("user_id = ? AND trigger_count = ?", userID, entryCount).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		config.Logger.Errorw("查询已有洞察失败", "error", err, "uid", userID, "entryCount", entryCount)
		return nil, nil
	}

	// 用户偏好检查
	var user models.User
	if err := config.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", userID)
		return nil, nil
	}
	if !user.AIInsightsEnabled {
		config.Logger.Debugw("用户已关闭AI洞察", "uid", userID)
		return nil, nil
	}

	profile := s.loadProfile(ctx, userID, entryCount)
	if profile == nil {
		return nil, nil
	}

	// 欢迎档需要最新一条记忆的标题
	var latest *models.Memory
	var m models.Memory
	if err := config.DB.Where("user_id = ?", userID).
		Order("memory_date desc, created_at desc").First(&m).Error; err == nil {
		latest = &m
	}

	prompt := BuildPrompt(entryCount, profile, latest)

	result, err := s.orchestrator.Generate(ctx, prompt, entryCount)
	if err != nil {
		// 级联全部失败，落到静态兜底生成器
		config.Logger.Warnw("生成级联失败，使用静态兜底", "error", err, "uid", userID, "entryCount", entryCount)
		result = staticResult(entryCount, profile, err)
	}
	result.Text = clampMessage(result.Text)

	c := classify(entryCount, profile)
	now := time.Now()
	insight := models.Insight{
		ID:               utils.GenerateID(),
		UserID:           userID,
		TriggerCount:     entryCount,
		TriggerMemoryID:  triggerMemoryID,
		Type:             c.Type,
		Category:         c.Category,
		Title:            c.Title,
		Message:          result.Text,
		Icon:             c.Icon,
		Color:            c.Color,
		Priority:         c.Priority,
		IsVisible:        true,
		Model:            result.Provider,
		TokensUsed:       result.TokensUsed,
		Cost:             result.Cost,
		GenerationTimeMs: result.GenerationTimeMs,
		WordCount:        result.WordCount,
		Truncated:        result.Truncated,
		FallbackReason:   result.FallbackReason,
		CreatedAt:        now,
		LastModified:     now,
	}

	if err := config.DB.Create(&insight).Error; err != nil {
		// 并发请求绕过幂等检查时会撞唯一索引，回读已有记录
		var raced models.Insight
		if ferr := config.DB.Where("user_id = ? AND trigger_count = ?", userID, entryCount).First(&raced).Error; ferr == nil {
			return &raced, nil
		}
		config.Logger.Errorw("存储洞察失败", "error", err, "uid", userID, "entryCount", entryCount)
		return nil, nil
	}

	s.recordUsage(&user, result, now)

	config.Logger.Infow("洞察生成完成",
		"uid", userID,
		"entryCount", entryCount,
		"model", result.Provider,
		"wordCount", result.WordCount,
	)
	return &insight, nil
}

// RegenerateInsight 重新生成洞察
// 非本人或不存在返回 nil；配额不足返回声明式拒绝
func (s *InsightService) RegenerateInsight(ctx context.Context, insightID, userID string) (*RegenerateOutcome, error) {
	var insight models.Insight
	err := config.DB.Where("id = ?", insightID).First(&insight).Error
	if err != nil || insight.UserID != userID {
		return nil, nil
	}

	var user models.User
	if err := config.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", userID)
		return nil, nil
	}

	// 月度配额，自然月切换时清零
	month := time.Now().Format("2006-01")
	monthlyCount := user.MonthlyRegenCount
	if user.MonthlyRegenMonth != month {
		monthlyCount = 0
	}
	if monthlyCount >= MaxRegeneratePerMonth {
		return &RegenerateOutcome{Declined: true, DeclineReason: DeclineMonthlyLimit, Remaining: 0}, nil
	}

	// 单条洞察配额
	if insight.RegenerateCount >= MaxRegeneratePerInsight {
		return &RegenerateOutcome{Declined: true, DeclineReason: DeclineInsightLimit, Remaining: 0}, nil
	}

	// 历史可能已经变化，画像重新计算，不走缓存
	profile, err := analysis.BuildProfile(userID, insight.TriggerCount)
	if err != nil {
		config.Logger.Errorw("重建画像失败", "error", err, "uid", userID)
		return nil, nil
	}
	s.cacheProfile(ctx, userID, insight.TriggerCount, profile)

	prompt := BuildPrompt(insight.TriggerCount, profile, nil)

	result, err := s.orchestrator.Regenerate(ctx, prompt, insight.TriggerCount, insight.Model)
	if err != nil {
		config.Logger.Warnw("重新生成级联失败，使用静态兜底", "error", err, "uid", userID, "insightID", insightID)
		result = staticResult(insight.TriggerCount, profile, err)
	}
	result.Text = clampMessage(result.Text)

	now := time.Now()
	updates := map[string]interface{}{
		"message":            result.Text,
		"model":              result.Provider,
		"tokens_used":        result.TokensUsed,
		"cost":               result.Cost,
		"generation_time_ms": result.GenerationTimeMs,
		"word_count":         result.WordCount,
		"truncated":          result.Truncated,
		"fallback_reason":    result.FallbackReason,
		"regenerate_count":   insight.RegenerateCount + 1,
		"last_modified":      now,
	}
	if err := config.DB.Model(&insight).Updates(updates).Error; err != nil {
		config.Logger.Errorw("更新洞察失败", "error", err, "insightID", insightID)
		return nil, nil
	}

	// 整个操作成功后才消耗月度配额
	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"monthly_regen_count": monthlyCount + 1,
		"monthly_regen_month": month,
	}).Error; err != nil {
		config.Logger.Errorw("更新月度配额失败", "error", err, "uid", userID)
	}
	s.recordUsage(&user, result, now)

	insight.Message = result.Text
	insight.Model = result.Provider
	insight.TokensUsed = result.TokensUsed
	insight.Cost = result.Cost
	insight.GenerationTimeMs = result.GenerationTimeMs
	insight.WordCount = result.WordCount
	insight.Truncated = result.Truncated
	insight.FallbackReason = result.FallbackReason
	insight.RegenerateCount++
	insight.LastModified = now

	return &RegenerateOutcome{
		Insight:   &insight,
		Remaining: MaxRegeneratePerMonth - monthlyCount - 1,
	}, nil
}

// GetUserDashboardInsights 查询用户可见的洞察列表
func (s *InsightService) GetUserDashboardInsights(userID string, limit int) ([]models.Insight, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var insights []models.Insight
	err := config.DB.Where("user_id = ? AND is_visible = ?", userID, true).
		Order("created_at desc").
		Limit(limit).
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

// MarkInsightRead 标记洞察已读
func (s *InsightService) MarkInsightRead(insightID, userID string) (*models.Insight, error) {
	var insight models.Insight
	err := config.DB.Where("id = ?", insightID).First(&insight).Error
	if err != nil || insight.UserID != userID {
		return nil, nil
	}

	if !insight.IsRead {
		now := time.Now()
		if err := config.DB.Model(&insight).Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
			return nil, err
		}
		insight.IsRead = true
		insight.ReadAt = &now
	}
	return &insight, nil
}

// ToggleInsightFavorite 切换洞察收藏状态
func (s *InsightService) ToggleInsightFavorite(insightID, userID string) (*models.Insight, error) {
	var insight models.Insight
	err := config.DB.Where("id = ?", insightID).First(&insight).Error
	if err != nil || insight.UserID != userID {
		return nil, nil
	}

	favorite := !insight.IsFavorite
	updates := map[string]interface{}{"is_favorite": favorite}
	if favorite {
		now := time.Now()
		updates["favorited_at"] = now
		insight.FavoritedAt = &now
	}
	if err := config.DB.Model(&insight).Updates(updates).Error; err != nil {
		return nil, err
	}
	insight.IsFavorite = favorite
	return &insight, nil
}

// Health 生成链路健康状况
func (s *InsightService) Health() map[string]interface{} {
	return s.orchestrator.Health()
}

// staticResult 静态兜底生成结果
func staticResult(entryCount int, profile *analysis.PatternProfile, cascadeErr error) *GenerationResult {
	text := BuildFallbackInsight(entryCount, profile)
	return &GenerationResult{
		Text:           text,
		Provider:       ProviderStatic,
		WordCount:      len(strings.Fields(text)),
		FallbackReason: cascadeErr.Error(),
	}
}

// clampMessage 消息长度兜底限制在500字符
func clampMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessageLength {
		return text
	}
	return string(runes[:MaxMessageLength-1]) + "."
}

// loadProfile 优先读Redis缓存，未命中则全量重建
// 画像是记忆集合的纯函数，按 (uid, entryCount) 缓存是安全的
func (s *InsightService) loadProfile(ctx context.Context, userID string, entryCount int) *analysis.PatternProfile {
	key := fmt.Sprintf("profile:%s:%d", userID, entryCount)

	if config.RedisClient != nil {
		if cached, err := config.RedisClient.Get(ctx, key).Result(); err == nil {
			var profile analysis.PatternProfile
			if jsonErr := json.Unmarshal([]byte(cached), &profile); jsonErr == nil {
				return &profile
			}
		}
	}

	profile, err := analysis.BuildProfile(userID, entryCount)
	if err != nil {
		config.Logger.Errorw("构建用户画像失败", "error", err, "uid", userID)
		return nil
	}
	s.cacheProfile(ctx, userID, entryCount, profile)
	return profile
}

func (s *InsightService) cacheProfile(ctx context.Context, userID string, entryCount int, profile *analysis.PatternProfile) {
	if config.RedisClient == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	key := fmt.Sprintf("profile:%s:%d", userID, entryCount)
	if err := config.RedisClient.Set(ctx, key, data, profileCacheTTL).Err(); err != nil {
		config.Logger.Debugw("缓存画像失败", "error", err, "key", key)
	}
}

// recordUsage 累计用户的模型用量并记录通知
func (s *InsightService) recordUsage(user *models.User, result *GenerationResult, now time.Time) {
	updates := map[string]interface{}{
		"last_notified_at":   now,
		"notification_count": user.NotificationCount + 1,
	}
	switch result.Provider {
	case ProviderDeepseek:
		updates["deepseek_tokens"] = user.DeepseekTokens + result.TokensUsed
		updates["deepseek_cost"] = user.DeepseekCost + result.Cost
	case ProviderGLM:
		updates["glm_tokens"] = user.GLMTokens + result.TokensUsed
		updates["glm_cost"] = user.GLMCost + result.Cost
	}

	if err := config.DB.Model(user).Updates(updates).Error; err != nil {
		config.Logger.Errorw("更新用量统计失败", "error", err, "uid", user.ID)
	}
}
