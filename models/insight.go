package models

import "time"

// 洞察分类
const (
	InsightTypeMilestone      = "milestone"
	InsightTypeEmotionPattern = "emotion_pattern"
	InsightTypeWritingPattern = "writing_pattern"
	InsightTypeStreak         = "streak"
	InsightTypeDiversity      = "diversity"
	InsightTypeComplexity     = "complexity"
	InsightTypeConsistency    = "consistency"

	InsightCategoryAchievement   = "achievement"
	InsightCategoryDiscovery     = "discovery"
	InsightCategoryEncouragement = "encouragement"
	InsightCategoryTrend         = "trend"
)

// Insight 洞察模型
// 每个用户在同一触发条目数上只生成一次，(user_id, trigger_count) 唯一
type Insight struct {
	ID              string `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID          string `gorm:"type:varchar(50);index:idx_user_trigger,unique" json:"userId"`
	TriggerCount    int    `gorm:"index:idx_user_trigger,unique" json:"triggerCount"`
	TriggerMemoryID string `gorm:"type:varchar(50)" json:"triggerMemoryId"`

	Type     string `gorm:"type:varchar(30)" json:"type"`
	Category string `gorm:"type:varchar(30)" json:"category"`
	Title    string `gorm:"type:varchar(100)" json:"title"`
	Message  string `gorm:"type:varchar(500)" json:"message"`

	// 展示提示
	Icon     string `gorm:"type:varchar(20)" json:"icon"`
	Color    string `gorm:"type:varchar(20)" json:"color"`
	Priority int    `gorm:"default:3" json:"priority"` // 1-5

	IsRead      bool       `gorm:"default:false" json:"isRead"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	IsFavorite  bool       `gorm:"default:false" json:"isFavorite"`
	FavoritedAt *time.Time `json:"favoritedAt,omitempty"`
	IsVisible   bool       `gorm:"default:true" json:"isVisible"`

	// 生成元数据
	Model            string  `gorm:"type:varchar(30)" json:"model"` // deepseek / glm / static
	TokensUsed       int     `json:"tokensUsed"`
	Cost             float64 `json:"cost"`
	GenerationTimeMs int64   `json:"generationTimeMs"`
	WordCount        int     `json:"wordCount"`
	Truncated        bool    `gorm:"default:false" json:"truncated"`
	FallbackReason   string  `gorm:"type:text" json:"fallbackReason"`
	RegenerateCount  int     `gorm:"default:0" json:"regenerateCount"` // 上限3

	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

func (Insight) TableName() string {
	return "insights"
}
