package models

import "time"

// GenerationMetadataResponse 生成元数据响应结构体
type GenerationMetadataResponse struct {
	Model            string  `json:"model"`
	TokensUsed       int     `json:"tokensUsed"`
	Cost             float64 `json:"cost"`
	GenerationTimeMs int64   `json:"generationTimeMs"`
	WordCount        int     `json:"wordCount"`
	Truncated        bool    `json:"truncated"`
	FallbackReason   string  `json:"fallbackReason,omitempty"`
	RegenerateCount  int     `json:"regenerateCount"`
}

// InsightResponse 洞察响应结构体
type InsightResponse struct {
	ID                 string                     `json:"id"`
	TriggerCount       int                        `json:"triggerCount"`
	TriggerMemoryID    string                     `json:"triggerMemoryId,omitempty"`
	Type               string                     `json:"type"`
	Category           string                     `json:"category"`
	Title              string                     `json:"title"`
	Message            string                     `json:"message"`
	Icon               string                     `json:"icon"`
	Color              string                     `json:"color"`
	Priority           int                        `json:"priority"`
	IsRead             bool                       `json:"isRead"`
	ReadAt             *time.Time                 `json:"readAt,omitempty"`
	IsFavorite         bool                       `json:"isFavorite"`
	FavoritedAt        *time.Time                 `json:"favoritedAt,omitempty"`
	GenerationMetadata GenerationMetadataResponse `json:"generationMetadata"`
	CreatedAt          time.Time                  `json:"createdAt"`
}

// ToResponse 将洞察模型转换为响应结构体
func (i *Insight) ToResponse() InsightResponse {
	return InsightResponse{
		ID:              i.ID,
		TriggerCount:    i.TriggerCount,
		TriggerMemoryID: i.TriggerMemoryID,
		Type:            i.Type,
		Category:        i.Category,
		Title:           i.Title,
		Message:         i.Message,
		Icon:            i.Icon,
		Color:           i.Color,
		Priority:        i.Priority,
		IsRead:          i.IsRead,
		ReadAt:          i.ReadAt,
		IsFavorite:      i.IsFavorite,
		FavoritedAt:     i.FavoritedAt,
		GenerationMetadata: GenerationMetadataResponse{
			Model:            i.Model,
			TokensUsed:       i.TokensUsed,
			Cost:             i.Cost,
			GenerationTimeMs: i.GenerationTimeMs,
			WordCount:        i.WordCount,
			Truncated:        i.Truncated,
			FallbackReason:   i.FallbackReason,
			RegenerateCount:  i.RegenerateCount,
		},
		CreatedAt: i.CreatedAt,
	}
}

// AIUsageResponse AI用量响应结构体
type AIUsageResponse struct {
	DeepseekTokens    int     `json:"deepseekTokens"`
	DeepseekCost      float64 `json:"deepseekCost"`
	GLMTokens         int     `json:"glmTokens"`
	GLMCost           float64 `json:"glmCost"`
	MonthlyRegenCount int     `json:"monthlyRegenCount"`
	MonthlyRegenLimit int     `json:"monthlyRegenLimit"`
}
