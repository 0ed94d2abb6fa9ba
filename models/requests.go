package models

import (
	"fmt"
)

// GenerateInsightRequest 生成洞察请求结构体
type GenerateInsightRequest struct {
	EntryCount      int    `json:"entryCount" binding:"required"`
	TriggerMemoryID string `json:"triggerMemoryId"`
}

func (r *GenerateInsightRequest) Validate() error {
	if r.EntryCount < 1 {
		return fmt.Errorf("entryCount must be at least 1")
	}
	return nil
}

// UpdatePreferenceRequest 洞察偏好设置请求结构体
type UpdatePreferenceRequest struct {
	AIInsightsEnabled *bool `json:"aiInsightsEnabled" binding:"required"`
}
