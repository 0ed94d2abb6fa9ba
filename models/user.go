package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID        string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username  string     `gorm:"type:varchar(100)" json:"username"`
	Email     string     `gorm:"type:varchar(100)" json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	Avatar    string     `gorm:"type:varchar(255)" json:"avatar"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	// 是否开启AI洞察，关闭后不再生成
	AIInsightsEnabled bool `gorm:"default:true" json:"aiInsightsEnabled"`

	// AI用量累计（按模型分开统计）
	DeepseekTokens int     `gorm:"default:0" json:"deepseekTokens"`
	DeepseekCost   float64 `gorm:"default:0" json:"deepseekCost"`
	GLMTokens      int     `gorm:"default:0" json:"glmTokens"`
	GLMCost        float64 `gorm:"default:0" json:"glmCost"`

	// 洞察通知记录
	LastNotifiedAt    *time.Time `json:"lastNotifiedAt,omitempty"`
	NotificationCount int        `gorm:"default:0" json:"notificationCount"`

	// 月度重新生成计数，跨自然月自动清零，上限3
	MonthlyRegenCount int    `gorm:"default:0" json:"monthlyRegenCount"`
	MonthlyRegenMonth string `gorm:"type:varchar(10)" json:"monthlyRegenMonth"` // "2006-01"
}

func (u *User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
