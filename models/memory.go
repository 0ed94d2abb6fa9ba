package models

import "time"

// Memory 记忆模型（日记条目）
// 该表由记忆同步服务写入，洞察服务只读，不做任何修改
type Memory struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(50);index" json:"userId"`
	Title      string    `gorm:"type:varchar(255)" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	Emotion    string    `gorm:"type:varchar(50)" json:"emotion"`   // 可选的情绪标签
	Intensity  int       `json:"intensity"`                         // 情绪强度 1-10，0 表示未填写
	MemoryDate time.Time `json:"memoryDate"`                        // 记忆发生日期
	HasImage   bool      `gorm:"default:false" json:"hasImage"`
	Complexity float64   `json:"complexity"` // 预计算的内容复杂度
	CreatedAt  time.Time `json:"createdAt"`
}

func (Memory) TableName() string {
	return "memories"
}
