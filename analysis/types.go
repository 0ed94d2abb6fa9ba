package analysis

// 情绪变化速率
const (
	VelocityRapid    = "rapid"
	VelocityModerate = "moderate"
	VelocitySlow     = "slow"
	VelocityStable   = "stable"
)

// 写作风格
const (
	StyleBrief          = "brief"
	StyleConversational = "conversational"
	StyleReflective     = "reflective"
	StyleDetailed       = "detailed"
)

// 写作演变
const (
	EvolutionDeepening  = "deepening"
	EvolutionShortening = "shortening"
	EvolutionStable     = "stable"
)

// 记录节奏
const (
	CadenceDaily      = "daily"
	CadenceFrequent   = "frequent"
	CadenceRegular    = "regular"
	CadenceOccasional = "occasional"
)

// DefaultEmotion 无记录时的占位情绪
const DefaultEmotion = "neutral-positive"

// EmotionStat 单个情绪标签的分布统计
type EmotionStat struct {
	Emotion     string  `json:"emotion"`
	Count       int     `json:"count"`
	Percent     float64 `json:"percent"`
	RecentCount int     `json:"recentCount"`
	Trend       string  `json:"trend"` // increasing / stable
}

// FamilyStat 情绪家族分布统计
type FamilyStat struct {
	Family  string  `json:"family"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// TemporalPattern 时间规律
type TemporalPattern struct {
	ActiveTime    string `json:"activeTime"` // morning / afternoon / evening / night
	Cadence       string `json:"cadence"`
	CurrentStreak int    `json:"currentStreak"` // 连续记录天数
	LongestStreak int    `json:"longestStreak"`
}

// SilencePattern 记录间隔检测
type SilencePattern struct {
	HasGap         bool `json:"hasGap"` // 是否存在超过2天的间隔
	LongestGapDays int  `json:"longestGapDays"`
	RecentGap      bool `json:"recentGap"` // 最近5条记录内是否出现间隔
}

// PeriodComparison 过去与现在的对比，至少15条记录才计算
type PeriodComparison struct {
	PastPositivity   float64 `json:"pastPositivity"`
	RecentPositivity float64 `json:"recentPositivity"`
	PastAvgWords     float64 `json:"pastAvgWords"`
	RecentAvgWords   float64 `json:"recentAvgWords"`
}

// MemoryDigest 最近记忆摘要
type MemoryDigest struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"` // 不超过20个词
	Emotion   string   `json:"emotion"`
	Family    string   `json:"family"`
	Themes    []string `json:"themes"`
	Quality   float64  `json:"quality"`
	WordCount int      `json:"wordCount"`
	AgeDays   int      `json:"ageDays"`
}

// PatternProfile 用户行为画像，每次生成时重新计算，不持久化
type PatternProfile struct {
	TotalEntries      int               `json:"totalEntries"`
	Emotions          []EmotionStat     `json:"emotions"`
	Families          []FamilyStat      `json:"families"`
	DominantEmotion   string            `json:"dominantEmotion"`
	DominantFamily    string            `json:"dominantFamily"`
	Diversity         int               `json:"diversity"` // 使用过的不同情绪标签数
	EmotionalShift    string            `json:"emotionalShift"`
	EmotionalVelocity string            `json:"emotionalVelocity"`
	WritingStyle      string            `json:"writingStyle"`
	AvgWordCount      float64           `json:"avgWordCount"`
	AvgQuality        float64           `json:"avgQuality"`
	WritingEvolution  string            `json:"writingEvolution"`
	Themes            []string          `json:"themes"`
	Temporal          TemporalPattern   `json:"temporal"`
	Silence           SilencePattern    `json:"silence"`
	Comparison        *PeriodComparison `json:"comparison,omitempty"`
	RecentMemories    []MemoryDigest    `json:"recentMemories"`
}
