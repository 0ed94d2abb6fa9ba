package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MemoryFarmGo/config"
)

// PrimaryCooldown 主模型失败后的冷却时长
const PrimaryCooldown = 60 * time.Second

// 主模型健康状态
const (
	StatusWorking = "working"
	StatusFailed  = "failed"
	StatusUnknown = "unknown"
)

// CascadeError 所有模型都失败时的聚合错误，拼接每次尝试的原因
type CascadeError struct {
	Reasons []string
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("所有模型生成失败: %s", strings.Join(e.Reasons, "; "))
}

// ProviderHealthTracker 记录主模型最近一次失败时间，冷却期内跳过主模型
// 进程级共享，不加锁，只用于减少对已知故障模型的无效调用
type ProviderHealthTracker struct {
	status      string
	lastFailure time.Time
	cooldown    time.Duration
	now         func() time.Time
}

func NewProviderHealthTracker(cooldown time.Duration) *ProviderHealthTracker {
	return &ProviderHealthTracker{
		status:   StatusUnknown,
		cooldown: cooldown,
		now:      time.Now,
	}
}

func (h *ProviderHealthTracker) markWorking() {
	h.status = StatusWorking
	h.lastFailure = time.Time{}
}

func (h *ProviderHealthTracker) markFailed() {
	h.status = StatusFailed
	h.lastFailure = h.now()
}

// InCooldown 上次失败距今不足冷却时长
func (h *ProviderHealthTracker) InCooldown() bool {
	if h.lastFailure.IsZero() {
		return false
	}
	return h.now().Sub(h.lastFailure) < h.cooldown
}

// Status 当前状态与冷却剩余秒数
func (h *ProviderHealthTracker) Status() (string, int) {
	remaining := 0
	if h.InCooldown() {
		remaining = int((h.cooldown - h.now().Sub(h.lastFailure)).Seconds())
	}
	return h.status, remaining
}

// Orchestrator 按优先级驱动两个模型的生成级联
type Orchestrator struct {
	primary   Provider
	secondary Provider
	health    *ProviderHealthTracker
}

func NewOrchestrator(primary, secondary Provider, health *ProviderHealthTracker) *Orchestrator {
	if health == nil {
		health = NewProviderHealthTracker(PrimaryCooldown)
	}
	return &Orchestrator{
		primary:   primary,
		secondary: secondary,
		health:    health,
	}
}

// Generate 执行生成级联
// 第1条和第5条固定走免费档备用模型，不尝试主模型
// 其余先试主模型（冷却期内跳过），失败后降级到备用模型
// 两者都失败时返回 CascadeError，由调用方兜底到静态生成器
func (o *Orchestrator) Generate(ctx context.Context, prompt string, entryCount int) (*GenerationResult, error) {
	if entryCount == 1 || entryCount == 5 {
		result, err := o.secondary.Generate(ctx, prompt, entryCount)
		if err != nil {
			return nil, &CascadeError{Reasons: []string{err.Error()}}
		}
		return result, nil
	}

	var reasons []string

	if o.health.InCooldown() {
		reasons = append(reasons, fmt.Sprintf("%s在冷却期内，跳过", o.primary.Name()))
		config.Logger.Infow("主模型冷却中，直接降级", "provider", o.primary.Name())
	} else {
		result, err := o.primary.Generate(ctx, prompt, entryCount)
		if err == nil {
			o.health.markWorking()
			return result, nil
		}
		o.health.markFailed()
		reasons = append(reasons, err.Error())
		config.Logger.Warnw("主模型失败，降级到备用模型",
			"provider", o.primary.Name(),
			"error", err,
		)
	}

	result, err := o.secondary.Generate(ctx, prompt, entryCount)
	if err == nil {
		// 带上降级原因，写入生成元数据
		result.FallbackReason = strings.Join(reasons, "; ")
		return result, nil
	}
	reasons = append(reasons, err.Error())

	return nil, &CascadeError{Reasons: reasons}
}

// Regenerate 重新生成时优先使用原洞察的模型
// 原模型是静态兜底时退回完整级联
func (o *Orchestrator) Regenerate(ctx context.Context, prompt string, entryCount int, originalProvider string) (*GenerationResult, error) {
	switch originalProvider {
	case o.primary.Name():
		var reasons []string
		if o.health.InCooldown() {
			reasons = append(reasons, fmt.Sprintf("%s在冷却期内，跳过", o.primary.Name()))
		} else {
			result, err := o.primary.Generate(ctx, prompt, entryCount)
			if err == nil {
				o.health.markWorking()
				return result, nil
			}
			o.health.markFailed()
			reasons = append(reasons, err.Error())
		}
		result, err := o.secondary.Generate(ctx, prompt, entryCount)
		if err == nil {
			result.FallbackReason = strings.Join(reasons, "; ")
			return result, nil
		}
		reasons = append(reasons, err.Error())
		return nil, &CascadeError{Reasons: reasons}

	case o.secondary.Name():
		var reasons []string
		result, err := o.secondary.Generate(ctx, prompt, entryCount)
		if err == nil {
			return result, nil
		}
		reasons = append(reasons, err.Error())
		if o.health.InCooldown() {
			reasons = append(reasons, fmt.Sprintf("%s在冷却期内，跳过", o.primary.Name()))
			return nil, &CascadeError{Reasons: reasons}
		}
		result, err = o.primary.Generate(ctx, prompt, entryCount)
		if err == nil {
			o.health.markWorking()
			result.FallbackReason = strings.Join(reasons, "; ")
			return result, nil
		}
		o.health.markFailed()
		reasons = append(reasons, err.Error())
		return nil, &CascadeError{Reasons: reasons}

	default:
		// 原洞察来自静态兜底
		return o.Generate(ctx, prompt, entryCount)
	}
}

// Health 主模型健康状况，供内部健康检查接口使用
func (o *Orchestrator) Health() map[string]interface{} {
	status, remaining := o.health.Status()
	return map[string]interface{}{
		"primaryProvider":   o.primary.Name(),
		"primaryStatus":     status,
		"inCooldown":        o.health.InCooldown(),
		"cooldownRemaining": remaining,
	}
}
