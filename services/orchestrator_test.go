package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider 可控的假模型，记录调用次数
type stubProvider struct {
	name  string
	calls int
	fail  bool
	text  string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, prompt string, entryCount int) (*GenerationResult, error) {
	s.calls++
	if s.fail {
		return nil, errors.New(s.name + " unavailable")
	}
	return &GenerationResult{
		Text:      s.text,
		Provider:  s.name,
		WordCount: 10,
	}, nil
}

func newTestOrchestrator(primaryFail, secondaryFail bool) (*Orchestrator, *stubProvider, *stubProvider) {
	primary := &stubProvider{name: ProviderDeepseek, fail: primaryFail, text: "primary insight."}
	secondary := &stubProvider{name: ProviderGLM, fail: secondaryFail, text: "secondary insight."}
	return NewOrchestrator(primary, secondary, nil), primary, secondary
}

func TestGenerateFreeTierCounts(t *testing.T) {
	// 第1条和第5条不碰主模型
	for _, count := range []int{1, 5} {
		o, primary, secondary := newTestOrchestrator(false, false)

		result, err := o.Generate(context.Background(), "prompt", count)

		require.NoError(t, err)
		assert.Equal(t, ProviderGLM, result.Provider)
		assert.Equal(t, 0, primary.calls)
		assert.Equal(t, 1, secondary.calls)
	}
}

func TestGeneratePrimaryFirst(t *testing.T) {
	o, primary, secondary := newTestOrchestrator(false, false)

	result, err := o.Generate(context.Background(), "prompt", 10)

	require.NoError(t, err)
	assert.Equal(t, ProviderDeepseek, result.Provider)
	assert.Empty(t, result.FallbackReason)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)

	status, _ := o.health.Status()
	assert.Equal(t, StatusWorking, status)
}

func TestGenerateFallbackCarriesReason(t *testing.T) {
	o, primary, secondary := newTestOrchestrator(true, false)

	result, err := o.Generate(context.Background(), "prompt", 10)

	require.NoError(t, err)
	assert.Equal(t, ProviderGLM, result.Provider)
	assert.Contains(t, result.FallbackReason, "deepseek unavailable")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestGenerateCooldownSkipsPrimary(t *testing.T) {
	o, primary, secondary := newTestOrchestrator(true, false)

	clock := time.Now()
	o.health.now = func() time.Time { return clock }

	// 第一次失败进入冷却
	_, err := o.Generate(context.Background(), "prompt", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.True(t, o.health.InCooldown())

	// 冷却期内主模型被跳过
	result, err := o.Generate(context.Background(), "prompt", 10)
	require.NoError(t, err)
	assert.Equal(t, ProviderGLM, result.Provider)
	assert.NotEmpty(t, result.FallbackReason)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)

	// 冷却结束后重新尝试主模型
	clock = clock.Add(61 * time.Second)
	primary.fail = false
	result, err = o.Generate(context.Background(), "prompt", 10)
	require.NoError(t, err)
	assert.Equal(t, ProviderDeepseek, result.Provider)
	assert.Equal(t, 2, primary.calls)
}

func TestGenerateCascadeError(t *testing.T) {
	o, _, _ := newTestOrchestrator(true, true)

	result, err := o.Generate(context.Background(), "prompt", 10)

	assert.Nil(t, result)
	var cascade *CascadeError
	require.ErrorAs(t, err, &cascade)
	assert.Len(t, cascade.Reasons, 2)
	assert.Contains(t, cascade.Reasons[0], "deepseek")
	assert.Contains(t, cascade.Reasons[1], "glm")
}

func TestRegeneratePrefersOriginalProvider(t *testing.T) {
	// 原洞察来自备用模型时先走备用模型
	o, primary, secondary := newTestOrchestrator(false, false)

	result, err := o.Regenerate(context.Background(), "prompt", 10, ProviderGLM)

	require.NoError(t, err)
	assert.Equal(t, ProviderGLM, result.Provider)
	assert.Equal(t, 0, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestRegenerateSecondaryFallsBackToPrimary(t *testing.T) {
	o, primary, secondary := newTestOrchestrator(false, true)

	result, err := o.Regenerate(context.Background(), "prompt", 10, ProviderGLM)

	require.NoError(t, err)
	assert.Equal(t, ProviderDeepseek, result.Provider)
	assert.Contains(t, result.FallbackReason, "glm unavailable")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestRegenerateStaticRunsFullCascade(t *testing.T) {
	// 原洞察来自静态兜底时退回完整级联
	o, primary, _ := newTestOrchestrator(false, false)

	result, err := o.Regenerate(context.Background(), "prompt", 10, ProviderStatic)

	require.NoError(t, err)
	assert.Equal(t, ProviderDeepseek, result.Provider)
	assert.Equal(t, 1, primary.calls)
}

func TestHealthReportsCooldown(t *testing.T) {
	o, _, _ := newTestOrchestrator(true, false)

	clock := time.Now()
	o.health.now = func() time.Time { return clock }

	_, err := o.Generate(context.Background(), "prompt", 10)
	require.NoError(t, err)

	clock = clock.Add(20 * time.Second)
	health := o.Health()
	assert.Equal(t, ProviderDeepseek, health["primaryProvider"])
	assert.Equal(t, StatusFailed, health["primaryStatus"])
	assert.Equal(t, true, health["inCooldown"])
	assert.Equal(t, 40, health["cooldownRemaining"])
}
