package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"MemoryFarmGo/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// 模型名称，写入洞察的生成元数据
const (
	ProviderDeepseek = "deepseek"
	ProviderGLM      = "glm"
	ProviderStatic   = "static"
)

const (
	maxAttempts    = 2
	initialBackoff = time.Second
	maxBackoff     = 5 * time.Second
)

// 每千token估算单价，GLM走免费档
const (
	deepseekPricePer1K = 0.00028
	glmPricePer1K      = 0.0
)

const insightSystemPrompt = `You are the insight writer for a personal journaling app.
You turn a user's journaling patterns into one short, warm, personal observation.

Rules:
1.Speak directly to the user as "you"
2.Ground every claim in the patterns provided, never invent events
3.No markdown, no lists, no emoji
4.One continuous paragraph only`

// GenerationResult 单次生成结果
type GenerationResult struct {
	Text             string
	Provider         string
	TokensUsed       int
	Cost             float64
	GenerationTimeMs int64
	WordCount        int
	Truncated        bool
	FallbackReason   string
}

// Provider 文本生成模型的统一接口
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, entryCount int) (*GenerationResult, error)
}

type llmProvider struct {
	name        string
	client      llms.Model
	pricePer1K  float64
	cleanOutput bool // 是否需要清理格式残留
}

// NewDeepseekProvider 创建主模型客户端
func NewDeepseekProvider(apiKey, apiEndpoint string) (Provider, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel("deepseek-chat"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Deepseek client: %w", err)
	}

	return &llmProvider{
		name:       ProviderDeepseek,
		client:     client,
		pricePer1K: deepseekPricePer1K,
	}, nil
}

// NewGLMProvider 创建免费档备用模型客户端
// GLM容易输出markdown残留和截断的句子，需要额外清理
func NewGLMProvider(apiKey, apiEndpoint string) (Provider, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel("glm-4-flash"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GLM client: %w", err)
	}

	return &llmProvider{
		name:        ProviderGLM,
		client:      client,
		pricePer1K:  glmPricePer1K,
		cleanOutput: true,
	}, nil
}

func (p *llmProvider) Name() string {
	return p.name
}

// tierMaxWords 各档位的输出词数上限
func tierMaxWords(entryCount int) int {
	switch {
	case entryCount <= 1:
		return 80
	case entryCount <= 5:
		return 100
	case entryCount <= 10:
		return 130
	default:
		return 150
	}
}

// tierMaxTokens 输出token预算，在词数目标上留足余量
func tierMaxTokens(entryCount int) int {
	return tierMaxWords(entryCount)*2 + 120
}

// Generate 调用模型生成洞察文本，最多重试一次
func (p *llmProvider) Generate(ctx context.Context, prompt string, entryCount int) (*GenerationResult, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(insightSystemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	options := []llms.CallOption{
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(tierMaxTokens(entryCount)),
	}

	start := time.Now()
	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		response, err := p.client.GenerateContent(ctx, messages, options...)
		if err != nil {
			lastErr = err
			config.Logger.Errorw("模型调用失败",
				"provider", p.name,
				"attempt", attempt,
				"error", err,
			)
			// 配额和鉴权错误重试也没用，直接放弃
			if isNonRetryable(err) {
				break
			}
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}
			continue
		}

		if len(response.Choices) == 0 {
			lastErr = fmt.Errorf("模型未返回有效内容")
			continue
		}

		text := strings.TrimSpace(response.Choices[0].Content)
		if p.cleanOutput {
			text = cleanGeneratedText(text)
		}
		if text == "" {
			lastErr = fmt.Errorf("模型返回空文本")
			continue
		}

		text, truncated := enforceWordLimit(text, tierMaxWords(entryCount))
		wordCount := len(strings.Fields(text))
		tokens := estimateTokens(prompt, text)

		return &GenerationResult{
			Text:             text,
			Provider:         p.name,
			TokensUsed:       tokens,
			Cost:             float64(tokens) / 1000 * p.pricePer1K,
			GenerationTimeMs: time.Since(start).Milliseconds(),
			WordCount:        wordCount,
			Truncated:        truncated,
		}, nil
	}

	return nil, fmt.Errorf("%s生成失败: %v", p.name, lastErr)
}

// isNonRetryable 配额耗尽和鉴权失败不参与重试
func isNonRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"quota", "insufficient", "401", "403", "unauthorized", "invalid api key", "authentication"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// enforceWordLimit 输出严重超出档位上限时硬截断并补句号
func enforceWordLimit(text string, maxWords int) (string, bool) {
	words := strings.Fields(text)
	if float64(len(words)) <= float64(maxWords)*1.2 {
		return text, false
	}

	truncated := strings.Join(words[:maxWords], " ")
	truncated = strings.TrimRight(truncated, ",;: ")
	if !strings.HasSuffix(truncated, ".") && !strings.HasSuffix(truncated, "!") && !strings.HasSuffix(truncated, "?") {
		truncated += "."
	}
	return truncated, true
}

var (
	markupPattern  = regexp.MustCompile("[*_#`>]+|\\[|\\]")
	controlPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
)

// cleanGeneratedText 清理markdown残留和控制字符，修复结尾被截断的句子
func cleanGeneratedText(text string) string {
	text = markupPattern.ReplaceAllString(text, "")
	text = controlPattern.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")

	// 结尾不是完整句子时，回退到最后一个句末标点
	if text != "" && !strings.ContainsAny(text[len(text)-1:], ".!?") {
		cut := strings.LastIndexAny(text, ".!?")
		if cut >= 40 {
			text = text[:cut+1]
		}
	}
	return strings.TrimSpace(text)
}

// estimateTokens 粗略估算token消耗，约每3个词4个token
func estimateTokens(prompt, output string) int {
	words := len(strings.Fields(prompt)) + len(strings.Fields(output))
	return words * 4 / 3
}
