package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreQualityRange(t *testing.T) {
	texts := []string{
		"",
		"ok",
		"Today I walked along the river and thought about how much has changed since spring. The water was low and quiet.",
		"aaaaaaaa bbbb cccc",
		"THIS IS ALL SHOUTING AND NOTHING ELSE AT ALL",
	}
	for _, text := range texts {
		score := ScoreQuality(text)
		assert.GreaterOrEqual(t, score, 0.0, "text %q", text)
		assert.LessOrEqual(t, score, 100.0, "text %q", text)
	}
}

func TestScoreQualityRewardsSubstance(t *testing.T) {
	thoughtful := "Today I walked along the river and thought about how much has changed since spring. The water was low. I felt calmer than I have in weeks."
	short := "meh"
	assert.Greater(t, ScoreQuality(thoughtful), ScoreQuality(short))
}

func TestGibberishPenalty(t *testing.T) {
	clean := "I spent the evening cooking dinner with my sister and we talked for hours."
	mashed := "asdfasdf qwerty just testing things here nothing real"
	assert.Greater(t, ScoreQuality(clean), ScoreQuality(mashed))

	// 长词无元音
	assert.True(t, looksGibberish("xxxzzzwww today", []string{"xxxzzzwww", "today"}))
	// 重复字符
	assert.True(t, looksGibberish("soooooo good", []string{"soooooo", "good"}))
	assert.False(t, looksGibberish("a normal sentence about breakfast", []string{"a", "normal", "sentence", "about", "breakfast"}))
}

func TestProfanityPenalty(t *testing.T) {
	clean := "Work was hard today but I got through the afternoon fine."
	sweary := "Work was hard today but I got through the shit afternoon fine."
	assert.Greater(t, ScoreQuality(clean), ScoreQuality(sweary))

	// 词边界匹配，不应误伤包含子串的正常词
	assert.False(t, profanityPattern.MatchString("I visited Scunthorpe today"))
	assert.True(t, profanityPattern.MatchString("what a shit day"))
}
