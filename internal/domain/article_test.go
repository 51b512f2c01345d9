package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticle_Scored(t *testing.T) {
	score := 0.5
	label := LabelPositive

	tests := []struct {
		name    string
		article Article
		want    bool
	}{
		{"unscored", Article{}, false},
		{"scored", Article{SentimentScore: &score, SentimentLabel: &label}, true},
		{"score without label", Article{SentimentScore: &score}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.article.Scored())
		})
	}
}

func TestArticle_ScoringText(t *testing.T) {
	withBody := Article{Title: "Apple beats estimates", Content: "Revenue grew."}
	assert.Equal(t, "Apple beats estimates Revenue grew.", withBody.ScoringText())

	titleOnly := Article{Title: "Apple beats estimates"}
	assert.Equal(t, "Apple beats estimates", titleOnly.ScoringText())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("text must be at least %d characters long", 3)

	assert.Equal(t, "text must be at least 3 characters long", err.Error())
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidation(errors.New("something else")))
	assert.False(t, IsValidation(nil))
}

func TestErrNoData_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("summarize AAPL over 7d: %w", ErrNoData)

	assert.ErrorIs(t, wrapped, ErrNoData)
}
