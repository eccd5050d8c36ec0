// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// AnswerCompleted carries the outcome of a question back to the model.
type AnswerCompleted struct {
	Question string
	Answer   *domain.Answer
	Err      error
}
