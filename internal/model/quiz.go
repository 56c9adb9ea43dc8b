package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz represents a quiz entity with its ordered question set.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedBy   int        `json:"created_by"`
	Code        string     `json:"code"`
	IsPublished bool       `json:"is_published"`
	Questions   []Question `json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateQuizRequest is the payload for creating a new quiz.
type CreateQuizRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=255"`
	Description string            `json:"description" binding:"max=2000"`
	IsPublished bool              `json:"is_published"`
	Questions   []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// UpdateQuizRequest is the payload for updating an existing quiz.
// Only provided fields are applied. A provided Questions slice replaces
// the quiz's entire question set.
type UpdateQuizRequest struct {
	Title       *string           `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string           `json:"description" binding:"omitempty,max=2000"`
	Code        *string           `json:"code" binding:"omitempty,min=4,max=6"`
	IsPublished *bool             `json:"is_published" binding:"omitempty"`
	Questions   []QuestionRequest `json:"questions" binding:"omitempty,min=1,dive"`
}

// QuizPayload is the student-facing shape of a published quiz. Correct
// answer indices are never included.
type QuizPayload struct {
	QuizID      uuid.UUID            `json:"quiz_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Code        string               `json:"code"`
	Questions   []QuestionForStudent `json:"questions"`
}
