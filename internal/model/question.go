package model

import (
	"github.com/google/uuid"
)

// Question represents a single multiple-choice quiz question. Position
// defines its place in the quiz's ordered question list.
type Question struct {
	ID            uuid.UUID `json:"id"`
	QuizID        uuid.UUID `json:"quiz_id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	Position      int       `json:"position"`
}

// QuestionRequest is the payload for a question inside quiz create/update.
type QuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,dive,required,max=500"`
	CorrectAnswer int      `json:"correct_answer" binding:"min=0"`
}

// QuestionsFromRequests converts request payloads into Questions, assigning
// positions from the request order.
func QuestionsFromRequests(reqs []QuestionRequest) []Question {
	questions := make([]Question, 0, len(reqs))
	for i, r := range reqs {
		questions = append(questions, Question{
			Text:          r.Text,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
			Position:      i,
		})
	}
	return questions
}

// QuestionForStudent is a question without the correct answer, sent to students.
type QuestionForStudent struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Options  []string  `json:"options"`
	Position int       `json:"position"`
}
