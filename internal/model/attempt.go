package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt states. An attempt moves from
// IN_PROGRESS to COMPLETED exactly once and never back.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusCompleted  AttemptStatus = "COMPLETED"
)

// Attempt represents one student's run through a quiz. Score is a rounded
// percentage and is non-nil exactly when CompletedAt is non-nil.
type Attempt struct {
	ID          uuid.UUID  `json:"id"`
	QuizID      uuid.UUID  `json:"quiz_id"`
	StudentID   int        `json:"student_id"`
	StudentName string     `json:"student_name"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Score       *int       `json:"score,omitempty"`
	Answers     []Answer   `json:"answers"`
}

// Answer is one selected option for one question. An attempt holds at most
// one answer per question id.
type Answer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
}

// Status derives the attempt's lifecycle state from its completion timestamp.
func (a *Attempt) Status() AttemptStatus {
	if a.CompletedAt != nil {
		return AttemptStatusCompleted
	}
	return AttemptStatusInProgress
}

// Completed reports whether the attempt has been finalized.
func (a *Attempt) Completed() bool {
	return a.CompletedAt != nil
}

// UpsertAnswer replaces the entry for the answer's question id if present,
// otherwise appends it. The returned slice always has at most one entry
// per question id.
func UpsertAnswer(answers []Answer, ans Answer) []Answer {
	for i := range answers {
		if answers[i].QuestionID == ans.QuestionID {
			answers[i].SelectedOption = ans.SelectedOption
			return answers
		}
	}
	return append(answers, ans)
}

// StartAttemptRequest is the payload for starting a quiz attempt.
type StartAttemptRequest struct {
	QuizID uuid.UUID `json:"quiz_id" binding:"required"`
}

// RecordAnswerRequest is the payload for saving a single answer.
type RecordAnswerRequest struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedOption int       `json:"selected_option" binding:"min=0"`
}

// SubmitAttemptRequest is the payload for finalizing an attempt with its
// full (possibly partial) answer set.
type SubmitAttemptRequest struct {
	Answers []Answer `json:"answers" binding:"dive"`
}
