package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUpsertAnswerReplacesByQuestionID(t *testing.T) {
	qID := uuid.New()
	answers := []Answer{{QuestionID: qID, SelectedOption: 0}}

	answers = UpsertAnswer(answers, Answer{QuestionID: qID, SelectedOption: 3})

	if len(answers) != 1 {
		t.Fatalf("len = %d, want exactly one entry per question id", len(answers))
	}
	if answers[0].SelectedOption != 3 {
		t.Errorf("SelectedOption = %d, want latest value 3", answers[0].SelectedOption)
	}
}

func TestUpsertAnswerAppendsNewQuestion(t *testing.T) {
	answers := []Answer{{QuestionID: uuid.New(), SelectedOption: 1}}

	answers = UpsertAnswer(answers, Answer{QuestionID: uuid.New(), SelectedOption: 2})

	if len(answers) != 2 {
		t.Fatalf("len = %d, want 2", len(answers))
	}
}

func TestUpsertAnswerRepeatedRetriesAreIdempotent(t *testing.T) {
	qID := uuid.New()
	var answers []Answer
	// The same submission applied several times, as duplicate network
	// retries would.
	for i := 0; i < 3; i++ {
		answers = UpsertAnswer(answers, Answer{QuestionID: qID, SelectedOption: 2})
	}

	if len(answers) != 1 || answers[0].SelectedOption != 2 {
		t.Fatalf("answers = %+v, want a single entry with option 2", answers)
	}
}

func TestAttemptStatus(t *testing.T) {
	a := Attempt{}
	if a.Status() != AttemptStatusInProgress || a.Completed() {
		t.Errorf("fresh attempt should be in progress")
	}

	now := time.Now()
	score := 80
	a.CompletedAt = &now
	a.Score = &score
	if a.Status() != AttemptStatusCompleted || !a.Completed() {
		t.Errorf("attempt with completion timestamp should be completed")
	}
}
