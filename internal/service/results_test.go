package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

func completedAttempt(quizID uuid.UUID, score int, answers ...model.Answer) model.Attempt {
	now := time.Now()
	return model.Attempt{
		ID:          uuid.New(),
		QuizID:      quizID,
		CompletedAt: &now,
		Score:       &score,
		Answers:     answers,
	}
}

func TestBuildQuizResultsCounts(t *testing.T) {
	quiz := &model.Quiz{ID: uuid.New(), Title: "Math Basics"}
	attempts := []model.Attempt{
		completedAttempt(quiz.ID, 100),
		completedAttempt(quiz.ID, 50),
		{ID: uuid.New(), QuizID: quiz.ID}, // in progress
	}

	results := BuildQuizResults(quiz, nil, attempts)

	if results.TotalAttempts != 3 {
		t.Errorf("TotalAttempts = %d, want 3", results.TotalAttempts)
	}
	if results.CompletedCount != 2 {
		t.Errorf("CompletedCount = %d, want 2", results.CompletedCount)
	}
	if results.InProgressCount != 1 {
		t.Errorf("InProgressCount = %d, want 1", results.InProgressCount)
	}
	if results.AverageScore != 75 {
		t.Errorf("AverageScore = %d, want 75", results.AverageScore)
	}
}

func TestBuildQuizResultsBuckets(t *testing.T) {
	quiz := &model.Quiz{ID: uuid.New()}
	scores := []int{0, 20, 21, 40, 55, 80, 81, 100}
	var attempts []model.Attempt
	for _, sc := range scores {
		attempts = append(attempts, completedAttempt(quiz.ID, sc))
	}

	results := BuildQuizResults(quiz, nil, attempts)

	wantCounts := []int{2, 2, 1, 1, 2}
	for i, want := range wantCounts {
		if got := results.ScoreBuckets[i].Count; got != want {
			t.Errorf("bucket %s count = %d, want %d", results.ScoreBuckets[i].Label, got, want)
		}
	}
}

func TestBuildQuizResultsQuestionAccuracy(t *testing.T) {
	quiz := &model.Quiz{ID: uuid.New()}
	q1 := model.Question{ID: uuid.New(), Text: "Q1", CorrectAnswer: 1, Position: 0}
	q2 := model.Question{ID: uuid.New(), Text: "Q2", CorrectAnswer: 2, Position: 1}

	attempts := []model.Attempt{
		completedAttempt(quiz.ID, 100,
			model.Answer{QuestionID: q1.ID, SelectedOption: 1},
			model.Answer{QuestionID: q2.ID, SelectedOption: 2},
		),
		completedAttempt(quiz.ID, 50,
			model.Answer{QuestionID: q1.ID, SelectedOption: 0},
			model.Answer{QuestionID: q2.ID, SelectedOption: 2},
		),
		// In-progress attempts are excluded from accuracy.
		{ID: uuid.New(), QuizID: quiz.ID, Answers: []model.Answer{
			{QuestionID: q1.ID, SelectedOption: 1},
		}},
	}

	results := BuildQuizResults(quiz, []model.Question{q1, q2}, attempts)

	if len(results.QuestionAccuracy) != 2 {
		t.Fatalf("QuestionAccuracy length = %d, want 2", len(results.QuestionAccuracy))
	}
	first := results.QuestionAccuracy[0]
	if first.AnsweredCount != 2 || first.CorrectCount != 1 || first.CorrectPercent != 50 {
		t.Errorf("q1 accuracy = %+v, want answered 2, correct 1, percent 50", first)
	}
	second := results.QuestionAccuracy[1]
	if second.AnsweredCount != 2 || second.CorrectCount != 2 || second.CorrectPercent != 100 {
		t.Errorf("q2 accuracy = %+v, want answered 2, correct 2, percent 100", second)
	}
}

func TestBuildStudentSummary(t *testing.T) {
	quizID := uuid.New()
	attempts := []model.Attempt{
		completedAttempt(quizID, 80),
		completedAttempt(quizID, 40),
		{ID: uuid.New(), QuizID: quizID},
	}

	summary := BuildStudentSummary(attempts)

	if summary.TotalAttempts != 3 || summary.CompletedCount != 2 || summary.InProgressCount != 1 {
		t.Errorf("summary counts = %+v", summary)
	}
	if summary.AverageScore != 60 {
		t.Errorf("AverageScore = %d, want 60", summary.AverageScore)
	}
	if summary.BestScore != 80 {
		t.Errorf("BestScore = %d, want 80", summary.BestScore)
	}
}

func TestBuildStudentSummaryEmpty(t *testing.T) {
	summary := BuildStudentSummary(nil)
	if summary.TotalAttempts != 0 || summary.AverageScore != 0 || summary.BestScore != 0 {
		t.Errorf("empty summary = %+v, want zeros", summary)
	}
}
