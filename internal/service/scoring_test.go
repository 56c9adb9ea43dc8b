package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

func questionSet(correct ...int) []model.Question {
	qs := make([]model.Question, len(correct))
	for i, c := range correct {
		qs[i] = model.Question{ID: uuid.New(), CorrectAnswer: c, Position: i}
	}
	return qs
}

func TestComputeScoreFullCorrect(t *testing.T) {
	qs := questionSet(1, 2)
	answers := []model.Answer{
		{QuestionID: qs[0].ID, SelectedOption: 1},
		{QuestionID: qs[1].ID, SelectedOption: 2},
	}
	if got := ComputeScore(answers, qs); got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
}

func TestComputeScoreHalfCorrect(t *testing.T) {
	qs := questionSet(1, 2)
	answers := []model.Answer{
		{QuestionID: qs[0].ID, SelectedOption: 0},
		{QuestionID: qs[1].ID, SelectedOption: 2},
	}
	if got := ComputeScore(answers, qs); got != 50 {
		t.Fatalf("score = %d, want 50", got)
	}
}

func TestComputeScoreNoAnswers(t *testing.T) {
	qs := questionSet(0, 1, 2)
	if got := ComputeScore(nil, qs); got != 0 {
		t.Fatalf("score = %d, want 0", got)
	}
}

func TestComputeScoreRounding(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		correct int
		want    int
	}{
		{"1 of 3", 3, 1, 33},
		{"2 of 3", 3, 2, 67},
		{"1 of 6", 6, 1, 17},
		{"5 of 6", 6, 5, 83},
		{"3 of 7", 7, 3, 43},
		{"all of 7", 7, 7, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correctIdx := make([]int, tt.total)
			qs := questionSet(correctIdx...)

			var answers []model.Answer
			for i := 0; i < tt.correct; i++ {
				answers = append(answers, model.Answer{QuestionID: qs[i].ID, SelectedOption: 0})
			}
			// Wrong answers for the rest.
			for i := tt.correct; i < tt.total; i++ {
				answers = append(answers, model.Answer{QuestionID: qs[i].ID, SelectedOption: 3})
			}

			if got := ComputeScore(answers, qs); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeScoreIgnoresUnknownQuestionIDs(t *testing.T) {
	qs := questionSet(1)
	answers := []model.Answer{
		{QuestionID: qs[0].ID, SelectedOption: 1},
		{QuestionID: uuid.New(), SelectedOption: 1}, // not in the quiz
	}
	if got := ComputeScore(answers, qs); got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
}

func TestComputeScoreUnansweredCountAgainst(t *testing.T) {
	qs := questionSet(0, 0, 0, 0)
	answers := []model.Answer{
		{QuestionID: qs[0].ID, SelectedOption: 0},
	}
	if got := ComputeScore(answers, qs); got != 25 {
		t.Fatalf("score = %d, want 25", got)
	}
}

func TestComputeScoreEmptyQuiz(t *testing.T) {
	if got := ComputeScore([]model.Answer{{QuestionID: uuid.New()}}, nil); got != 0 {
		t.Fatalf("score = %d, want 0", got)
	}
}
