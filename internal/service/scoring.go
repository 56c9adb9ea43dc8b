package service

import (
	"math"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// ComputeScore maps a submitted answer set and a quiz's question set to a
// rounded percentage. The denominator is the quiz's total question count,
// so unanswered questions count against the student. Answers naming
// unknown question ids are ignored. A quiz with zero questions scores 0.
func ComputeScore(answers []model.Answer, questions []model.Question) int {
	if len(questions) == 0 {
		return 0
	}

	correctByID := make(map[uuid.UUID]int, len(questions))
	for _, q := range questions {
		correctByID[q.ID] = q.CorrectAnswer
	}

	correct := 0
	for _, ans := range answers {
		if want, ok := correctByID[ans.QuestionID]; ok && ans.SelectedOption == want {
			correct++
		}
	}

	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}
