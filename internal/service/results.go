package service

import (
	"math"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// QuizResults is the owner-facing aggregate view over a quiz's attempts.
type QuizResults struct {
	QuizID           uuid.UUID          `json:"quiz_id"`
	Title            string             `json:"title"`
	TotalAttempts    int                `json:"total_attempts"`
	CompletedCount   int                `json:"completed_count"`
	InProgressCount  int                `json:"in_progress_count"`
	AverageScore     int                `json:"average_score"`
	ScoreBuckets     []ScoreBucket      `json:"score_buckets"`
	QuestionAccuracy []QuestionAccuracy `json:"question_accuracy"`
	Attempts         []model.Attempt    `json:"attempts"`
}

// ScoreBucket is one bar of the 20-point score distribution.
type ScoreBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// QuestionAccuracy reports, per question, how many students answered it and
// what share of those picked the correct option.
type QuestionAccuracy struct {
	QuestionID     uuid.UUID `json:"question_id"`
	Text           string    `json:"text"`
	Position       int       `json:"position"`
	AnsweredCount  int       `json:"answered_count"`
	CorrectCount   int       `json:"correct_count"`
	CorrectPercent int       `json:"correct_percent"`
}

// StudentSummary aggregates a student's own attempt history.
type StudentSummary struct {
	TotalAttempts   int `json:"total_attempts"`
	CompletedCount  int `json:"completed_count"`
	InProgressCount int `json:"in_progress_count"`
	AverageScore    int `json:"average_score"`
	BestScore       int `json:"best_score"`
}

// BuildQuizResults derives the owner's results view from a quiz, its
// questions and its attempts. Averages and the distribution only consider
// completed attempts; the buckets split 0-100 into five 20-point ranges.
func BuildQuizResults(quiz *model.Quiz, questions []model.Question, attempts []model.Attempt) *QuizResults {
	results := &QuizResults{
		QuizID:        quiz.ID,
		Title:         quiz.Title,
		TotalAttempts: len(attempts),
		ScoreBuckets: []ScoreBucket{
			{Label: "0-20"}, {Label: "21-40"}, {Label: "41-60"}, {Label: "61-80"}, {Label: "81-100"},
		},
		Attempts: attempts,
	}

	sum := 0
	for i := range attempts {
		a := &attempts[i]
		if !a.Completed() || a.Score == nil {
			results.InProgressCount++
			continue
		}
		results.CompletedCount++
		score := *a.Score
		sum += score

		switch {
		case score <= 20:
			results.ScoreBuckets[0].Count++
		case score <= 40:
			results.ScoreBuckets[1].Count++
		case score <= 60:
			results.ScoreBuckets[2].Count++
		case score <= 80:
			results.ScoreBuckets[3].Count++
		default:
			results.ScoreBuckets[4].Count++
		}
	}
	if results.CompletedCount > 0 {
		results.AverageScore = int(math.Round(float64(sum) / float64(results.CompletedCount)))
	}

	results.QuestionAccuracy = buildQuestionAccuracy(questions, attempts)
	return results
}

// BuildStudentSummary derives a student's own stats from their attempts.
func BuildStudentSummary(attempts []model.Attempt) *StudentSummary {
	summary := &StudentSummary{TotalAttempts: len(attempts)}

	sum := 0
	for i := range attempts {
		a := &attempts[i]
		if !a.Completed() || a.Score == nil {
			summary.InProgressCount++
			continue
		}
		summary.CompletedCount++
		sum += *a.Score
		if *a.Score > summary.BestScore {
			summary.BestScore = *a.Score
		}
	}
	if summary.CompletedCount > 0 {
		summary.AverageScore = int(math.Round(float64(sum) / float64(summary.CompletedCount)))
	}
	return summary
}

func buildQuestionAccuracy(questions []model.Question, attempts []model.Attempt) []QuestionAccuracy {
	accuracy := make([]QuestionAccuracy, len(questions))
	for i, q := range questions {
		accuracy[i] = QuestionAccuracy{
			QuestionID: q.ID,
			Text:       q.Text,
			Position:   q.Position,
		}
		for j := range attempts {
			if !attempts[j].Completed() {
				continue
			}
			for _, ans := range attempts[j].Answers {
				if ans.QuestionID != q.ID {
					continue
				}
				accuracy[i].AnsweredCount++
				if ans.SelectedOption == q.CorrectAnswer {
					accuracy[i].CorrectCount++
				}
			}
		}
		if accuracy[i].AnsweredCount > 0 {
			accuracy[i].CorrectPercent = int(math.Round(
				float64(accuracy[i].CorrectCount) / float64(accuracy[i].AnsweredCount) * 100))
		}
	}
	return accuracy
}
