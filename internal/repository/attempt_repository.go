package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// AttemptRepository handles attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new in-progress attempt with an empty answer set.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (quiz_id, student_id, student_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, started_at`,
		a.QuizID, a.StudentID, a.StudentName,
	).Scan(&a.ID, &a.StartedAt)
}

// GetByID retrieves an attempt with its answers.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, student_id, student_name, started_at, completed_at, score
		 FROM attempts WHERE id = $1`, id,
	).Scan(&a.ID, &a.QuizID, &a.StudentID, &a.StudentName, &a.StartedAt, &a.CompletedAt, &a.Score)
	if err != nil {
		return nil, err
	}

	answers, err := r.listAnswers(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Answers = answers
	return a, nil
}

// UpsertAnswer saves one answer for an in-progress attempt. At most one row
// per (attempt, question) exists; re-answering replaces the prior selection,
// which also makes duplicate network retries safe to apply repeatedly.
func (r *AttemptRepository) UpsertAnswer(ctx context.Context, attemptID, questionID uuid.UUID, selectedOption int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempt_answers (attempt_id, question_id, selected_option)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (attempt_id, question_id)
		 DO UPDATE SET selected_option = EXCLUDED.selected_option`,
		attemptID, questionID, selectedOption)
	return err
}

// Finalize marks an attempt completed with its score and replaces its stored
// answer set with the submitted one, all in a single transaction.
func (r *AttemptRepository) Finalize(ctx context.Context, attemptID uuid.UUID, answers []model.Answer, score int) (time.Time, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var completedAt time.Time
	err = tx.QueryRow(ctx,
		`UPDATE attempts
		 SET completed_at = NOW(), score = $1
		 WHERE id = $2 AND completed_at IS NULL
		 RETURNING completed_at`,
		score, attemptID,
	).Scan(&completedAt)
	if err != nil {
		// Includes the no-rows case when the attempt is already completed;
		// the WHERE guard makes finalization first-writer-wins even under
		// a double-submission race.
		return time.Time{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM attempt_answers WHERE attempt_id = $1`, attemptID); err != nil {
		return time.Time{}, err
	}
	for _, ans := range answers {
		if _, err := tx.Exec(ctx,
			`INSERT INTO attempt_answers (attempt_id, question_id, selected_option)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (attempt_id, question_id)
			 DO UPDATE SET selected_option = EXCLUDED.selected_option`,
			attemptID, ans.QuestionID, ans.SelectedOption); err != nil {
			return time.Time{}, err
		}
	}

	return completedAt, tx.Commit(ctx)
}

// ListByStudent retrieves all attempts by a student, newest first,
// with answers attached.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error) {
	return r.list(ctx,
		`SELECT id, quiz_id, student_id, student_name, started_at, completed_at, score
		 FROM attempts WHERE student_id = $1
		 ORDER BY started_at DESC`, studentID)
}

// ListByQuiz retrieves all attempts against a quiz, newest first,
// with answers attached.
func (r *AttemptRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Attempt, error) {
	return r.list(ctx,
		`SELECT id, quiz_id, student_id, student_name, started_at, completed_at, score
		 FROM attempts WHERE quiz_id = $1
		 ORDER BY started_at DESC`, quizID)
}

func (r *AttemptRepository) list(ctx context.Context, query string, arg interface{}) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.StudentID, &a.StudentName,
			&a.StartedAt, &a.CompletedAt, &a.Score); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range attempts {
		answers, err := r.listAnswers(ctx, attempts[i].ID)
		if err != nil {
			return nil, err
		}
		attempts[i].Answers = answers
	}
	return attempts, nil
}

func (r *AttemptRepository) listAnswers(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, selected_option
		 FROM attempt_answers WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		var ans model.Answer
		if err := rows.Scan(&ans.QuestionID, &ans.SelectedOption); err != nil {
			return nil, err
		}
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}
