package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// ErrNoRows is returned when a single-row lookup finds nothing.
// Callers decide whether that is a normal outcome or an error.
var ErrNoRows = pgx.ErrNoRows

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. The quizzes.code UNIQUE index is the final authority on access
// code collisions; the service-level pre-check is an optimization only.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// QuizRepository handles quiz and question data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, title, description, created_by, code, is_published, created_at, updated_at`

func scanQuiz(row pgx.Row) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := row.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedBy,
		&q.Code, &q.IsPublished, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a quiz by its UUID, without questions.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

// GetByCode retrieves a published quiz by its normalized access code.
// Returns ErrNoRows when no published quiz carries the code.
func (r *QuizRepository) GetByCode(ctx context.Context, code string) (*model.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE code = $1 AND is_published = TRUE`, code))
}

// CodeExists reports whether any quiz other than excludeID already uses code.
// A quiz keeping its own code on edit is not a collision.
func (r *QuizRepository) CodeExists(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quizzes WHERE code = $1 AND id <> $2)`,
		code, excludeID,
	).Scan(&exists)
	return exists, err
}

// ListByOwnerPaginated retrieves quizzes created by ownerID with pagination.
func (r *QuizRepository) ListByOwnerPaginated(ctx context.Context, ownerID, limit, offset int) ([]model.Quiz, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quizzes WHERE created_by = $1`, ownerID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes
		 WHERE created_by = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedBy,
			&q.Code, &q.IsPublished, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}

// ListPublished returns all published quizzes.
func (r *QuizRepository) ListPublished(ctx context.Context) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes
		 WHERE is_published = TRUE
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedBy,
			&q.Code, &q.IsPublished, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// ListQuestions retrieves all questions for a quiz, ordered by position.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, text, options, correct_answer, position
		 FROM questions WHERE quiz_id = $1
		 ORDER BY position`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.Options, &q.CorrectAnswer, &q.Position); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateWithQuestions inserts a quiz and its full question set in a single
// transaction so readers never observe a quiz row without questions.
func (r *QuizRepository) CreateWithQuestions(ctx context.Context, quiz *model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, created_by, code, is_published)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		quiz.Title, quiz.Description, quiz.CreatedBy, quiz.Code, quiz.IsPublished,
	).Scan(&quiz.ID, &quiz.CreatedAt, &quiz.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertQuestions(ctx, tx, quiz.ID, quiz.Questions); err != nil {
		return err
	}
	quizIDOntoQuestions(quiz)

	return tx.Commit(ctx)
}

// Update applies the given quiz fields and, when replaceQuestions is true,
// replaces the quiz's entire question set (destructive replace, not a merge).
// Everything runs in one transaction.
func (r *QuizRepository) Update(ctx context.Context, quiz *model.Quiz, replaceQuestions bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE quizzes
		 SET title = $1, description = $2, code = $3, is_published = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING updated_at`,
		quiz.Title, quiz.Description, quiz.Code, quiz.IsPublished, quiz.ID,
	).Scan(&quiz.UpdatedAt)
	if err != nil {
		return err
	}

	if replaceQuestions {
		if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quiz.ID); err != nil {
			return err
		}
		if err := insertQuestions(ctx, tx, quiz.ID, quiz.Questions); err != nil {
			return err
		}
		quizIDOntoQuestions(quiz)
	}

	return tx.Commit(ctx)
}

// Delete removes a quiz. Questions and attempts referencing it are removed
// by the schema's ON DELETE CASCADE constraints.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// SetPublished flips the publish flag.
func (r *QuizRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET is_published = $1, updated_at = NOW() WHERE id = $2`,
		published, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func insertQuestions(ctx context.Context, tx pgx.Tx, quizID uuid.UUID, questions []model.Question) error {
	for i := range questions {
		questions[i].Position = i
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (quiz_id, text, options, correct_answer, position)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			quizID, questions[i].Text, questions[i].Options,
			questions[i].CorrectAnswer, questions[i].Position,
		).Scan(&questions[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func quizIDOntoQuestions(quiz *model.Quiz) {
	for i := range quiz.Questions {
		quiz.Questions[i].QuizID = quiz.ID
	}
}
