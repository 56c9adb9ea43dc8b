package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrNotAttemptOwner  = errors.New("not the owner of this attempt")
	ErrAttemptCompleted = errors.New("attempt is already completed")
)

// MonitorEvent is pushed onto the monitor queue whenever an attempt starts
// or completes, and fanned out to live quiz monitors by the monitor worker.
type MonitorEvent struct {
	Type        string    `json:"type"` // "attempt_started" | "attempt_completed"
	QuizID      string    `json:"quiz_id"`
	AttemptID   string    `json:"attempt_id"`
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name"`
	Score       *int      `json:"score,omitempty"`
	At          time.Time `json:"at"`
}

const (
	MonitorEventStarted   = "attempt_started"
	MonitorEventCompleted = "attempt_completed"
)

// AttemptService handles the attempt lifecycle: start, partial answers,
// finalization with scoring.
type AttemptService struct {
	attemptRepo *repository.AttemptRepository
	quizRepo    *repository.QuizRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	quizRepo *repository.QuizRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start creates a new in-progress attempt. That the quiz is published is an
// implicit precondition: the student flow resolves the quiz by access code
// first, which only surfaces published quizzes. Each start action creates a
// fresh attempt record; repeats by the same student are separate attempts.
func (s *AttemptService) Start(ctx context.Context, quizID uuid.UUID, studentID int, studentName string) (*model.Attempt, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	attempt := &model.Attempt{
		QuizID:      quizID,
		StudentID:   studentID,
		StudentName: studentName,
		Answers:     []model.Answer{},
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.pushMonitorEvent(ctx, MonitorEvent{
		Type:        MonitorEventStarted,
		QuizID:      quizID.String(),
		AttemptID:   attempt.ID.String(),
		StudentID:   studentID,
		StudentName: studentName,
		At:          attempt.StartedAt,
	})
	return attempt, nil
}

// RecordAnswer upserts one answer into an in-progress attempt. Completed
// attempts are immutable: mutating one is rejected rather than silently
// allowed. Score is untouched here.
func (s *AttemptService) RecordAnswer(ctx context.Context, attemptID uuid.UUID, studentID int, questionID uuid.UUID, selectedOption int) (*model.Attempt, error) {
	attempt, err := s.getOwned(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	if attempt.Completed() {
		return nil, ErrAttemptCompleted
	}

	if err := s.attemptRepo.UpsertAnswer(ctx, attemptID, questionID, selectedOption); err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	attempt.Answers = model.UpsertAnswer(attempt.Answers, model.Answer{
		QuestionID:     questionID,
		SelectedOption: selectedOption,
	})
	return attempt, nil
}

// Finalize scores the submitted answer set against the owning quiz's
// questions, stamps the completion time and replaces the stored answers.
// An already-completed attempt is rejected: finalization happens once, a
// second submission never recomputes or overwrites the recorded score.
func (s *AttemptService) Finalize(ctx context.Context, attemptID uuid.UUID, studentID int, answers []model.Answer) (*model.Attempt, error) {
	attempt, err := s.getOwned(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	if attempt.Completed() {
		return nil, ErrAttemptCompleted
	}

	questions, err := s.quizRepo.ListQuestions(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	// Dedupe by question id, last entry wins, before scoring and storing.
	deduped := []model.Answer{}
	for _, ans := range answers {
		deduped = model.UpsertAnswer(deduped, ans)
	}

	score := ComputeScore(deduped, questions)
	completedAt, err := s.attemptRepo.Finalize(ctx, attemptID, deduped, score)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			// Lost a double-submission race; the first submission won.
			return nil, ErrAttemptCompleted
		}
		return nil, fmt.Errorf("finalize attempt: %w", err)
	}

	attempt.Answers = deduped
	attempt.Score = &score
	attempt.CompletedAt = &completedAt

	s.log.Info().
		Str("attempt_id", attemptID.String()).
		Str("quiz_id", attempt.QuizID.String()).
		Int("score", score).
		Msg("Attempt finalized")

	s.pushMonitorEvent(ctx, MonitorEvent{
		Type:        MonitorEventCompleted,
		QuizID:      attempt.QuizID.String(),
		AttemptID:   attempt.ID.String(),
		StudentID:   attempt.StudentID,
		StudentName: attempt.StudentName,
		Score:       &score,
		At:          completedAt,
	})
	return attempt, nil
}

// GetForStudent returns one attempt, enforcing ownership.
func (s *AttemptService) GetForStudent(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	return s.getOwned(ctx, attemptID, studentID)
}

// ListByStudent retrieves all of a student's attempts.
func (s *AttemptService) ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error) {
	attempts, err := s.attemptRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	return attempts, nil
}

// ListByQuiz retrieves all attempts against a quiz.
func (s *AttemptService) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Attempt, error) {
	attempts, err := s.attemptRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	return attempts, nil
}

func (s *AttemptService) getOwned(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrNotAttemptOwner
	}
	return attempt, nil
}

// pushMonitorEvent queues an event for the monitor worker. Failures only
// degrade the live monitor, never the attempt itself.
func (s *AttemptService) pushMonitorEvent(ctx context.Context, ev MonitorEvent) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.MonitorEventsQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("type", ev.Type).Msg("Failed to queue monitor event")
	}
}
