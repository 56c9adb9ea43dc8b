package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/accesscode"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/repository"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrNotQuizOwner      = errors.New("not the owner of this quiz")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrCodeCollision     = errors.New("access code already in use")
	ErrInvalidCode       = errors.New("access code is malformed")
	ErrEmptyTitle        = errors.New("quiz title must not be blank")
	ErrNoQuestions       = errors.New("quiz must contain at least one question")
	ErrEmptyQuestion     = errors.New("question text must not be blank")
	ErrEmptyOption       = errors.New("option text must not be blank")
	ErrTooFewOptions     = errors.New("question must have at least two options")
	ErrCorrectOutOfRange = errors.New("correct answer index is out of range")
)

// QuizService handles quiz catalog business logic and the Redis payload cache.
type QuizService struct {
	quizRepo *repository.QuizRepository
	rdb      *redis.Client
	retries  int
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizRepo *repository.QuizRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizRepo: quizRepo,
		rdb:      rdb,
		retries:  cfg.CodeRetries,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// ValidateContent enforces the core content invariant: a non-blank title and
// at least one question, each with non-blank text, at least two non-blank
// options and an in-range correct option index. Binding catches the
// structural shape; this catches whitespace-only strings and index bounds,
// before anything touches the store.
func ValidateContent(title string, questions []model.Question) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Text) == "" {
			return ErrEmptyQuestion
		}
		if len(q.Options) < 2 {
			return ErrTooFewOptions
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return ErrEmptyOption
			}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return ErrCorrectOutOfRange
		}
	}
	return nil
}

// Create validates content, assigns a unique access code and persists the
// quiz with its questions atomically.
func (s *QuizService) Create(ctx context.Context, quiz *model.Quiz) error {
	if err := ValidateContent(quiz.Title, quiz.Questions); err != nil {
		return err
	}

	code, err := s.uniqueCode(ctx, uuid.Nil)
	if err != nil {
		return err
	}
	quiz.Code = code

	if err := s.quizRepo.CreateWithQuestions(ctx, quiz); err != nil {
		if repository.IsUniqueViolation(err) {
			// Two simultaneous creations picked the same code between the
			// pre-check and the insert; the UNIQUE index caught it and the
			// transaction rolled back, leaving no partial record.
			return ErrCodeCollision
		}
		return fmt.Errorf("create quiz: %w", err)
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("code", quiz.Code).
		Int("questions", len(quiz.Questions)).
		Msg("Quiz created")

	if quiz.IsPublished {
		s.warmPayloadCache(ctx, quiz, quiz.Questions)
	}
	return nil
}

// Update applies partial fields to a quiz owned by ownerID. A provided
// question set replaces the existing one wholesale. A changed code is
// re-validated for uniqueness; submitting the quiz's current code is valid.
func (s *QuizService) Update(ctx context.Context, quizID uuid.UUID, ownerID int, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, ownerID)
	if err != nil {
		return nil, err
	}
	oldCode := quiz.Code

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}

	if req.Code != nil {
		code := accesscode.Normalize(*req.Code)
		if !accesscode.Valid(code) {
			return nil, ErrInvalidCode
		}
		if code != quiz.Code {
			taken, err := s.quizRepo.CodeExists(ctx, code, quiz.ID)
			if err != nil {
				return nil, fmt.Errorf("check code: %w", err)
			}
			if taken {
				return nil, ErrCodeCollision
			}
			quiz.Code = code
		}
	}

	replaceQuestions := req.Questions != nil
	if replaceQuestions {
		quiz.Questions = model.QuestionsFromRequests(req.Questions)
	}
	if err := ValidateContent(quiz.Title, questionsOrExisting(ctx, s, quiz, replaceQuestions)); err != nil {
		return nil, err
	}

	if err := s.quizRepo.Update(ctx, quiz, replaceQuestions); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCodeCollision
		}
		return nil, fmt.Errorf("update quiz: %w", err)
	}

	// The cached student payload is stale after any edit.
	s.invalidatePayloadCache(ctx, oldCode)
	s.invalidatePayloadCache(ctx, quiz.Code)

	s.log.Info().Str("quiz_id", quiz.ID.String()).Msg("Quiz updated")
	return quiz, nil
}

// Delete removes a quiz owned by ownerID. The schema cascades the delete to
// its questions and to every attempt referencing it.
func (s *QuizService) Delete(ctx context.Context, quizID uuid.UUID, ownerID int) error {
	quiz, err := s.getOwned(ctx, quizID, ownerID)
	if err != nil {
		return err
	}

	if err := s.quizRepo.Delete(ctx, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.invalidatePayloadCache(ctx, quiz.Code)

	s.log.Info().Str("quiz_id", quizID.String()).Msg("Quiz deleted with cascading attempts")
	return nil
}

// SetPublished toggles a quiz's publish flag and keeps the payload cache
// consistent: publishing warms it, unpublishing drops it.
func (s *QuizService) SetPublished(ctx context.Context, quizID uuid.UUID, ownerID int, published bool) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.quizRepo.SetPublished(ctx, quizID, published); err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}
	quiz.IsPublished = published

	if published {
		questions, err := s.quizRepo.ListQuestions(ctx, quizID)
		if err == nil {
			s.warmPayloadCache(ctx, quiz, questions)
		}
	} else {
		s.invalidatePayloadCache(ctx, quiz.Code)
	}
	return quiz, nil
}

// GetForOwner returns a quiz with questions, enforcing ownership.
func (s *QuizService) GetForOwner(ctx context.Context, quizID uuid.UUID, ownerID int) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, ownerID)
	if err != nil {
		return nil, err
	}
	questions, err := s.quizRepo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	quiz.Questions = questions
	return quiz, nil
}

// ListForOwner retrieves the owner's quizzes with pagination.
func (s *QuizService) ListForOwner(ctx context.Context, ownerID, page, perPage int) ([]model.Quiz, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	quizzes, total, err := s.quizRepo.ListByOwnerPaginated(ctx, ownerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return quizzes, pagination, nil
}

// ResolveByCode finds a published quiz by a (case-insensitively matched)
// access code and returns its sanitized student payload. A miss is the
// normal "invalid code" outcome, reported as ErrQuizNotFound, never logged
// as an error. Cache hits bypass PostgreSQL entirely.
func (s *QuizService) ResolveByCode(ctx context.Context, rawCode string) (*model.QuizPayload, error) {
	code := accesscode.Normalize(rawCode)

	if payload := s.cachedPayload(ctx, code); payload != nil {
		return payload, nil
	}

	quiz, err := s.quizRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get by code: %w", err)
	}

	questions, err := s.quizRepo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	payload := buildPayload(quiz, questions)
	s.warmPayloadCache(ctx, quiz, questions)
	return payload, nil
}

// PrewarmPayloadCaches loads every published quiz's student payload into
// Redis. Run before accepting traffic so lazy cache fills don't race under
// a thundering herd of code lookups.
func (s *QuizService) PrewarmPayloadCaches(ctx context.Context) error {
	quizzes, err := s.quizRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published: %w", err)
	}
	for i := range quizzes {
		questions, err := s.quizRepo.ListQuestions(ctx, quizzes[i].ID)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}
		s.warmPayloadCache(ctx, &quizzes[i], questions)
	}
	s.log.Info().Int("quizzes", len(quizzes)).Msg("Payload caches prewarmed")
	return nil
}

// GetQuestions returns a quiz's full question set, answer key included.
// Used by the scoring path; never exposed to students directly.
func (s *QuizService) GetQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	return s.quizRepo.ListQuestions(ctx, quizID)
}

// GetByID retrieves a bare quiz row.
func (s *QuizService) GetByID(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// ─── internals ──────────────────────────────────────────────────────────────

func (s *QuizService) getOwned(ctx context.Context, quizID uuid.UUID, ownerID int) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.CreatedBy != ownerID {
		return nil, ErrNotQuizOwner
	}
	return quiz, nil
}

// uniqueCode generates access codes until one passes the catalog-wide
// uniqueness pre-check. The pre-check is racy by nature; the database
// UNIQUE constraint remains the final authority.
func (s *QuizService) uniqueCode(ctx context.Context, excludeID uuid.UUID) (string, error) {
	for i := 0; i < s.retries; i++ {
		code := accesscode.Generate()
		taken, err := s.quizRepo.CodeExists(ctx, code, excludeID)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if !taken {
			return code, nil
		}
		s.log.Debug().Str("code", code).Msg("Access code collision, regenerating")
	}
	return "", ErrCodeCollision
}

func questionsOrExisting(ctx context.Context, s *QuizService, quiz *model.Quiz, replaced bool) []model.Question {
	if replaced {
		return quiz.Questions
	}
	existing, err := s.quizRepo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return quiz.Questions
	}
	return existing
}

func buildPayload(quiz *model.Quiz, questions []model.Question) *model.QuizPayload {
	studentQuestions := make([]model.QuestionForStudent, len(questions))
	for i, q := range questions {
		studentQuestions[i] = model.QuestionForStudent{
			ID:       q.ID,
			Text:     q.Text,
			Options:  q.Options,
			Position: q.Position,
		}
	}
	return &model.QuizPayload{
		QuizID:      quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Code:        quiz.Code,
		Questions:   studentQuestions,
	}
}

func (s *QuizService) cachedPayload(ctx context.Context, code string) *model.QuizPayload {
	data, err := s.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(code)).Bytes()
	if err != nil {
		return nil
	}
	var payload model.QuizPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	return &payload
}

func (s *QuizService) warmPayloadCache(ctx context.Context, quiz *model.Quiz, questions []model.Question) {
	if !quiz.IsPublished {
		return
	}
	payload := buildPayload(quiz, questions)
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizPayloadKey(quiz.Code), data, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("code", quiz.Code).Msg("Failed to warm payload cache")
		return
	}
	s.log.Debug().
		Str("code", quiz.Code).
		Int("questions", len(questions)).
		Msg("Payload cache warmed")
}

func (s *QuizService) invalidatePayloadCache(ctx context.Context, code string) {
	if code == "" {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(code)).Err(); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Failed to invalidate payload cache")
	}
}
