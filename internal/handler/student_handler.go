package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/middleware"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/quizdesk/quizdesk-backend/internal/validator"
)

// StudentHandler handles quiz taking endpoints for students.
type StudentHandler struct {
	quizService    *service.QuizService
	attemptService *service.AttemptService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(quizService *service.QuizService, attemptService *service.AttemptService) *StudentHandler {
	return &StudentHandler{
		quizService:    quizService,
		attemptService: attemptService,
	}
}

// ResolveQuiz godoc
// GET /api/v1/student/quizzes/code/:code
// Looks up a published quiz by its access code. The payload never carries
// correct answers.
func (h *StudentHandler) ResolveQuiz(c *gin.Context) {
	payload, err := h.quizService.ResolveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidCode)
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": payload})
}

// StartAttempt godoc
// POST /api/v1/student/attempts
// Opens a fresh attempt against a quiz. Every start is a new attempt.
func (h *StudentHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), req.QuizID, claims.UserID, claims.Name)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": attempt})
}

// RecordAnswer godoc
// PUT /api/v1/student/attempts/:attempt_id/answers
// Saves one answer on an in-progress attempt. Re-answering a question
// replaces the previous choice.
func (h *StudentHandler) RecordAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.RecordAnswer(c.Request.Context(), attemptID, claims.UserID, req.QuestionID, req.SelectedOption)
	if err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// SubmitAttempt godoc
// POST /api/v1/student/attempts/:attempt_id/submit
// Finalizes an attempt: scores it and stamps the completion time. A
// completed attempt cannot be submitted again.
func (h *StudentHandler) SubmitAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Finalize(c.Request.Context(), attemptID, claims.UserID, req.Answers)
	if err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// ListAttempts godoc
// GET /api/v1/student/attempts
// The caller's attempt history plus an aggregate summary.
func (h *StudentHandler) ListAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.attemptService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"attempts": attempts,
		"summary":  service.BuildStudentSummary(attempts),
	})
}

// GetAttempt godoc
// GET /api/v1/student/attempts/:attempt_id
// One attempt with its answers. For completed attempts the quiz's
// questions are included so the client can render a review.
func (h *StudentHandler) GetAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	attempt, err := h.attemptService.GetForStudent(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failAttempt(c, err)
		return
	}

	body := gin.H{"attempt": attempt}
	if attempt.Completed() {
		questions, err := h.quizService.GetQuestions(c.Request.Context(), attempt.QuizID)
		if err == nil {
			body["questions"] = questions
		}
	}

	response.Success(c, http.StatusOK, body)
}

// failAttempt maps attempt service errors onto the response envelope.
func failAttempt(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotAttemptOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotAttemptOwner)
	case errors.Is(err, service.ErrAttemptCompleted):
		response.Fail(c, http.StatusConflict, response.ErrAttemptCompleted)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
