package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/middleware"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/quizdesk/quizdesk-backend/internal/validator"
)

// QuizHandler handles quiz authoring endpoints for teachers.
type QuizHandler struct {
	quizService    *service.QuizService
	attemptService *service.AttemptService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, attemptService *service.AttemptService) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		attemptService: attemptService,
	}
}

// ListQuizzes godoc
// GET /api/v1/teacher/quizzes
// Lists the caller's quizzes with pagination.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	quizzes, pagination, err := h.quizService.ListForOwner(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, pagination)
}

// GetQuiz godoc
// GET /api/v1/teacher/quizzes/:quiz_id
// Returns one of the caller's quizzes with its questions.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetForOwner(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// CreateQuiz godoc
// POST /api/v1/teacher/quizzes
// Creates a quiz with its questions and a generated access code.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   claims.UserID,
		IsPublished: req.IsPublished,
		Questions:   model.QuestionsFromRequests(req.Questions),
	}

	if err := h.quizService.Create(c.Request.Context(), quiz); err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// UpdateQuiz godoc
// PUT /api/v1/teacher/quizzes/:quiz_id
// Partially updates a quiz. Supplying questions replaces the whole set.
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), quizID, claims.UserID, &req)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// DeleteQuiz godoc
// DELETE /api/v1/teacher/quizzes/:quiz_id
// Deletes a quiz; its questions and attempts go with it.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID, claims.UserID); err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// PublishQuiz godoc
// POST /api/v1/teacher/quizzes/:quiz_id/publish
// Makes the quiz joinable by its access code and warms the payload cache.
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishQuiz godoc
// POST /api/v1/teacher/quizzes/:quiz_id/unpublish
// Hides the quiz from students and drops the cached payload.
func (h *QuizHandler) UnpublishQuiz(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *QuizHandler) setPublished(c *gin.Context, published bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.SetPublished(c.Request.Context(), quizID, claims.UserID, published)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// QuizResults godoc
// GET /api/v1/teacher/quizzes/:quiz_id/results
// Aggregated results: attempt counts, average, score distribution and
// per-question accuracy over completed attempts.
func (h *QuizHandler) QuizResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetForOwner(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failQuiz(c, err)
		return
	}

	attempts, err := h.attemptService.ListByQuiz(c.Request.Context(), quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	results := service.BuildQuizResults(quiz, quiz.Questions, attempts)
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// failQuiz maps quiz service errors onto the response envelope.
func failQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
	case errors.Is(err, service.ErrNotQuizOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotQuizOwner)
	case errors.Is(err, service.ErrCodeCollision):
		response.Fail(c, http.StatusConflict, response.ErrCodeCollision)
	case errors.Is(err, service.ErrInvalidCode):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCode)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrEmptyQuestion),
		errors.Is(err, service.ErrEmptyOption),
		errors.Is(err, service.ErrTooFewOptions),
		errors.Is(err, service.ErrCorrectOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
