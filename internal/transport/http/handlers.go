package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/domain"
	"topic-quiz-service/internal/infra/disk"
)

const defaultResultsLimit = 20

// Handler serves the catalog REST endpoints.
type Handler struct {
	catalog *app.CatalogService
	uploads *disk.UploadStore
}

func NewHandler(catalog *app.CatalogService, uploads *disk.UploadStore) *Handler {
	return &Handler{catalog: catalog, uploads: uploads}
}

type topicRequest struct {
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type questionRequest struct {
	TopicID       int64  `json:"topic_id"`
	Question      string `json:"question"`
	AnswerA       string `json:"answer_a"`
	AnswerB       string `json:"answer_b"`
	AnswerC       string `json:"answer_c"`
	AnswerD       string `json:"answer_d"`
	CorrectAnswer string `json:"correct_answer"`
	TimeLimit     int    `json:"time_limit"`
}

func (r questionRequest) toDomain(id int64) domain.Question {
	return domain.Question{
		ID:            id,
		TopicID:       r.TopicID,
		Prompt:        r.Question,
		AnswerA:       r.AnswerA,
		AnswerB:       r.AnswerB,
		AnswerC:       r.AnswerC,
		AnswerD:       r.AnswerD,
		CorrectAnswer: r.CorrectAnswer,
		TimeLimit:     r.TimeLimit,
	}
}

type resultRequest struct {
	TopicID         int64 `json:"topic_id"`
	TotalQuestions  int   `json:"total_questions"`
	CorrectAnswers  int   `json:"correct_answers"`
	ScorePercentage int   `json:"score_percentage"`
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) ListTopics(c *gin.Context) {
	topics, err := h.catalog.ListTopics(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (h *Handler) GetTopic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	topic, err := h.catalog.GetTopic(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *Handler) CreateTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.catalog.CreateTopic(c.Request.Context(), domain.Topic{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Topic created successfully"})
}

func (h *Handler) UpdateTopic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.catalog.UpdateTopic(c.Request.Context(), domain.Topic{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Topic updated successfully"})
}

func (h *Handler) DeleteTopic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteTopic(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Topic deleted successfully"})
}

func (h *Handler) ListResults(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit := defaultResultsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	results, err := h.catalog.ListResults(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) ListQuestions(c *gin.Context) {
	topicID, ok := pathID(c, "topicId")
	if !ok {
		return
	}
	questions, err := h.catalog.ListQuestions(c.Request.Context(), topicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) CreateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.catalog.CreateQuestion(c.Request.Context(), req.toDomain(0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Question created successfully"})
}

func (h *Handler) UpdateQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalog.UpdateQuestion(c.Request.Context(), req.toDomain(id)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully"})
}

func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteQuestion(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

func (h *Handler) RecordResult(c *gin.Context) {
	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.catalog.RecordResult(c.Request.Context(), domain.QuizResult{
		TopicID:         req.TopicID,
		TotalQuestions:  req.TotalQuestions,
		CorrectAnswers:  req.CorrectAnswers,
		ScorePercentage: req.ScorePercentage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Quiz result saved successfully"})
}

// Upload stores a question document sent as the multipart field "file".
func (h *Handler) Upload(c *gin.Context) {
	// leave headroom for the multipart envelope
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxSize()+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, domain.ErrUploadTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	file, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	stored, err := h.uploads.Save(header.Filename, header.Size, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded successfully",
		"filename": stored.Filename,
		"path":     stored.Path,
	})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to a status and always answers {"error": msg}.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTopic),
		errors.Is(err, domain.ErrInvalidQuestion),
		errors.Is(err, domain.ErrInvalidResult),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrUnsupportedUpload),
		errors.Is(err, domain.ErrUploadTooLarge),
		errors.Is(err, domain.ErrAnswerOutOfRange),
		errors.Is(err, domain.ErrSessionNotFinished):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTopicNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNoQuestions):
		return http.StatusNotFound
	}
	log.Printf("request failed: %v", err)
	return http.StatusInternalServerError
}
