package domain

import "errors"

var (
	// ErrCategoryNotFound is returned when a topic references an unknown category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrTopicNotFound indicates the topic row does not exist.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrQuestionNotFound indicates the question row does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidTopic is returned when topic fields fail validation.
	ErrInvalidTopic = errors.New("invalid topic")
	// ErrInvalidQuestion is returned when question fields fail validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidCorrectAnswer flags a stored question whose correct label is outside A-D.
	ErrInvalidCorrectAnswer = errors.New("correct answer label must be one of A, B, C, D")
	// ErrInvalidResult is returned when a quiz result payload is inconsistent.
	ErrInvalidResult = errors.New("invalid quiz result")
	// ErrNoQuestions means a topic has nothing to play.
	ErrNoQuestions = errors.New("no questions available")

	// ErrSessionNotFound is returned when a play session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionClosed is returned for operations on a torn-down session.
	ErrSessionClosed = errors.New("quiz session closed")
	// ErrSessionNotFinished is returned when restarting a session that is still in play.
	ErrSessionNotFinished = errors.New("quiz session not finished")
	// ErrAnswerOutOfRange indicates a submitted answer index outside A-D.
	ErrAnswerOutOfRange = errors.New("answer index out of range")

	// ErrUnsupportedUpload is returned for file extensions outside the allow list.
	ErrUnsupportedUpload = errors.New("unsupported file type")
	// ErrUploadTooLarge is returned when an uploaded file exceeds the configured size.
	ErrUploadTooLarge = errors.New("file too large")
)
