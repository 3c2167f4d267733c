package app

import (
	"context"
	"fmt"
	"log"

	"topic-quiz-service/internal/domain"
)

// CategoryRepository reads the fixed category list.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
}

// TopicRepository persists topics.
type TopicRepository interface {
	ListTopicsByCategory(ctx context.Context, slug string) ([]domain.TopicSummary, error)
	GetTopic(ctx context.Context, topicID int64) (domain.Topic, error)
	CreateTopic(ctx context.Context, topic domain.Topic) (int64, error)
	UpdateTopic(ctx context.Context, topic domain.Topic) error
	// DeleteTopic removes the topic together with its questions.
	DeleteTopic(ctx context.Context, topicID int64) error
}

// QuestionRepository persists questions.
type QuestionRepository interface {
	QuestionSource
	GetQuestion(ctx context.Context, questionID int64) (domain.Question, error)
	CreateQuestion(ctx context.Context, question domain.Question) (int64, error)
	UpdateQuestion(ctx context.Context, question domain.Question) error
	DeleteQuestion(ctx context.Context, questionID int64) error
}

// ResultRepository persists finished attempts.
type ResultRepository interface {
	ResultSink
	ListResults(ctx context.Context, topicID int64, limit int) ([]domain.QuizResult, error)
}

// CatalogStore is the full data-access surface of the catalog.
type CatalogStore interface {
	CategoryRepository
	TopicRepository
	QuestionRepository
	ResultRepository
}

// QuestionCache drops cached question lists after writes.
type QuestionCache interface {
	Invalidate(ctx context.Context, topicID int64) error
}

// CatalogService contains the topic/question editing use cases.
type CatalogService struct {
	store            CatalogStore
	cache            QuestionCache
	defaultTimeLimit int
}

// NewCatalogService wires the catalog. cache may be nil when questions are
// read straight from the store.
func NewCatalogService(store CatalogStore, cache QuestionCache, defaultTimeLimit int) *CatalogService {
	if defaultTimeLimit <= 0 {
		defaultTimeLimit = domain.DefaultTimeLimit
	}
	return &CatalogService{store: store, cache: cache, defaultTimeLimit: defaultTimeLimit}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// ListTopics returns a category's topics with their question counts. An
// unknown slug yields an empty list.
func (s *CatalogService) ListTopics(ctx context.Context, slug string) ([]domain.TopicSummary, error) {
	return s.store.ListTopicsByCategory(ctx, slug)
}

func (s *CatalogService) GetTopic(ctx context.Context, topicID int64) (domain.Topic, error) {
	return s.store.GetTopic(ctx, topicID)
}

func (s *CatalogService) CreateTopic(ctx context.Context, topic domain.Topic) (int64, error) {
	if err := topic.Validate(); err != nil {
		return 0, err
	}
	ok, err := s.store.CategoryExists(ctx, topic.CategoryID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ErrCategoryNotFound
	}
	return s.store.CreateTopic(ctx, topic)
}

// UpdateTopic rewrites name, description and logo; the category is fixed.
func (s *CatalogService) UpdateTopic(ctx context.Context, topic domain.Topic) error {
	if err := topic.Validate(); err != nil {
		return err
	}
	return s.store.UpdateTopic(ctx, topic)
}

func (s *CatalogService) DeleteTopic(ctx context.Context, topicID int64) error {
	if err := s.store.DeleteTopic(ctx, topicID); err != nil {
		return err
	}
	s.invalidate(ctx, topicID)
	return nil
}

func (s *CatalogService) ListQuestions(ctx context.Context, topicID int64) ([]domain.Question, error) {
	return s.store.ListByTopic(ctx, topicID)
}

func (s *CatalogService) CreateQuestion(ctx context.Context, question domain.Question) (int64, error) {
	if err := question.Validate(s.defaultTimeLimit); err != nil {
		return 0, err
	}
	if _, err := s.store.GetTopic(ctx, question.TopicID); err != nil {
		return 0, err
	}
	id, err := s.store.CreateQuestion(ctx, question)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, question.TopicID)
	return id, nil
}

// UpdateQuestion rewrites a question's text, answers, key and time limit.
// The owning topic cannot change.
func (s *CatalogService) UpdateQuestion(ctx context.Context, question domain.Question) error {
	if err := question.Validate(s.defaultTimeLimit); err != nil {
		return err
	}
	existing, err := s.store.GetQuestion(ctx, question.ID)
	if err != nil {
		return err
	}
	question.TopicID = existing.TopicID
	if err := s.store.UpdateQuestion(ctx, question); err != nil {
		return err
	}
	s.invalidate(ctx, existing.TopicID)
	return nil
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, questionID int64) error {
	existing, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}
	s.invalidate(ctx, existing.TopicID)
	return nil
}

// RecordResult stores a client-reported result after checking its counters.
func (s *CatalogService) RecordResult(ctx context.Context, result domain.QuizResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	if err := s.store.Record(ctx, result); err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

func (s *CatalogService) ListResults(ctx context.Context, topicID int64, limit int) ([]domain.QuizResult, error) {
	if _, err := s.store.GetTopic(ctx, topicID); err != nil {
		return nil, err
	}
	return s.store.ListResults(ctx, topicID, limit)
}

func (s *CatalogService) invalidate(ctx context.Context, topicID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, topicID); err != nil {
		log.Printf("invalidate question cache for topic %d: %v", topicID, err)
	}
}
