package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"topic-quiz-service/internal/domain"
)

// CatalogStore is an in-memory implementation of app.CatalogStore, used when
// no SQL database is configured and in tests.
type CatalogStore struct {
	mu         sync.RWMutex
	clock      func() time.Time
	categories []domain.Category
	topics     map[int64]domain.Topic
	questions  map[int64]domain.Question
	results    []domain.QuizResult
	nextID     int64
}

func NewCatalogStore() *CatalogStore {
	categories := make([]domain.Category, len(domain.SeedCategories))
	copy(categories, domain.SeedCategories)
	return &CatalogStore{
		clock:      time.Now,
		categories: categories,
		topics:     make(map[int64]domain.Topic),
		questions:  make(map[int64]domain.Question),
	}
}

func (s *CatalogStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *CatalogStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *CatalogStore) CategoryExists(_ context.Context, categoryID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (s *CatalogStore) ListTopicsByCategory(_ context.Context, slug string) ([]domain.TopicSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var category *domain.Category
	for i := range s.categories {
		if s.categories[i].Slug == slug {
			category = &s.categories[i]
			break
		}
	}
	out := []domain.TopicSummary{}
	if category == nil {
		return out, nil
	}

	counts := make(map[int64]int)
	for _, q := range s.questions {
		counts[q.TopicID]++
	}
	for _, t := range s.topics {
		if t.CategoryID != category.ID {
			continue
		}
		out = append(out, domain.TopicSummary{
			Topic:         t,
			CategoryName:  category.Name,
			QuestionCount: counts[t.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CatalogStore) GetTopic(_ context.Context, topicID int64) (domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.topics[topicID]
	if !ok {
		return domain.Topic{}, domain.ErrTopicNotFound
	}
	return t, nil
}

func (s *CatalogStore) CreateTopic(_ context.Context, topic domain.Topic) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	topic.ID = s.id()
	topic.CreatedAt = s.clock().UTC()
	s.topics[topic.ID] = topic
	return topic.ID, nil
}

func (s *CatalogStore) UpdateTopic(_ context.Context, topic domain.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.topics[topic.ID]
	if !ok {
		return domain.ErrTopicNotFound
	}
	existing.Name = topic.Name
	existing.Description = topic.Description
	existing.Logo = topic.Logo
	s.topics[topic.ID] = existing
	return nil
}

func (s *CatalogStore) DeleteTopic(_ context.Context, topicID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.topics[topicID]; !ok {
		return domain.ErrTopicNotFound
	}
	delete(s.topics, topicID)
	for id, q := range s.questions {
		if q.TopicID == topicID {
			delete(s.questions, id)
		}
	}
	return nil
}

func (s *CatalogStore) ListByTopic(_ context.Context, topicID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Question{}
	for _, q := range s.questions {
		if q.TopicID == topicID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *CatalogStore) GetQuestion(_ context.Context, questionID int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[questionID]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *CatalogStore) CreateQuestion(_ context.Context, question domain.Question) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.topics[question.TopicID]; !ok {
		return 0, domain.ErrTopicNotFound
	}
	question.ID = s.id()
	question.CreatedAt = s.clock().UTC()
	s.questions[question.ID] = question
	return question.ID, nil
}

func (s *CatalogStore) UpdateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.questions[question.ID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	question.TopicID = existing.TopicID
	question.CreatedAt = existing.CreatedAt
	s.questions[question.ID] = question
	return nil
}

func (s *CatalogStore) DeleteQuestion(_ context.Context, questionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[questionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, questionID)
	return nil
}

func (s *CatalogStore) Record(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	result.ID = s.id()
	result.CreatedAt = s.clock().UTC()
	s.results = append(s.results, result)
	return nil
}

// ListResults returns the newest results for a topic first; limit <= 0 means all.
func (s *CatalogStore) ListResults(_ context.Context, topicID int64, limit int) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.QuizResult{}
	for i := len(s.results) - 1; i >= 0; i-- {
		if s.results[i].TopicID != topicID {
			continue
		}
		out = append(out, s.results[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
