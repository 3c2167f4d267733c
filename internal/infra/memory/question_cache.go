package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/domain"
)

// QuestionCache caches each topic's question list with a TTL to avoid
// repeated store hits when many players open the same topic.
type QuestionCache struct {
	loader app.QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[int64]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader app.QuestionSource, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuestions),
	}
}

func (c *QuestionCache) ListByTopic(ctx context.Context, topicID int64) ([]domain.Question, error) {
	if questions, ok := c.lookup(topicID); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(strconv.FormatInt(topicID, 10), func() (interface{}, error) {
		if questions, ok := c.lookup(topicID); ok {
			return questions, nil
		}

		questions, err := c.loader.ListByTopic(ctx, topicID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[topicID] = cachedQuestions{
			questions: questions,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached list for a topic.
func (c *QuestionCache) Invalidate(_ context.Context, topicID int64) error {
	c.mu.Lock()
	delete(c.cache, topicID)
	c.mu.Unlock()
	return nil
}

func (c *QuestionCache) lookup(topicID int64) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[topicID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return entry.questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticQuestionSource serves fixed question lists (useful for tests/demos).
type StaticQuestionSource struct {
	questions map[int64][]domain.Question
}

func NewStaticQuestionSource(questions map[int64][]domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{questions: questions}
}

func (s *StaticQuestionSource) ListByTopic(_ context.Context, topicID int64) ([]domain.Question, error) {
	if questions, ok := s.questions[topicID]; ok {
		return questions, nil
	}
	return nil, domain.ErrTopicNotFound
}
