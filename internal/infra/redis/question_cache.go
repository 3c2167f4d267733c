package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/domain"
)

// QuestionCache caches each topic's ordered question list in Redis and falls
// back to a loader on a miss.
// Lists are stored as JSON: SET topic:{topicID}:questions [...] EX ttl
type QuestionCache struct {
	client *redis.Client
	loader app.QuestionSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuestionCache(client *redis.Client, loader app.QuestionSource, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) ListByTopic(ctx context.Context, topicID int64) ([]domain.Question, error) {
	if questions, ok := c.lookup(ctx, topicID); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(strconv.FormatInt(topicID, 10), func() (interface{}, error) {
		// another caller may have filled the key meanwhile
		if questions, ok := c.lookup(ctx, topicID); ok {
			return questions, nil
		}

		questions, err := c.loader.ListByTopic(ctx, topicID)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(questions)
		if err != nil {
			return nil, fmt.Errorf("encode questions: %w", err)
		}
		if err := c.client.Set(ctx, questionsKey(topicID), payload, c.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache questions for topic %d: %v", topicID, err)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached list for a topic.
func (c *QuestionCache) Invalidate(ctx context.Context, topicID int64) error {
	return c.client.Del(ctx, questionsKey(topicID)).Err()
}

func (c *QuestionCache) lookup(ctx context.Context, topicID int64) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, questionsKey(topicID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached questions for topic %d: %v", topicID, err)
		}
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func questionsKey(topicID int64) string {
	return "topic:" + strconv.FormatInt(topicID, 10) + ":questions"
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
