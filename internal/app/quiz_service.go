package app

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"topic-quiz-service/internal/domain"
)

// QuestionSource loads a topic's questions ordered by creation time ascending.
type QuestionSource interface {
	ListByTopic(ctx context.Context, topicID int64) ([]domain.Question, error)
}

// ResultSink records a finished attempt. Failures are not fatal to play.
type ResultSink interface {
	Record(ctx context.Context, result domain.QuizResult) error
}

// SessionRepository abstracts where live players are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(player *Player)
	Get(sessionID string) (*Player, bool)
	Delete(sessionID string)
}

// PlayConfig tunes sessions created by PlayService.
type PlayConfig struct {
	Player           PlayerConfig
	DefaultTimeLimit int // seconds, used when a question has none
}

// PlayService contains the quiz-playing use cases.
type PlayService struct {
	sessions  SessionRepository
	questions QuestionSource
	results   ResultSink
	cfg       PlayConfig
	newID     func() string
}

func NewPlayService(sessions SessionRepository, questions QuestionSource, results ResultSink, cfg PlayConfig) *PlayService {
	return &PlayService{
		sessions:  sessions,
		questions: questions,
		results:   results,
		cfg:       cfg,
		newID:     uuid.NewString,
	}
}

// Start loads the topic's questions and begins a timed session. A topic
// that cannot be loaded or has no questions yields domain.ErrNoQuestions.
func (s *PlayService) Start(ctx context.Context, topicID int64) (*Player, error) {
	questions, err := s.questions.ListByTopic(ctx, topicID)
	if err != nil {
		log.Printf("load questions for topic %d: %v", topicID, err)
		return nil, domain.ErrNoQuestions
	}

	session, err := NewQuizSession(topicID, questions, s.cfg.DefaultTimeLimit)
	if err != nil {
		return nil, err
	}

	player := NewPlayer(s.newID(), session, s.results, s.cfg.Player)
	s.sessions.Put(player)
	return player, nil
}

// Answer submits an answer index for the session's current question.
func (s *PlayService) Answer(ctx context.Context, sessionID string, index int) (Snapshot, bool, error) {
	player, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, false, domain.ErrSessionNotFound
	}
	return player.Answer(ctx, index)
}

// Restart replays a finished session.
func (s *PlayService) Restart(ctx context.Context, sessionID string) (Snapshot, error) {
	player, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return player.Restart(ctx)
}

// Snapshot returns the current view of a session.
func (s *PlayService) Snapshot(_ context.Context, sessionID string) (Snapshot, error) {
	player, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return player.Snapshot(), nil
}

// Subscribe returns a channel that receives session updates.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *PlayService) Subscribe(_ context.Context, sessionID string) (<-chan Snapshot, func(), error) {
	player, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := player.Subscribe()
	return ch, cancel, nil
}

// End tears a session down and forgets it.
func (s *PlayService) End(_ context.Context, sessionID string) {
	player, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	player.Close()
	s.sessions.Delete(sessionID)
}

// FanoutSink records a result to every sink and joins their errors.
type FanoutSink []ResultSink

func (f FanoutSink) Record(ctx context.Context, result domain.QuizResult) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
