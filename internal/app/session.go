package app

import (
	"topic-quiz-service/internal/domain"
)

// State is the phase of a quiz play-through.
type State int

const (
	StatePlaying State = iota
	StateAnswered
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateAnswered:
		return "answered"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Outcome records how the current question was answered.
type Outcome struct {
	Selected int  // domain.Timeout when the countdown expired
	Correct  bool // always false for a timeout
}

// QuizSession is the state machine for one play-through of a topic.
// It is not safe for concurrent use; Player serializes access to it.
type QuizSession struct {
	topicID      int64
	questions    []domain.Question
	correct      []int
	defaultLimit int

	state     State
	position  int
	score     int
	remaining int
	outcome   *Outcome
}

// NewQuizSession starts a session over an ordered, non-empty question list.
// Every question's correct label is resolved up front so corrupt rows fail
// before play begins.
func NewQuizSession(topicID int64, questions []domain.Question, defaultLimit int) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	correct := make([]int, len(questions))
	for i, q := range questions {
		idx, err := q.CorrectIndex()
		if err != nil {
			return nil, err
		}
		correct[i] = idx
	}
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultTimeLimit
	}

	fixed := make([]domain.Question, len(questions))
	copy(fixed, questions)

	s := &QuizSession{
		topicID:      topicID,
		questions:    fixed,
		correct:      correct,
		defaultLimit: defaultLimit,
	}
	s.reset()
	return s, nil
}

func (s *QuizSession) reset() {
	s.position = 0
	s.score = 0
	s.outcome = nil
	s.state = StatePlaying
	s.remaining = s.limitAt(0)
}

func (s *QuizSession) limitAt(pos int) int {
	return s.questions[pos].EffectiveTimeLimit(s.defaultLimit)
}

// Tick advances the countdown by one second. It reports true when the
// countdown hit zero and the question was scored as a timeout.
func (s *QuizSession) Tick() bool {
	if s.state != StatePlaying {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return false
	}
	accepted, _ := s.SubmitAnswer(domain.Timeout)
	return accepted
}

// SubmitAnswer scores the current question. Answers outside Playing are
// ignored (accepted == false), which keeps a timeout and a late click from
// both counting.
func (s *QuizSession) SubmitAnswer(selected int) (bool, error) {
	if s.state != StatePlaying {
		return false, nil
	}
	if selected != domain.Timeout && (selected < 0 || selected >= len(domain.AnswerLabels)) {
		return false, domain.ErrAnswerOutOfRange
	}

	correct := selected == s.correct[s.position]
	if correct {
		s.score++
	}
	s.outcome = &Outcome{Selected: selected, Correct: correct}
	s.state = StateAnswered
	return true, nil
}

// Advance moves past an answered question. On the last question the session
// finishes and the aggregate result is returned with finished == true.
func (s *QuizSession) Advance() (result domain.QuizResult, finished bool) {
	if s.state != StateAnswered {
		return domain.QuizResult{}, false
	}
	if s.position == len(s.questions)-1 {
		s.state = StateFinished
		return s.Result(), true
	}
	s.position++
	s.outcome = nil
	s.remaining = s.limitAt(s.position)
	s.state = StatePlaying
	return domain.QuizResult{}, false
}

// Restart replays the same question order from the beginning.
func (s *QuizSession) Restart() error {
	if s.state != StateFinished {
		return domain.ErrSessionNotFinished
	}
	s.reset()
	return nil
}

// Result reports the score so far as a QuizResult.
func (s *QuizSession) Result() domain.QuizResult {
	return domain.NewQuizResult(s.topicID, len(s.questions), s.score)
}

func (s *QuizSession) State() State       { return s.state }
func (s *QuizSession) Position() int      { return s.position }
func (s *QuizSession) Score() int         { return s.score }
func (s *QuizSession) TimeRemaining() int { return s.remaining }
func (s *QuizSession) Total() int         { return len(s.questions) }
func (s *QuizSession) TopicID() int64     { return s.topicID }

// Current returns the question at the current position.
func (s *QuizSession) Current() domain.Question {
	return s.questions[s.position]
}

// LastOutcome returns the outcome of the current question, if answered.
func (s *QuizSession) LastOutcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Snapshot renders the session for clients. The correct label is only
// revealed once the current question has been scored.
func (s *QuizSession) Snapshot() Snapshot {
	q := s.Current()
	snap := Snapshot{
		TopicID:       s.topicID,
		State:         s.state.String(),
		Position:      s.position,
		Total:         len(s.questions),
		Score:         s.score,
		TimeRemaining: s.remaining,
		TimeLimit:     s.limitAt(s.position),
	}
	if s.state != StateFinished {
		snap.Question = &PublicQuestion{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Answers: q.Answers(),
		}
	}
	if s.outcome != nil {
		selected := s.outcome.Selected
		correct := s.outcome.Correct
		snap.Selected = &selected
		snap.Correct = &correct
		snap.CorrectAnswer = domain.AnswerLabels[s.correct[s.position]]
	}
	if s.state == StateFinished {
		result := s.Result()
		snap.Result = &result
	}
	return snap
}

// PublicQuestion is a question without its answer key.
type PublicQuestion struct {
	ID      int64     `json:"id"`
	Prompt  string    `json:"prompt"`
	Answers [4]string `json:"answers"`
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	SessionID     string             `json:"sessionId,omitempty"`
	TopicID       int64              `json:"topicId"`
	State         string             `json:"state"`
	Position      int                `json:"position"`
	Total         int                `json:"total"`
	Score         int                `json:"score"`
	TimeRemaining int                `json:"timeRemaining"`
	TimeLimit     int                `json:"timeLimit"`
	Question      *PublicQuestion    `json:"question,omitempty"`
	Selected      *int               `json:"selected,omitempty"`
	Correct       *bool              `json:"correct,omitempty"`
	CorrectAnswer string             `json:"correctAnswer,omitempty"`
	Result        *domain.QuizResult `json:"result,omitempty"`
}
