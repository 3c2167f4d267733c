package app

import (
	"context"
	"log"
	"sync"
	"time"

	"topic-quiz-service/internal/domain"
)

// PlayerConfig controls the pacing of a Player.
type PlayerConfig struct {
	Tick          time.Duration // countdown cadence, one second in production
	ResultDisplay time.Duration // delay between scoring and auto-advance
	RecordTimeout time.Duration // upper bound for a ResultSink write
}

func (c PlayerConfig) withDefaults() PlayerConfig {
	if c.Tick <= 0 {
		c.Tick = time.Second
	}
	if c.ResultDisplay <= 0 {
		c.ResultDisplay = 2 * time.Second
	}
	if c.RecordTimeout <= 0 {
		c.RecordTimeout = 5 * time.Second
	}
	return c
}

// Player runs one QuizSession on its own goroutine. Timer ticks, answer
// submissions, restarts and the auto-advance timer are all handled by that
// goroutine, so the session itself needs no locking.
type Player struct {
	id      string
	session *QuizSession
	sink    ResultSink
	cfg     PlayerConfig

	answers  chan answerRequest
	restarts chan chan error
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once

	recording sync.WaitGroup

	mu          sync.Mutex
	closed      bool
	last        Snapshot
	subscribers map[chan Snapshot]struct{}
}

type answerRequest struct {
	index int
	reply chan answerReply
}

type answerReply struct {
	snapshot Snapshot
	accepted bool
	err      error
}

// NewPlayer starts driving session. sink may be nil.
func NewPlayer(id string, session *QuizSession, sink ResultSink, cfg PlayerConfig) *Player {
	p := &Player{
		id:          id,
		session:     session,
		sink:        sink,
		cfg:         cfg.withDefaults(),
		answers:     make(chan answerRequest),
		restarts:    make(chan chan error),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		subscribers: make(map[chan Snapshot]struct{}),
	}
	p.last = p.render()
	go p.loop()
	return p
}

// ID returns the session id the player was registered under.
func (p *Player) ID() string {
	return p.id
}

// Answer submits an answer index (0-3) for the current question. accepted is
// false when the question was already scored.
func (p *Player) Answer(ctx context.Context, index int) (Snapshot, bool, error) {
	req := answerRequest{index: index, reply: make(chan answerReply, 1)}
	select {
	case p.answers <- req:
	case <-p.done:
		return Snapshot{}, false, domain.ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, false, ctx.Err()
	}
	reply := <-req.reply
	return reply.snapshot, reply.accepted, reply.err
}

// Restart replays a finished session from the first question.
func (p *Player) Restart(ctx context.Context) (Snapshot, error) {
	reply := make(chan error, 1)
	select {
	case p.restarts <- reply:
	case <-p.done:
		return Snapshot{}, domain.ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	if err := <-reply; err != nil {
		return p.Snapshot(), err
	}
	return p.Snapshot(), nil
}

// Snapshot returns the most recently published state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Subscribe returns a channel of state updates starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (p *Player) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	p.subscribers[ch] = struct{}{}
	ch <- p.last
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subscribers[ch]; ok {
			delete(p.subscribers, ch)
			close(ch)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

// Close tears the player down. A pending auto-advance is cancelled and never
// fires; subscriber channels are closed.
func (p *Player) Close() {
	p.once.Do(func() {
		close(p.done)
		<-p.stopped

		p.mu.Lock()
		p.closed = true
		for ch := range p.subscribers {
			delete(p.subscribers, ch)
			close(ch)
		}
		p.mu.Unlock()
	})
}

// Done is closed once the player has been torn down.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until in-flight result writes have completed.
func (p *Player) Wait() {
	p.recording.Wait()
}

func (p *Player) loop() {
	defer close(p.stopped)

	ticker := time.NewTicker(p.cfg.Tick)
	defer ticker.Stop()

	var advance *time.Timer
	var advanceC <-chan time.Time
	defer func() {
		if advance != nil {
			advance.Stop()
		}
	}()
	scheduleAdvance := func() {
		advance = time.NewTimer(p.cfg.ResultDisplay)
		advanceC = advance.C
	}

	for {
		select {
		case <-p.done:
			return

		case <-ticker.C:
			if p.session.State() != StatePlaying {
				continue
			}
			if p.session.Tick() {
				scheduleAdvance()
			}
			p.publish()

		case req := <-p.answers:
			accepted, err := p.session.SubmitAnswer(req.index)
			if accepted {
				scheduleAdvance()
				p.publish()
			}
			req.reply <- answerReply{snapshot: p.Snapshot(), accepted: accepted, err: err}

		case <-advanceC:
			advance, advanceC = nil, nil
			result, finished := p.session.Advance()
			if finished {
				p.record(result)
			} else {
				ticker.Reset(p.cfg.Tick)
			}
			p.publish()

		case reply := <-p.restarts:
			err := p.session.Restart()
			if err == nil {
				ticker.Reset(p.cfg.Tick)
				p.publish()
			}
			reply <- err
		}
	}
}

func (p *Player) render() Snapshot {
	snap := p.session.Snapshot()
	snap.SessionID = p.id
	return snap
}

func (p *Player) publish() {
	snap := p.render()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = snap
	for ch := range p.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale update so a slow reader never blocks the session
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// record hands the result to the sink without holding up the session.
func (p *Player) record(result domain.QuizResult) {
	if p.sink == nil {
		return
	}
	p.recording.Add(1)
	go func() {
		defer p.recording.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.RecordTimeout)
		defer cancel()
		if err := p.sink.Record(ctx, result); err != nil {
			log.Printf("record quiz result for topic %d failed: %v", result.TopicID, err)
		}
	}()
}
