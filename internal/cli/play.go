package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"topic-quiz-service/internal/app"
	"topic-quiz-service/internal/client"
	"topic-quiz-service/internal/config"
	"topic-quiz-service/internal/domain"
)

// NewPlayCmd plays a topic in the terminal against a running server.
func NewPlayCmd(configPath, port *string) *cobra.Command {
	var (
		serverURL string
		topicID   int64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a topic's quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if serverURL == "" {
				serverURL = "http://localhost:" + *port
			}
			api := client.New(serverURL, nil)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if topic, err := api.GetTopic(ctx, topicID); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", topic.Name, topic.Description)
			}

			return runPlay(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), topicID, api, api, cfg.Quiz.DefaultTimeLimit, app.PlayerConfig{
				Tick:          config.Duration(cfg.Quiz.Tick, time.Second),
				ResultDisplay: config.Duration(cfg.Quiz.ResultDisplay, 2*time.Second),
				RecordTimeout: config.Duration(cfg.Quiz.RecordTimeout, 5*time.Second),
			})
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "quiz server base URL (default http://localhost:<port>)")
	cmd.Flags().Int64Var(&topicID, "topic", 0, "topic id to play")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

// runPlay drives one session from line-based input. Letters A-D answer,
// r restarts a finished quiz and q quits. When input ends the current run
// is played out (unanswered questions time out) before returning.
func runPlay(ctx context.Context, in io.Reader, out io.Writer, topicID int64, src app.QuestionSource, sink app.ResultSink, defaultLimit int, cfg app.PlayerConfig) error {
	questions, err := src.ListByTopic(ctx, topicID)
	if err != nil {
		return fmt.Errorf("load questions for topic %d: %w", topicID, err)
	}
	session, err := app.NewQuizSession(topicID, questions, defaultLimit)
	if err != nil {
		return err
	}

	player := app.NewPlayer("terminal", session, sink, cfg)
	defer player.Wait()
	defer player.Close()

	updates, cancel := player.Subscribe()
	defer cancel()

	stop := make(chan struct{})
	defer close(stop)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-stop:
				return
			}
		}
	}()

	view := &terminalView{out: out}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			view.render(snap)
			if snap.State == app.StateFinished.String() && lines == nil {
				return nil
			}

		case line, ok := <-lines:
			if !ok {
				lines = nil
				if snap := player.Snapshot(); snap.State == app.StateFinished.String() {
					view.render(snap)
					return nil
				}
				continue
			}
			switch cmd := strings.ToUpper(line); cmd {
			case "":
			case "Q":
				return nil
			case "R":
				if _, err := player.Restart(ctx); err != nil {
					fmt.Fprintf(out, "cannot restart: %v\n", err)
				}
			case "A", "B", "C", "D":
				index := strings.Index("ABCD", cmd)
				if _, accepted, err := player.Answer(ctx, index); err != nil {
					fmt.Fprintf(out, "answer failed: %v\n", err)
				} else if !accepted {
					fmt.Fprintln(out, "already answered, wait for the next question")
				}
			default:
				fmt.Fprintln(out, "type A, B, C or D to answer (q quits)")
			}
		}
	}
}

type terminalView struct {
	out       io.Writer
	lastState string
	lastPos   int
}

func (v *terminalView) render(s app.Snapshot) {
	changed := s.State != v.lastState || s.Position != v.lastPos
	v.lastState, v.lastPos = s.State, s.Position
	if !changed {
		return
	}

	switch s.State {
	case app.StatePlaying.String():
		if s.Question == nil {
			return
		}
		fmt.Fprintf(v.out, "\nQuestion %d/%d [%ds]: %s\n", s.Position+1, s.Total, s.TimeLimit, s.Question.Prompt)
		for i, answer := range s.Question.Answers {
			fmt.Fprintf(v.out, "  %s. %s\n", domain.AnswerLabels[i], answer)
		}
	case app.StateAnswered.String():
		switch {
		case s.Selected != nil && *s.Selected == domain.Timeout:
			fmt.Fprintf(v.out, "Time is up! The answer was %s.\n", s.CorrectAnswer)
		case s.Correct != nil && *s.Correct:
			fmt.Fprintln(v.out, "Correct!")
		default:
			fmt.Fprintf(v.out, "Wrong. The answer was %s.\n", s.CorrectAnswer)
		}
	case app.StateFinished.String():
		if s.Result != nil {
			fmt.Fprintf(v.out, "\nScore: %d/%d (%d%%)\nr restarts, q quits\n",
				s.Result.CorrectAnswers, s.Result.TotalQuestions, s.Result.ScorePercentage)
		}
	}
}
