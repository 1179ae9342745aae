package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/service"
)

const prompt = "> "

var errQuit = errors.New("quit")

// Services bundles the collaborators the shell drives.
type Services struct {
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Search     *service.SearchService
	Reminders  *service.ReminderService
}

// Shell is a line-oriented prompt over the task services.
type Shell struct {
	svc   Services
	in    io.Reader
	out   io.Writer
	now   func() time.Time
	loc   *time.Location
	lines chan string

	// stopped is closed once the input reader goroutine has returned.
	stopped chan struct{}

	mu   sync.Mutex // guards out
	last []model.Task
}

type Option func(*Shell)

// WithClock replaces time.Now for overdue markers and reminders.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithLocation sets the zone used to read and print dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Shell) { s.loc = loc }
}

func New(svc Services, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		svc: svc,
		in:  in,
		out: out,
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads commands until exit, end of input or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	s.lines = make(chan string)
	s.stopped = make(chan struct{})
	done := make(chan struct{})
	defer close(done)
	go s.scan(s.lines, done, s.stopped)

	s.printf("Task manager ready. Type 'help' for commands.\n")
	for {
		s.printf(prompt)
		line, ok := s.readLine(ctx)
		if !ok {
			s.printf("\n")
			return ctx.Err()
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		err := s.handleCommand(ctx, line)
		switch {
		case errors.Is(err, errQuit):
			s.printf("Bye.\n")
			return nil
		case err != nil:
			log.Printf("[warn] command %q: %v", firstWord(line), err)
			s.printf("error: %s\n", userMessage(err))
		}
	}
}

// Notify prints an asynchronous message, such as a scheduled reminder, between prompts.
func (s *Shell) Notify(text string) {
	s.printf("\n%s\n%s", strings.TrimRight(text, "\n"), prompt)
}

// scan feeds input lines to Run until the input ends or done is closed.
// A Read already blocked on s.in still holds the goroutine until it returns.
func (s *Shell) scan(lines chan<- string, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	defer close(lines)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[warn] read input: %v", err)
	}
}

// readLine returns false on end of input or cancellation.
func (s *Shell) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		return line, ok
	}
}

// ask prints label and returns the trimmed answer.
func (s *Shell) ask(ctx context.Context, label string) (string, error) {
	s.printf("%s: ", label)
	line, ok := s.readLine(ctx)
	if !ok {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func firstWord(line string) string {
	if fields := strings.Fields(line); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// userMessage strips the sentinel prefix so the user sees only the detail.
func userMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		model.ErrValidation, model.ErrNotFound, model.ErrConflict,
		model.ErrIllegalTransition, model.ErrPersistence,
	} {
		if errors.Is(err, sentinel) {
			if trimmed := strings.TrimPrefix(msg, sentinel.Error()+": "); trimmed != msg {
				return trimmed
			}
		}
	}
	return msg
}
