package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Option customizes clocks and identity generation for the services.
type Option func(*settings)

type settings struct {
	now          func() time.Time
	newID        func() string
	newShareCode func() string
}

// WithClock is mostly useful for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option { return func(s *settings) { s.now = now } }

// WithIDGenerator replaces uuid-based ids.
func WithIDGenerator(f func() string) Option { return func(s *settings) { s.newID = f } }

// WithShareCodeGenerator replaces the QUIZ-XXXXXXXX share code format.
func WithShareCodeGenerator(f func() string) Option { return func(s *settings) { s.newShareCode = f } }

func newSettings(opts []Option) settings {
	s := settings{
		now:          time.Now,
		newID:        uuid.NewString,
		newShareCode: GenerateShareCode,
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// GenerateShareCode returns "QUIZ-" followed by eight uppercase hex characters.
func GenerateShareCode() string {
	return "QUIZ-" + strings.ToUpper(uuid.NewString()[:8])
}
