// Package delivery sends notices to the candidate and reports when the
// candidate has answered. The simulated implementations stand in for a mail
// gateway and a candidate portal.
package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notice is one letter addressed to a candidate.
type Notice struct {
	CaseID    string
	Kind      string
	Recipient string
	Subject   string
	Body      string
}

// Receipt confirms that a notice left the system.
type Receipt struct {
	ID     string
	SentAt time.Time
}

// Sender delivers notices.
type Sender interface {
	Send(ctx context.Context, n Notice) (Receipt, error)
}

// ResponseSource blocks until the candidate responds to the preliminary
// notice for caseID.
type ResponseSource interface {
	Await(ctx context.Context, caseID string) error
}

// ErrEmptyNotice rejects a notice without a body.
var ErrEmptyNotice = errors.New("delivery: notice has no body")

// SimulatedSender waits a fixed delay and then reports success.
type SimulatedSender struct {
	Delay time.Duration
	Clock func() time.Time
}

// NewSimulatedSender returns a sender that completes after delay.
func NewSimulatedSender(delay time.Duration) *SimulatedSender {
	return &SimulatedSender{Delay: delay, Clock: time.Now}
}

func (s *SimulatedSender) Send(ctx context.Context, n Notice) (Receipt, error) {
	if n.Body == "" {
		return Receipt{}, ErrEmptyNotice
	}
	if err := sleep(ctx, s.Delay); err != nil {
		return Receipt{}, err
	}
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	return Receipt{ID: uuid.NewString(), SentAt: clock()}, nil
}

// SimulatedResponses reports a response after a fixed observation delay.
type SimulatedResponses struct {
	Delay time.Duration
}

func (s SimulatedResponses) Await(ctx context.Context, _ string) error {
	return sleep(ctx, s.Delay)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
