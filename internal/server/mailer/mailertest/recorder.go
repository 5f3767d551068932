// Package mailertest provides an in-memory Mailer for tests.
package mailertest

import (
	"context"
	"sync"

	"github.com/janusipm/brandvigilante/internal/server/mailer"
)

type Recorder struct {
	mu   sync.Mutex
	sent []mailer.Message

	// Err, when set, fails every Send without recording.
	Err error
}

func (r *Recorder) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *Recorder) Sent() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]mailer.Message, len(r.sent))
	copy(out, r.sent)
	return out
}

// To returns the messages addressed to the given recipient.
func (r *Recorder) To(addr string) []mailer.Message {
	var out []mailer.Message
	for _, m := range r.Sent() {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}
