package notify

import (
	"context"
	"sync"
)

// Message is one delivery captured by a Recorder.
type Message struct {
	Ref  string
	Text string
}

// Recorder keeps every message in memory. Err, when set, is returned from
// Notify after the message is recorded.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) Notify(_ context.Context, ref, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Ref: ref, Text: message})
	return r.Err
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
