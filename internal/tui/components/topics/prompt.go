package topics

import (
	"context"
	"errors"
	"sync"

	"github.com/guilhermegouw/chatdesk/internal/bridge"
	"github.com/guilhermegouw/chatdesk/internal/session"
)

// ErrNoProgram is returned when a prompt is requested before the program
// is attached.
var ErrNoProgram = errors.New("prompt: no program attached")

// ShowPromptMsg asks the UI to open a text dialog. The answer, or an empty
// string on cancel, is sent on Reply.
type ShowPromptMsg struct {
	Request session.PromptRequest
	Reply   chan<- string
}

// Prompter answers session prompts through the running program. It blocks
// the caller until the dialog is answered, so it must not be called from
// the program's Update loop.
type Prompter struct {
	mu      sync.RWMutex
	program bridge.Sender
}

// NewPrompter creates a prompter with no program attached.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// SetProgram attaches the program dialogs are shown in.
func (p *Prompter) SetProgram(program bridge.Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.program = program
}

// Prompt shows a dialog and waits for the answer or ctx cancellation.
func (p *Prompter) Prompt(ctx context.Context, req session.PromptRequest) (string, error) {
	p.mu.RLock()
	program := p.program
	p.mu.RUnlock()
	if program == nil {
		return "", ErrNoProgram
	}

	reply := make(chan string, 1)
	program.Send(ShowPromptMsg{Request: req, Reply: reply})

	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

var _ session.Prompter = (*Prompter)(nil)
