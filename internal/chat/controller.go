// Package chat holds the conversation transcript and the submission
// controller that talks to the completion endpoint.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/codeassist/internal/config"
	apierrors "github.com/diogo/codeassist/internal/errors"
	"github.com/diogo/codeassist/internal/logging"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. It has no identity beyond its position.
type Message struct {
	Role    Role
	Content string
}

// Seeded assistant texts
const (
	WelcomeGreeting = "👋 Hello! I'm your AI Coding Assistant. I can help you with:\n\n" +
		"• Debug and fix code errors\n" +
		"• Explain errors with detailed solutions\n" +
		"• Generate code from descriptions\n" +
		"• Support multiple programming languages\n\n" +
		"Just paste your code or describe what you need!"
	ClearedGreeting = "👋 Chat cleared! How can I help you with coding today?"
	CopyAck         = "✅ Code copied to clipboard!"
)

// Completer performs one completion call
type Completer interface {
	Complete(ctx context.Context, language, userMessage string) (string, error)
}

// Clipboard writes text to the platform clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// Request is a submission accepted by Begin and completed by Finish
type Request struct {
	ID       string
	Prompt   string
	Language string
}

// Controller owns the transcript and gates submissions with an in-flight flag.
// All methods are safe for concurrent use.
type Controller struct {
	completer Completer
	clipboard Clipboard
	logger    *slog.Logger

	welcome string
	cleared string

	mu       sync.Mutex
	messages []Message
	input    string
	language string
	inFlight bool
}

// Option configures a Controller
type Option func(*Controller)

// WithClipboard sets the clipboard used by Copy
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) {
		c.clipboard = cb
	}
}

// WithLanguage sets the initial language tag
func WithLanguage(tag string) Option {
	return func(c *Controller) {
		c.language = tag
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithGreeting overrides the seeded welcome and cleared texts
func WithGreeting(welcome, cleared string) Option {
	return func(c *Controller) {
		c.welcome = welcome
		c.cleared = cleared
	}
}

// NewController creates a controller whose transcript holds the welcome greeting
func NewController(completer Completer, opts ...Option) *Controller {
	c := &Controller{
		completer: completer,
		clipboard: SystemClipboard{},
		logger:    logging.Discard(),
		welcome:   WelcomeGreeting,
		cleared:   ClearedGreeting,
		language:  config.DefaultLanguage,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.messages = []Message{{Role: RoleAssistant, Content: c.welcome}}
	return c
}

// Submit sends text and waits for the reply. It returns false without
// touching the transcript when text is blank or a request is in flight.
// Failures end up in the transcript as an assistant message.
func (c *Controller) Submit(ctx context.Context, text string) bool {
	req, ok := c.Begin(text)
	if !ok {
		return false
	}
	c.Finish(ctx, req)
	return true
}

// Begin is the synchronous half of Submit: it checks the guard, appends the
// user message, clears the pending input and sets the in-flight flag.
func (c *Controller) Begin(text string) (Request, bool) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return Request{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return Request{}, false
	}

	c.messages = append(c.messages, Message{Role: RoleUser, Content: prompt})
	c.input = ""
	c.inFlight = true

	return Request{
		ID:       uuid.NewString(),
		Prompt:   prompt,
		Language: c.language,
	}, true
}

// Finish performs the completion call for a request returned by Begin,
// appends the reply (or the error text) and clears the in-flight flag.
func (c *Controller) Finish(ctx context.Context, req Request) {
	c.mu.Lock()
	if !c.inFlight {
		c.mu.Unlock()
		c.logger.Warn("finish called with no request in flight", "request_id", req.ID)
		return
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	start := time.Now()
	reply, err := c.completer.Complete(ctx, req.Language, req.Prompt)
	if err != nil {
		c.logger.Debug("completion failed",
			"request_id", req.ID,
			"duration", time.Since(start),
			"error", err,
		)
		reply = apierrors.ChatMessage(err)
	} else {
		c.logger.Debug("completion finished",
			"request_id", req.ID,
			"duration", time.Since(start),
			"chars", len(reply),
		)
	}

	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: reply})
	c.mu.Unlock()
}

// Clear resets the transcript to the cleared greeting. The in-flight flag is
// left alone: a reply still pending lands after the greeting.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = []Message{{Role: RoleAssistant, Content: c.cleared}}
}

// Copy writes code to the clipboard and returns the acknowledgment text
func (c *Controller) Copy(code string) (string, error) {
	if c.clipboard == nil {
		return "", fmt.Errorf("clipboard not available")
	}
	if err := c.clipboard.WriteAll(code); err != nil {
		c.logger.Warn("clipboard write failed", "error", err)
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return CopyAck, nil
}

// Messages returns a copy of the transcript
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of transcript messages
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Last returns the final transcript message
func (c *Controller) Last() Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages[len(c.messages)-1]
}

// CodeBlocks returns every code block in the transcript, numbered from 1
func (c *Controller) CodeBlocks() []CodeBlock {
	return ExtractCodeBlocks(c.Messages())
}

// Input returns the pending input
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput replaces the pending input
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Language returns the selected language tag
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// SetLanguage changes the language tag used by the next submission
func (c *Controller) SetLanguage(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = tag
}

// Loading reports whether a request is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}
