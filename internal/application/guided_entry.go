package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/logging"
	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/go-playground/validator/v10"
)

const DefaultFieldMaxLength = 64

type EntryState int

const (
	StateMenuOpen EntryState = iota + 1
	StateTypeSelected
	StateAwaitingField
	StateConfirming
	StateCompleted
	StateCancelled
)

func (s EntryState) String() string {
	switch s {
	case StateMenuOpen:
		return "menu_open"
	case StateTypeSelected:
		return "type_selected"
	case StateAwaitingField:
		return "awaiting_field"
	case StateConfirming:
		return "confirming"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type entryActionKind int

const (
	actionAnswer entryActionKind = iota + 1
	actionFreeText
	actionConfirm
	actionReject
)

// entryAction is what a guided-entry token resolves to: which step of which
// session it answers, and the answer it carries.
type entryAction struct {
	kind    entryActionKind
	session uint64
	field   int
	value   string
}

type entrySession struct {
	id       uint64
	actor    domain.Actor
	location domain.Location
	catalog  domain.Catalog
	state    EntryState
	template domain.Template
	field    int
	values   []string
	step     []domain.CallbackToken
}

type observationCreator interface {
	Create(actor domain.Actor, view domain.Location, content string, expiration *time.Time) *Observation
}

type GuidedEntryConfig struct {
	Templates    ports.TemplateSource
	Observations observationCreator
	Prompter     ports.Prompter
	Namespace    string
	// Expiration applied to observations created through the menu. Zero
	// means they never expire.
	Expiration time.Duration
	// FieldMaxLength caps a single answer, in characters.
	FieldMaxLength int
	Clock          ports.Clock
	Metrics        ports.Metrics
	Logger         *slog.Logger
	TokenSource    func() domain.CallbackToken
}

// GuidedEntry walks an actor from the template menu through each prompt to
// a confirmed observation. Between steps a session waits only on callback
// tokens; no goroutine is parked.
type GuidedEntry struct {
	mu       sync.Mutex
	sessions map[domain.ActorID]*entrySession
	nextID   uint64

	callbacks    *CallbackRegistry[entryAction]
	templates    ports.TemplateSource
	observations observationCreator
	prompter     ports.Prompter
	namespace    string
	expiration   time.Duration
	maxLength    int
	clock        ports.Clock
	logger       *slog.Logger
	validate     *validator.Validate
}

func NewGuidedEntry(cfg GuidedEntryConfig) *GuidedEntry {
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = ports.NopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.FieldMaxLength <= 0 {
		cfg.FieldMaxLength = DefaultFieldMaxLength
	}
	if strings.TrimSpace(cfg.Namespace) == "" {
		cfg.Namespace = DefaultCallbackNamespace
	}

	g := &GuidedEntry{
		sessions:     map[domain.ActorID]*entrySession{},
		templates:    cfg.Templates,
		observations: cfg.Observations,
		prompter:     cfg.Prompter,
		namespace:    cfg.Namespace,
		expiration:   cfg.Expiration,
		maxLength:    cfg.FieldMaxLength,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		validate:     validator.New(),
	}

	opts := []CallbackOption{WithCallbackMetrics(cfg.Metrics), WithCallbackLogger(cfg.Logger)}
	if cfg.TokenSource != nil {
		opts = append(opts, WithTokenSource(cfg.TokenSource))
	}
	g.callbacks = NewCallbackRegistry(g.handle, opts...)

	return g
}

// CallbackCommand is the trigger message for token in namespace.
func CallbackCommand(namespace string, token domain.CallbackToken) string {
	return "/" + namespace + ":callback " + string(token)
}

// Trigger resolves a guided-entry token.
func (g *GuidedEntry) Trigger(ctx context.Context, token domain.CallbackToken, trigger domain.Trigger) bool {
	return g.callbacks.Trigger(ctx, token, trigger)
}

// Pending counts the callback tokens actor still holds.
func (g *GuidedEntry) Pending(actor domain.ActorID) int {
	return g.callbacks.Pending(actor)
}

func (g *GuidedEntry) State(actor domain.ActorID) (EntryState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[actor]
	if !ok {
		return 0, false
	}
	return s.state, true
}

// OpenMenu starts a session for actor at location, abandoning any session
// the actor already had.
func (g *GuidedEntry) OpenMenu(actor domain.Actor, location domain.Location) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if prior, ok := g.sessions[actor.ID]; ok {
		g.finishLocked(prior, StateCancelled)
	}
	g.callbacks.CancelAll(actor.ID)

	g.nextID++
	s := &entrySession{
		id:       g.nextID,
		actor:    actor,
		location: location,
		catalog:  g.templates.Catalog(),
		state:    StateMenuOpen,
	}
	g.sessions[actor.ID] = s
	g.prompter.ShowMenu(actor, s.catalog)
}

// ClickMenu handles a click on a menu slot. Filler slots and clicks outside
// an open menu do nothing.
func (g *GuidedEntry) ClickMenu(actor domain.Actor, slot int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[actor.ID]
	if !ok || s.state != StateMenuOpen {
		return
	}

	kind, template := s.catalog.Slot(slot)
	switch kind {
	case domain.SlotCancel:
		g.prompter.CloseMenu(actor)
		g.finishLocked(s, StateCancelled)
		g.prompter.Message(actor, "Observation canceled!")
	case domain.SlotTemplate:
		s.template = template
		s.state = StateTypeSelected
		g.prompter.CloseMenu(actor)
		g.promptFieldLocked(s)
	}
}

// MenuClosed cancels a session whose menu was dismissed without a choice.
func (g *GuidedEntry) MenuClosed(actor domain.Actor) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[actor.ID]
	if !ok || s.state != StateMenuOpen {
		return
	}
	g.finishLocked(s, StateCancelled)
	g.prompter.Message(actor, "Observation canceled!")
}

// Abandon drops the actor's session and every token it holds, e.g. when
// the actor disconnects.
func (g *GuidedEntry) Abandon(actor domain.ActorID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s, ok := g.sessions[actor]; ok {
		g.finishLocked(s, StateCancelled)
		return
	}
	g.callbacks.CancelAll(actor)
}

func (g *GuidedEntry) handle(_ context.Context, action entryAction, trigger domain.Trigger) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[trigger.Actor.ID]
	if !ok || s.id != action.session {
		return
	}

	switch action.kind {
	case actionAnswer, actionFreeText:
		if s.state != StateAwaitingField || action.field != s.field {
			return
		}
		value := action.value
		if action.kind == actionFreeText {
			value = trigger.Input
		}
		g.answerLocked(s, strings.TrimSpace(value))
	case actionConfirm:
		if s.state != StateConfirming {
			return
		}
		g.completeLocked(s)
	case actionReject:
		if s.state != StateConfirming {
			return
		}
		g.finishLocked(s, StateCancelled)
		g.prompter.Message(s.actor, "Observation canceled!")
	}
}

func (g *GuidedEntry) answerLocked(s *entrySession, value string) {
	g.releaseStepLocked(s)

	if err := g.validate.Var(value, fmt.Sprintf("required,max=%d", g.maxLength)); err != nil {
		g.prompter.Message(s.actor, fmt.Sprintf("Answers must be between 1 and %d characters.", g.maxLength))
		g.promptFieldLocked(s)
		return
	}

	s.values = append(s.values, value)
	s.field++
	if s.field < len(s.template.Prompts) {
		g.promptFieldLocked(s)
		return
	}

	content := s.template.Compose(s.values)
	record := domain.Record{Author: s.actor.Name, View: s.location, Content: content}
	if err := record.Validate(); err != nil {
		s.values = s.values[:len(s.values)-1]
		s.field--
		g.prompter.Message(s.actor, fmt.Sprintf("That observation is not valid: %v", err))
		g.promptFieldLocked(s)
		return
	}

	g.confirmLocked(s, content)
}

func (g *GuidedEntry) promptFieldLocked(s *entrySession) {
	s.state = StateAwaitingField
	field := s.template.Prompts[s.field]

	prompt := ports.Prompt{
		Text: fmt.Sprintf("(%d/%d) %s", s.field+1, len(s.template.Prompts), field.Text),
	}
	for _, response := range field.Responses {
		option := g.optionLocked(s, response, entryAction{kind: actionAnswer, field: s.field, value: response})
		prompt.Options = append(prompt.Options, option)
	}
	if field.AllowCustom {
		option := g.optionLocked(s, "Write your own", entryAction{kind: actionFreeText, field: s.field})
		prompt.FreeText = &option
	}

	g.prompter.Prompt(s.actor, prompt)
}

func (g *GuidedEntry) confirmLocked(s *entrySession, content string) {
	s.state = StateConfirming

	g.prompter.Prompt(s.actor, ports.Prompt{
		Text: fmt.Sprintf("Place this observation? %q", content),
		Options: []ports.PromptOption{
			g.optionLocked(s, "Confirm", entryAction{kind: actionConfirm}),
			g.optionLocked(s, "Cancel", entryAction{kind: actionReject}),
		},
	})
}

func (g *GuidedEntry) completeLocked(s *entrySession) {
	content := s.template.Compose(s.values)

	var expiration *time.Time
	if g.expiration > 0 {
		at := g.clock.Now().Add(g.expiration)
		expiration = &at
	}

	g.observations.Create(s.actor, s.location, content, expiration)
	g.finishLocked(s, StateCompleted)
	g.logger.Info("guided observation placed", "actor", s.actor.ID, "template", s.template.Type)
	g.prompter.Message(s.actor, "Observation placed!")
}

func (g *GuidedEntry) optionLocked(s *entrySession, label string, action entryAction) ports.PromptOption {
	action.session = s.id
	token := g.callbacks.Register(s.actor.ID, action)
	s.step = append(s.step, token)

	return ports.PromptOption{
		Label:   label,
		Token:   token,
		Command: CallbackCommand(g.namespace, token),
	}
}

// releaseStepLocked drops the sibling tokens of the step just answered so a
// late click on another option cannot answer it twice.
func (g *GuidedEntry) releaseStepLocked(s *entrySession) {
	g.callbacks.Cancel(s.step...)
	s.step = nil
}

func (g *GuidedEntry) finishLocked(s *entrySession, state EntryState) {
	s.state = state
	s.step = nil
	g.callbacks.CancelAll(s.actor.ID)
	if current, ok := g.sessions[s.actor.ID]; ok && current == s {
		delete(g.sessions, s.actor.ID)
	}
}
