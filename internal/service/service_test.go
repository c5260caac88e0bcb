package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/internal/testutil"
	"ai-studio-be/pkg/events"
	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/llm"
	"ai-studio-be/pkg/modelcatalog"
	"ai-studio-be/pkg/provider"

	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	factory unitofwork.RepositoryFactory
	ledger  *ledger.Ledger
	events  *recordingPublisher
	pushes  *recordingNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	return &env{
		db:      db,
		factory: factory,
		ledger:  ledger.New(factory, logger.NewNopLogger()),
		events:  &recordingPublisher{},
		pushes:  &recordingNotifier{},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type push struct {
	UserID string
	Type   string
	Data   interface{}
}

type recordingNotifier struct {
	mu    sync.Mutex
	sends []push
}

func (n *recordingNotifier) Send(userID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, push{userID, eventType, data})
}

func (n *recordingNotifier) count(eventType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, s := range n.sends {
		if s.Type == eventType {
			c++
		}
	}
	return c
}

type fixedResolver struct {
	identifier string
}

func (r fixedResolver) Resolve(_ context.Context, slug string, _ int, _ string) modelcatalog.Resolution {
	return modelcatalog.Resolution{Slug: slug, Identifier: r.identifier, Confidence: 100, Source: modelcatalog.SourceOverride}
}

type stubRunner struct {
	mu     sync.Mutex
	calls  int
	lastID string
	input  map[string]interface{}
	output provider.Output
	err    error
}

func (r *stubRunner) Run(_ context.Context, identifier string, input map[string]interface{}) (provider.Output, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastID = identifier
	r.input = input
	return r.output, r.err
}

type stubLLM struct {
	reply string
	err   error
}

func (s stubLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

var errBoom = errors.New("boom")
