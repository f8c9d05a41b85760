package payments

import (
	"context"
	"fmt"
	"sync"
)

// FakeGateway is an in-memory Gateway for development and tests. Created
// intents start in "requires_confirmation"; tests flip the status directly
// via SetStatus.
type FakeGateway struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*Intent

	// CreateErr and GetErr, when set, are returned by the corresponding
	// call. Useful to simulate gateway outages.
	CreateErr error
	GetErr    error
}

// NewFakeGateway builds an empty fake.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{intents: map[string]*Intent{}}
}

// CreateIntent records a new intent and returns it.
func (g *FakeGateway) CreateIntent(_ context.Context, amount int64, currency, _ string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.seq++
	in := &Intent{
		ID:           fmt.Sprintf("pi_fake_%03d", g.seq),
		ClientSecret: fmt.Sprintf("pi_fake_%03d_secret", g.seq),
		Status:       "requires_confirmation",
		Amount:       amount,
		Currency:     currency,
	}
	g.intents[in.ID] = in
	return cloneIntent(in), nil
}

// GetIntent returns a previously created intent.
func (g *FakeGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.GetErr != nil {
		return nil, g.GetErr
	}
	in, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("fake gateway: intent %s not found", id)
	}
	return cloneIntent(in), nil
}

// SetStatus overrides the status of a stored intent.
func (g *FakeGateway) SetStatus(id, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in, ok := g.intents[id]; ok {
		in.Status = status
	}
}

func cloneIntent(in *Intent) *Intent {
	cp := *in
	return &cp
}
