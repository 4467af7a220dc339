package lifecycle

import (
	"context"
	"errors"
	"testing"
)

type testComponent struct {
	name     string
	startErr error
	events   *[]string
}

func (c *testComponent) Start(ctx context.Context) error {
	*c.events = append(*c.events, "start:"+c.name)
	return c.startErr
}

func (c *testComponent) Stop(ctx context.Context) error {
	*c.events = append(*c.events, "stop:"+c.name)
	return nil
}

func (c *testComponent) Name() string { return c.name }

func TestStartAndStopOrder(t *testing.T) {
	var events []string
	a := &testComponent{name: "a", events: &events}
	b := &testComponent{name: "b", events: &events}

	m := NewManager()
	if err := m.Register(a); err != nil {
		t.Fatalf("Register(a) failed: %v", err)
	}
	if err := m.Register(b); err != nil {
		t.Fatalf("Register(b) failed: %v", err)
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestStartRollsBackOnFailure(t *testing.T) {
	var events []string
	a := &testComponent{name: "a", events: &events}
	b := &testComponent{name: "b", startErr: errors.New("boom"), events: &events}

	m := NewManager()
	_ = m.Register(a)
	_ = m.Register(b)

	err := m.Start(context.Background())
	if err == nil {
		t.Fatal("Start should fail when a component fails")
	}

	// a started and was rolled back; b never reached Stop.
	want := []string{"start:a", "start:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestRegisterValidation(t *testing.T) {
	m := NewManager()
	if err := m.Register(nil); err == nil {
		t.Error("nil component should be rejected")
	}

	var events []string
	c := &testComponent{name: "c", events: &events}
	if err := m.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.Register(c); err == nil {
		t.Error("duplicate registration should be rejected")
	}

	unnamed := &testComponent{name: "", events: &events}
	if err := m.Register(unnamed); err == nil {
		t.Error("unnamed component should be rejected")
	}
}
