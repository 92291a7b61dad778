package provider

import (
	"context"
	"errors"
	"testing"
)

// mockClient implements Client for testing.
type mockClient struct {
	name string
}

func (m *mockClient) Complete(ctx context.Context, req Request) (Decision, error) {
	return NewRespond("mock response"), nil
}

func (m *mockClient) StreamComplete(ctx context.Context, req Request) (*Stream, error) {
	return StreamFromComplete(ctx, m.Complete, req)
}

func TestRegister(t *testing.T) {
	// Clear registry for clean test
	ClearRegistry()
	defer ClearRegistry()

	// Register a test provider
	Register("test", func(cfg Config) (Client, error) {
		return &mockClient{name: "test"}, nil
	})

	// Verify it's registered
	if !IsRegistered("test") {
		t.Error("expected 'test' to be registered")
	}
}

func TestRegister_Panic(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	// Register once
	Register("duplicate", func(cfg Config) (Client, error) {
		return &mockClient{name: "duplicate"}, nil
	})

	// Second registration should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("duplicate", func(cfg Config) (Client, error) {
		return &mockClient{name: "duplicate2"}, nil
	})
}

func TestNew(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register("test", func(cfg Config) (Client, error) {
		return &mockClient{name: "test"}, nil
	})

	client, err := New("test", Config{Provider: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.(*mockClient).name != "test" {
		t.Errorf("expected provider 'test', got %q", client.(*mockClient).name)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	_, err := New("unknown", Config{Provider: "unknown"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestMustNew(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register("test", func(cfg Config) (Client, error) {
		return &mockClient{name: "test"}, nil
	})

	client := MustNew("test", Config{Provider: "test"})
	if client.(*mockClient).name != "test" {
		t.Errorf("expected provider 'test', got %q", client.(*mockClient).name)
	}
}

func TestMustNew_Panics(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown provider")
		}
	}()
	MustNew("unknown", Config{Provider: "unknown"})
}

func TestAvailable(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register("alpha", func(cfg Config) (Client, error) {
		return &mockClient{name: "alpha"}, nil
	})
	Register("beta", func(cfg Config) (Client, error) {
		return &mockClient{name: "beta"}, nil
	})

	available := Available()
	if len(available) != 2 {
		t.Errorf("expected 2 providers, got %d", len(available))
	}
	// Should be sorted
	if available[0] != "alpha" || available[1] != "beta" {
		t.Errorf("expected [alpha, beta], got %v", available)
	}
}

func TestUnregister(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	Register("test", func(cfg Config) (Client, error) {
		return &mockClient{name: "test"}, nil
	})

	if !IsRegistered("test") {
		t.Error("expected 'test' to be registered")
	}

	Unregister("test")

	if IsRegistered("test") {
		t.Error("expected 'test' to be unregistered")
	}
}

func TestFromConfig(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	var got Config
	Register("test", func(cfg Config) (Client, error) {
		got = cfg
		return &mockClient{name: "test"}, nil
	})

	if _, err := FromConfig(Config{Provider: "test", Model: "m"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "m" {
		t.Errorf("factory received model %q, want %q", got.Model, "m")
	}

	if _, err := FromConfig(Config{}); err == nil {
		t.Error("expected validation error for missing provider")
	}
}

func TestRegister_RejectsEmptyNameAndNilFactory(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	mustPanic := func(name string, f Factory) {
		t.Helper()
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Register(%q) did not panic", name)
			}
		}()
		Register(name, f)
	}

	mustPanic("", func(cfg Config) (Client, error) { return &mockClient{}, nil })
	mustPanic("nil-factory", nil)

	if len(Available()) != 0 {
		t.Errorf("rejected registrations must not be stored, got %v", Available())
	}
}

func TestNew_WrapsFactoryError(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	boom := errors.New("missing credentials")
	Register("broken", func(cfg Config) (Client, error) { return nil, boom })

	_, err := New("broken", Config{Provider: "broken"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
	if got := err.Error(); got != "provider broken: missing credentials" {
		t.Errorf("error = %q", got)
	}
}
