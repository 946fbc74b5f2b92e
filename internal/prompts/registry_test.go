package prompts

import (
	"strings"
	"testing"
)

// TestNewRegistry verifies the embedded presets load and include the default
// profile.
func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	system, err := registry.SystemPrompt(DefaultProfile)
	if err != nil {
		t.Fatalf("SystemPrompt(%s) failed: %v", DefaultProfile, err)
	}
	if strings.TrimSpace(system) == "" {
		t.Error("default profile must carry a non-empty system prompt")
	}

	found := false
	for _, name := range registry.Profiles() {
		if name == DefaultProfile {
			found = true
		}
	}
	if !found {
		t.Errorf("Profiles() should include %s", DefaultProfile)
	}
}

// TestSystemPrompt_UnknownProfile verifies unknown profiles error instead of
// silently returning an empty prompt.
func TestSystemPrompt_UnknownProfile(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	if _, err := registry.SystemPrompt("no-such-profile"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
