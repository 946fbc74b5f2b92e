package prompts

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptFiles embed.FS

// DefaultProfile is used when the configuration does not select one.
const DefaultProfile = "assistant"

// Profile is one named system-prompt preset.
type Profile struct {
	Description string `yaml:"description"`
	System      string `yaml:"system"`
}

type promptFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Registry holds the system-prompt presets loaded from the embedded YAML.
// Immutable after load.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry loads the embedded prompt presets.
func NewRegistry() (*Registry, error) {
	data, err := promptFiles.ReadFile("prompts.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompts.yaml: %w", err)
	}

	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal prompts.yaml: %w", err)
	}

	if _, ok := file.Profiles[DefaultProfile]; !ok {
		return nil, fmt.Errorf("prompts.yaml missing %q profile", DefaultProfile)
	}

	return &Registry{profiles: file.Profiles}, nil
}

// SystemPrompt returns the system prompt for the named profile, or an error
// for unknown profiles.
func (r *Registry) SystemPrompt(profile string) (string, error) {
	p, ok := r.profiles[profile]
	if !ok {
		return "", fmt.Errorf("unknown prompt profile: %s", profile)
	}
	return p.System, nil
}

// Profiles lists the available profile names.
func (r *Registry) Profiles() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	return names
}
