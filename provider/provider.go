package provider

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed providers.yaml
var providersYAML []byte

// Status indicates whether a provider has a working usage adapter.
type Status string

const (
	StatusActive     Status = "active"
	StatusComingSoon Status = "coming-soon"
)

// Descriptor is an immutable catalog entry for a known provider.
type Descriptor struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	Icon           string `yaml:"icon" json:"icon"`
	Color          string `yaml:"color" json:"color"`
	Description    string `yaml:"description" json:"description"`
	Status         Status `yaml:"status" json:"status"`
	KeyPlaceholder string `yaml:"key-placeholder" json:"key_placeholder,omitempty"`
}

// Active reports whether the provider can be fetched.
func (d Descriptor) Active() bool {
	return d.Status == StatusActive
}

// Registry holds the built-in provider catalog in definition order.
type Registry struct {
	descriptors []Descriptor
	index       map[string]int
}

// NewRegistry returns the built-in provider registry.
func NewRegistry() *Registry {
	var descriptors []Descriptor
	if err := yaml.Unmarshal(providersYAML, &descriptors); err != nil {
		panic("providers.yaml: " + err.Error())
	}

	index := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		index[d.ID] = i
	}

	return &Registry{descriptors: descriptors, index: index}
}

// Get returns a descriptor by provider id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}

// All returns all descriptors in definition order.
func (r *Registry) All() []Descriptor {
	return r.descriptors
}

// Active returns the descriptors with a working adapter, in definition order.
func (r *Registry) Active() []Descriptor {
	var active []Descriptor
	for _, d := range r.descriptors {
		if d.Active() {
			active = append(active, d)
		}
	}
	return active
}
