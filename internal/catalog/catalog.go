// Package catalog provides the static, read-only interview prompt catalogue.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"ai-interview-service/internal/models"
)

// Store holds the prompt catalogue loaded at process start.
// It is immutable after Load and safe for concurrent readers.
type Store struct {
	prompts []models.Prompt
}

// Load reads the catalogue from a JSON file containing an array of prompts.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt catalogue: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON prompt catalogue.
func Parse(data []byte) (*Store, error) {
	var prompts []models.Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parse prompt catalogue: %w", err)
	}
	return &Store{prompts: prompts}, nil
}

// List returns the prompts in catalogue order.
// The returned slice is a copy; callers may not mutate the store through it.
func (s *Store) List() []models.Prompt {
	out := make([]models.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Find returns the prompt with the given topic.
func (s *Store) Find(topic string) (models.Prompt, bool) {
	for _, p := range s.prompts {
		if p.Topic == topic {
			return p, true
		}
	}
	return models.Prompt{}, false
}

// Len returns the number of prompts in the catalogue.
func (s *Store) Len() int {
	return len(s.prompts)
}
