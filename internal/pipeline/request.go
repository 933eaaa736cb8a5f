package pipeline

import (
	"encoding/json"
	"fmt"

	"docsift/internal/config"
	"docsift/internal/docmodel"
)

// CollectionInput is the collection config wire format accepted by both
// front-ends. Documents either carry inline sections or name files the
// caller parses before submission.
type CollectionInput struct {
	Documents []docmodel.Document `json:"documents"`
	Persona   PersonaInput        `json:"persona"`
	Job       JobInput            `json:"job_to_be_done"`
	Options   *config.Options     `json:"options,omitempty"`
}

type PersonaInput struct {
	Role string `json:"role"`
}

type JobInput struct {
	Task string `json:"task"`
}

// DecodeCollection parses a collection config and repairs section
// back references and positions lost in transit.
func DecodeCollection(data []byte) (*CollectionInput, error) {
	var in CollectionInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode collection config: %w", err)
	}
	for i := range in.Documents {
		in.Documents[i].Normalize()
	}
	return &in, nil
}

// ToRequest converts the wire form into an engine request, layering any
// inline options over the given defaults.
func (in *CollectionInput) ToRequest(defaults config.Options) Request {
	opts := defaults
	if in.Options != nil {
		opts = *in.Options
	}
	return Request{
		Documents: in.Documents,
		Role:      in.Persona.Role,
		Task:      in.Job.Task,
		Options:   opts,
	}
}
