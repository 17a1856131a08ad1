package model

// Response is the decoded reply of a generateContent call. The remote side is
// not trusted to send every field, so each level is optional and is reached
// only through the accessors below.
type Response struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// Content holds the generated parts of a candidate.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a single generated fragment. Text is nil for non-text parts.
type Part struct {
	Text *string `json:"text,omitempty"`
}

// PromptFeedback is set when the prompt itself was blocked.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// Texts walks candidates[*].content.parts[*].text and returns every text
// fragment found, in order. ok is false when the response carries no text at
// all, which callers must not confuse with an analysis that scored zero.
func (r *Response) Texts() (texts []string, ok bool) {
	if r == nil {
		return nil, false
	}
	for _, c := range r.Candidates {
		parts, ok := c.parts()
		if !ok {
			continue
		}
		for _, p := range parts {
			if t, ok := p.text(); ok {
				texts = append(texts, t)
			}
		}
	}
	return texts, len(texts) > 0
}

// BlockReason returns the prompt block reason, if the API reported one.
func (r *Response) BlockReason() (string, bool) {
	if r == nil || r.PromptFeedback == nil || r.PromptFeedback.BlockReason == "" {
		return "", false
	}
	return r.PromptFeedback.BlockReason, true
}

func (c Candidate) parts() ([]Part, bool) {
	if c.Content == nil || len(c.Content.Parts) == 0 {
		return nil, false
	}
	return c.Content.Parts, true
}

func (p Part) text() (string, bool) {
	if p.Text == nil {
		return "", false
	}
	return *p.Text, true
}

// TextResponse builds a single-candidate response carrying the given fragments.
// Used by test stubs.
func TextResponse(fragments ...string) *Response {
	parts := make([]Part, 0, len(fragments))
	for _, f := range fragments {
		f := f
		parts = append(parts, Part{Text: &f})
	}
	return &Response{Candidates: []Candidate{{Content: &Content{Role: "model", Parts: parts}}}}
}
