package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateSource is a user-facing template reference. It accepts either a raw
// string (inline JSON text or a remote URL) or a structured template document.
// Exactly one of the two should be set.
type TemplateSource struct {
	Raw      string
	Document map[string]interface{}
}

// TemplateRef is the resolved template reference sent to the provider.
// Exactly one of URL or Body is set.
type TemplateRef struct {
	URL  string
	Body string
}

// IsZero returns true when the source carries no template at all.
func (t TemplateSource) IsZero() bool {
	return t.Raw == "" && t.Document == nil
}

// Ref resolves the source into the request form: a raw string with an
// http(s) scheme becomes a URL reference, anything else becomes an inline
// body, JSON-serializing the document when it is not already a string.
func (t TemplateSource) Ref() (TemplateRef, error) {
	if t.Raw != "" {
		if strings.HasPrefix(t.Raw, "http://") || strings.HasPrefix(t.Raw, "https://") {
			return TemplateRef{URL: t.Raw}, nil
		}
		return TemplateRef{Body: t.Raw}, nil
	}

	if t.Document != nil {
		body, err := json.Marshal(t.Document)
		if err != nil {
			return TemplateRef{}, fmt.Errorf("could not serialize template document: %w", err)
		}
		return TemplateRef{Body: string(body)}, nil
	}

	return TemplateRef{}, fmt.Errorf("template is empty: %w", ErrNotValid)
}
