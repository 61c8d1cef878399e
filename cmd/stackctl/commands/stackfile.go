package commands

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/stackctl/stackctl/internal/model"
)

// stackfile is the YAML file describing what to send to the provider:
// template reference, parameters, tags and capabilities.
type stackfile struct {
	Template     stackfileTemplate `yaml:"template"`
	Parameters   map[string]string `yaml:"parameters"`
	Tags         map[string]string `yaml:"tags"`
	Capabilities []string          `yaml:"capabilities"`
}

// stackfileTemplate references a template by local file path, remote URL or
// inline body. Exactly one must be set.
type stackfileTemplate struct {
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
	Body string `yaml:"body"`
}

func loadStackfile(path string) (*stackfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read stackfile: %w", err)
	}

	sf := &stackfile{}
	if err := yaml.Unmarshal(data, sf); err != nil {
		return nil, fmt.Errorf("could not parse stackfile: %w", err)
	}

	return sf, nil
}

func (s *stackfile) templateSource() (model.TemplateSource, error) {
	set := 0
	for _, v := range []string{s.Template.Path, s.Template.URL, s.Template.Body} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return model.TemplateSource{}, fmt.Errorf("stackfile template must set exactly one of path, url or body")
	}

	switch {
	case s.Template.URL != "":
		return model.TemplateSource{Raw: s.Template.URL}, nil
	case s.Template.Body != "":
		return model.TemplateSource{Raw: s.Template.Body}, nil
	default:
		body, err := os.ReadFile(s.Template.Path)
		if err != nil {
			return model.TemplateSource{}, fmt.Errorf("could not read template file: %w", err)
		}
		return model.TemplateSource{Raw: string(body)}, nil
	}
}

// modelTags returns the stackfile tags in deterministic key order.
func (s *stackfile) modelTags() []model.Tag {
	keys := make([]string, 0, len(s.Tags))
	for k := range s.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]model.Tag, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, model.Tag{Key: k, Value: s.Tags[k]})
	}
	return tags
}
