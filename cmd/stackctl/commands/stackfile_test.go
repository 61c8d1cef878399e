package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackctl/stackctl/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadStackfile(t *testing.T) {
	path := writeFile(t, "stackfile.yaml", `
template:
  body: '{"Resources":{}}'
parameters:
  Env: prod
tags:
  team: payments
  owner: alice
capabilities:
  - CAPABILITY_IAM
`)

	sf, err := loadStackfile(path)
	require.NoError(t, err)

	assert.Equal(t, `{"Resources":{}}`, sf.Template.Body)
	assert.Equal(t, map[string]string{"Env": "prod"}, sf.Parameters)
	assert.Equal(t, []string{"CAPABILITY_IAM"}, sf.Capabilities)

	// Tags come out in deterministic key order.
	assert.Equal(t, []model.Tag{
		{Key: "owner", Value: "alice"},
		{Key: "team", Value: "payments"},
	}, sf.modelTags())
}

func TestLoadStackfileMissingFile(t *testing.T) {
	_, err := loadStackfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadStackfileMalformedYAML(t *testing.T) {
	path := writeFile(t, "stackfile.yaml", "template: [broken")
	_, err := loadStackfile(path)
	assert.Error(t, err)
}

func TestStackfileTemplateSource(t *testing.T) {
	templatePath := writeFile(t, "template.json", `{"Resources":{}}`)

	tests := map[string]struct {
		template  stackfileTemplate
		expSource model.TemplateSource
		expErr    bool
	}{
		"Local file path is read inline": {
			template:  stackfileTemplate{Path: templatePath},
			expSource: model.TemplateSource{Raw: `{"Resources":{}}`},
		},
		"Remote URL passes through": {
			template:  stackfileTemplate{URL: "https://templates.test/net.json"},
			expSource: model.TemplateSource{Raw: "https://templates.test/net.json"},
		},
		"Inline body passes through": {
			template:  stackfileTemplate{Body: `{"Resources":{}}`},
			expSource: model.TemplateSource{Raw: `{"Resources":{}}`},
		},
		"No reference set is rejected": {
			template: stackfileTemplate{},
			expErr:   true,
		},
		"Multiple references set are rejected": {
			template: stackfileTemplate{URL: "https://templates.test/net.json", Body: "{}"},
			expErr:   true,
		},
		"Unreadable template file is rejected": {
			template: stackfileTemplate{Path: filepath.Join(t.TempDir(), "nope.json")},
			expErr:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sf := &stackfile{Template: tt.template}

			source, err := sf.templateSource()

			if tt.expErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expSource, source)
			}
		})
	}
}
