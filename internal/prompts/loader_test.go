package prompts

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(ContentFile, "blog-excerpt")
	require.NoError(t, err)
	assert.Contains(t, prompt, "max 150 characters")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(ContentFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}! {{.Unknown}}"
	result := Format(template, map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	})
	assert.Equal(t, "Hello Alice, welcome to Acme Corp! {{.Unknown}}", result)
}

func TestRender(t *testing.T) {
	out, err := Render(ContentFile, "chat", map[string]string{"Company": "MasterSolis InfoTech", "Message": "Do you offer internships?"})
	require.NoError(t, err)
	assert.Contains(t, out, "MasterSolis InfoTech")
	assert.Contains(t, out, "Do you offer internships?")
}

func TestList(t *testing.T) {
	keys, err := List(ContentFile)
	require.NoError(t, err)
	assert.Contains(t, keys, "contact-reply")
	assert.IsIncreasing(t, keys)
}

func TestAllPrompts_PlaceholdersWellFormed(t *testing.T) {
	placeholder := regexp.MustCompile(`\{\{\.?[A-Za-z]*\}\}`)
	wellFormed := regexp.MustCompile(`^\{\{\.[A-Z][A-Za-z]*\}\}$`)

	for _, file := range []string{ContentFile, ATSFile} {
		keys, err := List(file)
		require.NoError(t, err)
		for _, key := range keys {
			prompt := MustGet(file, key)
			for _, p := range placeholder.FindAllString(prompt, -1) {
				assert.Regexp(t, wellFormed, p, "%s/%s", file, key)
			}
		}
	}
}
