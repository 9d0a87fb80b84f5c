package prompt

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed default_system_prompt.md
var defaultSystemPrompt string

var defaultTemplate = template.Must(template.New("system").Parse(defaultSystemPrompt))

// MaxCustomLength bounds a caller-supplied system prompt, in characters.
const MaxCustomLength = 2000

// Data fills the market-context slots of the default prompt.
type Data struct {
	// Context is the retrieved listing text, inserted as-is.
	Context string
	// BookingCount drives the market-activity line; zero omits it.
	BookingCount int
}

// Default renders the built-in system prompt.
func Default(d Data) (string, error) {
	var b strings.Builder
	if err := defaultTemplate.Execute(&b, d); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Template returns the unrendered default prompt.
func Template() string { return defaultSystemPrompt }
