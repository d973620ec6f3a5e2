package config

import (
	"fmt"
	"strings"
)

// Language is a preset for the language tag injected into the system prompt
type Language struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// systemPromptTemplate is filled with the selected language tag
const systemPromptTemplate = `You are an expert coding assistant specializing in %s.
- If the user has a code error, identify the error type, explain what's wrong, and provide corrected code
- If the user wants to generate code, create complete, working, production-ready code
- Always format code blocks with triple backticks and language name (e.g., ` + "```javascript" + `)
- Be clear, concise, and educational
- Include comments in code to explain key parts`

// Languages returns the built-in language presets
func Languages() []Language {
	return []Language{
		{Tag: "javascript", Label: "JavaScript"},
		{Tag: "python", Label: "Python"},
		{Tag: "java", Label: "Java"},
		{Tag: "cpp", Label: "C++"},
		{Tag: "csharp", Label: "C#"},
		{Tag: "html", Label: "HTML/CSS"},
		{Tag: "react", Label: "React"},
		{Tag: "nodejs", Label: "Node.js"},
		{Tag: "typescript", Label: "TypeScript"},
		{Tag: "php", Label: "PHP"},
	}
}

// LookupLanguage finds a preset by tag or label, case-insensitively
func LookupLanguage(name string) (Language, bool) {
	name = strings.TrimSpace(name)
	for _, l := range Languages() {
		if strings.EqualFold(l.Tag, name) || strings.EqualFold(l.Label, name) {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageLabel returns the display label for a tag. Free-form tags are
// returned unchanged.
func LanguageLabel(tag string) string {
	if l, ok := LookupLanguage(tag); ok {
		return l.Label
	}
	return tag
}

// NormalizeLanguage maps a preset label or tag to its tag. Free-form values
// are trimmed and passed through verbatim.
func NormalizeLanguage(name string) string {
	if l, ok := LookupLanguage(name); ok {
		return l.Tag
	}
	return strings.TrimSpace(name)
}

// SystemPrompt renders the system prompt for a language tag
func SystemPrompt(language string) string {
	return fmt.Sprintf(systemPromptTemplate, language)
}
