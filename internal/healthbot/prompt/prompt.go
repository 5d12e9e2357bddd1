package prompt

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default is the system instruction sent with every model request.
const Default = `You are a helpful general health information assistant.

Responsibilities:
- Provide general health information
- Explain common symptoms and their usual causes in simple terms
- Suggest preventive care and healthy lifestyle tips

Safety rules:
- Do NOT diagnose
- Do NOT prescribe medicine or doses
- Do NOT replace professional medical advice
- Always recommend seeing a doctor or other qualified professional for anything serious
- If a question sounds like an emergency, tell the user to contact a doctor or emergency services immediately

Keep answers short, friendly and easy to understand.`

// Prompt represents the structure of a TOML system prompt file
type Prompt struct {
	System string `toml:"system"`
}

// LoadPrompt loads a prompt file and returns its contents
func LoadPrompt(filePath string) (*Prompt, error) {
	var prompt Prompt
	if _, err := toml.DecodeFile(filePath, &prompt); err != nil {
		return nil, fmt.Errorf("error decoding prompt file: %w", err)
	}
	if strings.TrimSpace(prompt.System) == "" {
		return nil, fmt.Errorf("prompt file %s has an empty 'system' entry", filePath)
	}
	return &prompt, nil
}

// Resolve returns the system instruction to use: the contents of filePath when
// set, otherwise Default.
func Resolve(filePath string) (string, error) {
	if filePath == "" {
		return Default, nil
	}
	p, err := LoadPrompt(filePath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(p.System), nil
}
