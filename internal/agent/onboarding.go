package agent

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
)

var fallbackPhrases = []string{"i am sorry", "i cannot answer", "i don't know", "not able to", "cannot help"}

// IsFallback reports whether an answer is a non-answer.
func IsFallback(resp string) bool {
	lower := strings.ToLower(resp)
	for _, p := range fallbackPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

const onboardingPrompt = `You are an intelligent onboarding assistant.
Use the following CSV data to answer user queries:

Employee Data:
%s

Office Data:
%s

Conversation History:
%s

Instructions:
- Remember any information the user provides during this session, such as their name, team, or position.
- Use this information in future answers to personalize responses.
- If the user asks about their team members, learning modules, or documents, use the remembered team/position info.
- If the requested information is not available, use your own knowledge to answer the question and respond politely.
- Answer only the specific question the user asked.
- If the user asks for team members, provide just the list of members.
- If the user asks for learning modules, documents, or emails, provide only those.
- Do not add extra information unless the user explicitly requests it.

User asked: %q`

// Onboarding answers general onboarding questions from the employee and
// office reference data.
type Onboarding struct {
	model     llm.ChatModel
	employees string
	offices   string
}

func NewOnboarding(model llm.ChatModel, employeesJSON, officesJSON string) *Onboarding {
	return &Onboarding{model: model, employees: employeesJSON, offices: officesJSON}
}

// LoadOnboarding reads both reference CSVs. The office file is tab
// separated. A missing file leaves that block empty.
func LoadOnboarding(model llm.ChatModel, employeeCSV, officeCSV string) (*Onboarding, error) {
	emp, err := csvFileJSON(employeeCSV, ',')
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	off, err := csvFileJSON(officeCSV, '\t')
	if err != nil {
		return nil, fmt.Errorf("load offices: %w", err)
	}
	return NewOnboarding(model, emp, off), nil
}

func csvFileJSON(path string, comma rune) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "[]", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()
	return CSVToJSON(f, comma)
}

// CSVToJSON turns a headed CSV into a JSON array of records with trimmed
// column names.
func CSVToJSON(r io.Reader, comma rune) (string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "[]", nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Answer replies to input using history lines like "You: ..." / "Bot: ...".
func (o *Onboarding) Answer(ctx context.Context, history []string, input string) (string, error) {
	prompt := fmt.Sprintf(onboardingPrompt, o.employees, o.offices, strings.Join(history, "\n"), input)
	resp, err := o.model.Generate(ctx, llm.GenerateRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Text: prompt}},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("onboarding assistant: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
