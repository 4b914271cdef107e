package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"quizforge/internal/domain"
)

// DefaultModel is the Gemini model used for question generation.
const DefaultModel = "gemini-2.0-flash"

// DefaultQuestionCount is how many questions one upload produces.
const DefaultQuestionCount = 10

const questionPrompt = `Based on the attached PDF, generate exactly %d multiple-choice questions.
Each question must have exactly 4 options and test understanding of the key concepts.

IMPORTANT: Return ONLY a JSON array (not an object). The response must start with [ and end with ].

Use this exact format:
[
  {
    "question": "Question text here?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": 0
  }
]
`

// Gemini generates questions from PDF uploads via the Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	count  int
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &Gemini{client: client, model: model, count: DefaultQuestionCount}, nil
}

func (g *Gemini) Close() {
	_ = g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, pdf []byte, _ string) ([]domain.Question, error) {
	resp, err := g.model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdf},
		genai.Text(fmt.Sprintf(questionPrompt, g.count)),
	)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return ParseQuestions(responseText(resp))
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// ParseQuestions decodes the model's JSON array, assigns ids, and validates
// each question against the editing rules.
func ParseQuestions(raw string) ([]domain.Question, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var decoded []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}

	questions := make([]domain.Question, 0, len(decoded))
	for _, gq := range decoded {
		q := domain.Question{
			ID:            uuid.NewString(),
			Question:      gq.Question,
			Options:       gq.Options,
			CorrectAnswer: gq.CorrectAnswer,
		}
		if err := domain.ValidateQuestion(q); err != nil {
			return nil, fmt.Errorf("generated question %q: %w", gq.Question, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
