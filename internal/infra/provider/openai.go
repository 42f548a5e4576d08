package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"maya-backend/internal/domain/entities"
	"maya-backend/internal/infra/logger"
)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

const replySystemPrompt = `You are Maya, a multilingual therapeutic chatbot with a warm, empathetic personality. Always refer to yourself as female. Build genuine rapport through natural conversation while organically weaving in the assessment questions below; never make it feel like a clinical interview.

CONVERSATION STYLE:
- Respond directly to what the user shares, showing active listening.
- Keep messages crisp, around 40 words, and ask at most one question per message.
- If you receive an empty message "" reply with "Sorry i was unable to hear you can you please repeat it again".
- If the user gives only a first name, ask once for their full name.

LANGUAGE GUIDELINE:
- Always respond in the exact language of the user's most recent message; never mix languages within a response and never switch language based on the user's nationality or country of birth. Default to English when unsure.

QUESTIONS TO INCORPORATE NATURALLY (one at a time, never repeated once answered):
full name; age and date of birth; country of birth; place of birth; nationality; gender (male, female, diverse, or prefer not to say); marital status (single, married, widowed, divorced); any physical, mental, cognitive or sensory disabilities; single parent or pregnant; loss or separation from close family, or social isolation; experiences of physical or psychological violence during flight or stay; professional skills or qualifications; practical tips for the hearing (preferred language, technical assistance, accompanying person).

The user/bot message history is provided so you can avoid repeating questions already asked or answered. When every question has been covered, thank the user and continue the conversation naturally.

RESPONSE FORMAT:
Respond with a single JSON object of the form
{"messages": [{"text": "...", "facialExpression": "smile", "animation": "Talking_1"}]}
Always fill facialExpression with "smile" and animation with "Talking_1". Return JSON only, no commentary.`

const personaSystemPrompt = `You are a persona management assistant. You maintain a JSON object tracking user information shared in conversation. You receive the current persona JSON and the user's newest message; return the complete updated JSON.

Rules:
- Output must be strictly JSON with no additional text.
- Add information explicitly mentioned or reasonably inferred, including languages inferred from the language the user writes in.
- Do not modify fields that are already populated.
- DO NOT modify the Latitude and Longitude fields; they are system-managed.
- Always fill values in English regardless of the input language.

The persona JSON has exactly these fields: Name, Age, DateOfBirth, Gender, OriginCountry, Education, Languages (array), ProfessionalSkills (array), GeneralHealth, MedicalConditions, StressLevel, DesiredProfession, Latitude, Longitude.`

const formSystemPrompt = `You are helping to fill a German asylum application form. You receive the current form dictionary, the question the bot asked, and the user's answer. Return ONLY the fields that should be updated, as a JSON object, with every value written in German regardless of the input language.

Rules:
- Fill only fields the conversation actually answers; never invent values.
- Put the first name in Vorname and the last name in Name. If only a first name is given, fill Vorname only.
- Geschlecht is exactly one of: weiblich, mannlich, divers, keine Angabe. Familienstand is exactly one of: ledig, verheiratet, verwitwet, geschieden.
- The impairment fields (korperlich, seelisch, geistig, Sinnesbeeintrachtigung) and the vulnerability fields (Alleinerziehende, Schwangere, alter als 65 Jahre, Verlust oder Trennung von engen Familienangehorigen, Soziale Isolation, Erfahrungen mit korperlicher oder seelischer Gewalt wahrend Flucht oder Aufenthalt) take "Yes" when the condition applies and stay empty otherwise.
- Replace umlauts when writing keys and values: ä -> a, ö -> o, ü -> u, ß -> b.
- Always include "Im Auftrag": "MayaCode" when returning any update.
- Text fields: Name, Vorname, Geburtsdatum, Geburtsland, Geburtsort, Staatsangehorigkeit, Praktische Hinweise zur Durchfuhrung der Anhorung.`

const recommendationSystemPrompt = `You provide recommendations for a refugee based on their profile. Input data: current location (Country and State), origin country, skills, languages and medical conditions, where provided.

Guidelines:
- Only produce sections for data that is actually present; omit sections entirely otherwise.
- If skills are provided: up to 3 real job opportunities matching them in the current location, each with company name, job title, a 1-2 sentence description and a website link.
- If languages are provided: up to 2 language-based jobs (translation, interpretation) in the current location, with organization, position, description and link.
- If medical conditions are provided: up to 3 appropriate healthcare providers in the current location, with facility name, specialty, description, address and link.
- Always search for real, existing results; never invent placeholders, never recommend internships, avoid duplicate organizations, always include links, and always answer in English.`

// OpenAIProvider implements all four text-generation surfaces on the chat
// completions API, sharing one pooled HTTP connection.
type OpenAIProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	APIKey     string
	BaseURL    string
	Model      string
}

func NewOpenAIProvider(logger *logger.Logger, httpClient *http.Client, apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		Logger:     logger,
		HttpClient: httpClient,
		APIKey:     apiKey,
		BaseURL:    openAIChatURL,
		Model:      "gpt-4.1",
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string         `json:"model"`
	Messages         []chatMessage  `json:"messages"`
	Temperature      float64        `json:"temperature,omitempty"`
	MaxTokens        int            `json:"max_tokens,omitempty"`
	ResponseFormat   map[string]any `json:"response_format,omitempty"`
	WebSearchOptions map[string]any `json:"web_search_options,omitempty"`
}

// complete performs one chat-completions call and returns the raw content of
// the first choice.
func (op *OpenAIProvider) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, op.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+op.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := op.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read openai response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected openai status %d: %s", res.StatusCode, truncate(string(body), 300))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// GenerateReply asks the model for the next bot turn. The response must be a
// JSON object with a non-empty messages array; anything else is a hard error
// for the turn.
func (op *OpenAIProvider) GenerateReply(ctx context.Context, userHistory, botHistory []string, transcript string) ([]entities.ReplyMessage, error) {
	history, err := json.Marshal(map[string]any{
		"User_messages": userHistory,
		"Bot_messages":  botHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	content, err := op.complete(ctx, chatRequest{
		Model:       op.Model,
		Temperature: 0.7,
		MaxTokens:   2000,
		ResponseFormat: map[string]any{
			"type": "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: replySystemPrompt},
			{Role: "system", Content: "Conversation history: " + string(history)},
			{Role: "user", Content: transcript},
		},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Messages []entities.ReplyMessage `json:"messages"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("reply violates response schema: %w", err)
	}
	if len(parsed.Messages) == 0 {
		return nil, fmt.Errorf("reply violates response schema: empty messages array")
	}

	return parsed.Messages, nil
}

// UpdatePersona sends the current persona document plus the newest transcript
// and parses the full replacement document from the model.
func (op *OpenAIProvider) UpdatePersona(ctx context.Context, persona map[string]any, transcript string) (map[string]any, error) {
	current, err := json.MarshalIndent(persona, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal persona: %w", err)
	}

	prompt := fmt.Sprintf("Current JSON:\n%s\n\nUser Message: %s", current, transcript)

	content, err := op.complete(ctx, chatRequest{
		Model:       op.Model,
		Temperature: 0.7,
		Messages: []chatMessage{
			{Role: "system", Content: personaSystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	var updated map[string]any
	if err := json.Unmarshal([]byte(content), &updated); err != nil {
		return nil, fmt.Errorf("persona update is not valid JSON: %w", err)
	}

	return updated, nil
}

// ExtractFormFields derives form updates from one question/answer pair.
// Non-string values from the model are dropped; the form schema is
// string-valued throughout.
func (op *OpenAIProvider) ExtractFormFields(ctx context.Context, current map[string]string, question, answer string) (map[string]string, error) {
	snapshot, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form snapshot: %w", err)
	}

	userPrompt := fmt.Sprintf("Current_Dict: %s\n\nQuestion_asked\n%q\n\nUser_Response\n%q", snapshot, question, answer)

	content, err := op.complete(ctx, chatRequest{
		Model:       op.Model,
		Temperature: 0.7,
		ResponseFormat: map[string]any{
			"type": "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: formSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("form extraction is not valid JSON: %w", err)
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		if s, ok := value.(string); ok {
			fields[key] = s
		}
	}

	return fields, nil
}

// Recommend runs the search-augmented recommendation call and returns the
// model's free-text answer.
func (op *OpenAIProvider) Recommend(ctx context.Context, persona map[string]any) (string, error) {
	profile, err := json.Marshal(persona)
	if err != nil {
		return "", fmt.Errorf("failed to marshal persona: %w", err)
	}

	return op.complete(ctx, chatRequest{
		Model: "gpt-4o-mini-search-preview",
		WebSearchOptions: map[string]any{
			"search_context_size": "high",
		},
		Messages: []chatMessage{
			{Role: "system", Content: recommendationSystemPrompt},
			{Role: "user", Content: string(profile)},
		},
	})
}

// truncate limits provider payloads quoted in errors and logs.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
