package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	"github.com/BruksfildServices01/salon-scheduler/internal/history"
)

const (
	searchTool   = "search_services"
	maxToolTurns = 3
)

// GeminiRunner answers with a Gemini model that can look services up in
// the catalog through a function tool.
type GeminiRunner struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	catalog *catalog.Catalog
}

func NewGeminiRunner(ctx context.Context, apiKey, modelName string, cat *catalog.Catalog) (*GeminiRunner, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	model.Tools = []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        searchTool,
			Description: "Search salon services by keyword in the name or category. Use \"all\" to list every service grouped by category.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"keyword": {Type: genai.TypeString, Description: "word to look for, or \"all\""},
				},
				Required: []string{"keyword"},
			},
		}},
	}}

	return &GeminiRunner{client: client, model: model, catalog: cat}, nil
}

func (g *GeminiRunner) Close() error {
	return g.client.Close()
}

func (g *GeminiRunner) Run(ctx context.Context, past []history.Message, input string) (string, error) {
	cs := g.model.StartChat()
	cs.History = toContents(past)

	resp, err := cs.SendMessage(ctx, genai.Text(input))
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}

	for turn := 0; turn < maxToolTurns; turn++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			replies = append(replies, g.callTool(call))
		}

		if resp, err = cs.SendMessage(ctx, replies...); err != nil {
			return "", fmt.Errorf("gemini tool reply: %w", err)
		}
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}

func (g *GeminiRunner) callTool(call genai.FunctionCall) genai.FunctionResponse {
	if call.Name != searchTool {
		return genai.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"error": "unknown tool"},
		}
	}

	keyword, _ := call.Args["keyword"].(string)
	return genai.FunctionResponse{
		Name:     call.Name,
		Response: map[string]any{"result": SearchText(g.catalog, keyword)},
	}
}

// SearchText is the tool output: the grouped menu for "all", otherwise
// the matching lines.
func SearchText(cat *catalog.Catalog, keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if strings.EqualFold(keyword, "all") {
		return catalog.FormatGroups(cat.Grouped())
	}
	return catalog.FormatList(keyword, cat.Search(keyword))
}

func toContents(past []history.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(past))
	for _, m := range past {
		role := "user"
		if m.Role == history.RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return out
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
