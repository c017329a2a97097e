package mapping

import (
	"context"
	"fmt"
	"os"
	"sheetDeck/internal/logger"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const noMatch = "NO_MATCH"

// Suggester asks Gemini which unused region an unmatched column was meant for
type Suggester struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	minConfidence float64
	logDir        string
}

type SuggesterOptions struct {
	Model         string
	MinConfidence float64
	// LogDir receives per-request debug transcripts when set.
	LogDir string
}

// NewSuggester creates a Gemini-backed suggester
func NewSuggester(ctx context.Context, apiKey string, opts SuggesterOptions) (*Suggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0.1)

	logger.Info("Region suggester initialized", "model", opts.Model, "min_confidence", opts.MinConfidence)

	return &Suggester{
		client:        client,
		model:         model,
		minConfidence: opts.MinConfidence,
		logDir:        opts.LogDir,
	}, nil
}

// Close cleans up the client
func (s *Suggester) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Suggest proposes a region for each unmatched column. Only suggestions at
// or above the configured confidence are returned.
func (s *Suggester) Suggest(ctx context.Context, columns, regions []string) (suggestions []Suggestion, err error) {
	if len(columns) == 0 || len(regions) == 0 {
		return nil, nil
	}
	defer func() {
		saveSuggestionsDebug(s.logDir, columns, regions, suggestions, err)
	}()

	prompt := buildSuggestionPrompt(columns, regions)
	logger.Debug("AI prompt", "content", prompt)

	timeout := 60 * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.Error("Gemini API request failed", "error", err, "duration", time.Since(started))
		return nil, fmt.Errorf("failed to generate AI response: %w", err)
	}
	logger.Info("Received response from Gemini API", "duration", time.Since(started))

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	logger.Debug("AI response", "content", text)

	return parseSuggestionResponse(text, columns, regions, s.minConfidence), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response generated from AI")
	}

	var b strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			b.WriteString(string(textPart))
		} else {
			logger.Warn("Non-text part in response", "index", i, "type", fmt.Sprintf("%T", part))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no response generated from AI")
	}
	return b.String(), nil
}

// buildSuggestionPrompt creates the prompt sent to Gemini
func buildSuggestionPrompt(columns, regions []string) string {
	var b strings.Builder
	b.WriteString(`You are helping fill a presentation template from spreadsheet columns.
Each template shape is filled only when its name equals a column name exactly.

TASK: For each spreadsheet column, name the template shape it was most likely meant to fill, or "NO_MATCH".

SPREADSHEET COLUMNS:
`)
	for _, col := range columns {
		fmt.Fprintf(&b, "- %s\n", col)
	}

	b.WriteString("\nTEMPLATE SHAPES:\n")
	for _, region := range regions {
		fmt.Fprintf(&b, "- %s\n", region)
	}

	b.WriteString(`
INSTRUCTIONS:
1. Only suggest pairs you are confident about (>80% certainty)
2. Use each template shape AT MOST ONCE
3. If uncertain, use "NO_MATCH"

OUTPUT FORMAT (one line per column):
Column|Shape|Confidence

EXAMPLES:
Client Name|Client|0.95
Random_Data|NO_MATCH|0.00

Now provide the pairs:`)
	return b.String()
}

// parseSuggestionResponse keeps well-formed lines naming a known column and
// region with confidence >= minConfidence. Each region is used once.
func parseSuggestionResponse(response string, columns, regions []string, minConfidence float64) []Suggestion {
	knownColumns := make(map[string]bool, len(columns))
	for _, c := range columns {
		knownColumns[c] = true
	}
	knownRegions := make(map[string]bool, len(regions))
	for _, r := range regions {
		knownRegions[r] = true
	}

	var suggestions []Suggestion
	taken := make(map[string]bool)
	skipped := 0

	for lineNum, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Column|") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			skipped++
			logger.Debug("Skipping line", "line_num", lineNum+1, "reason", "invalid format", "content", line)
			continue
		}

		column := strings.TrimSpace(parts[0])
		region := strings.TrimSpace(parts[1])

		var confidence float64
		if _, err := fmt.Sscanf(strings.TrimSpace(parts[2]), "%f", &confidence); err != nil {
			confidence = 0
		}

		if region == noMatch || confidence < minConfidence {
			continue
		}
		if !knownColumns[column] || !knownRegions[region] || taken[region] {
			skipped++
			logger.Debug("Skipping line", "line_num", lineNum+1, "reason", "unknown or repeated name", "content", line)
			continue
		}

		taken[region] = true
		suggestions = append(suggestions, Suggestion{Column: column, Region: region, Confidence: confidence})
	}

	logger.Info("Response parsing completed", "suggestions", len(suggestions), "skipped_lines", skipped)
	return suggestions
}

// GetGeminiAPIKey gets the API key from environment variable
func GetGeminiAPIKey() string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
	}
	return apiKey
}
