package external

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

const extractorSystemPrompt = "Extract the most specific place name mentioned in the text. Reply with the place name only, or NONE if there is none."

// Extractor resolves the most specific place name in free text via a
// chat-completions style endpoint, with a heuristic mock fallback.
type Extractor struct {
	cfg    configs.ExtractorConfig
	client *http.Client
	live   bool
	logger *logrus.Logger
}

func NewExtractor(cfg configs.UpstreamsConfig, live bool, logger *logrus.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg.Extractor,
		client: newHTTPClient(cfg.Timeout),
		live:   live,
		logger: logger,
	}
}

func (e *Extractor) ExtractLocation(ctx context.Context, text string) (string, ports.Provenance, error) {
	if e.live {
		name, err := e.extractLive(ctx, text)
		if err == nil {
			return name, ports.ProvenanceLive, nil
		}
		e.logger.WithError(err).WithField("adapter", "extractor").Warn("Live extraction failed, serving mock result")
	}
	return mockExtractLocation(text), ports.ProvenanceMock, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (e *Extractor) extractLive(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: extractorSystemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	var decoded chatResponse
	if err := decodeResponse(resp, &decoded); err != nil {
		return "", err
	}
	if len(decoded.Choices) == 0 {
		return "", errEmptyUpstream
	}
	name := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if name == "" || strings.EqualFold(name, "NONE") {
		return "", errEmptyUpstream
	}
	return name, nil
}

// mockExtractLocation picks the longest run of capitalized words that does
// not open a sentence. Crude, but deterministic and good enough for demos
// and degraded mode.
func mockExtractLocation(text string) string {
	words := strings.Fields(text)
	var best, current []string
	sentenceStart := true
	for _, w := range words {
		trimmed := strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) })
		capitalized := trimmed != "" && unicode.IsUpper([]rune(trimmed)[0])
		if capitalized && !sentenceStart {
			current = append(current, trimmed)
			if len(current) > len(best) {
				best = current
			}
		} else {
			current = nil
		}
		sentenceStart = strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") || strings.HasSuffix(w, "?")
	}
	if len(best) == 0 {
		return "Unknown"
	}
	return strings.Join(best, " ")
}
