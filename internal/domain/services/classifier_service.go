package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/infrastructure/config"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"
	"github.com/xeipuuv/gojsonschema"
)

// Classification kinds, also used in cache keys
const (
	KindType     = "type"
	KindSeverity = "severity"
)

// Fallback values of a classification
const (
	DefaultType            = "Other"
	DefaultConfidence      = 0.5
	DefaultExplanation     = "No explanation provided"
	UnparsableExplanation  = "Unable to parse AI response"
	NotConfiguredReason    = "AI classification not configured"
	classificationFailedAs = "Classification failed: %v"
)

// DisasterTypes are the categories offered to the model
var DisasterTypes = []string{
	"Fire", "Flood", "Earthquake", "Hurricane", "Tornado", "Drought", "Landslide",
	"Tsunami", "Volcanic Eruption", "Winter Storm", "Wildfire", "Epidemic", "Other",
}

const typeSystemPrompt = `You are a disaster classification expert. Classify the disaster into ONE of these categories:
%s

Return your response as a JSON object with these fields:
{
  "type": "category name",
  "confidence": 0.95,
  "explanation": "brief reason for classification"
}

Example:
{
  "type": "Wildfire",
  "confidence": 0.92,
  "explanation": "Description mentions uncontrolled fire spreading through forest area"
}`

const severitySystemPrompt = `You are a disaster severity assessment expert. Classify the disaster severity into ONE of these categories:
- Minor: Small-scale incidents with limited impact, contained situations, minimal damage
- Moderate: Medium-scale incidents with moderate impact, some damage, affects a limited area
- Severe: Large-scale catastrophic incidents, extensive damage, widespread impact, life-threatening

Return your response as a JSON object with these fields:
{
  "severity": "severity level",
  "confidence": 0.88,
  "explanation": "brief reason for severity assessment"
}

Example:
{
  "severity": "Severe",
  "confidence": 0.95,
  "explanation": "Description indicates widespread destruction and life-threatening conditions"
}`

const responseSchema = `{
  "type": "object",
  "properties": {
    "%s": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "explanation": {"type": "string"}
  }
}`

var (
	severeKeywords = []string{"destroyed", "severe", "catastrophic"}
	minorKeywords  = []string{"minor", "small", "contained"}
)

// errEmptyCompletion is returned when the model sends no choices
var errEmptyCompletion = errors.New("empty completion")

// Classification is the outcome of classifying a description
type Classification struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// ConfidencePtr returns the confidence as a nullable column value
func (c Classification) ConfidencePtr() *float64 {
	v := c.Confidence
	return &v
}

// ExplanationPtr returns the explanation as a nullable column value
func (c Classification) ExplanationPtr() *string {
	v := c.Explanation
	return &v
}

// ChatCompleter is the part of the OpenAI client the classifier uses
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// InterfaceClassifierService classifies report descriptions. It never fails:
// errors degrade to fallback classifications.
type InterfaceClassifierService interface {
	ClassifyType(ctx context.Context, description string) Classification
	ClassifySeverity(ctx context.Context, description string) Classification
}

// ClassifierService asks a chat model for a label and falls back to keywords
type ClassifierService struct {
	client   ChatCompleter
	model    string
	timeout  time.Duration
	cache    InterfaceRedisService
	cacheTTL time.Duration

	typeSchema     *gojsonschema.Schema
	severitySchema *gojsonschema.Schema
}

// NewClassifierService builds the classifier from configuration. Without an
// API key every call returns the fallback classification. cache may be nil.
func NewClassifierService(cfg *config.Config, cache InterfaceRedisService) InterfaceClassifierService {
	var client ChatCompleter
	if cfg.AIConfigured() {
		clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			clientConfig.BaseURL = cfg.OpenAIBaseURL
		}
		client = openai.NewClientWithConfig(clientConfig)
	}
	return NewClassifierServiceWithClient(client, cfg.OpenAIModel, cfg.AITimeout, cache, cfg.ClassificationCacheTTL)
}

// NewClassifierServiceWithClient builds a classifier around an existing client
func NewClassifierServiceWithClient(client ChatCompleter, model string, timeout time.Duration, cache InterfaceRedisService, cacheTTL time.Duration) *ClassifierService {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &ClassifierService{
		client:         client,
		model:          model,
		timeout:        timeout,
		cache:          cache,
		cacheTTL:       cacheTTL,
		typeSchema:     mustSchema(KindType),
		severitySchema: mustSchema(KindSeverity),
	}
}

func mustSchema(field string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(fmt.Sprintf(responseSchema, field)))
	if err != nil {
		panic(err)
	}
	return schema
}

// KeywordSeverity classifies severity from keywords in the description
func KeywordSeverity(description string) string {
	text := strings.ToLower(description)
	for _, k := range severeKeywords {
		if strings.Contains(text, k) {
			return models.SeveritySevere
		}
	}
	for _, k := range minorKeywords {
		if strings.Contains(text, k) {
			return models.SeverityMinor
		}
	}
	return models.SeverityModerate
}

// ClassifyType returns the disaster type of description
func (s *ClassifierService) ClassifyType(ctx context.Context, description string) Classification {
	if s.client == nil {
		return Classification{Label: DefaultType, Explanation: NotConfiguredReason}
	}

	prompt := fmt.Sprintf(typeSystemPrompt, "- "+strings.Join(DisasterTypes, "\n- "))
	result, err := s.classify(ctx, KindType, prompt, "Classify this disaster report: "+description, description, s.typeSchema, DefaultType)
	if err != nil {
		Logger.FromContext(ctx).WithError(err).Warn("disaster type classification failed")
		return Classification{Label: DefaultType, Explanation: fmt.Sprintf(classificationFailedAs, err)}
	}

	// a label this short would be rejected by the report model
	if models.ValidateReportType(result.Label) != nil {
		result.Label = DefaultType
	}
	return result
}

// ClassifySeverity returns the severity of description
func (s *ClassifierService) ClassifySeverity(ctx context.Context, description string) Classification {
	if s.client == nil {
		return Classification{Label: KeywordSeverity(description), Explanation: NotConfiguredReason}
	}

	result, err := s.classify(ctx, KindSeverity, severitySystemPrompt, "Assess the severity of this disaster report: "+description, description, s.severitySchema, models.SeverityModerate)
	if err != nil {
		Logger.FromContext(ctx).WithError(err).Warn("severity classification failed")
		return Classification{Label: KeywordSeverity(description), Explanation: fmt.Sprintf(classificationFailedAs, err)}
	}
	return result
}

func (s *ClassifierService) classify(ctx context.Context, kind, systemPrompt, userPrompt, description string, schema *gojsonschema.Schema, fallback string) (Classification, error) {
	rlog := Logger.FromContext(ctx)
	key := classificationCacheKey(kind, description)

	if s.cache != nil {
		var cached Classification
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			rlog.Debugf("classification cache hit for %s", kind)
			return cached, nil
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   150,
	})
	if err != nil {
		return Classification{}, err
	}
	if len(resp.Choices) == 0 {
		return Classification{}, errEmptyCompletion
	}

	result, parsed, err := parseClassification(resp.Choices[0].Message.Content, kind, schema, fallback)
	if err != nil {
		return Classification{}, err
	}
	rlog.Infof("classified %s: %s (confidence: %.2f)", kind, result.Label, result.Confidence)

	if parsed && s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			rlog.WithError(err).Debug("classification cache write failed")
		}
	}
	return result, nil
}

// parseClassification turns the model output into a Classification. parsed is
// false when the output was not JSON and the first line was used instead.
func parseClassification(content, field string, schema *gojsonschema.Schema, fallback string) (result Classification, parsed bool, err error) {
	text := stripCodeFence(strings.TrimSpace(content))

	if !json.Valid([]byte(text)) {
		label := fallback
		if text != "" {
			label = strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
		}
		return Classification{Label: label, Confidence: DefaultConfidence, Explanation: UnparsableExplanation}, false, nil
	}

	validation, err := schema.Validate(gojsonschema.NewBytesLoader([]byte(text)))
	if err != nil {
		return Classification{}, false, err
	}
	if !validation.Valid() {
		return Classification{}, false, fmt.Errorf("unexpected AI response: %v", validation.Errors())
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Classification{}, false, err
	}

	result = Classification{Label: fallback, Confidence: DefaultConfidence, Explanation: DefaultExplanation}
	if v, ok := raw[field].(string); ok && strings.TrimSpace(v) != "" {
		result.Label = strings.TrimSpace(v)
	}
	if v, ok := raw["confidence"].(float64); ok {
		result.Confidence = v
	}
	if v, ok := raw["explanation"].(string); ok && v != "" {
		result.Explanation = v
	}
	return result, true, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func classificationCacheKey(kind, description string) string {
	sum := sha256.Sum256([]byte(description))
	return "classification:" + kind + ":" + hex.EncodeToString(sum[:])
}
