package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/pkg/formatting"
	"github.com/JaimeStill/scout/pkg/retry"
)

// ErrNoContent is returned when a document carries neither bytes nor text.
var ErrNoContent = errors.New("document has no content")

// Generator is the single model call the client needs. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Options tunes a client built over an existing Generator.
type Options struct {
	Model    string
	Timeout  time.Duration
	Observer Observer
}

type client struct {
	gen      Generator
	model    string
	timeout  time.Duration
	observer Observer
	logger   *slog.Logger
}

// New connects to the configured Gemini backend.
func New(ctx context.Context, cfg *config.GeminiConfig, observer Observer, logger *slog.Logger) (Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Backend == config.BackendVertexAI {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return NewWithGenerator(gc.Models, Options{
		Model:    cfg.Model,
		Timeout:  cfg.TimeoutDuration(),
		Observer: observer,
	}, logger), nil
}

// NewWithGenerator builds a client over gen.
func NewWithGenerator(gen Generator, opts Options, logger *slog.Logger) Client {
	return &client{
		gen:      gen,
		model:    opts.Model,
		timeout:  opts.Timeout,
		observer: opts.Observer,
		logger:   logger.With("system", "gemini"),
	}
}

func (c *client) Rank(ctx context.Context, req RankRequest) (*RankResponse, error) {
	limit := req.SnippetLimit
	if limit <= 0 {
		limit = DefaultSnippetLimit
	}

	snippets := make([]Snippet, len(req.Candidates))
	for i, s := range req.Candidates {
		snippets[i] = Snippet{Index: s.Index, Text: formatting.Preview(s.Text, limit)}
	}

	payload, err := json.Marshal(snippets)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%s: encode candidates: %w", OpRank, err))
	}

	prompt := fmt.Sprintf("Job Description:\n%s\n\nCandidates:\n%s", req.JobDescription, payload)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	text, err := c.generate(ctx, OpRank, contents, rankConfig(req.Instructions))
	if err != nil {
		return nil, err
	}

	resp, err := decodeRank(text)
	if err != nil {
		c.logger.Warn("rank response rejected", "error", err)
		return nil, fmt.Errorf("%s: %w", OpRank, err)
	}
	return resp, nil
}

func (c *client) Extract(ctx context.Context, req ExtractRequest) (*ExtractedProfile, error) {
	part, err := documentPart(req.Document)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%s: %w", OpExtract, err))
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		part,
		genai.NewPartFromText("Extract the profile fields from this resume."),
	}, genai.RoleUser)}

	text, err := c.generate(ctx, OpExtract, contents, extractConfig(req.Instructions))
	if err != nil {
		return nil, err
	}

	profile, err := decodeProfile(text)
	if err != nil {
		c.logger.Warn("extract response rejected", "error", err)
		return nil, fmt.Errorf("%s: %w", OpExtract, err)
	}
	profile.Raw = text
	return profile, nil
}

func (c *client) Transcribe(ctx context.Context, req TranscribeRequest) (string, error) {
	part, err := documentPart(req.Document)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("%s: %w", OpTranscribe, err))
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		part,
		genai.NewPartFromText("Transcribe this resume."),
	}, genai.RoleUser)}

	return c.generate(ctx, OpTranscribe, contents, transcribeConfig(req.Instructions))
}

func (c *client) generate(
	ctx context.Context,
	op string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.gen.GenerateContent(callCtx, c.model, contents, cfg)

	var text string
	if err != nil {
		err = classify(ctx, op, err)
	} else if text, err = responseText(resp); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
	}

	if c.observer != nil {
		c.observer.ObserveAttempt(op, time.Since(start), err)
	}
	if err != nil {
		c.logger.Debug("model call failed", "op", op, "model", c.model, "error", err)
		return "", err
	}
	return text, nil
}

func documentPart(doc Document) (*genai.Part, error) {
	if text := strings.TrimSpace(doc.Text); text != "" {
		return genai.NewPartFromText("Resume text:\n\n" + text), nil
	}
	if len(doc.Data) == 0 {
		return nil, ErrNoContent
	}
	return genai.NewPartFromBytes(doc.Data, doc.MIMEType), nil
}

var safetyOff = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
}

func systemInstruction(text string) *genai.Content {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return genai.NewContentFromText(text, genai.RoleUser)
}

func rankConfig(instructions string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(instructions),
		Temperature:       genai.Ptr[float32](0.3),
		TopK:              genai.Ptr[float32](40),
		TopP:              genai.Ptr[float32](0.95),
		MaxOutputTokens:   16000,
		SafetySettings:    safetyOff,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    rankSchema,
	}
}

func extractConfig(instructions string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(instructions),
		Temperature:       genai.Ptr[float32](0.2),
		TopK:              genai.Ptr[float32](40),
		TopP:              genai.Ptr[float32](0.95),
		MaxOutputTokens:   8192,
		SafetySettings:    safetyOff,
		ResponseMIMEType:  "application/json",
	}
}

func transcribeConfig(instructions string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(instructions),
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   16000,
		SafetySettings:    safetyOff,
		ResponseMIMEType:  "text/plain",
	}
}

func nullable(t genai.Type) *genai.Schema {
	return &genai.Schema{Type: t, Nullable: genai.Ptr(true)}
}

var rankSchema = &genai.Schema{
	Type:     genai.TypeObject,
	Required: []string{"candidates"},
	Properties: map[string]*genai.Schema{
		"candidates": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type:     genai.TypeObject,
				Required: []string{"candidateIndex", "matchScore", "reasoning"},
				Properties: map[string]*genai.Schema{
					"candidateIndex":    {Type: genai.TypeInteger},
					"fullName":          nullable(genai.TypeString),
					"email":             nullable(genai.TypeString),
					"phone":             nullable(genai.TypeString),
					"location":          nullable(genai.TypeString),
					"jobTitle":          nullable(genai.TypeString),
					"yearsOfExperience": nullable(genai.TypeNumber),
					"matchScore":        {Type: genai.TypeNumber},
					"reasoning":         {Type: genai.TypeString},
					"strengths":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"concerns":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
			},
		},
	},
}
