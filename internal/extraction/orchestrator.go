package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/gemini"
	"github.com/JaimeStill/scout/internal/profiles"
	"github.com/JaimeStill/scout/internal/prompts"
	"github.com/JaimeStill/scout/pkg/formatting"
	"github.com/JaimeStill/scout/pkg/retry"
)

const (
	// shortField caps single-line profile values.
	shortField     = 500
	cleanupTimeout = 30 * time.Second
)

// Reporter receives the intermediate events of a run. *sse.Emitter satisfies it.
type Reporter interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Error(format string, args ...any)
	Progress(current, total int, step string)
}

// Recorder receives extraction counters. *metrics.Metrics satisfies it.
type Recorder interface {
	AddFallbacks(operation string, n int)
	StreamOpened(flow string) func()
}

// ProfileStore persists parsed profiles.
type ProfileStore interface {
	Save(ctx context.Context, cmd profiles.SaveCommand) (*profiles.Profile, error)
}

// BlobStore holds uploaded resume files. storage.System satisfies it.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) (string, error)
}

// Runtime bundles the dependencies of an extraction run.
type Runtime struct {
	Client   gemini.Client
	Profiles ProfileStore
	Blobs    BlobStore
	Prompts  prompts.Source
	Metrics  Recorder
	Config   config.ExtractConfig
	Logger   *slog.Logger
}

// Orchestrator runs resume extraction.
type Orchestrator struct {
	rt     Runtime
	logger *slog.Logger
}

type nopRecorder struct{}

func (nopRecorder) AddFallbacks(string, int)    {}
func (nopRecorder) StreamOpened(string) func() { return func() {} }

// New creates an Orchestrator. A nil Metrics records nothing.
func New(rt Runtime) *Orchestrator {
	if rt.Metrics == nil {
		rt.Metrics = nopRecorder{}
	}
	return &Orchestrator{
		rt:     rt,
		logger: rt.Logger.With("system", "extraction"),
	}
}

// MaxFileSize is the largest accepted upload in bytes.
func (o *Orchestrator) MaxFileSize() int64 {
	return o.rt.Config.MaxFileSizeBytes()
}

// Run stores f, extracts its profile, and saves it for userID. Like matching it runs
// detached from ctx's cancellation and bounded by the extraction timeout.
func (o *Orchestrator) Run(ctx context.Context, userID string, f *File, rep Reporter) (*Result, error) {
	ctx = context.WithoutCancel(ctx)
	if d := o.rt.Config.TimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	rep.Info("Processing file: %s", f.Name)
	rep.Progress(1, totalSteps, StepUpload)

	key := storageKey(uuid.New(), sanitizeFilename(f.Name))
	fileURL, err := o.upload(ctx, key, f)
	if err != nil {
		return nil, err
	}
	rep.Success("File uploaded successfully")

	rep.Progress(2, totalSteps, StepExtract)
	rep.Info("Parsing resume with AI...")
	rep.Progress(3, totalSteps, StepAnalyze)

	extracted, err := o.extract(ctx, f, rep)
	if err != nil {
		o.discard(key)
		return nil, err
	}
	rep.Success("AI analysis complete")

	rep.Progress(4, totalSteps, StepSave)

	contentType := f.ContentType
	profile, err := o.rt.Profiles.Save(ctx, profiles.SaveCommand{
		UserID:        userID,
		Fields:        normalize(extracted),
		ResumeFileURL: &fileURL,
		StorageKey:    &key,
		ContentType:   &contentType,
		PageCount:     f.PageCount,
	})
	if err != nil {
		o.discard(key)
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	rep.Success("Resume processed successfully!")
	o.logger.Info(
		"resume extracted",
		"profile_id", profile.ID,
		"content_type", f.ContentType,
		"size", len(f.Data),
	)

	return &Result{
		Success:   true,
		ProfileID: profile.ID,
		Message:   "Resume uploaded and parsed successfully",
	}, nil
}

func (o *Orchestrator) upload(ctx context.Context, key string, f *File) (string, error) {
	if err := o.rt.Blobs.Upload(ctx, key, bytes.NewReader(f.Data), f.ContentType); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	fileURL, err := o.rt.Blobs.URL(key)
	if err != nil {
		o.discard(key)
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return fileURL, nil
}

// discard removes a stored file whose profile was never saved.
func (o *Orchestrator) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := o.rt.Blobs.Delete(ctx, key); err != nil {
		o.logger.Warn("orphaned resume blob", "key", key, "error", err)
	}
}

func (o *Orchestrator) extract(ctx context.Context, f *File, rep Reporter) (*gemini.ExtractedProfile, error) {
	if o.rt.Config.Mode == config.ModeOCR {
		return o.transcribe(ctx, f, rep)
	}
	return o.structured(ctx, f, rep)
}

// structured asks the model for profile fields. Exhaustion is fatal.
func (o *Orchestrator) structured(ctx context.Context, f *File, rep Reporter) (*gemini.ExtractedProfile, error) {
	instructions, err := prompts.Compose(ctx, o.rt.Prompts, prompts.StageExtract)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPromptFailed, err)
	}

	doc, err := document(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	req := gemini.ExtractRequest{Instructions: instructions, Document: doc}

	extracted, err := retry.Do(
		ctx,
		o.rt.Config.Policy(),
		func(ctx context.Context, _ int) (*gemini.ExtractedProfile, error) {
			return o.rt.Client.Extract(ctx, req)
		},
		o.observe(rep, "Extraction"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	if strings.TrimSpace(string(extracted.ResumeText)) == "" {
		if doc.Text != "" {
			extracted.ResumeText = gemini.Text(doc.Text)
		} else {
			extracted.ResumeText = gemini.Text(extracted.Raw)
		}
	}
	return extracted, nil
}

// transcribe asks the model for plain text and reads fields locally. When the
// model is unavailable it falls back to local text, and to an empty profile when
// the format has none.
func (o *Orchestrator) transcribe(ctx context.Context, f *File, rep Reporter) (*gemini.ExtractedProfile, error) {
	instructions, err := prompts.Compose(ctx, o.rt.Prompts, prompts.StageTranscribe)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPromptFailed, err)
	}

	doc, docErr := document(f)
	if docErr == nil {
		req := gemini.TranscribeRequest{Instructions: instructions, Document: doc}

		text, err := retry.Do(
			ctx,
			o.rt.Config.Policy(),
			func(ctx context.Context, _ int) (string, error) {
				return o.rt.Client.Transcribe(ctx, req)
			},
			o.observe(rep, "Transcription"),
		)
		if err == nil && strings.TrimSpace(text) != "" {
			return parseText(text), nil
		}
		o.logger.Warn("transcription unavailable", "error", err)
	}

	o.rt.Metrics.AddFallbacks(gemini.OpTranscribe, 1)
	rep.Error("Transcription unavailable, reading text locally")

	text, err := localText(f)
	if err != nil {
		o.logger.Warn("no local text", "content_type", f.ContentType, "error", err)
		return &gemini.ExtractedProfile{}, nil
	}
	return parseText(text), nil
}

func (o *Orchestrator) observe(rep Reporter, label string) func(retry.Attempt) {
	return func(a retry.Attempt) {
		if !a.Failed() {
			rep.Success("%s succeeded on attempt %d", label, a.Number)
			return
		}
		rep.Error("%s attempt %d failed: %v", label, a.Number, a.Err)
		o.logger.Warn(
			"extraction attempt failed",
			"label", label,
			"attempt", a.Number,
			"delay", a.Delay,
			"error", a.Err,
		)
	}
}

// document prepares f for the model. DOCX is not read natively and goes as text.
func document(f *File) (gemini.Document, error) {
	if f.ContentType == TypeDOCX {
		text, err := localText(f)
		if err != nil {
			return gemini.Document{}, err
		}
		return gemini.Document{Text: text}, nil
	}
	return gemini.Document{Data: f.Data, MIMEType: f.ContentType}, nil
}

// normalize sanitizes raw model output into storable profile fields.
func normalize(p *gemini.ExtractedProfile) profiles.Fields {
	fields := profiles.Fields{
		FullName:    formatting.SanitizeString(string(p.FullName), shortField),
		Email:       profiles.NormalizeEmail(formatting.SanitizeString(string(p.Email), shortField)),
		PhoneNumber: formatting.SanitizeString(string(p.PhoneNumber), shortField),
		Location:    formatting.SanitizeString(string(p.Location), shortField),
		JobTitle:    formatting.SanitizeString(string(p.JobTitle), shortField),
		Sector:      formatting.SanitizeString(string(p.Sector), shortField),
		Skills:      formatting.SanitizeList(p.Skills),
		Experience:  formatting.SanitizeString(string(p.Experience), 0),
		Education:   formatting.SanitizeString(string(p.Education), 0),
		ResumeText:  formatting.SanitizeString(string(p.ResumeText), 0),
	}

	if years := formatting.CoerceInt(string(p.YearsOfExperience)); years != nil && *years >= 0 {
		fields.YearsOfExperience = years
	}

	return fields
}
