package matching

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/gemini"
	"github.com/JaimeStill/scout/internal/profiles"
	"github.com/JaimeStill/scout/internal/prompts"
	"github.com/JaimeStill/scout/internal/searches"
	"github.com/JaimeStill/scout/pkg/batch"
	"github.com/JaimeStill/scout/pkg/retry"
)

// Reporter receives the intermediate events of a run. *sse.Emitter satisfies it.
type Reporter interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Error(format string, args ...any)
	Progress(current, total int, step string)
}

// Recorder receives matching counters. *metrics.Metrics satisfies it.
type Recorder interface {
	AddFallbacks(operation string, n int)
	StreamOpened(flow string) func()
}

// ProfileSource supplies candidates and accepts recovered contact fields.
type ProfileSource interface {
	Recent(ctx context.Context, userID string, limit int) ([]profiles.Profile, error)
	UpdateContact(ctx context.Context, id uuid.UUID, update profiles.ContactUpdate) error
}

// SearchStore records completed runs.
type SearchStore interface {
	Create(ctx context.Context, cmd searches.CreateCommand) (*searches.Search, error)
}

// Runtime bundles the dependencies of a match run.
type Runtime struct {
	Client   gemini.Client
	Profiles ProfileSource
	Searches SearchStore
	Prompts  prompts.Source
	Metrics  Recorder
	Config   config.MatchConfig
	Logger   *slog.Logger
}

// Orchestrator runs candidate matching.
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
		logger: rt.Logger.With("system", "matching"),
	}
}

// entry is a group result for one source item before joining.
type entry struct {
	index    int
	ranked   gemini.RankedCandidate
	fallback bool
}

// Run ranks the user's most recent profiles against description. It runs on a context
// detached from ctx's cancellation and bounded by the match timeout, so an abandoned
// request still records its search. Group failures degrade to fallback entries; only
// failures before ranking starts or while recording the search are returned.
func (o *Orchestrator) Run(ctx context.Context, userID, description string, rep Reporter) (*Result, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	ctx = context.WithoutCancel(ctx)
	if d := o.rt.Config.TimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	instructions, err := prompts.Compose(ctx, o.rt.Prompts, prompts.StageRank)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPromptFailed, err)
	}

	rep.Info("Fetching candidate profiles...")
	sources, err := o.rt.Profiles.Recent(ctx, userID, o.rt.Config.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if len(sources) == 0 {
		rep.Info("No candidates found in database")
		return &Result{
			Matches: []Match{},
			Message: "No candidates found to analyze",
		}, nil
	}

	rep.Info("Found %d candidates", len(sources))
	rep.Progress(0, len(sources), "")

	entries := o.execute(ctx, description, instructions, sources, rep)

	slices.SortStableFunc(entries, func(a, b entry) int {
		return b.ranked.MatchScore - a.ranked.MatchScore
	})

	matches := o.join(entries, sources)

	fallbacks := 0
	for _, m := range matches {
		if m.IsFallback {
			fallbacks++
		}
	}
	o.rt.Metrics.AddFallbacks(gemini.OpRank, fallbacks)

	rep.Info("Updating candidate profiles...")
	o.updateContacts(ctx, entries, sources)

	search, err := o.rt.Searches.Create(ctx, searchCommand(userID, description, len(sources), matches))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	rep.Success("Successfully matched %d candidates, %d fallback", len(matches)-fallbacks, fallbacks)

	o.logger.Info(
		"match complete",
		"search_id", search.ID,
		"candidates", len(sources),
		"fallbacks", fallbacks,
	)

	return &Result{
		Matches:  matches,
		Total:    len(sources),
		SearchID: &search.ID,
		Message:  fmt.Sprintf("Analyzed %d candidates", len(matches)),
	}, nil
}

// execute runs the planned batches in order. Groups within a batch run concurrently
// and each writes only its own result slot.
func (o *Orchestrator) execute(
	ctx context.Context,
	description, instructions string,
	sources []profiles.Profile,
	rep Reporter,
) []entry {
	plan := batch.New(sources, o.rt.Config.Size())
	groupCount := plan.GroupCount()
	results := make([][]entry, groupCount)
	processed := 0

	for _, groups := range plan.Batches {
		var g errgroup.Group
		g.SetLimit(plan.Size.Width)

		for _, group := range groups {
			g.Go(func() error {
				results[group.Index] = o.rankGroup(ctx, group, groupCount, description, instructions, rep)
				return nil
			})
		}
		g.Wait()

		for _, group := range groups {
			processed += len(group.Items)
		}
		rep.Progress(processed, plan.Total, "")
	}

	merged := make([]entry, 0, plan.Total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

func (o *Orchestrator) rankGroup(
	ctx context.Context,
	group batch.Group[profiles.Profile],
	groupCount int,
	description, instructions string,
	rep Reporter,
) []entry {
	number := group.Index + 1
	rep.Info("Processing batch %d/%d (%d candidates)...", number, groupCount, len(group.Items))

	snippets := make([]gemini.Snippet, len(group.Items))
	for i, p := range group.Items {
		snippets[i] = gemini.Snippet{Index: group.Offset + i, Text: snippetText(p)}
	}

	req := gemini.RankRequest{
		Instructions:   instructions,
		JobDescription: description,
		Candidates:     snippets,
		SnippetLimit:   o.rt.Config.SnippetLimit,
	}

	resp, err := retry.Do(
		ctx,
		o.rt.Config.Policy(),
		func(ctx context.Context, _ int) (*gemini.RankResponse, error) {
			return o.rt.Client.Rank(ctx, req)
		},
		func(a retry.Attempt) {
			if !a.Failed() {
				rep.Success("Batch %d/%d analyzed on attempt %d", number, groupCount, a.Number)
				return
			}
			rep.Error("Batch %d attempt %d failed: %v", number, a.Number, a.Err)
			o.logger.Warn(
				"rank attempt failed",
				"batch", number,
				"attempt", a.Number,
				"delay", a.Delay,
				"error", a.Err,
			)
		},
	)

	if err != nil {
		rep.Error("Batch %d using fallback results after %d attempts", number, o.rt.Config.Policy().Attempts())
		return fallbackEntries(group.Offset, len(group.Items))
	}

	return reconcile(o.logger, number, group.Offset, len(group.Items), resp.Candidates)
}

// reconcile keeps the first entry returned for each index in the group, drops
// indexes outside it, and appends fallbacks for indexes the model omitted.
func reconcile(logger *slog.Logger, number, offset, size int, ranked []gemini.RankedCandidate) []entry {
	seen := make([]bool, size)
	out := make([]entry, 0, size)

	for _, rc := range ranked {
		pos := rc.CandidateIndex - offset
		if pos < 0 || pos >= size {
			logger.Warn("rank returned index outside batch", "batch", number, "index", rc.CandidateIndex)
			continue
		}
		if seen[pos] {
			logger.Warn("rank returned duplicate index", "batch", number, "index", rc.CandidateIndex)
			continue
		}
		seen[pos] = true
		out = append(out, entry{index: rc.CandidateIndex, ranked: rc})
	}

	for pos, ok := range seen {
		if !ok {
			out = append(out, fallbackEntry(offset+pos))
		}
	}
	return out
}

func fallbackEntries(offset, size int) []entry {
	out := make([]entry, size)
	for i := range size {
		out[i] = fallbackEntry(offset + i)
	}
	return out
}

func fallbackEntry(index int) entry {
	name := fmt.Sprintf("Candidate %d", index+1)
	return entry{
		index:    index,
		fallback: true,
		ranked: gemini.RankedCandidate{
			CandidateIndex: index,
			FullName:       &name,
			MatchScore:     0,
			Reasoning:      FallbackReasoning,
			Strengths:      []string{},
			Concerns:       []string{FallbackConcern},
		},
	}
}

// join maps each entry to its source profile. Ranked fields take precedence over
// stored profile values.
func (o *Orchestrator) join(entries []entry, sources []profiles.Profile) []Match {
	matches := make([]Match, 0, len(entries))

	for _, e := range entries {
		if e.index < 0 || e.index >= len(sources) {
			o.logger.Warn("dropping match with unknown candidate index", "index", e.index)
			continue
		}

		p := sources[e.index]
		rc := e.ranked

		name := NotExtracted
		if v := firstOf(known(rc.FullName), p.FullName); v != nil {
			name = *v
		}

		years := rc.YearsOfExperience
		if years == nil {
			years = p.YearsOfExperience
		}

		matches = append(matches, Match{
			ID:                p.ID,
			ResumeFileURL:     p.ResumeFileURL,
			ResumeText:        p.ResumeText,
			CreatedAt:         p.CreatedAt,
			FullName:          name,
			Email:             firstOf(known(rc.Email), p.Email),
			PhoneNumber:       firstOf(known(rc.Phone), p.PhoneNumber),
			Location:          firstOf(known(rc.Location), p.Location),
			JobTitle:          firstOf(known(rc.JobTitle), p.JobTitle),
			YearsOfExperience: years,
			MatchScore:        rc.MatchScore,
			Reasoning:         rc.Reasoning,
			Strengths:         nonNil(rc.Strengths),
			Concerns:          nonNil(rc.Concerns),
			IsFallback:        e.fallback,
		})
	}

	return matches
}

// updateContacts writes ranked display fields back to their profiles. Every update
// is attempted and failures are only logged.
func (o *Orchestrator) updateContacts(ctx context.Context, entries []entry, sources []profiles.Profile) {
	var tasks []batch.Task

	for _, e := range entries {
		if e.fallback || e.index < 0 || e.index >= len(sources) {
			continue
		}
		if known(e.ranked.FullName) == nil {
			continue
		}

		rc := e.ranked
		update := profiles.ContactUpdate{
			FullName:          known(rc.FullName),
			Email:             known(rc.Email),
			PhoneNumber:       known(rc.Phone),
			Location:          known(rc.Location),
			JobTitle:          known(rc.JobTitle),
			YearsOfExperience: rc.YearsOfExperience,
		}
		id := sources[e.index].ID

		tasks = append(tasks, func(ctx context.Context) error {
			return o.rt.Profiles.UpdateContact(ctx, id, update)
		})
	}

	for _, f := range batch.Settle(ctx, o.rt.Config.Width, tasks...) {
		o.logger.Warn("profile contact update failed", "task", f.Index, "error", f.Err)
	}
}

func searchCommand(userID, description string, total int, matches []Match) searches.CreateCommand {
	inputs := make([]searches.MatchInput, len(matches))
	for i, m := range matches {
		inputs[i] = searches.MatchInput{
			CandidateID:       m.ID,
			CandidateName:     m.FullName,
			CandidateEmail:    m.Email,
			CandidatePhone:    m.PhoneNumber,
			CandidateLocation: m.Location,
			JobRole:           m.JobTitle,
			ExperienceYears:   m.YearsOfExperience,
			MatchScore:        m.MatchScore,
			Reasoning:         m.Reasoning,
			KeyStrengths:      m.Strengths,
			PotentialConcerns: m.Concerns,
			ResumeFileURL:     m.ResumeFileURL,
			IsFallback:        m.IsFallback,
		}
	}

	return searches.CreateCommand{
		UserID:          userID,
		JobDescription:  description,
		TotalCandidates: total,
		Matches:         inputs,
	}
}

// snippetText is the resume text of a profile, or its name, title, and skills
// when no text was stored.
func snippetText(p profiles.Profile) string {
	if p.ResumeText != nil && strings.TrimSpace(*p.ResumeText) != "" {
		return *p.ResumeText
	}

	var parts []string
	if p.FullName != nil {
		parts = append(parts, "Name: "+*p.FullName)
	}
	if p.JobTitle != nil {
		parts = append(parts, "Title: "+*p.JobTitle)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}
	return strings.Join(parts, "\n")
}

// known drops blank values and the "Not extracted" sentinel.
func known(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, NotExtracted) {
		return nil
	}
	return &v
}

func firstOf(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
