// Package delivery runs one polling pass over all enabled delivery
// schedules. It is stateless between invocations: an external trigger (cron
// or the daemon wrapper) calls RunOnce, and everything the pass needs is
// read from the store.
package delivery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"creatorpulse/internal/generator"
	"creatorpulse/internal/mailer"
	"creatorpulse/internal/model"
	"creatorpulse/internal/schedule"
	"creatorpulse/internal/trends"
	"creatorpulse/pkg/logger"
	"creatorpulse/pkg/metrics"
	"creatorpulse/pkg/trace"
	"creatorpulse/pkg/util"
)

// ScheduleStore is the slice of the schedule repository the runner needs.
type ScheduleStore interface {
	ListEnabled(ctx context.Context) ([]*model.DeliverySchedule, error)
	RecordSent(ctx context.Context, userID string, at time.Time) error
}

// ContentAggregator assembles generator input for one user.
type ContentAggregator interface {
	Aggregate(ctx context.Context, userID string) ([]model.ContentItem, error)
}

// StyleStore loads the user's writing-style profile, nil when untrained.
type StyleStore interface {
	Latest(ctx context.Context, userID string) (*model.StyleProfile, error)
}

// DraftStore persists generated drafts. Optional; draft bookkeeping must
// never block a send.
type DraftStore interface {
	Save(ctx context.Context, d *model.Draft) (string, error)
	UpdateStatus(ctx context.Context, userID, draftID, status string, sentAt *time.Time, recipientCount int) error
}

// EmailLogStore records outgoing sends. Optional.
type EmailLogStore interface {
	LogSend(ctx context.Context, userID, draftID string, recipients []string, subject, resendID string) error
}

// TrendStore provides the historical keyword baseline. Optional.
type TrendStore interface {
	HistoricalCounts(ctx context.Context, userID string, days int) (map[string]int, error)
	StoreCounts(ctx context.Context, userID string, counts map[string]int) error
}

// Sender is the email transport collaborator.
type Sender interface {
	Send(ctx context.Context, to []string, subject, htmlBody, textBody string) (*mailer.SendResult, error)
}

// Options tunes one runner instance.
type Options struct {
	Window        time.Duration // due tolerance, default one hour
	UserTimeout   time.Duration // per-user budget for generate+send, default 2m
	NumArticles   int
	IncludeTrends bool
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.Window <= 0 {
		opts.Window = schedule.DefaultWindow
	}
	if opts.UserTimeout <= 0 {
		opts.UserTimeout = 2 * time.Minute
	}
	if opts.NumArticles <= 0 {
		opts.NumArticles = 5
	}
	return opts
}

// Runner orchestrates one delivery pass. Users are processed strictly
// sequentially; any failure that can be isolated to one user is isolated.
type Runner struct {
	store      ScheduleStore
	aggregator ContentAggregator
	styles     StyleStore
	drafts     DraftStore
	emailLog   EmailLogStore
	trendStore TrendStore
	generator  generator.Generator
	sender     Sender
	lease      *Lease
	logger     *zap.Logger
	opts       Options
}

func NewRunner(
	store ScheduleStore,
	agg ContentAggregator,
	styles StyleStore,
	gen generator.Generator,
	sender Sender,
	log *zap.Logger,
	opts Options,
) *Runner {
	return &Runner{
		store:      store,
		aggregator: agg,
		styles:     styles,
		generator:  gen,
		sender:     sender,
		logger:     log,
		opts:       opts.withDefaults(),
	}
}

// WithDrafts enables draft persistence around each send.
func (r *Runner) WithDrafts(drafts DraftStore) *Runner {
	r.drafts = drafts
	return r
}

// WithEmailLog enables the outgoing-send audit log.
func (r *Runner) WithEmailLog(log EmailLogStore) *Runner {
	r.emailLog = log
	return r
}

// WithTrends enables the trending-topics section and its history.
func (r *Runner) WithTrends(store TrendStore) *Runner {
	r.trendStore = store
	return r
}

// WithLease enables the advisory per-user lease.
func (r *Runner) WithLease(lease *Lease) *Runner {
	r.lease = lease
	return r
}

// RunOnce executes one polling pass at nowUTC. It returns an error only
// when the store itself is unreachable; per-user failures land in the
// report and never abort the batch.
func (r *Runner) RunOnce(ctx context.Context, nowUTC time.Time) (*RunReport, error) {
	started := time.Now()
	runID := trace.NewRunID()
	ctx = trace.WithContext(ctx, runID)
	log := logger.WithRun(ctx, r.logger)

	log.Info("Starting scheduled delivery pass", zap.Time("now_utc", nowUTC))

	schedules, err := r.store.ListEnabled(ctx)
	if err != nil {
		log.Error("Failed to fetch enabled schedules", zap.Error(err))
		return nil, fmt.Errorf("fetch enabled schedules: %w", err)
	}

	report := &RunReport{
		RunID:     runID,
		StartedAt: nowUTC,
	}

	log.Info("Fetched enabled schedules", zap.Int("count", len(schedules)))

	for _, sched := range schedules {
		report.Attempted++

		outcome := r.processUser(ctx, log, sched, nowUTC, report)
		metrics.RecordDeliveryOutcome(outcome)
		switch outcome {
		case "sent":
			report.Sent++
		case "skipped":
			report.Skipped++
		}
	}

	report.Duration = time.Since(started)
	metrics.DeliveryRunDuration.Observe(report.Duration.Seconds())

	log.Info("Delivery pass complete",
		zap.Int("attempted", report.Attempted),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// processUser handles one schedule and returns "sent", "skipped" or
// "failed". It never panics the batch; errors are attached to the report.
func (r *Runner) processUser(ctx context.Context, log *zap.Logger, sched *model.DeliverySchedule, nowUTC time.Time, report *RunReport) string {
	ulog := log.With(zap.String("user_id", sched.UserID))

	loc, err := sched.Location()
	if err != nil {
		// A stored schedule with an unresolvable zone is a config error,
		// never silently defaulted.
		report.recordFailure(UserFailure{
			UserID: sched.UserID, Stage: StageConfig,
			Category: "invalid_timezone", Error: err.Error(),
		})
		ulog.Error("Schedule has unresolvable timezone", zap.Error(err))
		return "failed"
	}
	nowLocal := nowUTC.In(loc)

	if !schedule.ShouldSendToday(sched.Frequency, sched.LastSentAt, nowLocal) {
		ulog.Debug("Not scheduled for today", zap.String("frequency", string(sched.Frequency)))
		return "skipped"
	}

	due, err := schedule.IsDue(sched, nowUTC, r.opts.Window)
	if err != nil {
		report.recordFailure(UserFailure{
			UserID: sched.UserID, Stage: StageConfig,
			Category: "invalid_timezone", Error: err.Error(),
		})
		return "failed"
	}
	if !due {
		next := schedule.NextFireUTC(sched.LocalTime, loc, sched.Frequency, nowUTC)
		ulog.Debug("Not yet time",
			zap.Time("next_delivery", next),
			zap.Duration("until", next.Sub(nowUTC)),
		)
		return "skipped"
	}

	if len(sched.Recipients) == 0 {
		report.recordFailure(UserFailure{
			UserID: sched.UserID, Stage: StageRecipients,
			Category: "no_recipients", Error: "no recipients configured",
		})
		ulog.Error("No recipients configured")
		return "failed"
	}

	if r.lease != nil && !r.lease.Acquire(ctx, sched.UserID) {
		return "skipped"
	}

	// One hung collaborator must not stall the rest of the batch.
	uctx, cancel := context.WithTimeout(ctx, r.opts.UserTimeout)
	defer cancel()

	if sent := r.generateAndSend(uctx, ulog, sched, nowLocal, report); !sent {
		if r.lease != nil {
			r.lease.Release(ctx, sched.UserID)
		}
		return "failed"
	}

	if err := r.store.RecordSent(ctx, sched.UserID, nowUTC); err != nil {
		// The email went out; a missed bookkeeping write risks a duplicate
		// next cycle but must not undo the success.
		ulog.Warn("Could not update last_sent_at", zap.Error(err))
	}
	return "sent"
}

// generateAndSend runs the generate -> render -> send chain for one due
// user. Returns true only on confirmed transport success.
func (r *Runner) generateAndSend(ctx context.Context, ulog *zap.Logger, sched *model.DeliverySchedule, nowLocal time.Time, report *RunReport) bool {
	fail := func(stage string, err error) bool {
		_, category := util.ClassifyError(err)
		report.recordFailure(UserFailure{
			UserID: sched.UserID, Stage: stage,
			Category: category, Error: err.Error(),
		})
		ulog.Error("Delivery failed",
			zap.String("stage", stage),
			zap.String("category", category),
			zap.Error(err),
		)
		return false
	}

	items, err := r.aggregator.Aggregate(ctx, sched.UserID)
	if err != nil {
		return fail(StageAggregate, err)
	}

	var style *model.StyleProfile
	if r.styles != nil {
		style, err = r.styles.Latest(ctx, sched.UserID)
		if err != nil {
			// Style guidance is optional; generate without it.
			ulog.Warn("Could not load style profile", zap.Error(err))
		}
	}

	trendsSection := r.trendsSection(ctx, ulog, sched.UserID, items)

	title := fmt.Sprintf("Your Morning Digest - %s", nowLocal.Format("January 2, 2006"))
	genStart := time.Now()
	content, err := r.generator.Generate(ctx, generator.Request{
		ContentItems:  items,
		Title:         title,
		StyleProfile:  style,
		NumArticles:   r.opts.NumArticles,
		IncludeTrends: r.opts.IncludeTrends,
	})
	genElapsed := time.Since(genStart)
	if err != nil {
		metrics.RecordGenerationLatency(r.generator.Provider(), "failed", genElapsed)
		return fail(StageGenerate, err)
	}
	metrics.RecordGenerationLatency(r.generator.Provider(), "success", genElapsed)

	if trendsSection != "" {
		content = trendsSection + "\n\n" + content
	}

	ulog.Info("Newsletter generated",
		zap.Int("chars", len(content)),
		zap.Duration("generation_time", genElapsed),
	)

	draftID := r.saveDraft(ctx, ulog, sched.UserID, title, content, int(genElapsed.Milliseconds()))

	html, err := mailer.RenderHTML(content)
	if err != nil {
		return fail(StageRender, err)
	}

	subject := fmt.Sprintf("Your Morning Newsletter - %s", nowLocal.Format("January 2"))
	sendStart := time.Now()
	res, err := r.sender.Send(ctx, sched.Recipients, subject, html, content)
	if err != nil {
		metrics.RecordEmailSendLatency("failed", time.Since(sendStart))
		r.markDraft(ctx, ulog, sched.UserID, draftID, model.DraftStatusFailed, nil, 0)
		return fail(StageSend, err)
	}
	metrics.RecordEmailSendLatency("success", time.Since(sendStart))

	ulog.Info("Newsletter sent",
		zap.Int("recipients", res.Recipients),
		zap.String("email_id", res.ID),
	)

	sentAt := time.Now().UTC()
	r.markDraft(ctx, ulog, sched.UserID, draftID, model.DraftStatusSent, &sentAt, res.Recipients)

	if r.emailLog != nil {
		if err := r.emailLog.LogSend(ctx, sched.UserID, draftID, sched.Recipients, subject, res.ID); err != nil {
			ulog.Warn("Could not log email send", zap.Error(err))
		}
	}
	return true
}

// trendsSection computes the trending-topics markdown for one user. Any
// failure here degrades to an empty section.
func (r *Runner) trendsSection(ctx context.Context, ulog *zap.Logger, userID string, items []model.ContentItem) string {
	if !r.opts.IncludeTrends {
		return ""
	}

	current := trends.AnalyzeContent(items, 20)
	if len(current) == 0 {
		return ""
	}

	var historical map[string]int
	if r.trendStore != nil {
		var err error
		historical, err = r.trendStore.HistoricalCounts(ctx, userID, 7)
		if err != nil {
			ulog.Warn("Could not load trend history", zap.Error(err))
		}
	}

	spiked := trends.DetectSpikes(current, historical, 0)

	if r.trendStore != nil {
		if err := r.trendStore.StoreCounts(ctx, userID, trends.Counts(current)); err != nil {
			ulog.Warn("Could not store trend keywords", zap.Error(err))
		}
	}

	return trends.FormatForNewsletter(spiked, 5)
}

func (r *Runner) saveDraft(ctx context.Context, ulog *zap.Logger, userID, title, content string, genMS int) string {
	if r.drafts == nil {
		return ""
	}
	id, err := r.drafts.Save(ctx, &model.Draft{
		UserID:           userID,
		Title:            title,
		Content:          content,
		LLMProvider:      r.generator.Provider(),
		GenerationTimeMS: genMS,
	})
	if err != nil {
		ulog.Warn("Could not save draft", zap.Error(err))
		return ""
	}
	return id
}

func (r *Runner) markDraft(ctx context.Context, ulog *zap.Logger, userID, draftID, status string, sentAt *time.Time, recipients int) {
	if r.drafts == nil || draftID == "" {
		return
	}
	if err := r.drafts.UpdateStatus(ctx, userID, draftID, status, sentAt, recipients); err != nil {
		ulog.Warn("Could not update draft status", zap.Error(err))
	}
}
