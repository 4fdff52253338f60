// ABOUTME: Coordinator applies edits that span the four club collections.
// ABOUTME: Every cascade loads all four collections first, then saves them in a fixed order.
package integrity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/metrics"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/storage"
)

// Operation names used in errors, logs, and metrics.
const (
	OpRenameUser    = "rename_user"
	OpDeleteUser    = "delete_user"
	OpDeleteSession = "delete_session"
	OpRepair        = "repair"
)

// Result counts the dependent rows a cascade touched.
type Result struct {
	Records  int
	Feedback int
}

// Coordinator routes cross-collection edits.
type Coordinator struct {
	repos     *storage.Repositories
	publisher Publisher
	log       logger.Logger
	now       func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPublisher sets where change events go.
func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) {
		if p != nil {
			c.publisher = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a coordinator over repos.
func New(repos *storage.Repositories, opts ...Option) *Coordinator {
	c := &Coordinator{
		repos:     repos,
		publisher: NoopPublisher{},
		log:       repos.Store.Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("integrity")
	return c
}

// snapshot is all four collections as loaded for one operation.
type snapshot struct {
	profiles *models.ProfileBook
	records  []models.PerformanceRecord
	feedback []models.FeedbackEntry
	sessions []models.ActivitySession
}

// RenameUser re-keys a profile and rewrites every record and feedback entry
// that names it. Renaming a user to its current name is a no-op.
func (c *Coordinator) RenameUser(ctx context.Context, oldName, newName string) (Result, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		c.metrics().Cascade(OpRenameUser, metrics.OutcomeRejected)
		return Result{}, fmt.Errorf("rename %q: %w", oldName, ErrEmptyName)
	}

	snap, err := c.load(ctx, OpRenameUser)
	if err != nil {
		return Result{}, err
	}
	if !snap.profiles.Has(oldName) {
		c.metrics().Cascade(OpRenameUser, metrics.OutcomeRejected)
		return Result{}, fmt.Errorf("rename %q: %w", oldName, ErrUserNotFound)
	}
	if oldName == newName {
		return Result{}, nil
	}
	if snap.profiles.Has(newName) {
		c.metrics().Cascade(OpRenameUser, metrics.OutcomeRejected)
		return Result{}, fmt.Errorf("rename %q: %w", oldName, &DuplicateNameError{Name: newName})
	}

	if err := snap.profiles.Rename(oldName, newName); err != nil {
		return Result{}, fmt.Errorf("rename %q: %w", oldName, err)
	}
	var res Result
	for i := range snap.records {
		if snap.records[i].User == oldName {
			snap.records[i].User = newName
			res.Records++
		}
	}
	for i := range snap.feedback {
		f := &snap.feedback[i]
		touched := false
		if f.DiverName == oldName {
			f.DiverName = newName
			touched = true
		}
		if f.InstructorName == oldName {
			f.InstructorName = newName
			touched = true
		}
		if touched {
			res.Feedback++
		}
	}

	if err := c.commit(ctx, OpRenameUser, snap); err != nil {
		return res, err
	}
	c.log.Info(ctx, "user renamed",
		logger.String("from", oldName), logger.String("to", newName),
		logger.Int("records", res.Records), logger.Int("feedback", res.Feedback))
	c.publish(ctx, Event{Type: EventUserRenamed, User: oldName, NewUser: newName,
		Records: res.Records, Feedback: res.Feedback})
	return res, nil
}

// DeleteUser removes a profile. Records and feedback naming the user are kept;
// the result counts how many remain.
func (c *Coordinator) DeleteUser(ctx context.Context, name string) (Result, error) {
	snap, err := c.load(ctx, OpDeleteUser)
	if err != nil {
		return Result{}, err
	}
	if !snap.profiles.Delete(name) {
		c.metrics().Cascade(OpDeleteUser, metrics.OutcomeRejected)
		return Result{}, fmt.Errorf("delete %q: %w", name, ErrUserNotFound)
	}

	var res Result
	for _, r := range snap.records {
		if r.User == name {
			res.Records++
		}
	}
	for _, f := range snap.feedback {
		if f.Mentions(name) {
			res.Feedback++
		}
	}

	if err := c.commit(ctx, OpDeleteUser, snap); err != nil {
		return res, err
	}
	c.log.Info(ctx, "user deleted", logger.String("user", name),
		logger.Int("records_kept", res.Records), logger.Int("feedback_kept", res.Feedback))
	c.publish(ctx, Event{Type: EventUserDeleted, User: name, Records: res.Records, Feedback: res.Feedback})
	return res, nil
}

// DeleteSession removes one session and clears every link to it. Linked
// records and feedback are never deleted.
func (c *Coordinator) DeleteSession(ctx context.Context, sessionID string) (Result, error) {
	snap, err := c.load(ctx, OpDeleteSession)
	if err != nil {
		return Result{}, err
	}

	idx := -1
	for i, s := range snap.sessions {
		if s.ID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 || sessionID == "" {
		c.metrics().Cascade(OpDeleteSession, metrics.OutcomeRejected)
		return Result{}, fmt.Errorf("delete session %q: %w", sessionID, ErrSessionNotFound)
	}
	snap.sessions = append(snap.sessions[:idx], snap.sessions[idx+1:]...)
	res := unlink(snap, func(id string) bool { return id == sessionID })

	if err := c.commit(ctx, OpDeleteSession, snap); err != nil {
		return res, err
	}
	c.log.Info(ctx, "session deleted", logger.String("session", sessionID),
		logger.Int("records", res.Records), logger.Int("feedback", res.Feedback))
	c.publish(ctx, Event{Type: EventSessionDeleted, SessionID: sessionID,
		Records: res.Records, Feedback: res.Feedback})
	return res, nil
}

// Repair clears links to sessions that no longer exist, such as those left by
// an interrupted cascade. Nothing is written when every link resolves.
func (c *Coordinator) Repair(ctx context.Context) (Result, error) {
	snap, err := c.load(ctx, OpRepair)
	if err != nil {
		return Result{}, err
	}

	known := make(map[string]bool, len(snap.sessions))
	for _, s := range snap.sessions {
		known[s.ID] = true
	}
	res := unlink(snap, func(id string) bool { return !known[id] })
	if res.Records == 0 && res.Feedback == 0 {
		c.log.Debug(ctx, "no dangling session links")
		return res, nil
	}

	if err := c.commit(ctx, OpRepair, snap); err != nil {
		return res, err
	}
	c.log.Info(ctx, "dangling session links cleared",
		logger.Int("records", res.Records), logger.Int("feedback", res.Feedback))
	c.publish(ctx, Event{Type: EventLinksRepaired, Records: res.Records, Feedback: res.Feedback})
	return res, nil
}

// unlink clears non-empty session links for which drop returns true.
func unlink(snap *snapshot, drop func(id string) bool) Result {
	var res Result
	for i := range snap.records {
		if id := snap.records[i].LinkedSessionID; id != "" && drop(id) {
			snap.records[i].LinkedSessionID = ""
			res.Records++
		}
	}
	for i := range snap.feedback {
		if id := snap.feedback[i].LinkedSessionID; id != "" && drop(id) {
			snap.feedback[i].LinkedSessionID = ""
			res.Feedback++
		}
	}
	return res
}

// load reads all four collections. Nothing has been written if it fails.
func (c *Coordinator) load(ctx context.Context, op string) (*snapshot, error) {
	snap := &snapshot{}
	var err error
	fail := func(name string, err error) (*snapshot, error) {
		c.metrics().Cascade(op, metrics.OutcomeFailed)
		return nil, fmt.Errorf("%s: load %s: %w", op, name, err)
	}
	if snap.profiles, err = c.repos.Profiles.Load(ctx); err != nil {
		return fail("profiles", err)
	}
	if snap.records, err = c.repos.Records.Load(ctx); err != nil {
		return fail("records", err)
	}
	if snap.feedback, err = c.repos.Feedback.Load(ctx); err != nil {
		return fail("feedback", err)
	}
	if snap.sessions, err = c.repos.Sessions.Load(ctx); err != nil {
		return fail("sessions", err)
	}
	return snap, nil
}

// commit saves profiles, records, feedback, then sessions.
func (c *Coordinator) commit(ctx context.Context, op string, snap *snapshot) error {
	steps := []struct {
		name string
		save func() error
	}{
		{"profiles", func() error { return c.repos.Profiles.Save(ctx, snap.profiles) }},
		{"records", func() error { return c.repos.Records.Save(ctx, snap.records) }},
		{"feedback", func() error { return c.repos.Feedback.Save(ctx, snap.feedback) }},
		{"sessions", func() error { return c.repos.Sessions.Save(ctx, snap.sessions) }},
	}

	var saved []string
	for _, step := range steps {
		if err := step.save(); err != nil {
			cerr := &ConsistencyError{Op: op, Saved: saved, Failed: step.name, Err: err}
			outcome := metrics.OutcomeFailed
			if cerr.Partial() {
				outcome = metrics.OutcomePartial
				c.log.Error(ctx, "cascade partially applied",
					logger.String("op", op), logger.Any("saved", saved),
					logger.String("failed", step.name), logger.Error(err))
			}
			c.metrics().Cascade(op, outcome)
			return cerr
		}
		saved = append(saved, step.name)
	}
	c.metrics().Cascade(op, metrics.OutcomeOK)
	return nil
}

func (c *Coordinator) publish(ctx context.Context, evt Event) {
	evt.Location = c.repos.Records.Table().Location
	evt.At = c.now().UTC()
	if err := c.publisher.Publish(ctx, evt); err != nil {
		c.log.Warn(ctx, "publish event failed", logger.String("type", evt.Type), logger.Error(err))
	}
}

func (c *Coordinator) metrics() *metrics.Manager {
	return c.repos.Store.Metrics()
}

// IsConsistencyRisk reports whether err left collections out of step.
func IsConsistencyRisk(err error) bool {
	var cerr *ConsistencyError
	return errors.As(err, &cerr) && cerr.Partial()
}
