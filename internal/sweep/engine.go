// Package sweep contains the overdue-task sweep: a background pass that
// marks overdue tasks as missed, charges the miss against the assignee's
// record, and notifies the responsible manager. The sweep is safe to run
// repeatedly; a task can only be missed once.
package sweep

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/notify"
	"github.com/taskward/taskward-api/internal/platform/logger"
	"github.com/taskward/taskward-api/internal/store"
)

// ErrSweepInProgress is returned by Run when another sweep pass is still
// executing. Runs never overlap; the later caller is rejected rather than
// queued.
var ErrSweepInProgress = errors.New("sweep already in progress")

// Failure records a single task the sweep could not fully process. One
// task's failure never aborts the pass or affects other tasks.
type Failure struct {
	TaskID uuid.UUID
	Stage  string // "transaction" or "notify"
	Err    error
}

// Report summarizes a completed sweep pass.
type Report struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Scanned     int // overdue tasks found by the scan
	Missed      int // tasks transitioned to missed by this pass
	Deactivated int // assignees deactivated as a result of this pass
	Notified    int // notifications successfully dispatched
	Failures    []Failure
}

// Engine performs the overdue sweep. Each overdue task is processed inside
// its own transaction: the task's transition to missed and the assignee's
// missed-count increment commit or roll back together, while other tasks
// are untouched.
type Engine struct {
	db       *sql.DB
	tasks    store.TaskStore
	users    store.UserStore
	notifier notify.Notifier
	logger   *slog.Logger

	// now and runInTx are swappable in tests.
	now     func() time.Time
	runInTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error

	running atomic.Bool
}

// NewEngine creates a sweep engine backed by the given database and stores.
func NewEngine(
	db *sql.DB,
	tasks store.TaskStore,
	users store.UserStore,
	notifier notify.Notifier,
	log *slog.Logger,
) (*Engine, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		db:       db,
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		logger:   log.With("component", "sweep_engine"),
		now:      time.Now,
		runInTx:  store.RunInTransaction,
	}, nil
}

// Run executes one sweep pass and returns its report. A second call while a
// pass is still running returns ErrSweepInProgress. Run itself only fails
// when the initial scan fails; per-task problems are recorded in the report
// instead.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrSweepInProgress
	}
	defer e.running.Store(false)

	log := logger.FromContextOrDefault(ctx, e.logger)
	now := e.now().UTC()
	report := &Report{StartedAt: now}

	overdue, err := e.tasks.ListOverdue(ctx, now)
	if err != nil {
		log.Error("failed to scan for overdue tasks",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to scan for overdue tasks: %w", err)
	}
	report.Scanned = len(overdue)

	for _, t := range overdue {
		e.sweepTask(ctx, log, t, report)
	}

	report.FinishedAt = e.now().UTC()
	log.Info("sweep pass finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("missed", report.Missed),
		slog.Int("deactivated", report.Deactivated),
		slog.Int("notified", report.Notified),
		slog.Int("failures", len(report.Failures)))
	return report, nil
}

// sweepTask processes one overdue task: transition to missed and charge the
// assignee inside a transaction, then notify after the commit. Notification
// failures are recorded but never roll back the committed state change.
func (e *Engine) sweepTask(ctx context.Context, log *slog.Logger, t *domain.Task, report *Report) {
	var (
		missed bool
		count  int
		active bool
	)
	err := e.runInTx(ctx, e.db, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		missed, txErr = e.tasks.WithTx(tx).MarkMissed(ctx, t.ID)
		if txErr != nil {
			return fmt.Errorf("failed to mark task missed: %w", txErr)
		}
		if !missed {
			// Already in a terminal status; an earlier pass or an actor
			// got there first.
			return nil
		}
		count, active, txErr = e.users.WithTx(tx).IncrementMissedCount(ctx, t.AssigneeID)
		if txErr != nil {
			return fmt.Errorf("failed to increment missed count: %w", txErr)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			// Task deleted between the scan and the mark; nothing to do.
			log.Debug("overdue task vanished before sweep",
				slog.String("task_id", t.ID.String()))
			return
		}
		log.Error("failed to sweep task",
			slog.String("task_id", t.ID.String()),
			slog.String("error", err.Error()))
		report.Failures = append(report.Failures, Failure{
			TaskID: t.ID,
			Stage:  "transaction",
			Err:    err,
		})
		return
	}
	if !missed {
		return
	}

	report.Missed++
	if !active {
		report.Deactivated++
		log.Info("assignee deactivated after reaching missed-task threshold",
			slog.String("user_id", t.AssigneeID.String()),
			slog.Int("missed_task_count", count))
	}

	if err := e.notifyMissed(ctx, t, count, active); err != nil {
		log.Error("failed to send missed-task notification",
			slog.String("task_id", t.ID.String()),
			slog.String("error", err.Error()))
		report.Failures = append(report.Failures, Failure{
			TaskID: t.ID,
			Stage:  "notify",
			Err:    err,
		})
		return
	}
	report.Notified++
}

// notifyMissed resolves the notification recipient and dispatches the
// missed-task message.
func (e *Engine) notifyMissed(ctx context.Context, t *domain.Task, count int, active bool) error {
	recipient, err := e.resolveRecipient(ctx, t)
	if err != nil {
		return err
	}

	assigneeLabel := t.AssigneeID.String()
	if assignee, err := e.users.GetByID(ctx, t.AssigneeID); err == nil {
		assigneeLabel = assignee.Email
	}

	subject := fmt.Sprintf("Task missed: %s", t.Title)
	body := fmt.Sprintf(
		"Task %q assigned to %s was not completed by its deadline (%s) and has been marked as missed.\n"+
			"The assignee now has %d missed task(s).",
		t.Title, assigneeLabel, t.Deadline.Format(time.RFC3339), count)
	if !active {
		body += "\nThe assignee's account has been deactivated."
	}

	return e.notifier.Notify(ctx, recipient, subject, body)
}

// resolveRecipient picks who hears about the miss: the task's assigner if
// they are still an active manager or admin, otherwise the earliest-created
// active manager (or admin) as a fallback.
func (e *Engine) resolveRecipient(ctx context.Context, t *domain.Task) (*domain.User, error) {
	assigner, err := e.users.GetByID(ctx, t.AssignerID)
	switch {
	case err == nil:
		if assigner.Active && assigner.IsElevated() {
			return assigner, nil
		}
	case !store.IsNotFoundError(err):
		return nil, fmt.Errorf("failed to load assigner: %w", err)
	}

	fallback, err := e.users.FindNotificationFallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("no recipient available for notification: %w", err)
	}
	return fallback, nil
}
