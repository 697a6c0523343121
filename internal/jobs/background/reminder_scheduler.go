package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/services"
)

// ReminderScheduler owns the recurring campaign-reminder scan. The gocron
// scheduler object is created once, started by the process lifecycle and
// shut down with it; there is no process-global started flag.
type ReminderScheduler struct {
	scheduler gocron.Scheduler
	campaigns services.CampaignService
	interval  time.Duration

	mu       sync.RWMutex
	started  bool
	job      gocron.Job
	lastScan *services.ScanResult
	lastErr  error
	lastRun  time.Time
}

// SchedulerStatus is the payload of the status endpoint.
type SchedulerStatus struct {
	Running      bool                 `json:"running"`
	IntervalSecs int                  `json:"interval_seconds"`
	LastRunAt    *time.Time           `json:"last_run_at,omitempty"`
	LastError    *string              `json:"last_error,omitempty"`
	LastScan     *services.ScanResult `json:"last_scan,omitempty"`
	NextRunAt    *time.Time           `json:"next_run_at,omitempty"`
}

func NewReminderScheduler(campaigns services.CampaignService, interval time.Duration) (*ReminderScheduler, error) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	rs := &ReminderScheduler{
		scheduler: scheduler,
		campaigns: campaigns,
		interval:  interval,
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(rs.runScan, context.Background()),
		gocron.WithName("campaign-reminder-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	rs.job = job

	return rs, nil
}

// Start begins the recurring scan. Calling it again on a running scheduler
// is a no-op.
func (rs *ReminderScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.started {
		return
	}
	log.Printf("Starting campaign reminder scheduler (interval %s)", rs.interval)
	rs.scheduler.Start()
	rs.started = true
}

func (rs *ReminderScheduler) Stop() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if !rs.started {
		return nil
	}
	log.Printf("Stopping campaign reminder scheduler")
	rs.started = false
	return rs.scheduler.Shutdown()
}

func (rs *ReminderScheduler) runScan(ctx context.Context) {
	now := time.Now().UTC()
	result, err := rs.campaigns.RunReminderScan(ctx, now)
	if err != nil {
		log.Printf("Reminder scan failed: %v", err)
	} else if result.Sent > 0 || result.Failed > 0 {
		log.Printf("Reminder scan: %d campaigns, %d sent, %d failed, %d skipped",
			result.Campaigns, result.Sent, result.Failed, result.Skipped)
	}

	rs.mu.Lock()
	rs.lastRun = now
	rs.lastScan = result
	rs.lastErr = err
	rs.mu.Unlock()
}

// ForceScan runs one scan outside the recurring schedule. The claim-based
// de-duplication in the service makes overlap with a ticking scan safe.
func (rs *ReminderScheduler) ForceScan(ctx context.Context) (*services.ScanResult, error) {
	now := time.Now().UTC()
	result, err := rs.campaigns.RunReminderScan(ctx, now)

	rs.mu.Lock()
	rs.lastRun = now
	rs.lastScan = result
	rs.lastErr = err
	rs.mu.Unlock()

	return result, err
}

func (rs *ReminderScheduler) Status() SchedulerStatus {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	status := SchedulerStatus{
		Running:      rs.started,
		IntervalSecs: int(rs.interval.Seconds()),
		LastScan:     rs.lastScan,
	}
	if !rs.lastRun.IsZero() {
		t := rs.lastRun
		status.LastRunAt = &t
	}
	if rs.lastErr != nil {
		msg := rs.lastErr.Error()
		status.LastError = &msg
	}
	if rs.job != nil && rs.started {
		if next, err := rs.job.NextRun(); err == nil {
			status.NextRunAt = &next
		}
	}
	return status
}
