package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"marketadmin/internal/model"
	"marketadmin/internal/repository"
)

// DefaultDigestSchedule every 15 minutes, seconds field first
const DefaultDigestSchedule = "0 */15 * * * *"

// ==================== ApprovalDigestTask ====================

// ApprovalDigestTask periodically logs how many products wait for approval, per business
type ApprovalDigestTask struct {
	productRepo repository.ProductRepository
	log         *zap.Logger
	cron        *cron.Cron
	schedule    string
	timeout     time.Duration
}

// Digest one snapshot of the approval queue
type Digest struct {
	Total      int64
	Businesses []repository.BusinessCount
}

// NewApprovalDigestTask empty schedule falls back to DefaultDigestSchedule
func NewApprovalDigestTask(productRepo repository.ProductRepository, log *zap.Logger, schedule string) *ApprovalDigestTask {
	if log == nil {
		log = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultDigestSchedule
	}
	return &ApprovalDigestTask{
		productRepo: productRepo,
		log:         log.Named("digest"),
		cron:        cron.New(cron.WithSeconds()),
		schedule:    schedule,
		timeout:     30 * time.Second,
	}
}

// Start runs one digest right away, then on schedule
func (t *ApprovalDigestTask) Start() error {
	if _, err := t.cron.AddFunc(t.schedule, t.job); err != nil {
		return fmt.Errorf("approval digest schedule %q: %w", t.schedule, err)
	}

	go t.job()

	t.cron.Start()
	t.log.Info("approval digest started", zap.String("schedule", t.schedule))
	return nil
}

// Stop waits for a running digest to finish
func (t *ApprovalDigestTask) Stop() {
	<-t.cron.Stop().Done()
	t.log.Info("approval digest stopped")
}

func (t *ApprovalDigestTask) job() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if _, err := t.RunOnce(ctx); err != nil {
		t.log.Warn("approval digest failed", zap.Error(err))
	}
}

// RunOnce counts pending products and logs the result
func (t *ApprovalDigestTask) RunOnce(ctx context.Context) (*Digest, error) {
	counts, err := t.productRepo.CountByBusiness(ctx, model.StatusPendingApproval)
	if err != nil {
		return nil, err
	}

	d := &Digest{Businesses: counts}
	for _, c := range counts {
		d.Total += c.Count
	}

	t.log.Info("approval queue",
		zap.Int64("pending", d.Total),
		zap.Int("businesses", len(counts)),
	)
	for _, c := range counts {
		t.log.Debug("approval queue business",
			zap.Int64("business", c.BusinessID),
			zap.String("name", c.BusinessName),
			zap.Int64("pending", c.Count),
		)
	}
	return d, nil
}
