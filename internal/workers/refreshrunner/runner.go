// Package refreshrunner processes queued refresh jobs in the background.
package refreshrunner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"vantage/internal/ports"
	"vantage/internal/services/refresh"
)

// Processor runs one refresh cycle for a job's company.
type Processor interface {
	Refresh(ctx context.Context, companyID string, force bool) (refresh.Result, error)
}

// Run starts worker goroutines that claim queued refresh jobs and process
// them until the context is cancelled.
func Run(ctx context.Context, repo ports.JobRepository, processor Processor, concurrency int, pollInterval time.Duration, log *logrus.Logger) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan ports.RefreshJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(jobsCh)
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						log.WithField("error", err).Error("refresh job claim failed")
						break
					}
					if !found {
						break
					}
					jobsCh <- job
				}
			}
		}
	}()

	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobsCh {
				result, err := processor.Refresh(ctx, job.CompanyID, job.Force)
				if err != nil {
					_ = repo.MarkFailed(ctx, job.ID, err.Error())
					log.WithFields(logrus.Fields{
						"worker": idx,
						"job":    job.ID,
						"error":  err,
					}).Warn("refresh job failed")
					continue
				}
				if err := repo.MarkCompleted(ctx, job.ID); err != nil {
					log.WithFields(logrus.Fields{
						"worker": idx,
						"job":    job.ID,
						"error":  err,
					}).Error("refresh job completion update failed")
					continue
				}
				log.WithFields(logrus.Fields{
					"worker":   idx,
					"job":      job.ID,
					"company":  job.CompanyID,
					"forced":   job.Force,
					"failures": len(result.Failures),
				}).Info("refresh job completed")
			}
		}(i)
	}
}
