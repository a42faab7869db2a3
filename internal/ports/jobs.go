package ports

import "context"

type RefreshJob struct {
	ID        string
	CompanyID string
	Force     bool
}

// JobRepository supports queuing and claiming asynchronous refresh jobs.
type JobRepository interface {
	Enqueue(ctx context.Context, companyID string, force bool) (jobID string, err error)
	ClaimNext(ctx context.Context) (job RefreshJob, found bool, err error)
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
}
