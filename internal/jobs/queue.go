package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueRecalculate(deckID int64) error
	EnqueuePurgeSessions() error
}
