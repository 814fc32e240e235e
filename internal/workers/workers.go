package workers

// Workers aggregates background workers so callers can start them all with
// a single Run call.
type Workers struct {
	workers []Worker
}

// NewWorkers collects the given workers into an aggregate.
func NewWorkers(w ...Worker) *Workers {
	return &Workers{workers: w}
}

// Run starts every registered worker in registration order.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
