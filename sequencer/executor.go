package sequencer

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/airfoil"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/polar"
)

// Job is one airfoil analysis request.
type Job struct {
	Definition airfoil.Definition
	Reynolds   float64
	Mach       float64
	Alphas     []float64
}

// JobResult pairs a finished job with its polar record. Err is set only
// for geometry-stage failures; solver trouble shows up as per-angle flags
// inside the record.
type JobResult struct {
	Job    Job
	Record *polar.Record
	Err    error
}

// Executor fans airfoil jobs out to a fixed pool of workers. Airfoils
// are independent: each worker owns its job's sequencing state and
// scratch files for the duration of the analysis, so no locking is
// needed between them.
type Executor struct {
	seq     *Sequencer
	workers int
}

// NewExecutor builds a pool of the given width around seq.
func NewExecutor(seq *Sequencer, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{seq: seq, workers: workers}
}

type indexedJob struct {
	idx int
	job Job
}

type indexedResult struct {
	idx int
	res JobResult
}

// Stream runs all jobs and delivers results as each airfoil finishes.
// The returned channel closes after the last result.
func (e *Executor) Stream(ctx context.Context, jobs []Job) <-chan JobResult {
	out := make(chan JobResult, len(jobs))
	go func() {
		for r := range e.stream(ctx, jobs) {
			out <- r.res
		}
		close(out)
	}()
	return out
}

// Run executes all jobs and collects the results in job order.
func (e *Executor) Run(ctx context.Context, jobs []Job) []JobResult {
	out := make([]JobResult, len(jobs))
	for r := range e.stream(ctx, jobs) {
		out[r.idx] = r.res
	}
	return out
}

func (e *Executor) stream(ctx context.Context, jobs []Job) <-chan indexedResult {
	dispatch := make(chan indexedJob)
	results := make(chan indexedResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for ij := range dispatch {
				results <- indexedResult{idx: ij.idx, res: e.analyze(ctx, worker, ij.job)}
			}
		}(i)
	}

	go func() {
		for i, job := range jobs {
			dispatch <- indexedJob{idx: i, job: job}
		}
		close(dispatch)
		wg.Wait()
		close(results)
	}()

	return results
}

func (e *Executor) analyze(ctx context.Context, worker int, job Job) JobResult {
	if ctx.Err() != nil {
		return JobResult{Job: job, Err: ctx.Err()}
	}
	log.WithFields(log.Fields{
		"worker":  worker,
		"airfoil": job.Definition.Name,
		"re":      job.Reynolds,
	}).Info("analysis start")
	rec, err := e.seq.Analyze(ctx, job.Definition, job.Reynolds, job.Mach, job.Alphas)
	if err != nil {
		log.WithField("airfoil", job.Definition.Name).Errorf("analysis aborted: %v", err)
	}
	return JobResult{Job: job, Record: rec, Err: err}
}
