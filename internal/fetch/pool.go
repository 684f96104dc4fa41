package fetch

import (
	"context"
	"sync"
)

// Task is one document fetch: an index identifying the unit it belongs to
// (the repository's position in the search result) and the URL to fetch.
type Task struct {
	Index int
	URL   string
}

// TaskResult is the outcome of one fetch task. Results arrive in completion
// order, not submission order; Task.Index lets callers restore submission
// order when they need reproducible output.
type TaskResult struct {
	Task Task
	Body string
	Err  error
}

// Pool runs fetch tasks across a bounded set of workers. Tasks are
// independent; no task waits on another's result.
type Pool struct {
	fetcher    *Fetcher
	tasks      chan Task
	results    chan TaskResult
	wg         sync.WaitGroup
	numWorkers int
}

// NewPool creates a pool of numWorkers workers over the given fetcher.
func NewPool(fetcher *Fetcher, numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 4
	}

	return &Pool{
		fetcher:    fetcher,
		tasks:      make(chan Task, numWorkers*2),
		results:    make(chan TaskResult, numWorkers*2),
		numWorkers: numWorkers,
	}
}

// Start launches the workers. Each worker pulls tasks until the task
// channel closes or ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}

			body, err := p.fetcher.FetchPage(ctx, task.URL)
			p.results <- TaskResult{Task: task, Body: body, Err: err}
		}
	}
}

// Submit queues a task. It blocks when the pool is saturated and gives up
// when ctx is canceled.
func (p *Pool) Submit(ctx context.Context, task Task) {
	select {
	case p.tasks <- task:
	case <-ctx.Done():
	}
}

// Results returns the channel results arrive on, in completion order.
func (p *Pool) Results() <-chan TaskResult {
	return p.results
}

// Close signals that no more tasks will be submitted and closes the results
// channel once every worker has drained.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
	close(p.results)
}

// FetchAll is the common fan-out: submit every URL, collect every result.
// The returned slice is in completion order; failed fetches carry their
// error and an empty body.
func (p *Pool) FetchAll(ctx context.Context, urls []string) []TaskResult {
	p.Start(ctx)

	go func() {
		for i, url := range urls {
			p.Submit(ctx, Task{Index: i, URL: url})
		}

		p.Close()
	}()

	results := make([]TaskResult, 0, len(urls))
	for result := range p.Results() {
		results = append(results, result)
	}

	return results
}
