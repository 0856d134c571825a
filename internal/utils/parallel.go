package utils

import "sync"

// WorkerPool bounds the number of goroutines doing storage cleanup work.
type WorkerPool struct {
	taskChan chan func()
	wg       sync.WaitGroup
}

// NewWorkerPool starts maxWorkers workers draining the task channel.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	pool := &WorkerPool{
		taskChan: make(chan func(), maxWorkers*2),
	}
	for i := 0; i < maxWorkers; i++ {
		go pool.worker()
	}
	return pool
}

func (p *WorkerPool) worker() {
	for task := range p.taskChan {
		task()
		p.wg.Done()
	}
}

// AddTask queues one task; blocks when the buffer is full.
func (p *WorkerPool) AddTask(task func()) {
	p.wg.Add(1)
	p.taskChan <- task
}

// Wait blocks until every queued task has finished.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Close stops the workers. Call after Wait.
func (p *WorkerPool) Close() {
	close(p.taskChan)
}
