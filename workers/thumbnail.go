package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
)

// ErrStopped is returned by Submit once the generator no longer accepts jobs.
var ErrStopped = errors.New("thumbnail generator stopped")

type ThumbnailJob struct {
	FileName string
	Force    bool // regenerate even when the thumbnail is newer than the original
}

// ThumbnailResult reports the outcome of one job.
type ThumbnailResult struct {
	FileName string
	Result   string // one of metrics.ThumbnailGenerated, ThumbnailSkipped, ThumbnailFailed
	Err      error
	Took     time.Duration
}

type ThumbnailGenerator struct {
	JobQueue  chan ThumbnailJob
	Store     media.Store
	Processor *media.Processor
	Options   media.ThumbnailOptions
	Metrics   metrics.Recorder
	OnResult  func(ThumbnailResult)
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[string]bool
	Mutex     sync.Mutex

	closed   bool
	stopOnce sync.Once
}

// NewThumbnailGenerator starts numWorkers workers reading from a queue of
// queueSize. onResult may be nil; it is called from worker goroutines.
func NewThumbnailGenerator(store media.Store, opts media.ThumbnailOptions, rec metrics.Recorder, onResult func(ThumbnailResult), queueSize, numWorkers int) *ThumbnailGenerator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	if rec == nil {
		rec = metrics.Nop{}
	}

	gen := &ThumbnailGenerator{
		JobQueue:  make(chan ThumbnailJob, queueSize),
		Store:     store,
		Processor: media.NewProcessor(store),
		Options:   opts,
		Metrics:   rec,
		OnResult:  onResult,
		StopChan:  make(chan struct{}),
		Pending:   make(map[string]bool),
	}

	gen.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go gen.worker(i)
	}
	log.Printf("started %d thumbnail worker(s) with queue size %d", numWorkers, queueSize)

	return gen
}

func (tg *ThumbnailGenerator) worker(id int) {
	defer tg.Wg.Done()
	for {
		select {
		case job, ok := <-tg.JobQueue:
			if !ok {
				return
			}
			res := tg.processJob(job)
			tg.Mutex.Lock()
			delete(tg.Pending, job.FileName)
			tg.Mutex.Unlock()

			tg.Metrics.RecordThumbnail(res.Result, res.Took)
			if tg.OnResult != nil {
				tg.OnResult(res)
			}

		case <-tg.StopChan:
			log.Printf("thumbnail worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (tg *ThumbnailGenerator) processJob(job ThumbnailJob) ThumbnailResult {
	res := ThumbnailResult{FileName: job.FileName}

	origInfo, err := tg.Store.Stat(media.AssetTypeOriginal, job.FileName)
	if err != nil {
		res.Result = metrics.ThumbnailFailed
		res.Err = fmt.Errorf("original unavailable: %w", err)
		log.Printf("ERROR thumbnail for %s: %v", job.FileName, res.Err)
		return res
	}

	if !job.Force {
		thumbInfo, err := tg.Store.Stat(media.AssetTypeThumbnail, job.FileName)
		if err == nil && !thumbInfo.ModTime().Before(origInfo.ModTime()) {
			res.Result = metrics.ThumbnailSkipped
			return res
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("error stating thumbnail for %s, regenerating: %v", job.FileName, err)
		}
	}

	start := time.Now()
	if _, err := tg.Processor.GenerateThumbnail(job.FileName, tg.Options); err != nil {
		res.Result = metrics.ThumbnailFailed
		res.Err = err
		log.Printf("ERROR generating thumbnail for %s: %v", job.FileName, err)
		return res
	}
	res.Took = time.Since(start)
	res.Result = metrics.ThumbnailGenerated
	log.Printf("Generated thumbnail for: %s", job.FileName)
	return res
}

// QueueJob queues a job without blocking. It returns false when the same file
// is already pending, the queue is full or the generator is closed.
func (tg *ThumbnailGenerator) QueueJob(job ThumbnailJob) bool {
	tg.Mutex.Lock()
	defer tg.Mutex.Unlock()

	if tg.closed || tg.Pending[job.FileName] {
		return false
	}

	select {
	case tg.JobQueue <- job:
		tg.Pending[job.FileName] = true
		log.Printf("queued thumbnail generation for: %s", job.FileName)
		return true
	default:
		log.Printf("WARNING: Thumbnail job queue full, failed to queue job for: %s", job.FileName)
		return false
	}
}

// Submit queues a job, waiting for queue space. Submit must not be called
// concurrently with Drain.
func (tg *ThumbnailGenerator) Submit(ctx context.Context, job ThumbnailJob) error {
	tg.Mutex.Lock()
	if tg.closed {
		tg.Mutex.Unlock()
		return ErrStopped
	}
	if tg.Pending[job.FileName] {
		tg.Mutex.Unlock()
		return nil
	}
	tg.Pending[job.FileName] = true
	tg.Mutex.Unlock()

	select {
	case tg.JobQueue <- job:
		return nil
	case <-ctx.Done():
		tg.forget(job.FileName)
		return ctx.Err()
	case <-tg.StopChan:
		tg.forget(job.FileName)
		return ErrStopped
	}
}

func (tg *ThumbnailGenerator) forget(fileName string) {
	tg.Mutex.Lock()
	delete(tg.Pending, fileName)
	tg.Mutex.Unlock()
}

// Drain stops accepting jobs, lets the workers finish everything queued and
// waits for them.
func (tg *ThumbnailGenerator) Drain() {
	tg.Mutex.Lock()
	if !tg.closed {
		tg.closed = true
		close(tg.JobQueue)
	}
	tg.Mutex.Unlock()
	tg.Wg.Wait()
}

// Stop abandons queued jobs and waits for in-flight ones.
func (tg *ThumbnailGenerator) Stop() {
	log.Println("stopping thumbnail generator...")
	tg.Mutex.Lock()
	tg.closed = true
	tg.Mutex.Unlock()
	tg.stopOnce.Do(func() { close(tg.StopChan) })
	tg.Wg.Wait()
	log.Println("all thumbnail workers stopped")
}
