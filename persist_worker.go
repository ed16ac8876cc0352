package attune

import (
	"log"
	"sync"
)

// persistJob is one fire-and-forget write. Either field may be nil. The
// worker serializes on its own goroutine, so the profile must be a snapshot
// the session will not mutate again.
type persistJob struct {
	profile *UserProfile
	reply   *Reply
}

// persistWorker drains a buffered queue of storage writes on its own
// goroutine so conversation turns never block on SQLite. Failures are logged
// and dropped; the conversation must keep flowing either way.
type persistWorker struct {
	store *Store
	jobs  chan persistJob
	wg    sync.WaitGroup
}

func startPersistWorker(store *Store, queueSize int) *persistWorker {
	w := &persistWorker{
		store: store,
		jobs:  make(chan persistJob, queueSize),
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for job := range w.jobs {
			if job.profile != nil {
				if err := store.SaveProfile(job.profile); err != nil {
					log.Printf("[attune] persist profile: %v", err)
				}
			}
			if job.reply != nil {
				if err := store.AppendReply(*job.reply); err != nil {
					log.Printf("[attune] persist reply: %v", err)
				}
			}
		}
	}()
	return w
}

// enqueue hands a job to the worker. A full queue falls back to a synchronous
// write rather than dropping the data.
func (w *persistWorker) enqueue(job persistJob) {
	select {
	case w.jobs <- job:
	default:
		if job.profile != nil {
			if err := w.store.SaveProfile(job.profile); err != nil {
				log.Printf("[attune] persist profile (sync): %v", err)
			}
		}
		if job.reply != nil {
			if err := w.store.AppendReply(*job.reply); err != nil {
				log.Printf("[attune] persist reply (sync): %v", err)
			}
		}
	}
}

// close drains outstanding jobs and waits for the worker to finish.
func (w *persistWorker) close() {
	close(w.jobs)
	w.wg.Wait()
}
