package worker

import (
	"context"
	"sync"
	"time"

	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/pkg/logger"
	"github.com/furkanc/voicecloning-backend/pkg/utils"
)

// Worker drains the dispatch queue and runs the voice-cloning model for each
// job. Synthesis is CPU heavy, so a gopsutil admission gate keeps the host
// below the configured usage ceiling before a job is accepted.
type Worker struct {
	cfg        *config.Config
	logger     logger.Logger
	dispatcher jobs.Dispatcher
	awsRepo    jobs.AWSRepository
	api        JobFetcher
	synth      Synthesizer
	wg         sync.WaitGroup
}

func NewWorker(
	cfg *config.Config,
	log logger.Logger,
	dispatcher jobs.Dispatcher,
	awsRepo jobs.AWSRepository,
	api JobFetcher,
	synth Synthesizer,
) *Worker {
	return &Worker{
		cfg:        cfg,
		logger:     log,
		dispatcher: dispatcher,
		awsRepo:    awsRepo,
		api:        api,
		synth:      synth,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting worker")
	count := w.cfg.Worker.WorkerCount
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if canAcceptJob, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !canAcceptJob {
				w.logger.Infof("CPU usage %.2f%% too high, waiting", usage)
				w.sleep(ctx)
				continue
			}
			msg, err := w.dispatcher.Dequeue(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.logger.Errorf("failed to dequeue dispatch: %v", err)
				w.sleep(ctx)
				continue
			}
			if msg == nil {
				continue
			}
			w.logger.Infof("processing job %s (dispatch %s)", msg.JobID, msg.DispatchID)
			if err := w.processJob(ctx, msg); err != nil {
				w.logger.Errorf("job %s failed: %v", msg.JobID, err)
				continue
			}
			w.logger.Infof("job %s completed", msg.JobID)
		}
	}
}

func (w *Worker) sleep(ctx context.Context) {
	interval := time.Duration(w.cfg.Worker.PollIntervalSec) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(interval):
	}
}
