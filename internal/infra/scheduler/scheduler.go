package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleRunner is implemented by app.Tracker.
type CycleRunner interface {
	RunCycle(ctx context.Context)
}

// PollScheduler ticks the poll loop on a constant interval.
// A tick that fires while the previous cycle is still running is skipped, so cycles never overlap.
type PollScheduler struct {
	cronEngine *cron.Cron
	runner     CycleRunner
	logger     *logrus.Entry
	interval   time.Duration
	jobTimeout time.Duration

	baseCtx    context.Context
	cancelBase context.CancelFunc
	firstDone  chan struct{}
	started    bool
}

func NewPollScheduler(
	runner CycleRunner,
	logger *logrus.Entry,
	interval time.Duration, // e.g. 600s between cycle starts
	jobTimeout time.Duration, // upper bound for one cycle
) *PollScheduler {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &PollScheduler{
		cronEngine: cron.New(cron.WithLogger(cron.PrintfLogger(logger))),
		runner:     runner,
		logger:     logger,
		interval:   interval,
		jobTimeout: jobTimeout,
		baseCtx:    baseCtx,
		cancelBase: cancel,
		firstDone:  make(chan struct{}),
	}
}

// Start runs the first cycle right away and schedules the following ones.
func (s *PollScheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Starting poll scheduler...")
	s.started = true

	job := cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(s.logger))).Then(cron.FuncJob(s.executeCycle))
	s.cronEngine.Schedule(cron.Every(s.interval), job)
	s.cronEngine.Start()

	// Same wrapped job, so the immediate run and the first tick cannot overlap either.
	go func() {
		defer close(s.firstDone)
		job.Run()
	}()
	s.logger.Info("Poll scheduler started.")
}

func (s *PollScheduler) executeCycle() {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.jobTimeout)
	defer cancel()

	started := time.Now()
	s.runner.RunCycle(ctx)
	s.logger.WithField("duration", time.Since(started).String()).Debug("Poll cycle completed")
}

// Stop prevents new cycles and waits for a running one to finish.
// The running cycle's context is cancelled only if it does not finish within the grace period.
// Start and Stop are expected to be called from the same goroutine.
func (s *PollScheduler) Stop(grace time.Duration) {
	s.logger.Info("Stopping poll scheduler...")
	if !s.started {
		s.cancelBase()
		s.logger.Info("Poll scheduler was never started.")
		return
	}
	cronCtx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		<-s.firstDone
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		s.logger.Warn("Poll cycle did not finish in time, cancelling it")
		s.cancelBase()
		<-done
	}
	s.cancelBase()
	s.logger.Info("Poll scheduler gracefully stopped.")
}
