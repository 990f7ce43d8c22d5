package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetShopService/pkg/logger"
)

type completerStub struct {
	calls int
	now   time.Time
	err   error
}

func (c *completerStub) CompleteFinished(_ context.Context, now time.Time) (int64, error) {
	c.calls++
	c.now = now
	return 3, c.err
}

func TestCompletionJob_Run(t *testing.T) {
	stub := &completerStub{}
	job := NewCompletionJob(stub, time.Second, logger.NewNop())
	now := time.Date(2025, 7, 22, 18, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	job.Run()
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, now, stub.now)

	stub.err = errors.New("db down")
	assert.NotPanics(t, job.Run)
	assert.Equal(t, 2, stub.calls)
}

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(logger.NewNop())
	job := NewCompletionJob(&completerStub{}, 0, logger.NewNop())

	require.NoError(t, s.Add("complete", "@every 5m", job))
	assert.Error(t, s.Add("broken", "not a spec", job))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func TestCronLogger_WritesToServiceLogger(t *testing.T) {
	rec := &recordingLogger{}
	log := cronLogger{logger: rec}

	log.Info("skip", "job", "complete")
	log.Error(errors.New("boom"), "panic", "stack")

	require.Len(t, rec.infos, 1)
	assert.Equal(t, "Scheduler: skip, job=complete", rec.infos[0])
	require.Len(t, rec.errors, 1)
	assert.Equal(t, "Scheduler: panic: boom, stack", rec.errors[0])
}

func TestCronLogger_RecoveredPanicIsLogged(t *testing.T) {
	rec := &recordingLogger{}

	job := cron.NewChain(cron.Recover(cronLogger{logger: rec})).Then(cron.FuncJob(func() {
		panic("completion failed")
	}))
	assert.NotPanics(t, job.Run)

	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "completion failed")
}
