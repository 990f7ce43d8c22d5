package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// AppointmentCompleter переводит закончившиеся CONFIRMED записи в COMPLETED
type AppointmentCompleter interface {
	CompleteFinished(ctx context.Context, now time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CompletionJob периодически завершает прошедшие записи
type CompletionJob struct {
	repo    AppointmentCompleter
	timeout time.Duration
	now     func() time.Time
	logger  Logger
}

// NewCompletionJob создает задачу завершения записей. timeout ограничивает один прогон
func NewCompletionJob(repo AppointmentCompleter, timeout time.Duration, logger Logger) *CompletionJob {
	return &CompletionJob{
		repo:    repo,
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
}

// Run выполняет один прогон
func (j *CompletionJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	n, err := j.repo.CompleteFinished(ctx, j.now())
	if err != nil {
		j.logger.Error("CompletionJob: failed to complete appointments: %v", err)
		return
	}
	if n > 0 {
		j.logger.Info("CompletionJob: %d appointments completed", n)
	}
}

// Scheduler обертка над cron
type Scheduler struct {
	cron   *cron.Cron
	logger Logger
}

// NewScheduler создает планировщик. Прогоны одной задачи не пересекаются,
// паника и пропуски прогонов пишутся в logger
func NewScheduler(logger Logger) *Scheduler {
	cronLog := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
		logger: logger,
	}
}

// Add регистрирует задачу по расписанию spec ("@every 5m", "*/5 * * * *")
func (s *Scheduler) Add(name, spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("schedule %s with %q: %w", name, spec, err)
	}
	s.logger.Info("Scheduler: job %s scheduled with %q", name, spec)
	return nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущих прогонов или отмены ctx
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

var _ cron.Logger = cronLogger{}

// cronLogger адаптирует Logger к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("Scheduler: %s%s", msg, formatKeysAndValues(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Scheduler: %s: %v%s", msg, err, formatKeysAndValues(keysAndValues))
}

func formatKeysAndValues(keysAndValues []interface{}) string {
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteString(", ")
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, "%v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, "%v", keysAndValues[i])
		}
	}
	return b.String()
}
