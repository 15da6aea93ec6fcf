package camunda

import (
	"context"

	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/common/observability"
	"careerguide-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker package's Handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Manager opens one Zeebe job worker per registered task type.
type Manager struct {
	client    zbc.Client
	obs       *observability.Observability
	validator *validation.Validator
	logger    logger.Logger
	workers   map[string]worker.JobWorker
}

// NewManager builds a manager. A nil validator skips input schema checks.
func NewManager(client zbc.Client, obs *observability.Observability, validator *validation.Validator, log logger.Logger) *Manager {
	return &Manager{
		client:    client,
		obs:       obs,
		validator: validator,
		logger:    log,
		workers:   make(map[string]worker.JobWorker),
	}
}

// Register opens a worker unless the task type is disabled. It reports
// whether a worker was started.
func (m *Manager) Register(taskType string, wcfg config.WorkerConfig, h JobHandler) bool {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := m.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, m.obs, Validate(taskType, m.validator, m.logger, h.Handle))).
		Name("careerguide-" + taskType).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	m.workers[taskType] = jw

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return true
}

func (m *Manager) TaskTypes() []string {
	out := make([]string, 0, len(m.workers))
	for t := range m.workers {
		out = append(out, t)
	}
	return out
}

// Close stops polling and waits for in-flight jobs or ctx expiry.
func (m *Manager) Close(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		for taskType, jw := range m.workers {
			jw.Close()
			jw.AwaitClose()
			m.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("timed out waiting for workers to stop", nil)
	}
}

// Instrument wraps a job handler with the active-jobs gauge, the duration
// histogram and a trace span.
func Instrument(taskType string, obs *observability.Observability, h worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		timer := metrics.StartJob(taskType)
		var end func()
		if obs != nil {
			_, span := obs.StartJobSpan(context.Background(), taskType, job.Key)
			end = func() { span.End() }
		}

		defer func() {
			d := timer.Stop()
			if obs != nil {
				obs.RecordJobDuration(context.Background(), taskType, d, "handled")
				obs.RecordJobProcessed(context.Background(), taskType, "handled")
				end()
			}
		}()

		h(client, job)
	}
}

// Validate rejects jobs whose variables do not match the task type's input
// schema before they reach h.
func Validate(taskType string, v *validation.Validator, log logger.Logger, h worker.JobHandler) worker.JobHandler {
	if v == nil || !v.Has(taskType) {
		return h
	}
	responder := NewResponder(taskType, log.WithFields(map[string]interface{}{"taskType": taskType}))
	return func(client worker.JobClient, job entities.Job) {
		if err := v.Validate(taskType, job.Variables); err != nil {
			responder.Fail(context.Background(), client, job, err)
			return
		}
		h(client, job)
	}
}
