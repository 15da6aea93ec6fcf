package main

import (
	"context"

	"careerguide-workers/internal/common/auth"
	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/search"

	cal "careerguide-workers/internal/workers/application/check-application-limit"
	car "careerguide-workers/internal/workers/application/create-application-record"
	uas "careerguide-workers/internal/workers/application/update-application-status"
	rur "careerguide-workers/internal/workers/auth/resolve-user-role"
	qd "careerguide-workers/internal/workers/data-access/query-directory"
	sc "careerguide-workers/internal/workers/data-access/search-catalog"
	ccq "careerguide-workers/internal/workers/eligibility/check-course-qualification"
	lqc "careerguide-workers/internal/workers/eligibility/list-qualified-courses"
	cjm "careerguide-workers/internal/workers/matching/calculate-job-match"
	rj "careerguide-workers/internal/workers/matching/recommend-jobs"
)

type eventPublisher interface {
	PublishEvent(ctx context.Context, eventType, subject string, data interface{}) (string, error)
}

type dependencies struct {
	store   *directory.Store
	catalog *search.Catalog // nil when Elasticsearch is not configured
	tokens  *auth.KeycloakClient
	events  eventPublisher
	logger  logger.Logger
}

// registerWorkers opens every enabled worker and returns how many started.
func registerWorkers(m *camunda.Manager, cfg *config.Config, deps dependencies) int {
	log := deps.logger
	started := 0
	register := func(taskType string, h camunda.JobHandler) {
		if m.Register(taskType, config.GetWorkerConfig(cfg, taskType), h) {
			started++
		}
	}

	// Eligibility
	register(ccq.TaskType, ccq.NewHandler(ccq.LoadConfig(cfg), deps.store, log))
	register(lqc.TaskType, lqc.NewHandler(lqc.LoadConfig(cfg), deps.store, log))

	// Matching. A typed nil *search.Catalog must not reach the handler as a
	// non-nil interface.
	var jobCatalog rj.Catalog
	if deps.catalog != nil {
		jobCatalog = deps.catalog
	}
	register(cjm.TaskType, cjm.NewHandler(cjm.LoadConfig(cfg), deps.store, log))
	register(rj.TaskType, rj.NewHandler(rj.LoadConfig(cfg), deps.store, jobCatalog, log))

	// Applications
	register(cal.TaskType, cal.NewHandler(cal.LoadConfig(cfg), deps.store, log))
	register(car.TaskType, car.NewHandler(car.LoadConfig(cfg), deps.store, deps.events, log))
	register(uas.TaskType, uas.NewHandler(uas.LoadConfig(cfg), deps.store, deps.events, log))

	// Identity
	register(rur.TaskType, rur.NewHandler(rur.LoadConfig(cfg), deps.tokens, log))

	// Data access
	register(qd.TaskType, qd.NewHandler(qd.LoadConfig(cfg), deps.store, log))
	switch {
	case deps.catalog != nil:
		register(sc.TaskType, sc.NewHandler(sc.LoadConfig(cfg), deps.catalog, log))
	case config.IsWorkerEnabled(cfg, sc.TaskType):
		log.Warn("worker skipped: Elasticsearch not configured", map[string]interface{}{"taskType": sc.TaskType})
	}

	return started
}
