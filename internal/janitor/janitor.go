package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"devfolio/internal/storage"
)

// ReferenceSource reports every upload reference still recorded in the store.
type ReferenceSource interface {
	References(ctx context.Context) ([]string, error)
}

type Config struct {
	// Schedule is a standard five field cron spec or a descriptor such as "@hourly".
	Schedule     string
	Grace        time.Duration
	PublicPrefix string
}

// Janitor removes stored uploads that no record points at. Files younger
// than the grace period are kept so an image uploaded just before its post
// is saved survives.
type Janitor struct {
	cfg    Config
	refs   ReferenceSource
	files  storage.Store
	logger logrus.FieldLogger
	cron   *cron.Cron
	now    func() time.Time
}

func New(cfg Config, refs ReferenceSource, files storage.Store, logger logrus.FieldLogger) *Janitor {
	if cfg.Schedule == "" {
		cfg.Schedule = "@hourly"
	}
	if cfg.Grace <= 0 {
		cfg.Grace = 24 * time.Hour
	}
	return &Janitor{
		cfg:    cfg,
		refs:   refs,
		files:  files,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start schedules sweeps until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	_, err := j.cron.AddFunc(j.cfg.Schedule, func() {
		removed, err := j.Sweep(ctx)
		if err != nil {
			j.logger.WithError(err).Warn("upload sweep failed")
			return
		}
		if len(removed) > 0 {
			j.logger.WithField("removed", len(removed)).Info("removed orphaned uploads")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule upload sweep %q: %w", j.cfg.Schedule, err)
	}

	j.cron.Start()
	j.logger.Infof("upload janitor scheduled (%s, grace %s)", j.cfg.Schedule, j.cfg.Grace)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep deletes unreferenced uploads older than the grace period and returns their names.
func (j *Janitor) Sweep(ctx context.Context) ([]string, error) {
	refs, err := j.refs.References(ctx)
	if err != nil {
		return nil, fmt.Errorf("load upload references: %w", err)
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if name := storage.NameFromRef(ref, j.cfg.PublicPrefix); name != "" {
			referenced[name] = struct{}{}
		}
	}

	objects, err := j.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	cutoff := j.now().Add(-j.cfg.Grace)
	var removed []string
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.LastModified == nil || obj.LastModified.After(cutoff) {
			continue
		}
		if err := j.files.Delete(ctx, obj.Key); err != nil {
			j.logger.WithError(err).WithField("file", obj.Key).Warn("remove orphaned upload")
			continue
		}
		removed = append(removed, obj.Key)
	}
	return removed, nil
}
