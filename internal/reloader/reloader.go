// Package reloader provides live configuration reloading.
package reloader

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chapterhq/lodge/internal/conf"
)

const (
	// reloadInterval debounces filesystem events: at most one reload is
	// attempted per interval.
	reloadInterval = 10 * time.Second

	tickerInterval = reloadInterval / 10
)

// ConfigFunc receives each freshly loaded configuration.
type ConfigFunc func(*conf.GlobalConfiguration)

// Reloader watches the directory holding the configuration file and calls
// back with a reloaded configuration after the file changes settle.
type Reloader struct {
	configFile string
	reloadIval time.Duration
	tickerIval time.Duration
	reloadFn   func(string) (*conf.GlobalConfiguration, error)
}

func NewReloader(configFile string) *Reloader {
	return &Reloader{
		configFile: configFile,
		reloadIval: reloadInterval,
		tickerIval: tickerInterval,
		reloadFn:   conf.LoadGlobal,
	}
}

// reloadDueAt reports whether a pending update is old enough to act on.
func (rl *Reloader) reloadDueAt(at, lastUpdate time.Time) bool {
	return !lastUpdate.IsZero() && at.Sub(lastUpdate) >= rl.reloadIval
}

// Watch blocks until ctx is done, invoking fn with a fresh configuration
// after every settled change to the config file. Load failures keep the
// previous configuration and are logged.
func (rl *Reloader) Watch(ctx context.Context, fn ConfigFunc) error {
	wr, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "reloader: error creating fsnotify watcher")
	}
	defer wr.Close()

	dir := filepath.Dir(rl.configFile)
	if err := wr.Add(dir); err != nil {
		return errors.Wrapf(err, "reloader: error watching %q", dir)
	}

	tr := time.NewTicker(rl.tickerIval)
	defer tr.Stop()

	var lastUpdate time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-tr.C:
			if !rl.reloadDueAt(time.Now(), lastUpdate) {
				continue
			}
			lastUpdate = time.Time{}

			cfg, err := rl.reloadFn(rl.configFile)
			if err != nil {
				logrus.WithError(err).Error("reloader: error loading config, keeping the previous one")
				continue
			}
			fn(cfg)

		case evt, ok := <-wr.Events:
			if !ok {
				return errors.New("reloader: fsnotify event channel was closed")
			}
			if !strings.HasSuffix(evt.Name, ".env") {
				continue
			}
			switch {
			case evt.Op.Has(fsnotify.Create),
				evt.Op.Has(fsnotify.Remove),
				evt.Op.Has(fsnotify.Rename),
				evt.Op.Has(fsnotify.Write):
				lastUpdate = time.Now()
			}

		case err, ok := <-wr.Errors:
			if !ok {
				return errors.New("reloader: fsnotify error channel was closed")
			}
			logrus.WithError(err).Error("reloader: fsnotify reported an error")
		}
	}
}
