package session

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartSweeper runs MemoryStore.Sweep on the given cron spec, e.g.
// "@every 1m". Stop the returned scheduler on shutdown.
func StartSweeper(store *MemoryStore, spec string, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := store.Sweep(); n > 0 {
			log.Debug("expired booking sessions removed", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
