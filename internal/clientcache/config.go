package clientcache

import (
	"github.com/lightingpro/storefront/configs"
	"github.com/sirupsen/logrus"
)

// NewFromConfig builds the client-side tiers from the loaded configuration.
// The local disk tier is optional; it comes back nil when no directory is
// configured.
func NewFromConfig(cfg configs.ClientCacheConfig, logger *logrus.Logger) (*QueryCache, *LocalCache) {
	qc := NewQueryCache(Options{
		StaleTime:  cfg.StaleTime,
		RetainTime: cfg.RetainTime,
	}, logger)
	if cfg.LocalDir == "" {
		return qc, nil
	}
	return qc, NewLocalCache(cfg.LocalDir, logger)
}
