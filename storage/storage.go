// Package storage opens the configured bucket backend for every file category.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/config"
	"github.com/bananamirror/relay/filesystem"
	"github.com/bananamirror/relay/r2"
)

// Set is the opened buckets, one per category.
type Set struct {
	Bindings map[relay.Category]relay.Binding
	closers  []io.Closer
}

// Close releases backend resources.
func (s *Set) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Open builds a binding for each category from cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (*Set, error) {
	switch cfg.Type {
	case config.StorageFilesystem:
		return openFilesystem(cfg)
	case config.StorageR2:
		return openR2(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q: %w", cfg.Type, relay.ErrConfiguration)
	}
}

func openFilesystem(cfg config.StorageConfig) (*Set, error) {
	set := &Set{Bindings: make(map[relay.Category]relay.Binding, len(relay.Categories()))}

	for _, c := range relay.Categories() {
		b, _ := cfg.Buckets.For(c)
		dir := filepath.Join(cfg.Path, b.Name)

		store, err := filesystem.Open(dir)
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("open %s bucket: %w", c, err)
		}

		set.closers = append(set.closers, store)
		set.Bindings[c] = relay.Binding{Bucket: store, Subdomain: b.Subdomain}
		slog.Debug("opened filesystem bucket", "category", c, "dir", dir)
	}

	return set, nil
}

func openR2(ctx context.Context, cfg config.StorageConfig) (*Set, error) {
	client, err := r2.NewClient(ctx, r2.Config{
		AccountID:       cfg.R2.AccountID,
		Endpoint:        cfg.R2.Endpoint,
		Region:          cfg.R2.Region,
		AccessKeyID:     cfg.R2.AccessKeyID,
		SecretAccessKey: cfg.R2.SecretAccessKey,
		UsePathStyle:    cfg.R2.UsePathStyle,
	})
	if err != nil {
		return nil, err
	}

	set := &Set{Bindings: make(map[relay.Category]relay.Binding, len(relay.Categories()))}
	for _, c := range relay.Categories() {
		b, _ := cfg.Buckets.For(c)
		set.Bindings[c] = relay.Binding{Bucket: r2.NewBucket(client, b.Name), Subdomain: b.Subdomain}
		slog.Debug("bound r2 bucket", "category", c, "bucket", b.Name)
	}

	return set, nil
}
