package directory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/emrgen/circle/internal/cache"
	"github.com/sirupsen/logrus"
)

const summaryTTL = 15 * time.Minute

func summaryKey(userID uint) string {
	return "user:summary:" + strconv.FormatUint(uint64(userID), 10)
}

var _ Directory = (*CachedDirectory)(nil)

// NewCached wraps a directory with a redis cache for summaries. Only display
// data is cached; existence checks and search always hit the inner
// directory. A cache failure degrades to the inner directory and is logged,
// never surfaced.
func NewCached(inner Directory, kv *cache.Redis) *CachedDirectory {
	return &CachedDirectory{
		inner: inner,
		kv:    kv,
	}
}

type CachedDirectory struct {
	inner Directory
	kv    *cache.Redis
}

func (d *CachedDirectory) Exists(ctx context.Context, userID uint) (bool, error) {
	return d.inner.Exists(ctx, userID)
}

func (d *CachedDirectory) Summary(ctx context.Context, userID uint) (*Summary, error) {
	var cached Summary
	err := d.kv.Get(ctx, summaryKey(userID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logrus.Warnf("summary cache read for user %d failed: %v", userID, err)
	}

	summary, err := d.inner.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := d.kv.Set(ctx, summaryKey(userID), summary, summaryTTL); err != nil {
		logrus.Warnf("summary cache write for user %d failed: %v", userID, err)
	}

	return summary, nil
}

func (d *CachedDirectory) Summaries(ctx context.Context, userIDs []uint) (map[uint]*Summary, error) {
	summaries := make(map[uint]*Summary, len(userIDs))
	missing := make([]uint, 0)

	for _, id := range userIDs {
		var cached Summary
		err := d.kv.Get(ctx, summaryKey(id), &cached)
		if err == nil {
			summaries[id] = &cached
			continue
		}
		if !errors.Is(err, cache.ErrMiss) {
			logrus.Warnf("summary cache read for user %d failed: %v", id, err)
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return summaries, nil
	}

	fetched, err := d.inner.Summaries(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, summary := range fetched {
		summaries[id] = summary
		if err := d.kv.Set(ctx, summaryKey(id), summary, summaryTTL); err != nil {
			logrus.Warnf("summary cache write for user %d failed: %v", id, err)
		}
	}

	return summaries, nil
}

func (d *CachedDirectory) Search(ctx context.Context, query string, limit int) ([]*Summary, error) {
	return d.inner.Search(ctx, query, limit)
}
