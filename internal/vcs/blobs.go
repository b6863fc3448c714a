package vcs

import (
	"context"
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultBlobCacheSize = 256

var fullSHA = regexp.MustCompile(`^[0-9a-f]{40}([0-9a-f]{24})?$`)

// BlobStore reads file content at a revision. Content read at a full commit
// SHA never changes, so it is cached; symbolic revisions are always read.
type BlobStore struct {
	runner Runner
	cache  *lru.Cache[string, string]
}

func NewBlobStore(runner Runner, size int) (*BlobStore, error) {
	if size <= 0 {
		size = defaultBlobCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob cache: %w", err)
	}
	return &BlobStore{runner: runner, cache: cache}, nil
}

func (b *BlobStore) Show(ctx context.Context, rev, filePath string) (string, error) {
	key := rev + ":" + filePath
	cacheable := fullSHA.MatchString(rev)
	if cacheable {
		if content, ok := b.cache.Get(key); ok {
			return content, nil
		}
	}

	content, err := b.runner.Run(ctx, "show", key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s at %s: %w", filePath, rev, err)
	}

	if cacheable {
		b.cache.Add(key, content)
	}
	return content, nil
}

func (b *BlobStore) Len() int {
	return b.cache.Len()
}
