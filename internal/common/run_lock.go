package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRunLocked is returned by Acquire when another run holds the lock
var ErrRunLocked = errors.New("pipeline run lock is held by another process")

// RunLock serializes pipeline runs that share staging and archive directories
type RunLock interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// NoopRunLock never blocks. Callers take responsibility for exclusion.
type NoopRunLock struct{}

func (NoopRunLock) Acquire(context.Context) error { return nil }
func (NoopRunLock) Release(context.Context) error { return nil }

// FileRunLock holds an advisory lock on a file next to the staging directory.
// The kernel drops the lock when the holding process exits, so a crashed run
// never blocks the next one. The file itself is left in place.
type FileRunLock struct {
	path  string
	owner string
	flock *flock.Flock
}

// NewFileRunLock creates a lock on path; owner is written into the file for operators.
func NewFileRunLock(path, owner string) *FileRunLock {
	return &FileRunLock{path: path, owner: owner, flock: flock.New(path)}
}

func (l *FileRunLock) Acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	locked, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", l.path, err)
	}
	if !locked {
		return ErrRunLocked
	}

	// Informational only; the lock is the flock, not the file contents
	info := fmt.Sprintf("%s %d %s\n", l.owner, os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(l.path, []byte(info), 0644); err != nil {
		_ = l.flock.Unlock()
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

func (l *FileRunLock) Release(ctx context.Context) error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	return nil
}

// Deletes the key only while it still carries our token
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRunLock holds a redis key with a TTL so a crashed run cannot block forever
type RedisRunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

// NewRedisRunLock creates a lock on key that expires after ttl
func NewRedisRunLock(client *redis.Client, key string, ttl time.Duration) *RedisRunLock {
	return &RedisRunLock{
		client: client,
		key:    key,
		ttl:    ttl,
		token:  uuid.New().String(),
	}
}

func (l *RedisRunLock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire redis lock %s: %w", l.key, err)
	}
	if !ok {
		return ErrRunLocked
	}
	return nil
}

func (l *RedisRunLock) Release(ctx context.Context) error {
	if err := releaseLockScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("failed to release redis lock %s: %w", l.key, err)
	}
	return nil
}
