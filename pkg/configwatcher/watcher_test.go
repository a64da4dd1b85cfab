package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"skill_portal_backend/internal/config"

	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_limit:\n  max_requests: 10\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// 等待 watcher 就绪后再写入
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("rate_limit:\n  max_requests: 42\n"), 0o644))

	select {
	case cfg := <-reloaded:
		require.Equal(t, 42, cfg.RateLimit.MaxRequests)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
