package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"learngenix_backend/internal/config"
	"learngenix_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Debounce 连续写入合并为一次重新加载
var Debounce = time.Second

type Reloader func(cfg *config.Config)

// Watch 监听配置文件所在目录，文件变更后重新加载并依次调用 reloaders，直到 ctx 结束
func Watch(ctx context.Context, configFile string, reloaders ...Reloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	// 监听目录，编辑器以 rename 方式保存时文件本身的 watch 会失效
	if err := watcher.Add(dir); err != nil {
		return err
	}

	timer := time.NewTimer(Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(Debounce)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(dir)
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("file", absPath))
			for _, reload := range reloaders {
				reload(newCfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
