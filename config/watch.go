package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher 监听配置文件变化，重新加载成功后通过 Updates 投递新配置
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan Config
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher 监听配置文件所在目录（编辑器常用 rename 方式保存，直接监听文件会丢事件）
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		path:    abs,
		watcher: w,
		Updates: make(chan Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	// 尾部去抖：一次保存通常触发 truncate + write 多个事件，静默 debounce 后再读取
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.emitErr(err)
				continue
			}
			// 只保留最新一份配置
			select {
			case <-w.Updates:
			default:
			}
			select {
			case w.Updates <- cfg:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emitErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) emitErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
