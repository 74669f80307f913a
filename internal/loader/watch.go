package loader

import (
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watcher reindexes an Index whenever a .ny file under its roots is
// created, removed, or renamed. Plain writes don't change the module
// table's shape so they are ignored; only structural events trigger a
// rebuild. Only each root directory itself is watched: changes inside
// its subdirectories produce no event and trigger no rebuild.
type Watcher struct {
	index *Index
	roots []Root
	fsw   *fsnotify.Watcher
	done  chan struct{}
}

// Watch starts watching roots for filesystem changes and keeps idx
// up to date. Call Close to stop.
func Watch(idx *Index, roots []Root) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, r := range roots {
		// Best-effort: a root that doesn't exist yet is simply not
		// watched until it's created externally and the loader is
		// restarted; this mirrors the index build's own tolerance for
		// missing roots.
		_ = fsw.Add(r.Path)
	}

	w := &Watcher{index: idx, roots: roots, fsw: fsw, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := w.index.Build(w.roots); err != nil {
					log.Printf("loader: reindex after %s failed: %v", ev.Name, err)
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("loader: watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
