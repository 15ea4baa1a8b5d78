package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-parses documents below the workspace root as they change on
// disk.
type Watcher struct {
	workspace *Workspace
	fsw       *fsnotify.Watcher
	stopCh    chan struct{}
	done      sync.WaitGroup

	// Changed, when set, is called with the path of every file that was
	// re-parsed or removed.
	Changed func(path string)

	// Ignore, when set, reports files whose events are dropped.
	Ignore func(path string) bool
}

func NewWatcher(w *Workspace) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		workspace: w,
		fsw:       fsw,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start adds every directory below the root and begins processing events.
func (w *Watcher) Start() error {
	if err := w.addTree(w.workspace.RootDir()); err != nil {
		return err
	}
	w.done.Add(1)
	go w.run()
	return nil
}

// Stop ends event processing and waits for it to finish.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	err := w.fsw.Close()
	w.done.Wait()
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			log.Warningf("watching %s: %s", path, err)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer w.done.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if w.Ignore != nil && w.Ignore(path) {
		return
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if w.workspace.GetFile(path) == nil {
			return
		}
		w.workspace.RemoveFile(path)
		log.Debugf("removed %s", path)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if event.Has(fsnotify.Create) {
				w.addTree(path)
			}
			return
		}
		if filepath.Ext(path) != Ext {
			return
		}
		if err := w.workspace.ScanFile(path); err != nil {
			return
		}
	default:
		return
	}
	if w.Changed != nil {
		w.Changed(path)
	}
}
