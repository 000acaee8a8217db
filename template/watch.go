package template

import (
	"io/fs"
	"log/slog"
	"path"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/gogpu/shadergen"
)

// Watcher invalidates cached programs when files under a repository
// change. A change to a template drops the programs compiled from it; a
// change to any other file, such as a shared include, clears the cache.
// A file counts as a template once programs compiled from it were dropped.
//
// Watching needs the repository to live on the operating system
// filesystem.
type Watcher struct {
	repo  *Repository
	cache *shadergen.ProgramCache
	w     *fsnotify.Watcher

	onInvalidate func(name string, dropped int)

	// templates is only touched by the event loop.
	templates map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// OnInvalidate registers fn to run after each handled change with the
// repository name of the file and the number of programs dropped.
func OnInvalidate(fn func(name string, dropped int)) WatchOption {
	return func(wt *Watcher) {
		wt.onInvalidate = fn
	}
}

// Watch starts watching every directory of repo.
func Watch(repo *Repository, cache *shadergen.ProgramCache, opts ...WatchOption) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = afero.Walk(repo.fs, repo.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		w.Close()
		return nil, err
	}

	wt := &Watcher{repo: repo, cache: cache, w: w, done: make(chan struct{})}
	for _, opt := range opts {
		opt(wt)
	}
	wt.wg.Add(1)
	go wt.loop()
	return wt, nil
}

func (wt *Watcher) loop() {
	defer wt.wg.Done()
	log := shadergen.Logger()
	for {
		select {
		case <-wt.done:
			return
		case ev, ok := <-wt.w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := wt.repo.fs.Stat(ev.Name); err == nil && info.IsDir() {
					if err := wt.w.Add(ev.Name); err != nil {
						log.Warn("template: watch directory", slog.String("dir", ev.Name), slog.Any("error", err))
					}
					continue
				}
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				wt.handle(ev.Name)
			}
		case err, ok := <-wt.w.Errors:
			if !ok {
				return
			}
			log.Warn("template: watcher error", slog.Any("error", err))
		}
	}
}

// handle invalidates programs for a change to the file at path p.
func (wt *Watcher) handle(p string) {
	name, ok := wt.repo.Rel(p)
	if !ok {
		return
	}
	base := path.Base(name)
	n := wt.cache.InvalidateTemplate(base)
	switch {
	case n > 0:
		if wt.templates == nil {
			wt.templates = make(map[string]bool)
		}
		wt.templates[base] = true
	case !wt.templates[base]:
		n = wt.cache.Len()
		wt.cache.Clear()
	}
	shadergen.Logger().Info("template: changed",
		slog.String("file", name),
		slog.Int("dropped", n))
	if wt.onInvalidate != nil {
		wt.onInvalidate(name, n)
	}
}

// Close stops watching.
func (wt *Watcher) Close() error {
	close(wt.done)
	err := wt.w.Close()
	wt.wg.Wait()
	return err
}
