package stack

import (
	"sync"

	"github.com/jymfony/scriba/internal/logging"
	"github.com/jymfony/scriba/internal/sourcemap"
)

// Registry holds the composed source map of every compiled file, keyed by
// the filename the runtime reports in its stack frames. Registering a file
// again replaces its map.
type Registry struct {
	mutex sync.RWMutex
	maps  map[string]*sourcemap.SourceMap
}

func NewRegistry() *Registry {
	return &Registry{maps: make(map[string]*sourcemap.SourceMap)}
}

func (r *Registry) Register(filename string, sm *sourcemap.SourceMap) {
	r.mutex.Lock()
	_, replaced := r.maps[filename]
	r.maps[filename] = sm
	r.mutex.Unlock()

	log := logging.For("stack")
	log.Debug().Str("file", filename).Bool("replaced", replaced).Msg("source map registered")
}

func (r *Registry) Lookup(filename string) (*sourcemap.SourceMap, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	sm, ok := r.maps[filename]
	return sm, ok
}

func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.maps)
}
