package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-showroom/engine/model"
)

var (
	// ErrUnsupportedExtension is returned for assets that require a glTF extension the loader cannot decode,
	// such as Draco or meshopt geometry compression.
	ErrUnsupportedExtension = errors.New("unsupported glTF extension")

	// ErrUnsupportedFormat is returned when the file extension has no loader backend.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrNoGeometry is returned when an asset contains no triangle primitives.
	ErrNoGeometry = errors.New("model contains no triangle geometry")
)

// Result is the outcome of an asynchronous load, delivered through Poll.
type Result struct {
	// ID is the request identifier returned by LoadAsync.
	ID int

	// Path is the file that was requested.
	Path string

	// Model is the loaded model, nil when Err is set.
	Model model.Model

	// Err is the load failure, if any.
	Err error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *slog.Logger

	modelCache map[string]model.Model

	backend loaderBackend

	workers int
	pool    worker.DynamicWorkerPool

	mailboxMu sync.Mutex
	mailbox   []Result
	pending   int
	nextID    int
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It abstracts the file format behind a backend and keeps a cache of previously loaded models keyed by
// path (or by name for reader loads). Load and LoadReader are synchronous; LoadAsync decodes on a worker
// pool and hands results back to the caller's thread through Poll.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached by path, the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file (.gltf or .glb)
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// LoadAsync queues a model file for decoding on the worker pool.
	// The outcome is delivered exactly once through Poll under the returned request ID.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - int: the request ID
	LoadAsync(path string) int

	// Poll drains the results of finished asynchronous loads, in completion order.
	//
	// Returns:
	//   - []Result: the finished loads, empty when none completed since the last call
	Poll() []Result

	// Pending reports how many asynchronous loads have not been drained by Poll yet.
	//
	// Returns:
	//   - int: the number of outstanding requests
	Pending() int

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader backed by the glTF/GLB backend with the provided options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:     slog.Default(),
		modelCache: make(map[string]model.Model),
		backend:    newGLTFLoaderBackend(),
		workers:    1,
	}

	for _, option := range options {
		option(l)
	}

	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	if err := checkFormat(path); err != nil {
		return nil, err
	}

	start := time.Now()
	mdl, err := l.backend.Load(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = mdl
	l.mu.Unlock()

	l.logger.Info("model loaded", "path", path, "meshes", mdl.MeshCount(), "elapsed", time.Since(start))
	return mdl, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	mdl, err := l.backend.LoadReader(name, r, isGLB)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[name] = mdl
	l.mu.Unlock()

	l.logger.Info("model loaded", "name", name, "meshes", mdl.MeshCount())
	return mdl, nil
}

func (l *loader) LoadAsync(path string) int {
	l.mailboxMu.Lock()
	id := l.nextID
	l.nextID++
	l.pending++
	l.mailboxMu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			mdl, err := l.Load(path)
			if err != nil {
				err = fmt.Errorf("load %s: %w", path, err)
			}
			l.deliver(Result{ID: id, Path: path, Model: mdl, Err: err})
			return mdl, err
		},
	})
	return id
}

func (l *loader) deliver(res Result) {
	l.mailboxMu.Lock()
	defer l.mailboxMu.Unlock()
	l.mailbox = append(l.mailbox, res)
}

func (l *loader) Poll() []Result {
	l.mailboxMu.Lock()
	defer l.mailboxMu.Unlock()

	if len(l.mailbox) == 0 {
		return nil
	}
	out := l.mailbox
	l.mailbox = nil
	l.pending -= len(out)
	return out
}

func (l *loader) Pending() int {
	l.mailboxMu.Lock()
	defer l.mailboxMu.Unlock()
	return l.pending
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		out[k] = v
	}
	return out
}

func checkFormat(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
