package ml

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

func LoadModel(modelType, path string) (MLModel, error) {
	switch modelType {
	case "decision_tree":
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}

// ModelStore keeps recently used models in memory and drops an entry as soon
// as its file changes on disk, so the next Get reloads it.
type ModelStore struct {
	cache   *lru.Cache[string, MLModel]
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu      sync.Mutex
	dirs    map[string]bool
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewModelStore(size int, logger *zap.Logger) (*ModelStore, error) {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, MLModel](size)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create model watcher: %w", err)
	}
	return &ModelStore{
		cache:   cache,
		watcher: watcher,
		logger:  logger,
		dirs:    make(map[string]bool),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Get returns the model at path, loading it on a cache miss.
func (s *ModelStore) Get(modelType, path string) (MLModel, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if model, ok := s.cache.Get(key); ok {
		return model, nil
	}

	s.watchDir(filepath.Dir(key))
	model, err := LoadModel(modelType, key)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	s.cache.Add(key, model)
	s.logger.Debug("model loaded", zap.String("path", key), zap.String("type", modelType))
	return model, nil
}

func (s *ModelStore) Len() int {
	return s.cache.Len()
}

func (s *ModelStore) watchDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirs[dir] {
		return
	}
	if err := s.watcher.Add(dir); err != nil {
		s.logger.Warn("model watch failed", zap.String("dir", dir), zap.Error(err))
		return
	}
	s.dirs[dir] = true
}

// Start runs the eviction loop until ctx is done or Close is called.
func (s *ModelStore) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.run(ctx)
}

func (s *ModelStore) run(ctx context.Context) {
	defer close(s.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
				event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				if s.cache.Remove(filepath.Clean(event.Name)) {
					s.logger.Info("model evicted", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("model watcher error", zap.Error(err))
		}
	}
}

// Close stops the eviction loop and releases the watcher.
func (s *ModelStore) Close() error {
	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()

	if running {
		close(s.stopCh)
		<-s.doneCh
	}
	return s.watcher.Close()
}

// TreePipeline predicts one quality class per row with a model from the store.
type TreePipeline struct {
	store     *ModelStore
	modelType string
	path      string
}

func NewTreePipeline(store *ModelStore, modelType, path string) *TreePipeline {
	return &TreePipeline{store: store, modelType: modelType, path: path}
}

func (p *TreePipeline) Predict(ctx context.Context, data [][]float64) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("no rows to predict")
	}
	model, err := p.store.Get(p.modelType, p.path)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(data))
	for i, row := range data {
		label, _, err := model.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		labels[i] = label
	}
	return labels, nil
}

// Health loads the configured model, so a missing or corrupt file shows up
// before the first prediction.
func (p *TreePipeline) Health(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.store.Get(p.modelType, p.path)
	return err
}
