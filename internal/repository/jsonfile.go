package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"task-manager/internal/model"
)

// jsonCollection keeps a whole entity set in memory and rewrites its file on every change.
// The map is only replaced after the file write succeeds.
type jsonCollection[T any] struct {
	path  string
	key   func(T) string
	less  func(a, b T) bool
	mu    sync.RWMutex
	items map[string]T
}

func openCollection[T any](path string, key func(T) string, less func(a, b T) bool, validate func(T) error) (*jsonCollection[T], error) {
	c := &jsonCollection[T]{
		path:  path,
		key:   key,
		less:  less,
		items: make(map[string]T),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("%w: read %s: %w", model.ErrPersistence, path, err)
	}
	if len(data) == 0 {
		return c, nil
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", model.ErrPersistence, path, err)
	}
	for _, item := range list {
		if err := validate(item); err != nil {
			return nil, fmt.Errorf("%w: invalid record in %s: %w", model.ErrPersistence, path, err)
		}
		c.items[key(item)] = item
	}
	return c, nil
}

func (c *jsonCollection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// all returns the matching items in collection order. A nil keep matches everything.
func (c *jsonCollection[T]) all(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sorted(keep)
}

func (c *jsonCollection[T]) find(match func(T) bool) (T, bool) {
	for _, item := range c.all(nil) {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *jsonCollection[T]) put(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyItems()
	next[c.key(item)] = item
	return c.commit(next)
}

func (c *jsonCollection[T]) remove(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return false, nil
	}
	next := c.copyItems()
	delete(next, id)
	if err := c.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

func (c *jsonCollection[T]) clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(make(map[string]T))
}

func (c *jsonCollection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *jsonCollection[T]) copyItems() map[string]T {
	next := make(map[string]T, len(c.items)+1)
	for k, v := range c.items {
		next[k] = v
	}
	return next
}

func (c *jsonCollection[T]) sorted(keep func(T) bool) []T {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if keep == nil || keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c.less(out[i], out[j]) {
			return true
		}
		if c.less(out[j], out[i]) {
			return false
		}
		return c.key(out[i]) < c.key(out[j])
	})
	return out
}

// commit must be called with the write lock held.
func (c *jsonCollection[T]) commit(next map[string]T) error {
	prev := c.items
	c.items = next
	list := c.sorted(nil)
	c.items = prev

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", model.ErrPersistence, c.path, err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", model.ErrPersistence, c.path, err)
	}
	c.items = next
	return nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
