// Package production provides production integrations: persistence, transition
// publishing, visualization.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/loggerstate/internal/core"
)

// Persister stores one snapshot per device.
type Persister interface {
	Save(ctx context.Context, snapshot core.Snapshot) error
	Load(ctx context.Context, device string) (core.Snapshot, error)
}

var ErrNoDevice = errors.New("snapshot has no device name")

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return save(ctx, p.dir, snapshot.Device, ".json", data)
}

func (p *JSONPersister) Load(ctx context.Context, device string) (core.Snapshot, error) {
	data, err := load(ctx, p.dir, device, ".json")
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return finish(snapshot, device)
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return save(ctx, p.dir, snapshot.Device, ".yaml", data)
}

func (p *YAMLPersister) Load(ctx context.Context, device string) (core.Snapshot, error) {
	data, err := load(ctx, p.dir, device, ".yaml")
	if err != nil {
		return core.Snapshot{}, err
	}
	var snapshot core.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return finish(snapshot, device)
}

func save(ctx context.Context, dir, device, ext string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if device == "" {
		return ErrNoDevice
	}
	fn := filepath.Join(dir, device+ext)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func load(ctx context.Context, dir, device, ext string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fn := filepath.Join(dir, device+ext)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("device %q: %w", device, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}

func finish(snapshot core.Snapshot, device string) (core.Snapshot, error) {
	snapshot.Device = device // file name wins
	if err := snapshot.Validate(); err != nil {
		return core.Snapshot{}, fmt.Errorf("snapshot validation after load: %w", err)
	}
	return snapshot, nil
}
