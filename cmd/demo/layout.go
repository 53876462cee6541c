package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/loggerstate/internal/core"
)

// Layout describes the subsystem tree of a device.
type Layout struct {
	Device     string      `yaml:"device"`
	Subsystems []Subsystem `yaml:"subsystems"`
}

// Subsystem is one node of a Layout. Children nest under their parent.
type Subsystem struct {
	Name     string      `yaml:"name"`
	Children []Subsystem `yaml:"children,omitempty"`
}

const defaultLayout = `
device: co2-logger
subsystems:
  - name: logger
    children:
      - name: sensor
      - name: storage
      - name: serial
`

// loadLayout reads path, or the built-in layout when path is empty.
func loadLayout(path string) (Layout, error) {
	data := []byte(defaultLayout)
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Layout{}, fmt.Errorf("read layout: %w", err)
		}
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if l.Device == "" {
		return Layout{}, fmt.Errorf("layout: device name is required")
	}
	return l, nil
}

// Build registers every subsystem of l, parents first.
func (l Layout) Build(opts ...core.Option) (*core.Registry, error) {
	r := core.NewRegistry(l.Device, opts...)
	if err := addSubsystems(r, l.Subsystems, core.NoParent); err != nil {
		return nil, err
	}
	return r, nil
}

func addSubsystems(r *core.Registry, subs []Subsystem, parent core.Handle) error {
	for _, sub := range subs {
		h, err := r.Add(sub.Name, parent)
		if err != nil {
			return fmt.Errorf("add %q: %w", sub.Name, err)
		}
		if err := addSubsystems(r, sub.Children, h); err != nil {
			return err
		}
	}
	return nil
}
