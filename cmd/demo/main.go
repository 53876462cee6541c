package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/comalice/loggerstate/internal/core"
	"github.com/comalice/loggerstate/internal/production"
)

// step is one scripted status change of the simulated device.
type step struct {
	subsystem string
	apply     func(*core.Registry, core.Handle) error
}

var script = []step{
	{"logger", (*core.Registry).SetToWorking},
	{"sensor", (*core.Registry).SetToWorking},
	{"storage", (*core.Registry).SetToWorking},
	{"serial", (*core.Registry).SetToWorking},
	// SD card pulled: storage fails and drags the logger into ERROR.
	{"storage", (*core.Registry).SetToError},
	{"storage", (*core.Registry).SetToInitialize},
	{"storage", (*core.Registry).SetToWorking},
	{"logger", (*core.Registry).SetToWorking},
}

func main() {
	layoutPath := flag.String("layout", "", "YAML layout file (default: built-in co2-logger tree)")
	dir := flag.String("dir", os.TempDir(), "directory for the YAML snapshot")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), *layoutPath, *dir, logger.Sugar()); err != nil {
		logger.Sugar().Errorw("Demo failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, layoutPath, dir string, log *zap.SugaredLogger) error {
	layout, err := loadLayout(layoutPath)
	if err != nil {
		return err
	}

	publishChan := make(chan production.PublishedTransition, 100)
	publisher := production.NewChannelPublisher(publishChan)
	defer publisher.Close()

	r, err := layout.Build(core.WithLogger(log), core.WithPublisher(publisher))
	if err != nil {
		return err
	}

	drain := func(label string) {
		for len(publishChan) > 0 {
			ev := <-publishChan
			fmt.Printf("%s: %s %s -> %s (mirrored=%t)\n",
				label, ev.Subsystem, ev.Transition.From, ev.Transition.To, ev.Transition.Propagated)
		}
	}
	drain("register")

	visualizer := &production.DefaultVisualizer{}
	for i, s := range script {
		h, err := r.Lookup(s.subsystem)
		if err != nil {
			log.Infow("Skipping step for absent subsystem", "step", i+1, "subsystem", s.subsystem)
			continue
		}
		if err := s.apply(r, h); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		drain(fmt.Sprintf("step %d", i+1))
	}
	fmt.Println("DOT:\n" + visualizer.ExportDOT(r.Snapshot()))

	persister, err := production.NewYAMLPersister(dir)
	if err != nil {
		return err
	}
	if err := persister.Save(ctx, r.Snapshot()); err != nil {
		return err
	}
	log.Infow("Snapshot saved", "dir", dir, "device", r.Device(), "dropped", publisher.Dropped())
	return nil
}
