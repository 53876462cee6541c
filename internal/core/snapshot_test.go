package core

import (
	"errors"
	"testing"
	"time"

	"github.com/comalice/loggerstate"
)

func TestSnapshot(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r, _, sensor, _ := newDevice(t, WithClock(func() time.Time { return at }))
	if err := r.SetToWorking(sensor); err != nil {
		t.Fatal(err)
	}

	snap := r.Snapshot()
	if snap.Device != "co2-logger" || !snap.Timestamp.Equal(at) {
		t.Errorf("header = %q %v", snap.Device, snap.Timestamp)
	}
	want := []SubsystemSnapshot{
		{Name: "logger", Status: loggerstate.Initialize, Previous: loggerstate.Initialize},
		{Name: "sensor", Parent: "logger", Status: loggerstate.Working, Previous: loggerstate.Initialize},
		{Name: "storage", Parent: "logger", Status: loggerstate.Initialize, Previous: loggerstate.Initialize},
	}
	if len(snap.Subsystems) != len(want) {
		t.Fatalf("got %d subsystems, want %d", len(snap.Subsystems), len(want))
	}
	for i := range want {
		if snap.Subsystems[i] != want[i] {
			t.Errorf("subsystem %d = %+v, want %+v", i, snap.Subsystems[i], want[i])
		}
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	r, root, sensor, _ := newDevice(t)
	r.SetToWorking(root)
	r.SetToError(sensor)

	pub := &recordingPublisher{}
	restored, err := Restore(r.Snapshot(), WithPublisher(pub))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(pub.got) != 0 {
		t.Errorf("Restore published %d transitions", len(pub.got))
	}

	for i, sub := range r.Snapshot().Subsystems {
		got := restored.Snapshot().Subsystems[i]
		if got != sub {
			t.Errorf("subsystem %d = %+v, want %+v", i, got, sub)
		}
	}

	// Parent links survive the round trip.
	rs, _ := restored.Lookup("sensor")
	rr, _ := restored.Lookup("logger")
	restored.SetToWorking(rr)
	restored.SetToInitialize(rs)
	if s, _ := restored.Status(rr); s != loggerstate.Initialize {
		t.Errorf("restored parent = %v, want INITIALIZE", s)
	}
	if len(pub.got) != 3 {
		t.Errorf("published %d transitions after restore, want 3", len(pub.got))
	}
}

func TestRestore_Errors(t *testing.T) {
	tests := []struct {
		name string
		subs []SubsystemSnapshot
		want error
	}{
		{"parent after child", []SubsystemSnapshot{{Name: "sensor", Parent: "logger"}, {Name: "logger"}}, ErrNotFound},
		{"duplicate", []SubsystemSnapshot{{Name: "logger"}, {Name: "logger"}}, ErrDuplicate},
		{"empty name", []SubsystemSnapshot{{Name: ""}}, ErrInvalidName},
		{"bad status", []SubsystemSnapshot{{Name: "logger", Status: loggerstate.Status(9)}}, ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(Snapshot{Device: "dev", Subsystems: tt.subs})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
