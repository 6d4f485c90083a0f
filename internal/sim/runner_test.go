package sim

import (
	"context"
	"testing"

	"poolEngine/internal/storage"
)

func TestRunHoldsInvariants(t *testing.T) {
	sink := storage.NewMemorySink()
	runner := NewRunner(RunConfig{Seed: 42, Steps: 500, Actors: 3}, sink, nil)

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Applied == 0 {
		t.Fatalf("no operations applied in 500 steps")
	}
	if report.Applied+report.Rejected != report.Steps {
		t.Fatalf("applied %d + rejected %d != steps %d", report.Applied, report.Rejected, report.Steps)
	}
	if got := len(sink.Events()); got != report.Applied {
		t.Fatalf("journaled %d events, applied %d ops", got, report.Applied)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := NewRunner(RunConfig{Seed: 7, Steps: 200}, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := NewRunner(RunConfig{Seed: 7, Steps: 200}, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Applied != second.Applied || first.Rejected != second.Rejected {
		t.Fatalf("same seed diverged: %+v vs %+v", first, second)
	}
	if first.FinalBase.Cmp(second.FinalBase) != 0 ||
		first.FinalQuote.Cmp(second.FinalQuote) != 0 ||
		first.FinalShares.Cmp(second.FinalShares) != 0 {
		t.Fatalf("same seed produced different final state")
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRunner(RunConfig{Seed: 1, Steps: 10}, nil, nil).Run(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
