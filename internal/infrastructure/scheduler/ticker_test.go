package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestStartRunsJobImmediately(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour)
	fired := make(chan time.Time, 1)

	if err := s.Start(context.Background(), func(ts time.Time) { fired <- ts }); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestStopIsIdempotentAndRaceFree(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour)
	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Concurrent Stop calls must neither panic nor leave the goroutine
	// blocked on a cleared channel.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Stop(context.Background()); err != nil {
				t.Errorf("stop: %v", err)
			}
		}()
	}
	wg.Wait()

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop after stop: %v", err)
	}
}

func TestRestartAfterStop(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour)
	first := make(chan time.Time, 1)
	if err := s.Start(context.Background(), func(ts time.Time) { first <- ts }); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-first
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	second := make(chan time.Time, 1)
	if err := s.Start(context.Background(), func(ts time.Time) { second <- ts }); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("job did not run after restart")
	}
}
