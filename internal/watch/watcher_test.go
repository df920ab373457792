package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postforge/internal/corpus"
	"git.home.luguber.info/inful/postforge/internal/pipeline"
)

const post = `---
title: Watched
date: 2022-02-02
categories: notes
---

Body.
`

func newTestWatcher(t *testing.T, dir string) (*Watcher, *corpus.Corpus) {
	t.Helper()
	c := corpus.New()
	p := pipeline.New(c, pipeline.WithWorkers(1))
	w, err := NewWatcher(dir, []string{".md"}, p, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w, c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcher_RendersNewSource(t *testing.T) {
	dir := t.TempDir()
	w, c := newTestWatcher(t, dir)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"), []byte(post), 0o644))

	waitFor(t, func() bool { return c.Len() == 1 })
	docs := c.ByCategory("notes")
	require.Len(t, docs, 1)
	require.Equal(t, "Watched", docs[0].Title)
}

func TestWatcher_RemovesDeletedSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	w, c := newTestWatcher(t, dir)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte(post), 0o644))
	waitFor(t, func() bool { return c.Len() == 1 })

	require.NoError(t, os.Remove(path))
	waitFor(t, func() bool { return c.Len() == 0 })
}

func TestWatcher_IgnoresNonSourceFiles(t *testing.T) {
	dir := t.TempDir()
	w, c := newTestWatcher(t, dir)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(200 * time.Millisecond)
	require.Zero(t, c.Len())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, _ := newTestWatcher(t, dir)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestScheduler_RunsRescan(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	ran := make(chan struct{}, 1)
	_, err = s.ScheduleRescan(20*time.Millisecond, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("rescan did not run")
	}
}
