package view_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Tabo-ecom/grandline-go/view"
	"github.com/stretchr/testify/require"
)

func TestReadyAfterSuccessfulFetch(t *testing.T) {
	loader := view.NewLoader[string]()

	loader.Load(context.Background(), func(context.Context) (string, error) {
		return "payload", nil
	})

	snap := loader.Snapshot()
	require.Equal(t, view.PhaseReady, snap.Phase)
	require.Equal(t, "payload", snap.Data)
	require.False(t, snap.Empty)
	require.NoError(t, snap.Err)
}

func TestLoadingWhileFetchOutstanding(t *testing.T) {
	loader := view.NewLoader[string]()

	loader.Load(context.Background(), func(context.Context) (string, error) {
		require.Equal(t, view.PhaseLoading, loader.Snapshot().Phase)
		return "done", nil
	})

	require.Equal(t, view.PhaseReady, loader.Snapshot().Phase)
}

func TestErrorClearsPreviousData(t *testing.T) {
	loader := view.NewLoader[string]()

	loader.Load(context.Background(), func(context.Context) (string, error) {
		return "first", nil
	})

	fetchErr := errors.New("backend unavailable")
	loader.Load(context.Background(), func(context.Context) (string, error) {
		return "", fetchErr
	})

	snap := loader.Snapshot()
	require.Equal(t, view.PhaseError, snap.Phase)
	require.ErrorIs(t, snap.Err, fetchErr)
	require.Empty(t, snap.Data)
}

func TestEmptyPayloadDetected(t *testing.T) {
	loader := view.NewLoader(view.WithEmptyCheck(func(items []int) bool {
		return len(items) == 0
	}))

	loader.Load(context.Background(), func(context.Context) ([]int, error) {
		return nil, nil
	})

	snap := loader.Snapshot()
	require.Equal(t, view.PhaseReady, snap.Phase)
	require.True(t, snap.Empty)
}

// A fetch issued earlier but resolving later must not overwrite the newer
// result.
func TestStaleResponseDiscarded(t *testing.T) {
	loader := view.NewLoader[string]()

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loader.Load(context.Background(), func(context.Context) (string, error) {
			close(firstStarted)
			<-releaseFirst
			return "stale", nil
		})
	}()

	<-firstStarted
	loader.Load(context.Background(), func(context.Context) (string, error) {
		return "fresh", nil
	})

	snap := loader.Snapshot()
	require.Equal(t, view.PhaseReady, snap.Phase)
	require.Equal(t, "fresh", snap.Data)

	close(releaseFirst)
	wg.Wait()

	// The superseded result was dropped.
	snap = loader.Snapshot()
	require.Equal(t, view.PhaseReady, snap.Phase)
	require.Equal(t, "fresh", snap.Data)
}

func TestStaleErrorDiscardedToo(t *testing.T) {
	loader := view.NewLoader[string]()

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loader.Load(context.Background(), func(context.Context) (string, error) {
			close(firstStarted)
			<-releaseFirst
			return "", errors.New("late failure")
		})
	}()

	<-firstStarted
	loader.Load(context.Background(), func(context.Context) (string, error) {
		return "fresh", nil
	})

	close(releaseFirst)
	wg.Wait()

	snap := loader.Snapshot()
	require.Equal(t, view.PhaseReady, snap.Phase)
	require.Equal(t, "fresh", snap.Data)
	require.NoError(t, snap.Err)
}
