package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBridgeContextCallerCancellation(t *testing.T) {
	caller, cancelCaller := context.WithCancel(context.Background())
	runCtx, cleanup := bridgeContext(context.Background(), caller)
	defer cleanup()

	require.NoError(t, runCtx.Err())

	cancelCaller()
	select {
	case <-runCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("run context survived caller cancellation")
	}
}

func TestBridgeContextCallerDeadline(t *testing.T) {
	caller, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	runCtx, cleanup := bridgeContext(context.Background(), caller)
	defer cleanup()

	callerDeadline, ok := caller.Deadline()
	require.True(t, ok)
	runDeadline, ok := runCtx.Deadline()
	require.True(t, ok)
	require.Equal(t, callerDeadline, runDeadline)
}

func TestBridgeContextSessionEnd(t *testing.T) {
	session, cancelSession := context.WithCancel(context.Background())
	runCtx, cleanup := bridgeContext(session, context.Background())
	defer cleanup()

	cancelSession()
	select {
	case <-runCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("run context survived session shutdown")
	}
}

func TestBridgeContextCleanup(t *testing.T) {
	runCtx, cleanup := bridgeContext(context.Background(), context.Background())
	cleanup()
	require.Error(t, runCtx.Err())
}
