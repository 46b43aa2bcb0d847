package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// the commands rely on deferred session cleanup, so failures must return
// through RunE rather than exiting the process in place.
func TestCommandsReturnErrors(t *testing.T) {
	for _, cmd := range []*cobra.Command{runCmd, coursesCmd} {
		require.NotNil(t, cmd.RunE, cmd.Use)
		require.Nil(t, cmd.Run, cmd.Use)
	}
}
