package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"classfetch/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(coursesCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses visible to the configured account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := readConfig()

		ctx := serviceutil.SignalContext()
		client, session, err := createClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer session.Release()

		courses, err := client.ListCourses(ctx)
		if err != nil {
			return fmt.Errorf("failed to list courses: %w", err)
		}
		for _, c := range courses {
			fmt.Printf("%s\t%s\t%s\n", c.ID, c.Name, c.URL)
		}
		return nil
	},
}
