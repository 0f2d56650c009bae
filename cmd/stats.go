package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts, role distribution and top rated restaurants",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()
		stats := a.services.Stats

		system, err := stats.System(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("=== System ===")
		fmt.Printf("users:          %d\n", system.Users)
		fmt.Printf("restaurants:    %d\n", system.Restaurants)
		fmt.Printf("categories:     %d\n", system.Categories)
		fmt.Printf("reviews:        %d\n", system.Reviews)
		fmt.Printf("favorites:      %d\n", system.Favorites)
		fmt.Printf("notifications:  %d (%d unread)\n", system.Notifications, system.UnreadNotifications)
		fmt.Printf("teas:           %d\n", system.Teas)

		roles, err := stats.Roles(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("\n=== Users by role ===")
		for _, r := range roles {
			fmt.Printf("- %s: %d\n", r.Role, r.Count)
		}

		top, err := stats.TopRated(cmd.Context(), topLimit)
		if err != nil {
			return err
		}
		fmt.Printf("\n=== Top rated (top %d) ===\n", topLimit)
		for i, r := range top {
			fmt.Printf("%d. %s (%.2f from %d reviews)\n", i+1, r.Name, r.AverageRating, r.ReviewCount)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&topLimit, "top", "n", 5, "number of top rated restaurants")
	rootCmd.AddCommand(statsCmd)
}
