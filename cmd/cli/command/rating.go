package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"recipehub/cmd/cli/command/client"
	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"

	"github.com/spf13/cobra"
)

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Rating management commands",
	Long:  `Rate recipes, view your rating, delete it, and list or summarise a recipe's ratings.`,
}

var rateCmd = &cobra.Command{
	Use:   "rate [recipe-id] [stars]",
	Short: "Rate a recipe (1-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		stars, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating: %w", err)
		}
		if stars < models.RatingMin || stars > models.RatingMax {
			return fmt.Errorf("rating must be between %d and %d", models.RatingMin, models.RatingMax)
		}
		comment, _ := cmd.Flags().GetString("comment")

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		out, err := c.SubmitRating(recipeID, stars, comment)
		if err != nil {
			return fmt.Errorf("failed to rate recipe: %w", err)
		}

		success(cmd.OutOrStdout(), "%s", out.Message)
		return nil
	},
}

var getRatingCmd = &cobra.Command{
	Use:   "get [recipe-id]",
	Short: "Get your rating for a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		result, err := c.GetMyRating(recipeID)
		if err != nil {
			return fmt.Errorf("failed to get rating: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Your rating for recipe %d: %s\n", recipeID, stars(result.Rating))
		if result.Comment != "" {
			fmt.Fprintf(out, "Comment: %s\n", result.Comment)
		}
		fmt.Fprintf(out, "Updated at: %s\n", result.UpdatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var deleteRatingCmd = &cobra.Command{
	Use:   "delete [recipe-id]",
	Short: "Delete your rating for a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteRating(recipeID); err != nil {
			return fmt.Errorf("failed to delete rating: %w", err)
		}

		success(cmd.OutOrStdout(), "Rating deleted for recipe %d", recipeID)
		return nil
	},
}

var listRatingsCmd = &cobra.Command{
	Use:   "list [recipe-id]",
	Short: "List all ratings for a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		result, err := client.NewHTTPClient(apiURL).ListRatings(recipeID, page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to list ratings: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Data) == 0 {
			fmt.Fprintf(out, "No ratings for recipe %d yet.\n", recipeID)
			return nil
		}
		fmt.Fprintf(out, "Ratings for recipe %d (page %d of %d):\n\n", recipeID, result.Page, result.TotalPages)
		for _, r := range result.Data {
			fmt.Fprintf(out, "%s  %s\n", stars(r.Rating), r.Username)
			if r.Comment != "" {
				fmt.Fprintf(out, "   %s\n", r.Comment)
			}
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [recipe-id]",
	Short: "Show the star distribution of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipeID, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		stats, err := client.NewHTTPClient(apiURL).RatingStats(recipeID)
		if err != nil {
			return fmt.Errorf("failed to get rating stats: %w", err)
		}

		printStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	ratingCmd.AddCommand(rateCmd, getRatingCmd, deleteRatingCmd, listRatingsCmd, statsCmd)

	rateCmd.Flags().StringP("comment", "c", "", "Optional comment")

	listRatingsCmd.Flags().Int("page", 1, "Page number")
	listRatingsCmd.Flags().Int("page-size", dto.DefaultRatingPageSize, "Ratings per page")
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > models.RatingMax {
		n = models.RatingMax
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", models.RatingMax-n)
}

func printStats(w io.Writer, s *dto.RatingStats) {
	if s.Total == 0 {
		fmt.Fprintln(w, "No ratings yet.")
		return
	}

	fmt.Fprintf(w, "Average %.2f from %d ratings\n", s.Average, s.Total)
	for i := len(s.Distribution) - 1; i >= 0; i-- {
		b := s.Distribution[i]
		bar := strings.Repeat("█", b.Percent/5)
		fmt.Fprintf(w, "%d★ %-20s %3d%% (%d)\n", b.Stars, bar, b.Percent, b.Count)
	}
}
