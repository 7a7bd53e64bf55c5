package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"recipehub/cmd/cli/command/client"
	"recipehub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Recipe commands",
	Long:  `Browse, search, publish, edit and delete recipes.`,
}

var listRecipesCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		search, _ := cmd.Flags().GetString("search")
		owner, _ := cmd.Flags().GetString("user")
		mine, _ := cmd.Flags().GetBool("mine")

		var (
			result *dto.PaginatedRecipeResponse
			err    error
		)
		if mine {
			c, authErr := GetAuthenticatedClient()
			if authErr != nil {
				return authErr
			}
			result, err = c.MyRecipes(page, pageSize)
		} else {
			result, err = client.NewHTTPClient(apiURL).ListRecipes(page, pageSize, search, owner)
		}
		if err != nil {
			return fmt.Errorf("failed to list recipes: %w", err)
		}

		printRecipeList(cmd.OutOrStdout(), result)
		return nil
	},
}

var showRecipeCmd = &cobra.Command{
	Use:   "show [recipe-id]",
	Short: "Show a recipe with its rating breakdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		recipe, err := client.NewHTTPClient(apiURL).GetRecipe(id)
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}

		printRecipe(cmd.OutOrStdout(), recipe)
		return nil
	},
}

var createRecipeCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new recipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, image := recipeInputFromFlags(cmd)

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		id, err := c.CreateRecipe(in, image)
		if err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		success(cmd.OutOrStdout(), "Recipe created with ID %d", id)
		return nil
	},
}

var updateRecipeCmd = &cobra.Command{
	Use:   "update [recipe-id]",
	Short: "Replace one of your recipes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}
		in, image := recipeInputFromFlags(cmd)

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := c.UpdateRecipe(id, in, image); err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		success(cmd.OutOrStdout(), "Recipe %d updated", id)
		return nil
	},
}

var deleteRecipeCmd = &cobra.Command{
	Use:   "delete [recipe-id]",
	Short: "Delete one of your recipes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteRecipe(id); err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}

		success(cmd.OutOrStdout(), "Recipe %d deleted", id)
		return nil
	},
}

func init() {
	recipeCmd.AddCommand(listRecipesCmd, showRecipeCmd, createRecipeCmd, updateRecipeCmd, deleteRecipeCmd)

	listRecipesCmd.Flags().Int("page", 1, "Page number")
	listRecipesCmd.Flags().Int("page-size", dto.DefaultRecipePageSize, "Recipes per page")
	listRecipesCmd.Flags().StringP("search", "s", "", "Search title, description and ingredients")
	listRecipesCmd.Flags().String("user", "", "Only recipes by this user ID")
	listRecipesCmd.Flags().Bool("mine", false, "Only your own recipes")

	for _, c := range []*cobra.Command{createRecipeCmd, updateRecipeCmd} {
		c.Flags().StringP("title", "t", "", "Recipe title")
		c.Flags().StringP("description", "d", "", "Short description")
		c.Flags().String("ingredients", "", "Ingredients, one per line")
		c.Flags().String("instructions", "", "Preparation steps")
		c.Flags().Int("prep", 0, "Preparation time in minutes")
		c.Flags().Int("cook", 0, "Cooking time in minutes")
		c.Flags().Int("servings", 1, "Number of servings")
		c.Flags().String("image", "", "Path to a JPEG, PNG or GIF image")
		c.MarkFlagRequired("title")
		c.MarkFlagRequired("ingredients")
		c.MarkFlagRequired("instructions")
	}
}

func recipeInputFromFlags(cmd *cobra.Command) (dto.RecipeInput, string) {
	var in dto.RecipeInput
	in.Title, _ = cmd.Flags().GetString("title")
	in.Description, _ = cmd.Flags().GetString("description")
	in.Ingredients, _ = cmd.Flags().GetString("ingredients")
	in.Instructions, _ = cmd.Flags().GetString("instructions")
	in.PrepTime, _ = cmd.Flags().GetInt("prep")
	in.CookTime, _ = cmd.Flags().GetInt("cook")
	in.Servings, _ = cmd.Flags().GetInt("servings")
	image, _ := cmd.Flags().GetString("image")
	return in, image
}

func parseRecipeID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe ID: %q", s)
	}
	return id, nil
}

func printRecipeList(w io.Writer, result *dto.PaginatedRecipeResponse) {
	if len(result.Data) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return
	}

	fmt.Fprintf(w, "Page %d of %d (%d recipes)\n\n", result.Page, result.TotalPages, result.Total)
	for _, r := range result.Data {
		fmt.Fprintf(w, "[%d] %s by %s\n", r.ID, r.Title, r.Author.Username)
		fmt.Fprintf(w, "     %s total, serves %d, %s\n", r.TotalTimeLabel, r.Servings, formatRating(r.AvgRating, r.RatingCount))
	}
}

func printRecipe(w io.Writer, r *dto.RecipeDetailResponse) {
	fmt.Fprintf(w, "%s\n%s\n", r.Title, strings.Repeat("=", len([]rune(r.Title))))
	if r.Description != "" {
		fmt.Fprintf(w, "%s\n", r.Description)
	}
	fmt.Fprintf(w, "\nBy %s\n", r.Author.Username)
	fmt.Fprintf(w, "Prep %s, cook %s, total %s. Serves %d.\n", r.PrepTimeLabel, r.CookTimeLabel, r.TotalTimeLabel, r.Servings)
	if r.ImageURL != "" {
		fmt.Fprintf(w, "Image: %s\n", r.ImageURL)
	}

	fmt.Fprintf(w, "\nIngredients:\n%s\n", r.Ingredients)
	fmt.Fprintf(w, "\nInstructions:\n%s\n", r.Instructions)

	if r.Stats != nil {
		fmt.Fprintln(w)
		printStats(w, r.Stats)
	}
}

func formatRating(avg float64, count int64) string {
	if count == 0 {
		return "no ratings yet"
	}
	return fmt.Sprintf("%.1f★ (%d)", avg, count)
}
