package main

import (
	"bookkeeper/internal/config"
	"bookkeeper/pkg/directory"
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/logger"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CategoryStore is the part of the storage the categories command uses.
type CategoryStore interface {
	GetCategories(ctx context.Context, userID domain.UserID) ([]domain.CategoryRecord, error)
	ReplaceCategories(ctx context.Context, userID domain.UserID, categories ...domain.CategoryRecord) error
}

// importCategories replaces the user's stored directory with the one the file
// defines for that user.
func importCategories(ctx context.Context, strg CategoryStore, dir *directory.Directory, userID domain.UserID) (int, error) {
	categories, err := dir.GetCategories(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("could not read categories: %w", err)
	}
	if len(categories) == 0 {
		return 0, fmt.Errorf("no categories defined for user %q", userID)
	}
	if err := strg.ReplaceCategories(ctx, userID, categories...); err != nil {
		return 0, fmt.Errorf("could not store categories: %w", err)
	}

	return len(categories), nil
}

// exportCategories writes the user's stored directory as a category file.
func exportCategories(ctx context.Context, strg CategoryStore, userID domain.UserID, out io.Writer) error {
	categories, err := strg.GetCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("could not load categories: %w", err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(directory.File{Categories: categories}); err != nil {
		return fmt.Errorf("could not encode categories: %w", err)
	}

	return enc.Close() //nolint: wrapcheck
}

// categoriesCommand constructs the 'categories' subcommand managing the
// category directories stored in postgres.
func categoriesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manages stored category directories",
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Replaces a user's categories with those of a YAML file",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			file, _ := cmd.Flags().GetString("file")
			user, _ := cmd.Flags().GetString("user")

			dir, err := directory.Load(file)
			if err != nil {
				logger.Fatal(ctx, "could not load category file", zap.Error(err))
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			n, err := importCategories(ctx, strg, dir, domain.UserID(user))
			if err != nil {
				logger.Fatal(ctx, "could not import categories", zap.Error(err))
			}
			logger.Info(ctx, "categories imported", zap.String("userID", user), zap.Int("count", n))
		},
	}
	importCmd.Flags().String("file", "categories.yml", "YAML category file")
	importCmd.Flags().String("user", "", "User ID to import categories for")
	_ = importCmd.MarkFlagRequired("user")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Prints a user's stored categories as YAML",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			user, _ := cmd.Flags().GetString("user")

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			if err := exportCategories(ctx, strg, domain.UserID(user), cmd.OutOrStdout()); err != nil {
				logger.Fatal(ctx, "could not export categories", zap.Error(err))
			}
		},
	}
	exportCmd.Flags().String("user", "", "User ID to export categories of")
	_ = exportCmd.MarkFlagRequired("user")

	cmd.AddCommand(importCmd, exportCmd)

	return cmd
}
