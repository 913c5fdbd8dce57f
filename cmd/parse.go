package main

import (
	"bookkeeper/internal/config"
	"bookkeeper/internal/quickentry"
	"bookkeeper/pkg/directory"
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/logger"
	"bookkeeper/pkg/storage/memory"
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runParse runs every message through svc and writes one result line per
// message. Messages come from args or, when there are none, from in.
func runParse(ctx context.Context,
	svc quickentry.Service,
	userID domain.UserID,
	record bool,
	args []string,
	in io.Reader,
	out io.Writer) error {
	op := svc.Preview
	if record {
		op = svc.Record
	}

	handle := func(text string) error {
		res, err := op(ctx, domain.RawInput{Text: text, UserID: userID, RequestID: uuid.NewString()})
		if err != nil {
			return fmt.Errorf("could not handle %q: %w", text, err)
		}
		_, err = fmt.Fprintf(out, "%s\n%s\n\n", text, res.Message)

		return err //nolint: wrapcheck
	}

	if len(args) > 0 {
		for _, text := range args {
			if err := handle(text); err != nil {
				return err
			}
		}

		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := handle(text); err != nil {
			return err
		}
	}

	return scanner.Err() //nolint: wrapcheck
}

// parseCommand constructs the 'parse' subcommand that runs quick entries
// offline against a YAML category file and an in-memory sequence store.
func parseCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [message...]",
		Short: "Parses quick entries offline; reads stdin when no message is given",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			categoriesPath, _ := cmd.Flags().GetString("categories")
			user, _ := cmd.Flags().GetString("user")
			record, _ := cmd.Flags().GetBool("record")

			dir, err := directory.Load(categoriesPath)
			if err != nil {
				logger.Fatal(ctx, "could not load categories", zap.Error(err))
			}

			opts, err := quickentry.NewOptions(cfg)
			if err != nil {
				logger.Fatal(ctx, "invalid quick entry options", zap.Error(err))
			}
			opts.NotifyConfirmations = false

			svc, err := quickentry.New(memory.New(), dir, opts)
			if err != nil {
				logger.Fatal(ctx, "could not create quick entry service", zap.Error(err))
			}

			err = runParse(ctx, svc, domain.UserID(user), record, args, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				logger.Fatal(ctx, "could not parse messages", zap.Error(err))
			}
		},
	}

	cmd.Flags().String("categories", "categories.yml", "YAML category file")
	cmd.Flags().String("user", "cli", "User ID whose categories are used")
	cmd.Flags().Bool("record", false, "Allocate ids and record entries in memory instead of previewing")

	return cmd
}
