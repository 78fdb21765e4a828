package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
	"github.com/piyushranjan2301/ITC27/internal/report"
	"github.com/piyushranjan2301/ITC27/internal/results"
	"github.com/piyushranjan2301/ITC27/internal/tools"
)

var errNotConfirmed = errors.New("wipe not confirmed; pass --yes to skip the prompt")

// printMarkdown writes md to stdout, rendered for the terminal with --pretty.
func printMarkdown(cmd *cobra.Command, md string) error {
	if !pretty {
		_, err := fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// withStore opens the results store for the duration of fn.
func withStore(fn func(*results.SQLiteStore) error) error {
	store, err := results.New(cfg.Results())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing results store", zap.Error(err))
		}
	}()
	return fn(store)
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate statistics of stored results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *results.SQLiteStore) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				st := report.Compute(list)
				if st.Total == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No results stored yet.")
					return nil
				}
				return printMarkdown(cmd, "# Survey Statistics\n\n"+tools.FormatStats(st))
			})
		},
	}
}

func leaderboardCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print stored results ranked by points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			return withStore(func(store *results.SQLiteStore) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				entries := report.Leaderboard(list, limit)
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No results stored yet.")
					return nil
				}
				return printMarkdown(cmd, "# Leaderboard\n\n"+tools.FormatLeaderboard(entries))
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", tools.DefaultLeaderboardLimit, "rows to print (0 for all)")
	return cmd
}

func resultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <pno>",
		Short: "Print the stored result of an employee number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			return withStore(func(store *results.SQLiteStore) error {
				res, err := store.FetchByIdentity(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if res == nil {
					return fmt.Errorf("no result stored for employee %q", args[0])
				}
				return printMarkdown(cmd, tools.FormatResult(cat, res, cfg.Language()))
			})
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pno>",
		Short: "Delete the stored result of an employee number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pno := strings.TrimSpace(args[0])
			return withStore(func(store *results.SQLiteStore) error {
				if err := store.Delete(cmd.Context(), pno); err != nil {
					return err
				}
				logger.Warn("result deleted", zap.String("pno", pno))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted result of %s.\n", pno)
				return nil
			})
		},
	}
}

func wipeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every stored result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.ErrOrStderr(), "Delete ALL stored results? Type 'yes' to confirm: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(line) != "yes" {
					return errNotConfirmed
				}
			}
			return withStore(func(store *results.SQLiteStore) error {
				n, err := store.Wipe(cmd.Context())
				if err != nil {
					return err
				}
				logger.Warn("results wiped", zap.Int64("count", n))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d results.\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
