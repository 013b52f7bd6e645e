package cfg

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"

	"mediadl/internal/app"
	"mediadl/internal/domain/consts"
	"mediadl/internal/domain/keys"
	"mediadl/internal/file"
	"mediadl/internal/ledger"
	"mediadl/internal/menu"
	"mediadl/internal/utils/logging"

	"github.com/spf13/cobra"
)

// initFailedCmds is the entrypoint for initializing failure ledger commands.
func initFailedCmds(ctx context.Context, a *app.App) *cobra.Command {
	failedCmd := &cobra.Command{
		Use:   "failed",
		Short: "Failed download commands.",
		Long:  "List, retry, and clear downloads recorded as failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("please specify a subcommand. Use --help to see available subcommands")
		},
	}

	failedCmd.AddCommand(listFailedCmd(ctx, a))
	failedCmd.AddCommand(retryFailedCmd(ctx, a))
	failedCmd.AddCommand(removeFailedCmd(ctx, a))
	failedCmd.AddCommand(clearFailedCmd(ctx, a))
	failedCmd.AddCommand(exportFailedCmd(ctx, a))
	return failedCmd
}

// listFailedCmd prints the ledger.
func listFailedCmd(ctx context.Context, a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List failed downloads.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Open(); err != nil {
				return err
			}

			entries, err := a.Ledger().List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No failed downloads.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODE\tATTEMPTS\tFAILED AT\tURL\tREASON")
			for _, fj := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d/%d\t%s\t%s\t%s\n",
					fj.ID, fj.Label(), fj.Attempts, a.Ledger().MaxAttempts(),
					fj.FailedAt.Local().Format(consts.TimeFormatLedger), fj.URL, fj.Reason)
			}
			return w.Flush()
		},
	}
}

// retryFailedCmd resubmits ledger entries by ID, or all of them.
func retryFailedCmd(ctx context.Context, a *app.App) *cobra.Command {
	var all bool

	retryCmd := &cobra.Command{
		Use:   "retry [ID...]",
		Short: "Retry failed downloads.",
		Long:  "Retry the failed downloads with the given IDs (see 'failed list'), or every entry with --all.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("must enter at least one ID or --all")
			}
			if all && len(args) > 0 {
				return errors.New("cannot combine IDs with --all")
			}

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.PrepareDownloads(); err != nil {
				return err
			}

			l := a.Ledger()
			var report *ledger.RetryReport
			if all {
				report, err = l.RetryAll(ctx, a.Runner())
			} else {
				report, err = l.Retry(ctx, a.Runner(), ids...)
			}
			menu.PrintRetryReport(cmd.OutOrStdout(), report)
			if err != nil {
				return err
			}
			if report != nil && len(report.Failed) > 0 {
				return fmt.Errorf("%w: %d still failing", app.ErrDownloadsFailed, len(report.Failed))
			}
			return nil
		},
	}
	retryCmd.Flags().BoolVar(&all, keys.RetryAll, false, "Retry every failed download")
	return retryCmd
}

// removeFailedCmd deletes ledger entries by ID.
func removeFailedCmd(ctx context.Context, a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID...",
		Short: "Remove failed downloads from the ledger without retrying them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.Open(); err != nil {
				return err
			}

			for _, id := range ids {
				if err := a.Ledger().Remove(ctx, id); err != nil {
					return err
				}
				logging.S("Removed failed download %d", id)
			}
			return nil
		},
	}
}

// clearFailedCmd empties the ledger.
func clearFailedCmd(ctx context.Context, a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all failed downloads from the ledger.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Open(); err != nil {
				return err
			}

			n, err := a.Ledger().Clear(ctx)
			if err != nil {
				return err
			}
			logging.S("Cleared %d failed download(s)", n)
			return nil
		},
	}
}

// exportFailedCmd appends the ledger's URLs to a batch file usable with 'get --batch-file'.
func exportFailedCmd(ctx context.Context, a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Append the URLs of failed downloads to a batch file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Open(); err != nil {
				return err
			}

			entries, err := a.Ledger().List(ctx)
			if err != nil {
				return err
			}
			urls := make([]string, 0, len(entries))
			for _, fj := range entries {
				urls = append(urls, fj.URL)
			}

			n, err := file.AppendURLsToFile(args[0], urls)
			if err != nil {
				return err
			}
			logging.S("Wrote %d URL(s) to %q", n, args[0])
			return nil
		},
	}
}

// parseIDs converts ledger ID arguments, dropping repeats.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid ID %q", arg)
		}
		if slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
