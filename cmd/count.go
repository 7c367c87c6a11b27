// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spyglass-cli/spyglass/internal/apperrors"
	"github.com/spyglass-cli/spyglass/internal/config"
	"github.com/spyglass-cli/spyglass/internal/domain"
	"github.com/spyglass-cli/spyglass/internal/gateway"
	"github.com/spyglass-cli/spyglass/internal/usecase"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Counts repositories matching topics/keywords within a date range",
	Long: `Counts GitHub repositories matching the given topics and/or keywords,
created within the given date range. By default all terms are combined into a
single OR-query; with --per-term each term is counted independently and the
per-term counts are summed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		topics, _ := cmd.Flags().GetStringSlice("topics")
		keywords, _ := cmd.Flags().GetStringSlice("keywords")
		perTerm, _ := cmd.Flags().GetBool("per-term")
		flagToken, _ := cmd.Flags().GetString("token")
		exact, _ := cmd.Flags().GetBool("exact")
		sleepSeconds, _ := cmd.Flags().GetFloat64("sleep")
		top, _ := cmd.Flags().GetBool("top")
		by, _ := cmd.Flags().GetString("by")
		jsonOut, _ := cmd.Flags().GetBool("json")
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("sleep") {
			sleepSeconds = cfg.Defaults.SleepSeconds
		}
		if !cmd.Flags().Changed("exact") && cfg.Defaults.Exact {
			exact = true
		}

		// Validate everything before the first remote call.
		if startStr == "" {
			return fmt.Errorf("%w: --start is required", apperrors.ErrInvalidDate)
		}
		if endStr == "" {
			return fmt.Errorf("%w: --end is required", apperrors.ErrInvalidDate)
		}
		dateRange, err := domain.ParseRange(startStr, endStr)
		if err != nil {
			return err
		}
		queryBase := usecase.BuildQuery(topics, keywords)
		if queryBase == "" {
			return fmt.Errorf("%w: provide at least one topic or keyword", apperrors.ErrNoSearchTerms)
		}
		if by != "" && by != "year" && by != "month" {
			return fmt.Errorf("invalid --by value %q (want year or month)", by)
		}

		token := cfg.ResolveToken(flagToken)
		if token == "" {
			logger.Println("No token configured; running at unauthenticated rate limits")
		}

		// Inject dependencies and run the main business logic.
		searcher, err := gateway.NewGitHubGateway(token, cfg.GitHub.APIEndpoint, cfg.GitHub.GraphQLEndpoint, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		sleep := time.Duration(sleepSeconds * float64(time.Second))
		counter := usecase.NewCounter(searcher, logger, sleep)

		report := &domain.Report{Range: dateRange.Clause(), Exact: exact}
		if perTerm {
			terms := usecase.Terms(topics, keywords)
			results, total, err := counter.CountTerms(ctx, terms, dateRange, exact)
			if err != nil {
				return err
			}
			if top {
				if err := counter.AttachTopRepositories(ctx, dateRange, results); err != nil {
					return err
				}
			}
			report.Terms = results
			report.Total = total
			if len(results) > 1 {
				counts := make([]int, len(results))
				for i, r := range results {
					counts[i] = r.Count
				}
				report.Summary = usecase.Summarize(counts)
			}
		} else {
			report.Query = queryBase
			total, err := counter.CountRange(ctx, queryBase, dateRange, exact)
			if err != nil {
				return err
			}
			report.Total = total
		}

		if by != "" {
			buckets, err := counter.CountBuckets(ctx, queryBase, dateRange, exact, by)
			if err != nil {
				return err
			}
			report.Buckets = buckets
			if len(buckets) > 1 {
				counts := make([]int, len(buckets))
				for i, b := range buckets {
					counts[i] = b.Count
				}
				report.Summary = usecase.Summarize(counts)
			}
		}

		return printReport(cmd.OutOrStdout(), report, perTerm, jsonOut)
	},
}

// printReport renders the report either as indented JSON or as the plain
// line-per-result format, with the total always on the last line.
func printReport(out io.Writer, report *domain.Report, perTerm, jsonOut bool) error {
	if jsonOut {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, t := range report.Terms {
		fmt.Fprintf(out, "%s: %d\n", t.Term, t.Count)
		if t.TopRepo != nil {
			fmt.Fprintf(out, "  top: %s (%d stars)\n", t.TopRepo.NameWithOwner, t.TopRepo.Stars)
		}
	}
	for _, b := range report.Buckets {
		fmt.Fprintf(out, "%s: %d\n", b.Label, b.Count)
	}
	if report.Summary != nil {
		fmt.Fprintf(out, "summary: mean=%.1f median=%.1f max=%.0f\n",
			report.Summary.Mean, report.Summary.Median, report.Summary.Max)
	}
	if perTerm {
		fmt.Fprintf(out, "TOTAL (sum of terms): %d\n", report.Total)
	} else {
		fmt.Fprintf(out, "TOTAL matching any provided topics/keywords: %d\n", report.Total)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	countCmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	countCmd.Flags().StringSlice("topics", nil, "GitHub topics to search")
	countCmd.Flags().StringSlice("keywords", nil, "Keywords to search in name/description/readme")
	countCmd.Flags().Bool("per-term", false, "Show counts per topic/keyword instead of one aggregate")
	countCmd.Flags().String("token", "", "GitHub token (defaults to $GITHUB_TOKEN)")
	countCmd.Flags().Bool("exact", false, "Compute exact counts by splitting capped date ranges (slower)")
	countCmd.Flags().Float64("sleep", 0, "Seconds to sleep between top-level API calls")
	countCmd.Flags().Bool("top", false, "Also fetch the most starred repository per term (with --per-term)")
	countCmd.Flags().String("by", "", "Also break the count down per calendar bucket: year or month")
	countCmd.Flags().Bool("json", false, "Output a JSON report instead of plain text")
	countCmd.Flags().String("config", "", "Path to config file")
}
