package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghrecap/ghrecap/config"
	"github.com/ghrecap/ghrecap/internal/classify"
	"github.com/ghrecap/ghrecap/internal/ghclient"
	"github.com/ghrecap/ghrecap/internal/log"
	"github.com/ghrecap/ghrecap/internal/output"
	"github.com/ghrecap/ghrecap/internal/summary"
)

const dateLayout = "2006-01-02"

// NewCmdSummary creates the summary command.
func NewCmdSummary(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize recent activity (same as root ghrecap)",
		Long: `Fetches recent activity for the given users and groups it into
categories: PRs opened/updated/reviewed/merged/closed, issues
opened/updated/closed, commits pushed, and other activity.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, opts)
		},
	}

	addSummaryFlags(cmd, opts)
	return cmd
}

// addSummaryFlags adds the summary-specific flags to a command.
func addSummaryFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringSliceVarP(&opts.Users, "user", "u", nil, "GitHub username to summarize (repeatable)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Window end date (YYYY-MM-DD), included in full")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "Summarize the last N days (ignored with --from/--to)")
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().IntVar(&opts.MaxPages, "pages", 0, "Activity feed pages to fetch per user")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
}

func runSummary(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	token := cfg.GetGitHubToken()
	if token == "" {
		return fmt.Errorf("GitHub token not configured. Set the GITHUB_TOKEN environment variable")
	}

	client, err := ghclient.NewClient(ctx, token,
		ghclient.WithEnrichDelay(time.Duration(cfg.EnrichDelayMS)*time.Millisecond))
	if err != nil {
		return err
	}

	usernames := opts.Users
	if len(usernames) == 0 {
		usernames = cfg.Usernames
	}
	if len(usernames) == 0 {
		user, err := client.AuthenticatedUser(ctx)
		if err != nil {
			return fmt.Errorf("no usernames given and could not resolve the authenticated user: %w", err)
		}
		log.Debug("defaulting to authenticated user", "user", user)
		usernames = []string{user}
	}

	window, err := resolveWindow(opts, cfg)
	if err != nil {
		return err
	}
	log.Debug("summary window", "from", window.Start.Format(dateLayout), "to", window.End.Format(dateLayout))

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = cfg.MaxEventPages
	}

	result, err := summary.Build(ctx, client, ghclient.NewDetailCache(), summary.Options{
		Usernames:     usernames,
		Window:        window,
		MaxEventPages: maxPages,
	})
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		format = cfg.DefaultFormat
	}

	return output.NewFormatter(output.Format(format)).Format(result, os.Stdout)
}

// resolveWindow turns the date flags into a window. Explicit --from/--to win;
// otherwise the window covers the last N days up to today, inclusive.
func resolveWindow(opts *Options, cfg *config.Config) (classify.Window, error) {
	if opts.From != "" || opts.To != "" {
		var start, end time.Time
		var err error
		if opts.From != "" {
			start, err = time.Parse(dateLayout, opts.From)
			if err != nil {
				return classify.Window{}, fmt.Errorf("invalid --from date %q: %w", opts.From, err)
			}
		}
		if opts.To != "" {
			end, err = time.Parse(dateLayout, opts.To)
			if err != nil {
				return classify.Window{}, fmt.Errorf("invalid --to date %q: %w", opts.To, err)
			}
		}
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return classify.Window{}, fmt.Errorf("--to date %s is before --from date %s", opts.To, opts.From)
		}
		return classify.NewWindow(start, end), nil
	}

	days := opts.Days
	if days <= 0 {
		days = cfg.WindowDays
	}
	end := time.Now()
	start := end.AddDate(0, 0, -(days - 1))
	return classify.NewWindow(start, end), nil
}
