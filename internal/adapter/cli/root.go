package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prguardian/prguardian/internal/adapter/github"
	"github.com/prguardian/prguardian/internal/usecase/audit"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ErrAborted indicates the user declined the confirmation prompt.
var ErrAborted = errors.New("aborted")

// PullRequestAuditor defines the dependency required to run the audit and
// preview commands.
type PullRequestAuditor interface {
	AuditPullRequest(ctx context.Context, req audit.Request) (audit.Result, error)
	PreviewDiff(ctx context.Context, diffText string) (audit.Result, error)
}

// LocalDiffer produces diffs from a local repository for preview runs.
type LocalDiffer interface {
	LocalDiff(ctx context.Context, baseRef, targetRef string) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
}

// HistoryLister reads back the audit history.
type HistoryLister interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Record, error)
}

// Arguments encapsulates IO injected from the host process.
type Arguments struct {
	InReader  io.Reader
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI. History and Differ
// may be nil; the corresponding commands then report the feature as
// unavailable.
type Dependencies struct {
	Auditor PullRequestAuditor
	Differ  LocalDiffer
	History HistoryLister
	Args    Arguments

	DefaultOwner string
	DefaultRepo  string

	// Interactive enables the confirmation prompt before posting.
	Interactive bool

	Version string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "prguardian",
		Short: "LLM-backed pull request review bot",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	inReader := deps.Args.InReader
	if inReader == nil {
		inReader = os.Stdin
	}
	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(auditCommand(deps, inReader))
	root.AddCommand(previewCommand(deps))
	root.AddCommand(historyCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func auditCommand(deps Dependencies, inReader io.Reader) *cobra.Command {
	var owner string
	var repo string
	var pullNumber int
	var event string
	var dryRun bool
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "audit [pull-number]",
		Short: "Review a pull request and post inline comments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Auditor == nil {
				return fmt.Errorf("no analyzer configured; enable a provider in the configuration")
			}
			if len(args) > 0 {
				parsed, err := parsePullNumber(args[0])
				if err != nil {
					return err
				}
				pullNumber = parsed
			}
			if owner == "" || repo == "" {
				return fmt.Errorf("--owner and --repo are required (or set github.owner and github.repo in the configuration)")
			}
			if pullNumber <= 0 {
				return fmt.Errorf("pull request number must be a positive integer; pass as an argument or use --pr")
			}

			var overrideEvent github.ReviewEvent
			if event != "" {
				parsed, err := audit.ParseEventAction(event)
				if err != nil {
					return err
				}
				overrideEvent = parsed
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !dryRun && deps.Interactive && !assumeYes {
				ok, err := confirm(inReader, out, fmt.Sprintf("Post review to %s/%s#%d?", owner, repo, pullNumber))
				if err != nil {
					return err
				}
				if !ok {
					return ErrAborted
				}
			}

			result, err := deps.Auditor.AuditPullRequest(ctx, audit.Request{
				Owner:         owner,
				Repo:          repo,
				PullNumber:    pullNumber,
				OverrideEvent: overrideEvent,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}

			renderResult(out, result, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", deps.DefaultOwner, "Repository owner")
	cmd.Flags().StringVar(&repo, "repo", deps.DefaultRepo, "Repository name")
	cmd.Flags().IntVar(&pullNumber, "pr", 0, "Pull request number (overrides positional)")
	cmd.Flags().StringVar(&event, "event", "", "Review event override (approve, comment, request_changes)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Analyze and translate without posting the review")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func previewCommand(deps Dependencies) *cobra.Command {
	var baseRef string
	var targetRef string
	var detectTarget bool

	cmd := &cobra.Command{
		Use:   "preview [target]",
		Short: "Review a local branch diff without posting anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Auditor == nil {
				return fmt.Errorf("no analyzer configured; enable a provider in the configuration")
			}
			if deps.Differ == nil {
				return fmt.Errorf("no local repository configured; set git.repositoryDir in the configuration")
			}
			if len(args) > 0 {
				targetRef = args[0]
			}
			ctx := cmd.Context()
			if targetRef == "" && detectTarget {
				resolved, err := deps.Differ.CurrentBranch(ctx)
				if err != nil {
					return fmt.Errorf("detect target branch: %w", err)
				}
				targetRef = resolved
			}
			if targetRef == "" {
				return fmt.Errorf("target branch not specified; pass as an argument, use --target, or enable --detect-target")
			}

			diffText, err := deps.Differ.LocalDiff(ctx, baseRef, targetRef)
			if err != nil {
				return err
			}

			result, err := deps.Auditor.PreviewDiff(ctx, diffText)
			if err != nil {
				return err
			}

			renderResult(cmd.OutOrStdout(), result, true)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseRef, "base", "main", "Base reference to diff against")
	cmd.Flags().StringVar(&targetRef, "target", "", "Target branch to review (overrides positional)")
	cmd.Flags().BoolVar(&detectTarget, "detect-target", true, "Automatically detect the checked out branch when no target is provided")

	return cmd
}

func historyCommand(deps Dependencies) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently posted reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.History == nil {
				return fmt.Errorf("audit history is disabled; enable store in the configuration")
			}

			records, err := deps.History.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "no audits recorded yet")
				return nil
			}
			for _, rec := range records {
				fmt.Fprintf(out, "%s  %s/%s#%d  review=%d  event=%s  provider=%s/%s  posted=%d skipped=%d\n",
					rec.CreatedAt.Format("2006-01-02 15:04:05"),
					rec.Owner, rec.Repo, rec.PullNumber,
					rec.ReviewID, rec.Event, rec.Provider, rec.Model,
					rec.CommentsPosted, rec.CommentsSkipped)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of audits to show")

	return cmd
}

func renderResult(out io.Writer, result audit.Result, dryRun bool) {
	fmt.Fprintf(out, "provider: %s (%s)\n", result.Provider, result.Model)
	fmt.Fprintf(out, "findings: %d (%d skipped)\n", result.FindingsTotal, result.CommentsSkipped)
	if result.Event != "" {
		fmt.Fprintf(out, "event: %s\n", result.Event)
	}

	for _, comment := range result.Comments {
		fmt.Fprintf(out, "  %s@%d: %s\n", comment.Path, comment.Position, comment.Body)
	}

	switch {
	case result.Submitted:
		fmt.Fprintf(out, "review %d submitted: %s\n", result.ReviewID, result.HTMLURL)
	case dryRun:
		fmt.Fprintln(out, "dry run, nothing submitted")
	default:
		fmt.Fprintln(out, "nothing to submit")
	}
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func parsePullNumber(arg string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid pull request number %q", arg)
	}
	return n, nil
}
