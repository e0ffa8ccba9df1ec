// Package cli implements the docctl command line: rendering documents to
// disk and managing background jobs.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tradeflow/tradeflow/internal/app"
	"github.com/tradeflow/tradeflow/internal/docgen"
	"github.com/tradeflow/tradeflow/internal/documents"
	"github.com/tradeflow/tradeflow/jobs"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type documentRenderer interface {
	Render(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) (docgen.Document, error)
	Close()
}

type jobQueue interface {
	TriggerLicenseScan(ctx context.Context, day time.Time) (string, error)
	Archive(ctx context.Context, userID uuid.UUID, t documents.Type, id uuid.UUID) error
	InspectQueue(ctx context.Context) (jobs.QueueStats, error)
	Close() error
}

// App represents the CLI application.
type App struct {
	root         *cobra.Command
	stdout       io.Writer
	stderr       io.Writer
	openRenderer func(ctx context.Context) (documentRenderer, error)
	openQueue    func() (jobQueue, error)
}

// New creates a new CLI application.
func New() *App {
	a := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		openRenderer: func(ctx context.Context) (documentRenderer, error) {
			return NewRenderCLI(ctx)
		},
		openQueue: func() (jobQueue, error) {
			cfg, err := app.LoadConfig()
			if err != nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			return NewJobsCLI(cfg.RedisAddr)
		},
	}

	a.root = &cobra.Command{
		Use:           "docctl",
		Short:         "Render tradeflow documents and manage background jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.root.AddCommand(
		a.newVersionCmd(),
		a.newRenderCmd(),
		a.newJobsCmd(),
	)
	return a
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "docctl version %s (%s)\n", Version, GitCommit)
		},
	}
}

type documentRef struct {
	docType string
	id      string
	user    string
}

func (r *documentRef) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.docType, "type", "", "document type: estimate, invoice or contract")
	cmd.Flags().StringVar(&r.id, "id", "", "document id")
	cmd.Flags().StringVar(&r.user, "user", "", "owning user id")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("user")
}

func (r documentRef) parse() (uuid.UUID, documents.Type, uuid.UUID, error) {
	t, err := documents.ParseType(r.docType)
	if err != nil {
		return uuid.Nil, "", uuid.Nil, err
	}
	id, err := uuid.Parse(r.id)
	if err != nil {
		return uuid.Nil, "", uuid.Nil, fmt.Errorf("invalid --id: %w", err)
	}
	user, err := uuid.Parse(r.user)
	if err != nil {
		return uuid.Nil, "", uuid.Nil, fmt.Errorf("invalid --user: %w", err)
	}
	return user, t, id, nil
}

func (a *App) newRenderCmd() *cobra.Command {
	var ref documentRef
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a document to a PDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, t, id, err := ref.parse()
			if err != nil {
				return err
			}
			r, err := a.openRenderer(cmd.Context())
			if err != nil {
				return err
			}
			defer r.Close()

			doc, err := r.Render(cmd.Context(), user, t, id)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = doc.Name
			} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				path = filepath.Join(path, doc.Name)
			}
			if err := os.WriteFile(path, doc.PDF, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(a.stdout, "wrote %s (%d pages, %d bytes)\n", path, doc.Pages, len(doc.PDF))
			return nil
		},
	}
	ref.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (default: {type}-{id}.pdf)")
	return cmd
}

func (a *App) newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage background jobs",
	}
	cmd.AddCommand(a.newLicenseScanCmd(), a.newArchiveCmd(), a.newStatsCmd())
	return cmd
}

func (a *App) withQueue(fn func(q jobQueue) error) error {
	q, err := a.openQueue()
	if err != nil {
		return err
	}
	defer func() {
		_ = q.Close()
	}()
	return fn(q)
}

func (a *App) newLicenseScanCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "license-scan",
		Short: "Enqueue a license expiration scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				day = d
			}
			return a.withQueue(func(q jobQueue) error {
				taskID, err := q.TriggerLicenseScan(cmd.Context(), day)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "enqueued %s task %s\n", jobs.TaskLicenseScan, taskID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "scan as of this date (YYYY-MM-DD, default today)")
	return cmd
}

func (a *App) newArchiveCmd() *cobra.Command {
	var ref documentRef
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Enqueue rendering and archiving of a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, t, id, err := ref.parse()
			if err != nil {
				return err
			}
			return a.withQueue(func(q jobQueue) error {
				if err := q.Archive(cmd.Context(), user, t, id); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "enqueued %s for %s\n", jobs.TaskPDFArchive, t.FileName(id))
				return nil
			})
		},
	}
	ref.bind(cmd)
	return cmd
}

func (a *App) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show default queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withQueue(func(q jobQueue) error {
				s, err := q.InspectQueue(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "queue=%s pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
					s.Queue, s.Pending, s.Active, s.Scheduled, s.Retry, s.Failed)
				return nil
			})
		},
	}
}
