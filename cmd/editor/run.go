package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/percenty/edit-agent/internal/account"
	"github.com/percenty/edit-agent/internal/batch"
	"github.com/percenty/edit-agent/internal/browser"
	"github.com/percenty/edit-agent/internal/db"
	"github.com/percenty/edit-agent/internal/editor"
	"github.com/percenty/edit-agent/internal/flow"
	"github.com/percenty/edit-agent/internal/reporter"
	"github.com/percenty/edit-agent/internal/selector"
)

var (
	// Shared run flags
	loginID  string
	quota    int
	headless bool
)

var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Run the single-original edit flow",
	Long: `Process the staging group product by product: capture the memo,
inject it into the detail HTML, cap detail images, suffix the title with
the next rotation letter, and route each product by its content total.`,
	RunE: runSingle,
}

var fanoutCmd = &cobra.Command{
	Use:   "fanout",
	Short: "Run the clone-fanout edit flow",
	Long: `Fan each staging product out into four marketplace siblings: the
product is isolated in the wait group, cloned three times, and every
sibling gets its shop suffix, discount rate, and lead thumbnail before
being routed to its shop group.`,
	RunE: runFanout,
}

func init() {
	for _, cmd := range []*cobra.Command{singleCmd, fanoutCmd} {
		cmd.Flags().StringVarP(&loginID, "login", "l", "", "Account login id (required)")
		cmd.Flags().IntVarP(&quota, "quota", "q", 0, "Stop after this many products (0 = until empty)")
		cmd.Flags().BoolVar(&headless, "headless", false, "Run browser in headless mode")
		cmd.MarkFlagRequired("login")
	}
}

func runSingle(cmd *cobra.Command, args []string) error {
	return run("single_original", func(ed *editor.Editor, cfg *Config) (batch.Pipeline, error) {
		cursor := &editor.SuffixCursor{}
		return &batch.SinglePipeline{
			Ed:           editor.NewSingleEditor(ed, cursor),
			StagingGroup: cfg.Groups.Staging,
		}, nil
	})
}

func runFanout(cmd *cobra.Command, args []string) error {
	return run("clone_fanout", func(ed *editor.Editor, cfg *Config) (batch.Pipeline, error) {
		if cfg.AccountFile == "" {
			return nil, fmt.Errorf("fanout requires account_file in config (the suffix workbook)")
		}
		table, err := account.Load(cfg.AccountFile, loginID)
		if err != nil {
			return nil, err
		}
		acct, ok := table.Get(loginID)
		if !ok {
			return nil, fmt.Errorf("login id %q not found in %s", loginID, cfg.AccountFile)
		}
		return &batch.FanoutPipeline{
			Ed:           editor.NewFanoutEditor(ed, editor.AccountSuffixes(acct.Suffixes), &editor.BatchCounter{}),
			StagingGroup: cfg.Groups.Staging3,
		}, nil
	})
}

// multiRecorder fans product outcomes out to the report builder and the
// run database.
type multiRecorder struct {
	builder *reporter.Builder
	store   *db.Database
	runID   string
}

func (m *multiRecorder) RecordProduct(pipeline string, out editor.Outcome, err error) {
	m.builder.RecordProduct(pipeline, out, err)
	rec := db.ProductRecord{
		RunID:         m.runID,
		Title:         out.Title,
		Destination:   out.Destination,
		Deleted:       out.Deleted,
		NameConflicts: out.NameConflicts,
		ImageCount:    out.Session.DetailImageCount,
		OptionCount:   out.Session.OptionCount,
	}
	if err != nil {
		rec.ErrorText = err.Error()
		rec.ErrorCategory = string(flow.CategoryOf(err))
	}
	if insertErr := m.store.InsertProduct(rec); insertErr != nil {
		log.Printf("[Run] Product record insert failed: %v", insertErr)
	}
}

func run(pipelineName string, build func(*editor.Editor, *Config) (batch.Pipeline, error)) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if headless {
		cfg.Headless = true
	}
	if err := EnsureOutputDir(cfg.OutputDir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Percenty edit agent v%s\n", version)
	fmt.Printf("  Pipeline: %s\n", pipelineName)
	fmt.Printf("  Login: %s\n", loginID)
	fmt.Printf("  Quota: %d\n", quota)
	fmt.Println()

	mgr, err := browser.NewManager(cfg.Headless)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer mgr.Close()

	if err := mgr.OpenGroupManagement(); err != nil {
		return fmt.Errorf("failed to open group management: %w", err)
	}

	registry := selector.Default()
	ed := editor.New(mgr, registry, editor.Config{
		GroupNames:      cfg.Groups,
		ImageCap:        cfg.ImageCap,
		ContentTotalMax: cfg.ContentTotalMax,
		DuplicatePhrase: cfg.DuplicatePhrase,
	})

	pipeline, err := build(ed, cfg)
	if err != nil {
		return err
	}

	store, err := db.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	builder := reporter.NewBuilder(loginID)
	if err := store.CreateRun(builder.RunID(), pipelineName, loginID); err != nil {
		return fmt.Errorf("failed to create run record: %w", err)
	}

	driver := batch.NewDriver(ed.Groups(), &multiRecorder{builder: builder, store: store, runID: builder.RunID()}, batch.DriverConfig{
		Quota:       quota,
		MaxFailures: cfg.MaxFailures,
		Discard:     cfg.Groups.Discard,
		BudgetMin:   cfg.BudgetMin,
		BudgetMax:   cfg.BudgetMax,
	})

	result := driver.Run(ctx, pipeline)

	if err := store.FinishRun(builder.RunID(), result.Succeeded, result.Failed, result.TerminationReason); err != nil {
		log.Printf("[Run] Run record finish failed: %v", err)
	}

	if _, err := os.Stat(editor.PageDumpFile); err == nil {
		builder.AddPageDump(editor.PageDumpFile)
	}

	report := builder.Build(result.Succeeded, result.Failed, result.TerminationReason)
	reportPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("report_%s.json", builder.RunID()[:8]))
	if err := report.SaveToFile(reportPath); err != nil {
		log.Printf("[Run] Report save failed: %v", err)
	} else {
		fmt.Printf("Report saved to %s\n", reportPath)
	}

	if cfg.UploadReport {
		uploader, err := reporter.NewS3Uploader(cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("[Run] S3 uploader unavailable: %v", err)
		} else if err := uploader.UploadReportWithArtifacts(context.Background(), report); err != nil {
			log.Printf("[Run] Report upload failed: %v", err)
		} else {
			fmt.Printf("Report uploaded to %s\n", uploader.GetReportURL(report.RunID))
		}
	}

	out, _ := json.Marshal(result)
	fmt.Println(string(out))

	if result.TerminationReason == batch.ReasonModalStuck {
		return fmt.Errorf("run aborted: browser state unrecoverable")
	}
	return nil
}
