package fixCommand

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/t-kuni/resfix/domain/repository/config"
	"github.com/t-kuni/resfix/domain/service/dependencyFix"
	"github.com/t-kuni/resfix/domain/service/pathRepair"
	"github.com/t-kuni/resfix/domain/service/projectConfig"
)

type FixCommand struct {
	CobraCommand *cobra.Command
}

type flags struct {
	root     string
	dryRun   bool
	backup   bool
	noAtomic bool
	tieBreak string
}

func NewFixCommand(
	projectConfigService *projectConfig.ProjectConfigService,
	dependencyFixService *dependencyFix.DependencyFixService,
) *FixCommand {
	var f flags

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Fix broken resource paths",
		Long: `Scan the project for scene and import files whose resource paths point at files that no longer exist,
and rewrite them to the location of a file with the same name elsewhere in the project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, f, projectConfigService, dependencyFixService)
		},
	}

	cmd.Flags().StringVarP(&f.root, "root", "r", "", "Project root (defaults to $"+projectConfig.RootEnv+" or the nearest directory containing project.godot)")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show the changes without writing files")
	cmd.Flags().BoolVarP(&f.backup, "backup", "b", false, "Save the original content under .resfix/backup before rewriting")
	cmd.Flags().BoolVar(&f.noAtomic, "no-atomic", false, "Overwrite files in place instead of writing a temporary file and renaming it")
	cmd.Flags().StringVar(&f.tieBreak, "tie-break", config.TieBreakFirst, "What to do when several files share the missing file's name (first|skip)")

	return &FixCommand{
		CobraCommand: cmd,
	}
}

func runFix(
	cmd *cobra.Command,
	f flags,
	projectConfigService *projectConfig.ProjectConfigService,
	dependencyFixService *dependencyFix.DependencyFixService,
) error {
	project, err := projectConfigService.Load(f.root)
	if err != nil {
		return err
	}
	rootDir, cfg := project.RootDir, project.Config

	flagSet := cmd.Flags()
	if flagSet.Changed("backup") {
		cfg.Backup = f.backup
	}
	if flagSet.Changed("no-atomic") {
		cfg.AtomicWrite = !f.noAtomic
	}
	if flagSet.Changed("tie-break") {
		cfg.TieBreak = f.tieBreak
	}
	if cfg.TieBreak != config.TieBreakFirst && cfg.TieBreak != config.TieBreakSkip {
		return eris.Errorf("unsupported tie-break: %s", cfg.TieBreak)
	}

	report, err := dependencyFixService.FixBrokenDependencies(rootDir, dependencyFix.Options{
		Options: pathRepair.Options{
			DryRun:      f.dryRun,
			AtomicWrite: cfg.AtomicWrite,
			Backup:      cfg.Backup,
			TieBreak:    cfg.TieBreak,
		},
		Rules: project.Rules,
	})
	out := cmd.OutOrStdout()
	printUnresolved(out, report)
	if err != nil {
		return eris.Wrap(err, "failed to fix broken dependencies")
	}

	if f.dryRun {
		printDiffs(out, report)
	}
	printSummary(out, report, f.dryRun)

	return nil
}

func printUnresolved(out io.Writer, report dependencyFix.Report) {
	for _, u := range report.Unresolved() {
		fmt.Fprintln(out, u.Message())
	}
}

func printDiffs(out io.Writer, report dependencyFix.Report) {
	dmp := diffmatchpatch.New()
	for _, f := range report.Changed() {
		rel, err := filepath.Rel(report.RootDir, f.Path)
		if err != nil {
			rel = f.Path
		}
		fmt.Fprintf(out, "--- %s\n", filepath.ToSlash(rel))
		diffs := dmp.DiffMain(f.Original, f.Updated, false)
		fmt.Fprintln(out, dmp.DiffPrettyText(dmp.DiffCleanupSemantic(diffs)))
	}
}

func printSummary(out io.Writer, report dependencyFix.Report, dryRun bool) {
	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}
	fmt.Fprintf(out, "%s %d resource paths in %d files (%d files scanned, %d unresolved).\n",
		verb, report.Replacements(), len(report.Changed()), len(report.Files), len(report.Unresolved()))

	if report.BackupDir != "" {
		fmt.Fprintf(out, "Original files have been saved to %s\n", report.BackupDir)
	}
}
