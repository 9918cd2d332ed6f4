package dependencyFix

import (
	"path/filepath"

	"github.com/t-kuni/resfix/domain/model/failure"
	"github.com/t-kuni/resfix/domain/model/reference"
	"github.com/t-kuni/resfix/domain/service/backup"
	"github.com/t-kuni/resfix/domain/service/pathRepair"
	"github.com/t-kuni/resfix/domain/service/projectScan"
	"github.com/t-kuni/resfix/domain/service/resourceLocate"
)

type Options struct {
	pathRepair.Options
	Rules reference.Rules
}

type Report struct {
	RootDir   string
	BackupDir string
	Files     []pathRepair.FileResult
}

func (r Report) Changed() []pathRepair.FileResult {
	var changed []pathRepair.FileResult
	for _, f := range r.Files {
		if f.Changed() {
			changed = append(changed, f)
		}
	}
	return changed
}

func (r Report) Replacements() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Replacements)
	}
	return n
}

func (r Report) Unresolved() []failure.UnresolvedReference {
	var unresolved []failure.UnresolvedReference
	for _, f := range r.Files {
		unresolved = append(unresolved, f.Unresolved...)
	}
	return unresolved
}

type DependencyFixService struct {
	projectScanService    *projectScan.ProjectScanService
	resourceLocateService *resourceLocate.ResourceLocateService
	pathRepairService     *pathRepair.PathRepairService
	backupService         *backup.BackupService
}

func NewDependencyFixService(
	projectScanService *projectScan.ProjectScanService,
	resourceLocateService *resourceLocate.ResourceLocateService,
	pathRepairService *pathRepair.PathRepairService,
	backupService *backup.BackupService,
) *DependencyFixService {
	return &DependencyFixService{
		projectScanService:    projectScanService,
		resourceLocateService: resourceLocateService,
		pathRepairService:     pathRepairService,
		backupService:         backupService,
	}
}

// FixBrokenDependencies walks rootDir and repairs every file that has a rule.
// It stops at the first I/O failure; files written before that stay written.
func (s *DependencyFixService) FixBrokenDependencies(rootDir string, opts Options) (Report, error) {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return Report{}, err
	}

	rules := opts.Rules
	if len(rules) == 0 {
		rules = reference.DefaultRules()
	}

	s.resourceLocateService.Reset()
	s.backupService.Begin()

	report := Report{RootDir: rootDir}
	err = s.projectScanService.Scan(rootDir, func(path string) error {
		rule, ok := rules.Lookup(filepath.Base(path))
		if !ok {
			return nil
		}

		result, err := s.pathRepairService.Repair(rootDir, path, rule, opts.Options)
		if err != nil {
			return err
		}
		report.Files = append(report.Files, result)
		return nil
	})
	report.BackupDir = s.backupService.RunDir()
	if err != nil {
		return report, err
	}

	return report, nil
}
