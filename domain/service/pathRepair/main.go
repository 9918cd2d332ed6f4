package pathRepair

import (
	"path/filepath"
	"strings"

	"github.com/t-kuni/resfix/domain/model/failure"
	"github.com/t-kuni/resfix/domain/model/reference"
	"github.com/t-kuni/resfix/domain/repository/config"
	"github.com/t-kuni/resfix/domain/repository/file"
	"github.com/t-kuni/resfix/domain/service/backup"
	"github.com/t-kuni/resfix/domain/service/resPath"
	"github.com/t-kuni/resfix/domain/service/resourceLocate"
)

type Options struct {
	DryRun      bool
	AtomicWrite bool
	Backup      bool
	TieBreak    string
}

type Replacement struct {
	Old string
	New string
}

type FileResult struct {
	Path         string
	Original     string
	Updated      string
	Replacements []Replacement
	Unresolved   []failure.UnresolvedReference
}

func (r FileResult) Changed() bool {
	return r.Original != r.Updated
}

type PathRepairService struct {
	fileRepository        file.Repository
	resourceLocateService *resourceLocate.ResourceLocateService
	backupService         *backup.BackupService
}

func NewPathRepairService(
	fileRepository file.Repository,
	resourceLocateService *resourceLocate.ResourceLocateService,
	backupService *backup.BackupService,
) *PathRepairService {
	return &PathRepairService{
		fileRepository:        fileRepository,
		resourceLocateService: resourceLocateService,
		backupService:         backupService,
	}
}

// Repair rewrites the broken references of one file matched by rule.
// References that already resolve are left as they are, so running it twice changes nothing the second time.
// The file is written back even when nothing was replaced, unless opts.DryRun is set.
func (s *PathRepairService) Repair(rootDir string, filePath string, rule reference.Rule, opts Options) (FileResult, error) {
	content, err := s.fileRepository.Read(filePath)
	if err != nil {
		return FileResult{}, failure.NewIoError("read", filePath, err)
	}

	text := string(content)
	result := FileResult{
		Path:     filePath,
		Original: text,
	}
	paths := resPath.NewResPathService(rootDir)

	for _, oldPath := range rule.Extract(text) {
		// 前の置換で一緒に書き換わった参照
		if !strings.Contains(text, oldPath) {
			continue
		}

		realPath, ok := paths.Globalize(oldPath)
		if !ok || s.fileRepository.Exists(realPath) {
			continue
		}

		baseName := reference.BaseName(oldPath)
		candidates, err := s.resourceLocateService.Find(rootDir, baseName)
		if err != nil {
			return FileResult{}, err
		}

		if len(candidates) == 0 || (len(candidates) > 1 && opts.TieBreak == config.TieBreakSkip) {
			unresolved := failure.UnresolvedReference{
				File:    filepath.Base(filePath),
				Missing: baseName,
			}
			for _, c := range candidates {
				unresolved.Candidates = append(unresolved.Candidates, paths.Localize(c))
			}
			result.Unresolved = append(result.Unresolved, unresolved)
			continue
		}

		newPath := paths.Localize(candidates[0])
		text = strings.ReplaceAll(text, oldPath, newPath)
		result.Replacements = append(result.Replacements, Replacement{Old: oldPath, New: newPath})
	}

	result.Updated = text

	if opts.DryRun {
		return result, nil
	}

	if opts.Backup && result.Changed() {
		if err := s.backupService.Save(rootDir, filePath, content); err != nil {
			return FileResult{}, err
		}
	}

	if opts.AtomicWrite {
		err = s.fileRepository.WriteAtomic(filePath, []byte(text))
	} else {
		err = s.fileRepository.Write(filePath, []byte(text))
	}
	if err != nil {
		return FileResult{}, failure.NewIoError("write", filePath, err)
	}

	return result, nil
}
