package backup

import (
	"path/filepath"

	"github.com/t-kuni/resfix/domain/model/failure"
	"github.com/t-kuni/resfix/domain/repository/file"
	"github.com/t-kuni/resfix/domain/service/projectScan"
	"github.com/t-kuni/resfix/domain/system/ksuid"
	"github.com/t-kuni/resfix/domain/system/timer"
)

const timestampLayout = "20060102T150405"

// BackupService 書き換える前の内容を .resfix/backup/<実行ID>/ 以下にプロジェクトと同じ構成で保存する
type BackupService struct {
	fileRepository file.Repository
	ksuid          ksuid.IKsuid
	timer          timer.ITimer
	runDir         string
}

func NewBackupService(fileRepository file.Repository, ksuid ksuid.IKsuid, timer timer.ITimer) *BackupService {
	return &BackupService{
		fileRepository: fileRepository,
		ksuid:          ksuid,
		timer:          timer,
	}
}

// Begin starts a new run. The run directory is created on the first Save.
func (s *BackupService) Begin() {
	s.runDir = ""
}

// RunDir is empty when nothing has been saved in the current run.
func (s *BackupService) RunDir() string {
	return s.runDir
}

func (s *BackupService) Save(rootDir string, filePath string, content []byte) error {
	if s.runDir == "" {
		runDir, err := s.createRunDir(rootDir)
		if err != nil {
			return err
		}
		s.runDir = runDir
	}

	rel, err := filepath.Rel(rootDir, filePath)
	if err != nil {
		return failure.NewIoError("backup", filePath, err)
	}

	dest := filepath.Join(s.runDir, rel)
	if err := s.fileRepository.Write(dest, content); err != nil {
		return failure.NewIoError("backup", dest, err)
	}
	return nil
}

func (s *BackupService) createRunDir(rootDir string) (string, error) {
	runDir := filepath.Join(rootDir, projectScan.StateDir, "backup", s.ksuid.New())
	if err := s.fileRepository.MkdirAll(runDir); err != nil {
		return "", failure.NewIoError("mkdir", runDir, err)
	}

	timeFile := filepath.Join(runDir, s.timer.Now().Format(timestampLayout))
	if err := s.fileRepository.Write(timeFile, []byte{}); err != nil {
		return "", failure.NewIoError("backup", timeFile, err)
	}

	return runDir, nil
}
