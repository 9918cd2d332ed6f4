package cmd

import (
	"github.com/spf13/cobra"
	"github.com/t-kuni/resfix/cmd/depsGraphCommand"
	"github.com/t-kuni/resfix/cmd/fixCommand"
	"github.com/t-kuni/resfix/cmd/initCommand"
	"github.com/t-kuni/resfix/cmd/versionCommand"
	"github.com/t-kuni/resfix/domain/service/backup"
	"github.com/t-kuni/resfix/domain/service/dependencyFix"
	"github.com/t-kuni/resfix/domain/service/pathRepair"
	"github.com/t-kuni/resfix/domain/service/projectConfig"
	"github.com/t-kuni/resfix/domain/service/projectFindService"
	"github.com/t-kuni/resfix/domain/service/projectScan"
	"github.com/t-kuni/resfix/domain/service/resourceLocate"
	configRepo "github.com/t-kuni/resfix/infrastructure/repository/config"
	depsGraphRepo "github.com/t-kuni/resfix/infrastructure/repository/depsGraph"
	fileRepo "github.com/t-kuni/resfix/infrastructure/repository/file"
	"github.com/t-kuni/resfix/infrastructure/system/ksuid"
	"github.com/t-kuni/resfix/infrastructure/system/timer"
)

type RootCommand struct {
	CobraCommand *cobra.Command
}

func NewRootCommand() *RootCommand {
	cmd := &cobra.Command{
		Use:   "resfix",
		Short: "A tool for fixing broken resource paths in Godot projects",
		Long: `Resfix is a command-line tool that repairs res:// paths in scene and import files
after the referenced files have been moved inside a Godot project.`,
		SilenceUsage: true,
	}

	fileRepository := fileRepo.NewFileRepository()
	configRepository := configRepo.NewConfigRepository()
	depsGraphRepository := depsGraphRepo.NewRepository(fileRepository)
	timerSys := timer.NewTimer()
	ksuidSys := ksuid.NewKsuidGenerator(timerSys)

	projectFindSrv := projectFindService.NewProjectFindService(fileRepository)
	projectConfigSrv := projectConfig.NewProjectConfigService(projectFindSrv, configRepository, fileRepository)
	projectScanSrv := projectScan.NewProjectScanService(fileRepository)
	resourceLocateSrv := resourceLocate.NewResourceLocateService(projectScanSrv)
	backupSrv := backup.NewBackupService(fileRepository, ksuidSys, timerSys)
	pathRepairSrv := pathRepair.NewPathRepairService(fileRepository, resourceLocateSrv, backupSrv)
	dependencyFixSrv := dependencyFix.NewDependencyFixService(projectScanSrv, resourceLocateSrv, pathRepairSrv, backupSrv)

	cmd.AddCommand(initCommand.NewInitCommand(configRepository, fileRepository).CobraCommand)
	cmd.AddCommand(fixCommand.NewFixCommand(
		projectConfigSrv,
		dependencyFixSrv,
	).CobraCommand)
	cmd.AddCommand(depsGraphCommand.NewDepsGraphCommand(
		projectConfigSrv,
		projectScanSrv,
		fileRepository,
		depsGraphRepository,
	).CobraCommand)
	cmd.AddCommand(versionCommand.NewVersionCommand().CobraCommand)

	return &RootCommand{
		CobraCommand: cmd,
	}
}
