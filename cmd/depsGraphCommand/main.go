package depsGraphCommand

import (
	"fmt"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/t-kuni/resfix/domain/model/failure"
	"github.com/t-kuni/resfix/domain/repository/depsGraph"
	"github.com/t-kuni/resfix/domain/repository/file"
	"github.com/t-kuni/resfix/domain/service/projectConfig"
	"github.com/t-kuni/resfix/domain/service/projectScan"
	"github.com/t-kuni/resfix/domain/service/resPath"
	"io"
	"path/filepath"
	"sort"
)

type DepsGraphCommand struct {
	CobraCommand *cobra.Command
}

func NewDepsGraphCommand(
	projectConfigService *projectConfig.ProjectConfigService,
	projectScanService *projectScan.ProjectScanService,
	fileRepository file.Repository,
	depsGraphRepo depsGraph.Repository,
) *DepsGraphCommand {
	var root string

	cmd := &cobra.Command{
		Use:   "deps-graph",
		Short: "Generate resource dependency graph",
		Long:  `Scan the scene and import files of the project and save which files reference each resource. Missing resources are listed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsGraph(cmd.OutOrStdout(), root, projectConfigService, projectScanService, fileRepository, depsGraphRepo)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Project root (defaults to $"+projectConfig.RootEnv+" or the nearest directory containing project.godot)")

	return &DepsGraphCommand{
		CobraCommand: cmd,
	}
}

func runDepsGraph(
	out io.Writer,
	root string,
	projectConfigService *projectConfig.ProjectConfigService,
	projectScanService *projectScan.ProjectScanService,
	fileRepository file.Repository,
	depsGraphRepo depsGraph.Repository,
) error {
	project, err := projectConfigService.Load(root)
	if err != nil {
		return err
	}

	rootDir, rules := project.RootDir, project.Rules
	paths := resPath.NewResPathService(rootDir)
	graph := make(depsGraph.DepsGraph)

	err = projectScanService.Scan(rootDir, func(path string) error {
		rule, ok := rules.Lookup(filepath.Base(path))
		if !ok {
			return nil
		}

		content, err := fileRepository.Read(path)
		if err != nil {
			return failure.NewIoError("read", path, err)
		}

		dependent := depsGraph.Dependent(paths.Localize(path))
		for _, ref := range rule.Extract(string(content)) {
			dependency := depsGraph.Dependency(ref)
			graph[dependency] = append(graph[dependency], dependent)
		}
		return nil
	})
	if err != nil {
		return err
	}

	outputPath := filepath.Join(rootDir, projectScan.StateDir, "deps-graph.json")
	err = depsGraphRepo.Write(outputPath, graph)
	if err != nil {
		return eris.Wrapf(err, "failed to write dependency graph: %s", outputPath)
	}

	var missing []depsGraph.Dependency
	for dependency := range graph {
		realPath, ok := paths.Globalize(string(dependency))
		if ok && !fileRepository.Exists(realPath) {
			missing = append(missing, dependency)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	for _, dependency := range missing {
		fmt.Fprintf(out, "missing: %s (referenced by %d files)\n", dependency, len(graph[dependency]))
	}
	fmt.Fprintf(out, "Dependency graph has been saved to %s\n", outputPath)
	return nil
}
