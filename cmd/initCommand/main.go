package initCommand

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/t-kuni/resfix/domain/repository/config"
	"github.com/t-kuni/resfix/domain/repository/file"
	"github.com/t-kuni/resfix/domain/service/projectScan"
)

const defaultIgnore = `# Paths listed here are neither repaired nor used as replacement candidates.
.git/
.godot/
`

type InitCommand struct {
	CobraCommand *cobra.Command
}

func NewInitCommand(configRepository config.Repository, fileRepository file.Repository) *InitCommand {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize resfix in a Godot project",
		Long:  `Create resfix.yml and .resfixignore in the current directory and keep the .resfix directory out of git.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			currentDir, err := fileRepository.Getwd()
			if err != nil {
				return err
			}

			configPath := filepath.Join(currentDir, config.FileName)
			if fileRepository.Exists(configPath) {
				return eris.Errorf("%s already exists in the current directory", config.FileName)
			}

			cfg := config.DefaultConfig()
			cfg.Backup = true
			err = configRepository.Write(configPath, cfg)
			if err != nil {
				return eris.Wrap(err, "failed to write config file")
			}

			ignorePath := filepath.Join(currentDir, projectScan.IgnoreFile)
			if !fileRepository.Exists(ignorePath) {
				err = fileRepository.Write(ignorePath, []byte(defaultIgnore))
				if err != nil {
					return eris.Wrapf(err, "failed to write %s", projectScan.IgnoreFile)
				}
			}

			err = addToGitignore(fileRepository, filepath.Join(currentDir, ".gitignore"))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized resfix. Created %s in the current directory.\n", config.FileName)
			return nil
		},
	}

	return &InitCommand{
		CobraCommand: cmd,
	}
}

func addToGitignore(fileRepository file.Repository, gitignorePath string) error {
	entry := "/" + projectScan.StateDir

	var content []byte
	if fileRepository.Exists(gitignorePath) {
		var err error
		content, err = fileRepository.Read(gitignorePath)
		if err != nil {
			return eris.Wrap(err, "failed to read .gitignore")
		}
		for _, line := range strings.Split(string(content), "\n") {
			if strings.TrimSpace(line) == entry {
				return nil
			}
		}
		if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
			content = append(content, '\n')
		}
	}

	content = append(content, []byte(entry+"\n")...)
	if err := fileRepository.Write(gitignorePath, content); err != nil {
		return eris.Wrap(err, "failed to update .gitignore")
	}
	return nil
}
