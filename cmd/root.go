// Package cmd wires the ccm command.
package cmd

import (
	"github.com/spf13/cobra"

	"ccm/config"
	syncpkg "ccm/config/sync"
	"ccm/internal/logging"
	"ccm/internal/tui"
)

const logLevel = "info"

// runSession starts the interactive session; tests replace it.
var runSession = tui.Run

var rootCmd = &cobra.Command{
	Use:   "ccm",
	Short: "Claude 配置管理工具",
	Long: "ccm 管理多个 Claude CLI 配置 (provider、API Key、模型映射)，" +
		"并将生效配置同步到 ~/.claude/settings.json 的 env 字段。",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(config.DefaultPaths())
	},
}

func run(paths config.Paths) error {
	logger, closer := logging.Init(logging.Config{Level: logLevel, FilePath: paths.LogFile})
	defer closer.Close()

	logger.Info().Str("profiles", paths.ProfilesFile).Str("settings", paths.SettingsFile).Msg("starting ccm")

	return runSession(tui.Deps{
		Store:    config.NewManager(paths, logger),
		Syncer:   syncpkg.NewSyncer(paths.SettingsFile, logger),
		Importer: syncpkg.NewImporter(paths.SettingsFile),
		Logger:   logger,
	})
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}
