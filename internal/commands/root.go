package commands

import (
	"fmt"

	"github.com/moasq/pbxpatch/internal/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time.
var Version = "0.1.0"

// logger is built in PersistentPreRunE; a no-op logger unless --verbose.
var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pbxpatch",
		Short: "Register source files in an Xcode project manifest",
		Long: `pbxpatch adds source files to an Xcode project.pbxproj by inserting text at
the manifest's section markers: a PBXBuildFile and PBXFileReference entry per
file, a child line in the file's PBXGroup, and a line in the first
PBXSourcesBuildPhase.

Run without a plan it registers LiquidProgressView.swift (Components) and
MotionManager.swift (Services) in WaterQuest.xcodeproj/project.pbxproj.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			terminal.SetOutput(cmd.OutOrStdout())

			verbose, _ := cmd.Flags().GetBool("verbose")
			if !verbose {
				logger = zap.NewNop()
				return nil
			}
			config := zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			l, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: runPatch,
	}

	cmd.PersistentFlags().Bool("verbose", false, "Log each section outcome at debug level")
	addPatchFlags(cmd)

	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
