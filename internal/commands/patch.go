package commands

import (
	"fmt"

	"github.com/moasq/pbxpatch/internal/config"
	"github.com/moasq/pbxpatch/internal/pbxpatch"
	"github.com/moasq/pbxpatch/internal/terminal"
	"github.com/spf13/cobra"
)

// SuccessMessage is printed after the manifest has been rewritten.
const SuccessMessage = "Modified pbxproj successfully."

func addPatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Path to project.pbxproj (default "+config.DefaultProjectPath+")")
	cmd.Flags().String("plan", "", "YAML plan listing the files to add")
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	cmd.Flags().Bool("strict", false, "Fail without writing if any insertion point is missing")
	cmd.Flags().Bool("allow-duplicates", false, "Insert entries even for files the manifest already lists")
}

// resolvePlan returns the built-in plan or the one named by --plan, with
// --project applied on top.
func resolvePlan(cmd *cobra.Command) (*config.Plan, error) {
	planPath, _ := cmd.Flags().GetString("plan")
	project, _ := cmd.Flags().GetString("project")

	plan := config.Default()
	if planPath != "" {
		var err error
		if plan, err = config.Load(planPath); err != nil {
			return nil, err
		}
	}
	if project != "" {
		plan.Project = project
	}
	return plan, nil
}

func runPatch(cmd *cobra.Command, _ []string) error {
	plan, err := resolvePlan(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	strict, _ := cmd.Flags().GetBool("strict")
	allowDuplicates, _ := cmd.Flags().GetBool("allow-duplicates")

	res, err := pbxpatch.PatchFile(cmd.Context(), plan.Project, plan.Records(), pbxpatch.FileOptions{
		Options: pbxpatch.Options{AllowDuplicates: allowDuplicates, Logger: logger},
		DryRun:  dryRun,
		Strict:  strict,
	})
	if res != nil {
		terminal.Report(res.Report)
	}
	if err != nil {
		return err
	}

	switch {
	case res.Written:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), SuccessMessage)
	case dryRun:
		terminal.Info(fmt.Sprintf("Dry run: %s not modified.", plan.Project))
	default:
		terminal.Info(fmt.Sprintf("Nothing to add: %s not modified.", plan.Project))
	}
	return nil
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the effective plan as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := resolvePlan(cmd)
			if err != nil {
				return err
			}
			data, err := plan.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().String("project", "", "Path to project.pbxproj")
	cmd.Flags().String("plan", "", "YAML plan listing the files to add")
	return cmd
}
