package pbxserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moasq/pbxpatch/internal/config"
	"github.com/moasq/pbxpatch/internal/pbxpatch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type handlers struct {
	log *zap.Logger
}

type fileInput struct {
	Name     string `json:"name" jsonschema:"File name as it should appear in the project e.g. MotionManager.swift"`
	Group    string `json:"group" jsonschema:"Name of the existing PBXGroup to list the file in e.g. Services"`
	FileType string `json:"file_type,omitempty" jsonschema:"Optional lastKnownFileType. Derived from the extension when empty"`
}

// sourceFilesInput is the input for add_source_files and preview_source_files.
type sourceFilesInput struct {
	Project         string      `json:"project,omitempty" jsonschema:"Path to project.pbxproj relative to the working directory. Defaults to WaterQuest.xcodeproj/project.pbxproj"`
	Files           []fileInput `json:"files,omitempty" jsonschema:"Files to register. Defaults to the built-in plan when empty"`
	AllowDuplicates bool        `json:"allow_duplicates,omitempty" jsonschema:"Insert entries even for files the project already lists"`
}

type textOutput struct {
	Message string `json:"message"`
}

func (h *handlers) handleAddSourceFiles(ctx context.Context, req *mcp.CallToolRequest, input sourceFilesInput) (*mcp.CallToolResult, textOutput, error) {
	out, err := h.apply(ctx, input, false)
	return nil, out, err
}

func (h *handlers) handlePreviewSourceFiles(ctx context.Context, req *mcp.CallToolRequest, input sourceFilesInput) (*mcp.CallToolResult, textOutput, error) {
	out, err := h.apply(ctx, input, true)
	return nil, out, err
}

func (h *handlers) apply(ctx context.Context, input sourceFilesInput, dryRun bool) (textOutput, error) {
	plan := config.Default()
	if input.Project != "" {
		plan.Project = input.Project
	}
	if len(input.Files) > 0 {
		plan.Files = plan.Files[:0]
		for _, f := range input.Files {
			plan.Files = append(plan.Files, config.FileEntry{Name: f.Name, Group: f.Group, FileType: f.FileType})
		}
	}
	if err := plan.Validate(); err != nil {
		return textOutput{}, err
	}

	path := plan.Project
	if !filepath.IsAbs(path) {
		workDir, err := os.Getwd()
		if err != nil {
			return textOutput{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(workDir, path)
	}

	h.log.Debug("patching project", zap.String("path", path), zap.Bool("dry_run", dryRun), zap.Int("files", len(plan.Files)))

	res, err := pbxpatch.PatchFile(ctx, path, plan.Records(), pbxpatch.FileOptions{
		Options: pbxpatch.Options{AllowDuplicates: input.AllowDuplicates, Logger: h.log},
		DryRun:  dryRun,
	})
	if err != nil {
		return textOutput{}, err
	}

	msg := res.Report.String()
	switch {
	case res.Written:
		msg += fmt.Sprintf("Updated %s.", plan.Project)
	case dryRun:
		msg += fmt.Sprintf("Dry run: %s not modified.", plan.Project)
	default:
		msg += fmt.Sprintf("Nothing to add: %s not modified.", plan.Project)
	}
	return textOutput{Message: msg}, nil
}
