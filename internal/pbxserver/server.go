package pbxserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Run starts the pbxpatch MCP server over stdio.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, logger *zap.Logger) error {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "pbxpatch",
			Version: version,
		},
		nil,
	)

	h := &handlers{log: logger}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_source_files",
		Description: "Register source files in an Xcode project.pbxproj. Adds a PBXBuildFile and PBXFileReference entry per file, lists the file in its PBXGroup, and adds it to the first PBXSourcesBuildPhase. Files already registered are left alone. Example: add_source_files(project: \"WaterQuest.xcodeproj/project.pbxproj\", files: [{name: \"MotionManager.swift\", group: \"Services\"}])",
	}, h.handleAddSourceFiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_source_files",
		Description: "Same as add_source_files but does not write the project file. Returns what would be inserted, what is already present, and which anchors are missing.",
	}, h.handlePreviewSourceFiles)

	return server.Run(ctx, &mcp.StdioTransport{})
}
