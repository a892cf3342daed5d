// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the component catalog to AI coding assistants over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vision2ui/internal/apperr"
	"github.com/starford/vision2ui/internal/component"
	"github.com/starford/vision2ui/internal/prompts"
)

// Resource URIs.
const (
	UsageGuideURI         = "vision2ui://usage-guide"
	MetadataPromptURI     = "vision2ui://metadata-prompt"
	FilenameConventionURI = "vision2ui://filename-convention"
)

const (
	serverName    = "vision2ui"
	serverVersion = "0.1.0"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp    *server.MCPServer
	store  *component.Store
	docs   *prompts.Docs
	logger *slog.Logger
}

// New creates a new MCP server with all catalog tools and resources registered.
func New(store *component.Store, docs *prompts.Docs, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: store, docs: docs, logger: logger}

	s.mcp = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithInstructions("Look up UI component documentation before writing UI code. "+
			"Call list_components first, then get_component_content for each component you use."),
	)

	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("List the names of all documented UI components."),
	), s.listComponents)

	s.mcp.AddTool(mcp.NewTool("get_component_content",
		mcp.WithDescription("Return the full Markdown documentation of a component."),
		mcp.WithString("component_name", mcp.Required(), mcp.Description("Component name as returned by list_components")),
	), s.getComponentContent)

	s.mcp.AddTool(mcp.NewTool("component_exists",
		mcp.WithDescription("Check whether a component is documented."),
		mcp.WithString("component_name", mcp.Required(), mcp.Description("Component name")),
	), s.componentExists)

	s.mcp.AddTool(mcp.NewTool("get_component_info",
		mcp.WithDescription("Return metadata for a component: version, filename, title, description, tags, checksum, size."),
		mcp.WithString("component_name", mcp.Required(), mcp.Description("Component name")),
	), s.getComponentInfo)

	s.mcp.AddTool(mcp.NewTool("upload_component",
		mcp.WithDescription("Store a new component document. The filename MUST follow "+
			"<component_name>-<version>.md; read the "+FilenameConventionURI+" resource first. "+
			"Existing files are never overwritten."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Target filename, e.g. Button-3.4.2.md")),
		mcp.WithString("content", mcp.Required(), mcp.Description("UTF-8 Markdown content")),
	), s.uploadComponent)

	s.mcp.AddTool(mcp.NewTool("get_component_usage_guide",
		mcp.WithDescription("Return the guide describing how to use the component documentation."),
	), s.getUsageGuide)

	s.mcp.AddTool(mcp.NewTool("get_metadata_generation_prompt",
		mcp.WithDescription("Return the prompt used to generate component documentation files."),
	), s.getMetadataPrompt)

	s.mcp.AddResource(
		mcp.NewResource(UsageGuideURI, "Component Usage Guide",
			mcp.WithResourceDescription("How to use the component documentation."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.docResource(UsageGuideURI, prompts.UsageGuide),
	)
	s.mcp.AddResource(
		mcp.NewResource(MetadataPromptURI, "Metadata Generation Prompt",
			mcp.WithResourceDescription("Prompt for generating component documentation."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.docResource(MetadataPromptURI, prompts.MetadataPrompt),
	)
	s.mcp.AddResource(
		mcp.NewResource(FilenameConventionURI, "Filename Convention",
			mcp.WithResourceDescription("Naming rules for component documentation files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFilenameConvention,
	)

	return s
}

// Listen serves MCP over the given streams (stdin/stdout in production)
// until ctx is cancelled or in reaches EOF. Transport errors go to the logger.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult turns a catalog error into a tool error result, logging
// unexpected kinds.
func (s *Server) errorResult(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrInvalidFormat),
		errors.Is(err, apperr.ErrAlreadyExists),
		errors.Is(err, apperr.ErrNotFound):
	default:
		s.logger.Error("mcp tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listComponents(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return s.errorResult("list_components", err), nil
	}
	return jsonResult(map[string]any{"components": names, "count": len(names)})
}

func (s *Server) getComponentContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("component_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.store.Get(ctx, name)
	if err != nil {
		return s.errorResult("get_component_content", err), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) componentExists(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("component_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]bool{"exists": s.store.Exists(ctx, name)})
}

func (s *Server) getComponentInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("component_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := s.store.Describe(ctx, name)
	if err != nil {
		return s.errorResult("get_component_info", err), nil
	}
	return jsonResult(info)
}

func (s *Server) uploadComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := s.store.Add(ctx, filename, []byte(content))
	if err != nil {
		return s.errorResult("upload_component", err), nil
	}
	return jsonResult(map[string]string{"component_name": name, "filename": filename})
}

func (s *Server) getUsageGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.docs.Get(prompts.UsageGuide)
	if err != nil {
		return s.errorResult("get_component_usage_guide", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) getMetadataPrompt(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.docs.Get(prompts.MetadataPrompt)
	if err != nil {
		return s.errorResult("get_metadata_generation_prompt", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) docResource(uri string, doc prompts.Doc) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.docs.Get(doc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: "text/markdown", Text: text},
		}, nil
	}
}

func (s *Server) readFilenameConvention(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FilenameConventionURI,
			MIMEType: "text/markdown",
			Text:     FilenameConvention,
		},
	}, nil
}
