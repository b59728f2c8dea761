// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes NeuronPad notes and text transforms over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/neuronpad/internal/ai"
	"github.com/starford/neuronpad/internal/apperr"
	"github.com/starford/neuronpad/internal/models"
	"github.com/starford/neuronpad/internal/noteservice"
)

// Server wraps the MCP server with NeuronPad tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
	gw  ai.Gateway
}

// New creates a new MCP server with all tools registered.
func New(svc *noteservice.Service, gw ai.Gateway) *Server {
	s := &Server{svc: svc, gw: gw}

	s.mcp = server.NewMCPServer(
		"NeuronPad",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, newest first, optionally filtered by category and a case-insensitive text query."),
		mcp.WithString("category", mcp.Description("Work, Personal, Ideas, General, Archive or All (default All)")),
		mcp.WithString("query", mcp.Description("Substring to look for in title or content")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read one note as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Create a note, or update it when id is given. The category is assigned automatically from the text. "+
			"A note whose title and content are both blank is discarded."),
		mcp.WithString("id", mcp.Description("Existing note id; omit to create")),
		mcp.WithString("title", mcp.Description("Note title")),
		mcp.WithString("content", mcp.Description("Note body")),
		mcp.WithBoolean("isBold", mcp.Description("Whole-note bold")),
		mcp.WithBoolean("isItalic", mcp.Description("Whole-note italic")),
		mcp.WithBoolean("hasBullets", mcp.Description("Show lines as bullets")),
		mcp.WithBoolean("hasHighlight", mcp.Description("Whole-note highlight")),
	), s.saveNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id. Deleting an unknown id succeeds."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("note_counts",
		mcp.WithDescription("Number of notes per category, plus the total."),
	), s.noteCounts)

	s.mcp.AddTool(mcp.NewTool("summarize_text",
		mcp.WithDescription("Summarize text concisely, keeping the key points."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
	), s.transform(ai.Summarize))

	s.mcp.AddTool(mcp.NewTool("fix_grammar",
		mcp.WithDescription("Correct grammar, spelling and punctuation while keeping meaning and style."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to correct")),
	), s.transform(ai.GrammarFix))

	s.mcp.AddResource(
		mcp.NewResource("neuronpad://categories", "Note categories",
			mcp.WithResourceDescription("How notes are assigned to categories."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCategoriesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
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

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", models.CategoryAll)
	q := req.GetString("query", "")
	return jsonResult(s.svc.List(ctx, category, q))
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n)
}

func (s *Server) saveNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d := models.Draft{
		Title:        req.GetString("title", ""),
		Content:      req.GetString("content", ""),
		IsBold:       req.GetBool("isBold", false),
		IsItalic:     req.GetBool("isItalic", false),
		HasBullets:   req.GetBool("hasBullets", false),
		HasHighlight: req.GetBool("hasHighlight", false),
	}

	var (
		n     models.Note
		saved bool
		err   error
	)
	if id := req.GetString("id", ""); id != "" {
		n, saved, err = s.svc.Update(ctx, id, d)
	} else {
		n, saved, err = s.svc.Create(ctx, d)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("not found"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !saved {
		return mcp.NewToolResultText("discarded: title and content are blank"), nil
	}
	return jsonResult(n)
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) noteCounts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Counts(ctx))
}

func (s *Server) transform(kind ai.Kind) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := s.gw.Transform(ctx, kind, text)
		if err != nil {
			if errors.Is(err, apperr.ErrEmptyInput) {
				return mcp.NewToolResultError("text is empty"), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func (s *Server) readCategoriesResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "neuronpad://categories",
			MIMEType: "text/markdown",
			Text:     CategoriesGuide,
		},
	}, nil
}
