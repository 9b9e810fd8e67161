package mcp

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

const (
	ToolSendMessage = "send_message"
	ToolGeocode     = "geocode"
)

// Server exposes the conversation engine and the resolver as MCP tools over stdio.
type Server struct {
	mcp       *mcpserver.MCPServer
	responder core.Responder
	resolver  core.AddressResolver
	in        io.Reader
	out       io.Writer
}

func NewServer(responder core.Responder, resolver core.AddressResolver) *Server {
	s := &Server{
		mcp:       mcpserver.NewMCPServer(core.AppName, core.AppVersion, mcpserver.WithToolCapabilities(false)),
		responder: responder,
		resolver:  resolver,
		in:        os.Stdin,
		out:       os.Stdout,
	}

	s.mcp.AddTool(mcpproto.NewTool(ToolSendMessage,
		mcpproto.WithDescription("Send a rider message and get the reply an SMS user would receive"),
		mcpproto.WithString("caller_id", mcpproto.Required(), mcpproto.Description("Stable id of the conversation")),
		mcpproto.WithString("text", mcpproto.Required(), mcpproto.Description("Message text, e.g. an intersection or stop id")),
	), s.sendMessage)

	s.mcp.AddTool(mcpproto.NewTool(ToolGeocode,
		mcpproto.WithDescription("Resolve an address to coordinates"),
		mcpproto.WithString("address", mcpproto.Required(), mcpproto.Description("Street address or intersection")),
		mcpproto.WithString("locality", mcpproto.Description("City and state, defaults to the home locality")),
	), s.geocode)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("mcp stdio server starting")
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(log.FromCtx(ctx), "", 0))
	if err := stdio.Listen(ctx, s.in, s.out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) sendMessage(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	callerID, err := req.RequireString("caller_id")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	return mcpproto.NewToolResultText(s.responder.Respond(ctx, callerID, text)), nil
}

func (s *Server) geocode(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	address, err := req.RequireString("address")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	coord, err := s.resolver.Resolve(ctx, core.AddressQuery{
		Line1: address,
		Line2: req.GetString("locality", ""),
	})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("address", address).Msg("geocode tool failed")
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	return mcpproto.NewToolResultText(fmt.Sprintf("%.6f, %.6f (%s, quality %.0f)",
		coord.Lat, coord.Lon, coord.Service, coord.Quality)), nil
}
