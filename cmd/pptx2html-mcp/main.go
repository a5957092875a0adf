// Command pptx2html-mcp exposes the converter as MCP tools.
//
//	pptx2html-mcp                                  STDIO transport
//	pptx2html-mcp -transport=sse -port=8085        SSE transport
//	pptx2html-mcp -transport=httpstream -port=9000 StreamableHTTP transport
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/VantageDataChat/pptxhtml"
	"github.com/VantageDataChat/pptxhtml/internal/config"
	"github.com/VantageDataChat/pptxhtml/internal/logger"
	"github.com/VantageDataChat/pptxhtml/internal/outline"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

func main() {
	transport := flag.String("transport", "stdio", "Transport method: stdio, sse, or httpstream")
	port := flag.String("port", "8085", "Port for HTTP-based transports (sse, httpstream)")
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	// stdout carries the STDIO protocol
	logger.Init(cfg.Logger.Level, os.Stderr)
	log := logger.New("mcp")

	s := newMCPServer(&tools{cfg: cfg, log: log})

	var err error
	switch *transport {
	case "sse":
		log.WithField("port", *port).Info("starting MCP server with SSE transport")
		err = server.NewSSEServer(s).Start(":" + *port)
	case "httpstream":
		log.WithField("port", *port).Info("starting MCP server with StreamableHTTP transport")
		err = server.NewStreamableHTTPServer(s).Start(":" + *port)
	case "stdio":
		log.Info("starting MCP server with STDIO transport")
		err = server.ServeStdio(s)
	default:
		log.Fatalf("unknown transport %q: use stdio, sse, or httpstream", *transport)
	}
	if err != nil {
		log.WithError(err).Fatal("MCP server stopped")
	}
}

func newMCPServer(t *tools) *server.MCPServer {
	s := server.NewMCPServer("pptx2html", pptxhtml.Version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("convert_pptx_to_html",
		mcp.WithDescription("Convert a .pptx file into a self-contained HTML document."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Path to the .pptx file")),
		mcp.WithString("output", mcp.Description("Path of the HTML file to write (default: next to the input)")),
		mcp.WithString("profile", mcp.Description("Document profile: rich or simple")),
		mcp.WithBoolean("embed", mcp.Description("Also write the embeddable document and its host snippet")),
	), t.convert)

	s.AddTool(mcp.NewTool("pptx_outline",
		mcp.WithDescription("Return the text of a .pptx file as a Markdown outline, one section per slide."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Path to the .pptx file")),
	), t.outline)
	return s
}

type tools struct {
	cfg *config.AppConfig
	log *logrus.Entry
}

func (t *tools) convert(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output := request.GetString("output", "")
	if output == "" {
		output = strings.TrimSuffix(input, ".pptx") + ".html"
	}

	opts := t.cfg.RenderOptions(t.log.WithField("input", input))
	switch profile := request.GetString("profile", ""); profile {
	case "":
	case string(pptxhtml.ProfileRich), string(pptxhtml.ProfileSimple):
		opts.Profile = pptxhtml.Profile(profile)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown profile %q", profile)), nil
	}

	res, err := pptxhtml.ConvertFile(input, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to convert file: %v", err)), nil
	}
	if err := os.WriteFile(output, []byte(res.HTML), 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to write output file: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Converted %d slides to %s", res.SlideCount, output)
	if request.GetBool("embed", false) {
		base := strings.TrimSuffix(output, ".html")
		embedOpts := t.cfg.EmbedOptions(filepath.Base(base) + "-embed.html")
		embedOpts.Title = res.Title
		emb, err := res.Embed(embedOpts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to build embed: %v", err)), nil
		}
		if err := os.WriteFile(base+"-embed.html", []byte(emb.HTML), 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to write output file: %v", err)), nil
		}
		if err := os.WriteFile(base+"-embed.snippet.html", []byte(emb.Snippet), 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to write output file: %v", err)), nil
		}
		fmt.Fprintf(&sb, "\nEmbeddable document: %s-embed.html\nHost snippet:\n%s", base, emb.Snippet)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(&sb, "\nwarning: %v", f)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *tools) outline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := pptxhtml.ConvertFile(input, t.cfg.RenderOptions(t.log.WithField("input", input)))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to convert file: %v", err)), nil
	}
	md, err := outline.Markdown(res, res.Title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to build outline: %v", err)), nil
	}
	return mcp.NewToolResultText(md), nil
}
