// docnav: documentation navigation MCP server.
//
// Indexes a tree of AsciiDoc and Markdown files and exposes it to AI
// coding tools over MCP (stdio transport), with live re-indexing on
// file changes and section-scoped editing.
//
// Usage:
//
//	docnav <project_root>
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"docnav/internal/config"
	"docnav/internal/server"
)

func main() {
	if len(os.Args) != 2 {
		printUsage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Fprintf(os.Stderr, "docnav v%s\n", server.Version)
		os.Exit(0)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(projectRoot string) error {
	// Stdout belongs to the MCP stdio transport; everything else goes
	// to stderr.
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(projectRoot)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	s, cleanup, err := server.New(projectRoot, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// A terminating signal makes ServeStdio's stdin read fail once the
	// client hangs up; closing our side via os.Exit would skip cleanup,
	// so just note the signal and let the transport wind down.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received %v, shutting down", sig)
	}()

	return mcpserver.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `docnav v%s — documentation navigation MCP server

Usage:
  docnav <project_root>    Serve the documentation tree at project_root
                           over MCP (stdio transport)

Configuration (environment or docnav.yaml in the project root):
  ENABLE_WEBSERVER          also serve a read-only HTTP API (default: off)
  WEBSERVER_PORT_BASE       first port tried for the HTTP API (default: 8080)
  DOCNAV_MAX_INCLUDE_DEPTH  include nesting limit (default: 4)
  DOCNAV_DEBOUNCE_MS        watcher coalescing window (default: 250)

MCP client configuration:

  {
    "mcpServers": {
      "docnav": {
        "command": "docnav",
        "args": ["/path/to/docs"]
      }
    }
  }
`, server.Version)
}
