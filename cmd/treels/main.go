// Package main implements the treels CLI for listing repository trees from a
// treestream server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/treestream-io/treestream/pkg/streamclient"
	"github.com/treestream-io/treestream/pkg/utils"
)

var (
	// serverURL is the base URL for the treestream server
	serverURL string
	// timeout bounds the whole stream, zero means no limit
	timeout time.Duration
	// longListing adds mode, size and sha columns to the file list
	longListing bool
	// noColor disables styled output
	noColor bool

	version = "dev"
)

// Lipgloss styles
var (
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("231"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render(errorStyle, "error: "+err.Error()))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "treels <repository-url>",
	Short: "List every file in a GitHub repository as the server streams them",
	Long: `treels connects to a treestream server and prints the full file listing of a
GitHub repository while the server walks the tree level by level.

Status updates go to stderr so stdout stays a clean, pipeable file list.

Examples:
  # List the default branch
  treels https://github.com/golang/go

  # List a specific branch with mode, size and sha columns
  treels --long https://github.com/golang/go/tree/release-branch.go1.22

  # Use a different server
  treels --server http://tree.internal:8080 https://github.com/golang/go`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	RunE:          runList,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "treestream server URL")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the stream after this long (0 means no limit)")
	rootCmd.Flags().BoolVarP(&longListing, "long", "l", false, "show mode, size and sha for every file")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var failure string
	handlers := streamclient.Handlers{
		OnBranch: func(name string) {
			fmt.Fprintln(os.Stderr, render(branchStyle, "branch "+name))
		},
		OnStatus: func(message string, _ *int) {
			fmt.Fprintln(os.Stderr, render(statusStyle, message))
		},
		OnWarning: func(message string, _ *int) {
			fmt.Fprintln(os.Stderr, render(warningStyle, "warning: "+message))
		},
		OnError: func(message string) {
			failure = message
		},
		OnFile:     printFile,
		OnComplete: printSummary,
	}

	client := streamclient.NewClient(serverURL)
	if err := client.Stream(ctx, args[0], handlers); err != nil {
		if errors.Is(err, streamclient.ErrStreamTruncated) {
			return fmt.Errorf("connection to %s lost mid-stream", serverURL)
		}
		return err
	}
	if failure != "" {
		return errors.New(failure)
	}
	return nil
}

func printFile(f streamclient.FileEntry) {
	if !longListing {
		fmt.Fprintln(os.Stdout, render(pathStyle, f.Path))
		return
	}
	fmt.Fprintf(os.Stdout, "%-6s  %9s  %s  %s\n",
		f.Mode,
		utils.FormatFileSize(f.Size),
		render(dimStyle, shortSHA(f.SHA)),
		render(pathStyle, f.Path),
	)
}

func printSummary(totalFiles, totalDirectories int) {
	fmt.Fprintln(os.Stderr, render(doneStyle,
		fmt.Sprintf("done: %d files in %d directories", totalFiles, totalDirectories)))
}

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
