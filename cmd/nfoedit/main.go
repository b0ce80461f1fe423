package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	serverAddr string
	rootCmd    = &cobra.Command{
		Use:   "nfoedit",
		Short: "NFO Editor - bulk metadata editing for media libraries",
		Long: `NFO Editor edits NFO metadata files across a media library.
It previews bulk field changes as a batch task, applies them across a
bounded worker pool with per-file failure isolation, and serves a web API
for driving the same operations remotely.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "http://127.0.0.1:8480", "address of a running nfoedit server")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
