// Command navcd is the daemon: it walks and watches a set of source
// directories, keeps a persisted snapshot cache, applies deltas into a
// guarded Query DB, and serves read requests over a unix socket. It
// follows google-navc's main.go/files.go daemon shape, restructured behind
// a cobra CLI (spec §1, §5, §6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/navcd/navc/internal/config"
)

var (
	flagConfig     string
	flagStoreDir   string
	flagSocketPath string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "navcd: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "navcd [index-dir...]",
	Short:         "Symbol query daemon for a C/C++ language server",
	Long:          "navcd watches a set of source trees, indexes them incrementally, and answers symbol queries over a unix socket.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runDaemon,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to navc.toml (defaults to no config file, built-in defaults)")
	rootCmd.Flags().StringVar(&flagStoreDir, "store", "", "override store_dir from the config file")
	rootCmd.Flags().StringVar(&flagSocketPath, "socket", "", "override socket_path from the config file")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.IndexDirs = args
	}
	if flagStoreDir != "" {
		cfg.StoreDir = flagStoreDir
	}
	if flagSocketPath != "" {
		cfg.SocketPath = flagSocketPath
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	return cfg, nil
}
