package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/tagline/config"
	"github.com/dhamidi/tagline/syntax"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var (
	configPath string
	verbosity  int
	logPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tagline",
		Short: "Parse and format tagged outline documents",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logPath != "" {
				path = &logPath
			}
			commonlog.Configure(verbosity, path)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "parser configuration file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log more; repeat for debug output")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write the log to this file instead of stderr")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newLocCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the --config file, or the default file when the flag
// is not given.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return config.Load(configPath)
	}
	return config.Load(config.DefaultFile)
}

// parseInput parses the file named by args, or stdin when args is empty,
// and returns the document together with the raw input.
func parseInput(args []string) (*syntax.Document, []byte, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	name := "<stdin>"
	var data []byte
	if len(args) == 0 {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
	} else {
		name = args[0]
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, nil, &syntax.SourceError{Path: name, Err: err}
		}
	}

	doc := syntax.NewDocument(append(cfg.Options(), syntax.WithName(name))...)
	if err := doc.Append(string(data)); err != nil {
		return nil, nil, err
	}
	doc.Parse()
	return doc, data, nil
}
