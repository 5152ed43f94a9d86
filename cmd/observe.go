// File: cmd/observe.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/actionspace"
	"github.com/pagelens/pagelens/internal/browser"
	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/controller"
	"github.com/pagelens/pagelens/internal/llmclient"
	"github.com/pagelens/pagelens/internal/observability"
	"github.com/pagelens/pagelens/internal/resolution"
	"github.com/pagelens/pagelens/internal/session"
)

var (
	observeSimple bool
	observeJSON   bool
)

var observeCmd = &cobra.Command{
	Use:   "observe <url>",
	Short: "Open a page and print its derived action space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := observability.GetLogger()
		url := args[0]

		driver, err := browser.NewPlaywrightSession(browserOptions(appConfig.Browser), logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := driver.Close(); cerr != nil {
				logger.Warn("closing browser", zap.Error(cerr))
			}
		}()

		builder, closeBuilder, err := newBuilder(cmd, observeSimple, logger)
		if err != nil {
			return err
		}
		defer closeBuilder()

		executor := controller.NewExecutor(resolution.NewResolver(logger), logger)
		sess := session.New(driver, builder, executor,
			actionspace.Pagination{MaxActions: appConfig.Tagging.MaxActions}, logger)

		if err := sess.Goto(ctx, url); err != nil {
			return err
		}
		obs, err := sess.Observe(ctx)
		if err != nil {
			return err
		}

		if observeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(obs.Space)
		}
		fmt.Print(obs.Space.Render(true))
		return nil
	},
}

func init() {
	observeCmd.Flags().BoolVar(&observeSimple, "simple", false,
		"use the deterministic builder instead of LLM tagging")
	observeCmd.Flags().BoolVar(&observeJSON, "json", false, "emit the action space as JSON")
	rootCmd.AddCommand(observeCmd)
}

func browserOptions(cfg config.BrowserConfig) browser.Options {
	return browser.Options{
		Headless:       cfg.Headless,
		UserAgent:      cfg.UserAgent,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		DefaultTimeout: cfg.ActionTimeout,
	}
}

// newBuilder picks the action space strategy. The returned cleanup closes the
// LLM client stack when one was built.
func newBuilder(cmd *cobra.Command, simple bool, logger *zap.Logger) (actionspace.Builder, func(), error) {
	if simple {
		return actionspace.NewSimpleBuilder(logger), func() {}, nil
	}

	client, err := llmclient.New(cmd.Context(), appConfig.LLM, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("building LLM client: %w", err)
	}
	cleanup := func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("closing LLM client", zap.Error(cerr))
		}
	}
	tagger := actionspace.NewLLMTagger(client, taggingConfig(appConfig.Tagging), logger)
	return tagger, cleanup, nil
}

func taggingConfig(cfg config.TaggingConfig) actionspace.TaggingConfig {
	out := actionspace.DefaultTaggingConfig()
	out.Coverage = cfg.Coverage
	out.MinTrials = cfg.MinTrials
	out.NodesPerTrial = cfg.NodesPerTrial
	out.ExcludedRoles = cfg.ExcludedRoles
	out.ClassifyCategory = cfg.ClassifyCategory
	return out
}
