// catalog_probe prints how every tool slug resolves against the live Replicate catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ai-studio-be/internal/config"
	"ai-studio-be/internal/constant"
	"ai-studio-be/pkg/modelcatalog"
	"ai-studio-be/pkg/provider"

	"github.com/fatih/color"
)

func main() {
	noOverrides := flag.Bool("no-overrides", false, "score every tool against the catalog, ignoring pinned models")
	flag.Parse()

	cfg := config.Load()
	if cfg.Keys.Replicate == "" {
		color.Red("REPLICATE_API_TOKEN is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := provider.NewReplicateClient(cfg.Keys.Replicate, cfg.Ai.ReplicateBaseURL, cfg.Ai.ProviderTimeout)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	catalog, err := modelcatalog.NewReplicateSource(client, cfg.Ai.CatalogMaxPages).Fetch(ctx)
	if err != nil {
		color.Red("catalog fetch failed: %v", err)
		os.Exit(1)
	}
	color.Cyan("Fetched %d models", len(catalog.Models))

	overrides := modelcatalog.Overrides(modelcatalog.DefaultOverrides)
	if *noOverrides {
		overrides = modelcatalog.Overrides{}
	}

	for _, tool := range constant.Tools() {
		res := modelcatalog.ResolveOrFallback("tools/"+tool.Slug, tool.MinConfidence, tool.Fallback, overrides, catalog)

		var paint func(format string, a ...interface{}) string
		switch res.Source {
		case modelcatalog.SourceOverride:
			paint = color.BlueString
		case modelcatalog.SourceCatalog:
			paint = color.GreenString
		default:
			paint = color.YellowString
		}
		fmt.Printf("%-22s %s\n", tool.Slug, paint("%-9s %3d  %s", res.Source, res.Confidence, res.Identifier))
	}
}
