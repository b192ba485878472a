// Command precompute detects group outings in an activity export and writes
// the result file read by the front end.
//
// Usage:
//
//	precompute [flags] [input.json output.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/delhayec/MillionRecap/internal/analysis/grouping"
	"github.com/delhayec/MillionRecap/internal/athlete"
	"github.com/delhayec/MillionRecap/internal/config"
	"github.com/delhayec/MillionRecap/internal/geocode"
	"github.com/delhayec/MillionRecap/internal/ingest"
	"github.com/delhayec/MillionRecap/internal/logging"
	"github.com/delhayec/MillionRecap/internal/report"
	"github.com/delhayec/MillionRecap/internal/sport"
)

func main() {
	cfg := config.Load()

	input := flag.String("in", "activities.json", "Activities to read (Strava array or {\"activities\": [...]})")
	output := flag.String("out", "group_activities.json", "Result file to write")
	offline := flag.Bool("offline", cfg.Geocoder.Offline, "Resolve countries from built-in bounding boxes only")
	cacheFile := flag.String("cache", cfg.Geocoder.CacheFile, "Country cache file")
	sportsFile := flag.String("sports", cfg.SportsFile, "Sport catalog YAML (built-in when empty)")
	athletesFile := flag.String("athletes", cfg.AthletesFile, "Athlete directory YAML")
	params := flag.String("params", "", "JSON threshold overrides, e.g. {\"max_start_diff_minutes\": 45}")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Positional input and output, as accepted by earlier versions of the tool.
	if flag.NArg() >= 2 {
		*input, *output = flag.Arg(0), flag.Arg(1)
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log, err := logging.New(level, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	opts := options{
		input:        *input,
		output:       *output,
		offline:      *offline,
		cacheFile:    *cacheFile,
		sportsFile:   *sportsFile,
		athletesFile: *athletesFile,
		params:       *params,
	}
	if err := run(cfg, opts, log); err != nil {
		log.Fatal("precompute failed", zap.Error(err))
	}
}

type options struct {
	input, output string
	offline       bool
	cacheFile     string
	sportsFile    string
	athletesFile  string
	params        string
}

func run(cfg *config.Config, opts options, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	catalog := sport.DefaultCatalog()
	if opts.sportsFile != "" {
		c, err := sport.LoadCatalog(opts.sportsFile)
		if err != nil {
			return err
		}
		catalog = c
	}
	directory, err := athlete.LoadDirectory(opts.athletesFile)
	if err != nil {
		return err
	}

	params, err := grouping.ParseParams(opts.params)
	if err != nil {
		return err
	}
	detector, err := grouping.NewDetector(params.Apply(cfg.Grouping), catalog, log.Named("grouping"))
	if err != nil {
		return err
	}

	fmt.Printf("Reading %s...\n", opts.input)
	activities, err := ingest.NewLoader(nil, log.Named("ingest")).ReadFile(opts.input)
	if err != nil {
		return err
	}
	fmt.Printf("  %d activities loaded\n", len(activities))

	resolver := newResolver(cfg, opts, log.Named("geocode"))
	if resolver.Offline() {
		fmt.Println("Mode: offline geocoding only (limited countries)")
	} else {
		fmt.Println("Mode: online geocoding with cache (may take a while)")
	}
	if err := resolver.Load(ctx); err != nil {
		return err
	}
	resolver.Resolve(ctx, activities)
	if err := resolver.Persist(ctx); err != nil {
		log.Warn("failed to save country cache", zap.Error(err))
	}

	printer := report.NewPrinter(os.Stdout, directory)
	printer.Countries(activities)

	fmt.Println("\nDetecting group outings...")
	res, err := detector.DetectContext(ctx, activities, nil)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		log.Warn("activity skipped or degraded",
			zap.Int64("activity_id", d.ActivityID),
			zap.String("reason", d.Reason),
			zap.String("detail", d.Detail))
	}
	fmt.Printf("  %d activities after filtering\n", res.EligibleActivities)
	printer.Summary(grouping.Summarize(res.Groups))

	if err := ingest.WriteOutputFile(opts.output, activities, res.Groups); err != nil {
		return err
	}
	if info, err := os.Stat(opts.output); err == nil {
		fmt.Printf("\nWrote %s (%.1f KB)\n", opts.output, float64(info.Size())/1024)
	}

	printer.RecentRides(res.Groups, sport.CategoryBike)
	return nil
}

func newResolver(cfg *config.Config, opts options, log *zap.Logger) *geocode.Resolver {
	ro := geocode.Options{
		Rate: rate.Limit(cfg.Geocoder.Rate),
		Log:  log,
	}
	if !opts.offline {
		ro.Reverser = geocode.NewNominatim(cfg.Geocoder.URL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)
		if opts.cacheFile != "" {
			ro.Store = geocode.NewFileStore(opts.cacheFile)
		}
	}
	return geocode.NewResolver(ro)
}
