package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/omniscale/osmdocs"
	"github.com/omniscale/osmdocs/config"
	"github.com/omniscale/osmdocs/log"
	"github.com/omniscale/osmdocs/stats"
)

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	for _, cmd := range config.Commands {
		fmt.Printf("\t%s\n", cmd)
	}
	fmt.Println("\tversion")
	fmt.Printf("\nRun %s COMMAND -help for the options of a command.\n", os.Args[0])
}

func Main(usage func()) {
	if len(os.Args) <= 1 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "version":
		fmt.Println(osmdocs.Version)
		os.Exit(0)
	case config.CountTags, config.CountKeys, config.CountUsers, config.Summary, config.Export, config.Load:
	default:
		usage()
		log.Fatalf("[fatal] invalid command: '%s'", cmd)
	}

	opts, err := config.Parse(cmd, os.Args[2:])
	if err != nil {
		config.Usage(os.Stderr, cmd)
		log.Fatalf("[fatal] %s", err)
	}
	if opts.Quiet {
		log.SetMinLevel(log.LWarn)
	}
	if opts.Httpprofile != "" {
		stats.StartHttpPProf(opts.Httpprofile)
	}

	ctx := context.Background()
	if opts.MemProfile != "" {
		profCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			if err := stats.MemProfiler(profCtx, opts.MemProfile, 10*time.Second); err != nil {
				log.Printf("[warn] %s", err)
			}
		}()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := run(ctx, cmd, opts, os.Stdout); err != nil {
		log.Fatalf("[fatal] %s", err)
	}
	fmt.Printf("Elapsed time: %s\n", time.Since(start))

	if opts.MetricsFile != "" {
		if err := stats.WriteTextfile(opts.MetricsFile); err != nil {
			log.Printf("[warn] %s", err)
		}
	}
}

func main() {
	Main(PrintCmds)
}
