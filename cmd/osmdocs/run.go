package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/omniscale/osmdocs/config"
	"github.com/omniscale/osmdocs/count"
	"github.com/omniscale/osmdocs/database"
	_ "github.com/omniscale/osmdocs/database/mongodb"
	"github.com/omniscale/osmdocs/document"
	"github.com/omniscale/osmdocs/export"
	"github.com/omniscale/osmdocs/keys"
	"github.com/omniscale/osmdocs/load"
	"github.com/omniscale/osmdocs/log"
	"github.com/omniscale/osmdocs/parser/osmxml"
	"github.com/omniscale/osmdocs/stats"
)

// run executes cmd and prints its result to w.
func run(ctx context.Context, cmd string, opts config.Base, w io.Writer) error {
	defer step(cmd)()

	switch cmd {
	case config.Load:
		return runLoad(ctx, opts, w)
	case config.Export:
		x := export.Exporter{
			Shaper: document.NewShaper(keys.NewClassifier(opts.KeyCache)),
			Pretty: opts.Pretty,
		}
		output := opts.Output
		if output == "" {
			output = export.OutputName(opts.Input)
		}
		n, err := x.File(opts.Input, output)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported %d documents to %s\n", n, output)
		return nil
	}

	parser, err := osmxml.Open(opts.Input)
	if err != nil {
		return err
	}
	defer parser.Close()
	s := stats.NewProgress(cmd, parser)

	switch cmd {
	case config.CountTags:
		tags, err := count.Tags(s)
		if err != nil {
			return err
		}
		printTags(w, tags)
	case config.CountKeys:
		keyTypes, err := count.KeyTypes(s, keys.NewClassifier(opts.KeyCache))
		if err != nil {
			return err
		}
		printKeyTypes(w, keyTypes)
	case config.CountUsers:
		users, err := count.Users(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Number of users: %d\n", len(users))
	case config.Summary:
		sum, err := count.All(s, keys.NewClassifier(opts.KeyCache))
		if err != nil {
			return err
		}
		printTags(w, sum.Tags)
		printKeyTypes(w, sum.KeyTypes)
		fmt.Fprintf(w, "Number of users: %d\n", len(sum.Users))
	default:
		return errors.Errorf("invalid command: '%s'", cmd)
	}
	return nil
}

func runLoad(ctx context.Context, opts config.Base, w io.Writer) error {
	store, err := database.Open(ctx, database.Config{
		ConnectionParams: opts.Connection,
		Database:         opts.Database,
		Collection:       opts.Collection,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			log.Printf("[warn] closing database: %s", err)
		}
	}()

	n, err := load.Load(ctx, opts.Input, store)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Number of entries: %d\n", n)

	if sampler, ok := store.(database.Sampler); ok && n > 0 {
		doc, err := sampler.Sample(ctx)
		if err != nil {
			log.Printf("[warn] %s", err)
		} else if doc != "" {
			fmt.Fprintf(w, "Sample document: %s\n", doc)
		}
	}
	return nil
}

func step(name string) func() {
	start := time.Now()
	done := log.Step(name)
	return func() {
		done()
		stats.RecordStep(name, time.Since(start))
	}
}

func printTags(w io.Writer, tags count.TagCounter) {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-12s %d\n", name, tags[name])
	}
	fmt.Fprintf(w, "Number of elements: %d\n", tags.Total())
}

func printKeyTypes(w io.Writer, keyTypes map[keys.Class]int) {
	for _, class := range keys.Classes {
		fmt.Fprintf(w, "%-12s %d\n", class, keyTypes[class])
	}
}
