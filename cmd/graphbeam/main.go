// Package main provides the graphbeam CLI: it generates or loads a graph,
// runs a prebuilt computation over it, and optionally exports the result as
// a snapshot file.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/graphbeam/graphbeam/internal/infrastructure/progress"
	"github.com/graphbeam/graphbeam/pkg/graphbeam"
	"github.com/graphbeam/graphbeam/pkg/prebuilt"
	"github.com/graphbeam/graphbeam/pkg/serialization"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("graphbeam %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return
	}

	var (
		algorithm   = flag.String("algorithm", "pagerank", "prebuilt computation to run")
		nodes       = flag.Int64("nodes", 10_000, "node count of the generated graph")
		avgDegree   = flag.Int("avg-degree", 8, "average out-degree of the generated graph")
		seed        = flag.Int64("seed", 42, "random seed for graph generation")
		iterations  = flag.Int("iterations", 50, "superstep cap")
		concurrency = flag.Int("concurrency", 0, "worker count (0 = NumCPU)")
		async       = flag.Bool("async", false, "deliver messages within the same superstep")
		output      = flag.String("output", "", "write a result snapshot to this file")
		codec       = flag.String("codec", "msgpack", "snapshot codec: msgpack or json")
		compression = flag.String("compression", "zstd", "snapshot compression: none, gzip, or zstd")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(log, *algorithm, *nodes, *avgDegree, *seed, *iterations, *concurrency,
		*async, *output, *codec, *compression); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, algorithm string, nodes int64, avgDegree int, seed int64,
	iterations, concurrency int, async bool, output, codec, compression string) error {

	registry := prebuilt.DefaultRegistry()
	algo, ok := registry.Get(algorithm)
	if !ok {
		names := registry.Names()
		sort.Strings(names)
		return fmt.Errorf("unknown algorithm %q (have: %s)", algorithm, strings.Join(names, ", "))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Int64("nodes", nodes).Int("avg_degree", avgDegree).Msg("generating graph")
	g, err := generateGraph(nodes, avgDegree, seed)
	if err != nil {
		return fmt.Errorf("graph generation: %w", err)
	}

	rt := graphbeam.NewRuntime(
		graphbeam.WithLogger(log),
		graphbeam.WithProgressTracker(progress.NewTask(algorithm, log)),
	)
	cfg := graphbeam.Config{
		MaxIterations:  iterations,
		Concurrency:    concurrency,
		IsAsynchronous: async,
	}

	schema, err := algo.Schema()
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := rt.RunWithMessenger(ctx, g, schema, algo.Computation(), cfg, algo.Messenger(g.NodeCount()))
	if err != nil {
		return err
	}

	log.Info().
		Str("algorithm", algorithm).
		Int("ran_iterations", result.RanIterations).
		Bool("did_converge", result.DidConverge).
		Dur("elapsed", time.Since(started)).
		Msg("computation finished")

	if output == "" {
		return nil
	}
	return writeSnapshot(log, result, g, output, codec, compression)
}

// generateGraph builds a uniform random graph with self-loops filtered out.
func generateGraph(nodes int64, avgDegree int, seed int64) (graphbeam.Graph, error) {
	rng := rand.New(rand.NewSource(seed))
	b := graphbeam.NewGraphBuilder()
	for id := int64(0); id < nodes; id++ {
		b.AddNode(id)
	}
	for source := int64(0); source < nodes; source++ {
		for i := 0; i < avgDegree; i++ {
			target := rng.Int63n(nodes)
			if target == source {
				continue
			}
			b.AddRelationship(source, target)
		}
	}
	return b.Build()
}

func writeSnapshot(log zerolog.Logger, result graphbeam.Result, g graphbeam.Graph,
	path, codecName, compression string) error {

	var codec serialization.Codec
	switch codecName {
	case "msgpack":
		codec = serialization.NewMsgPackCodec()
	case "json":
		codec = serialization.NewJSONCodec()
	default:
		return fmt.Errorf("unknown codec %q", codecName)
	}

	var compressionType serialization.CompressionType
	switch compression {
	case "none":
		compressionType = serialization.CompressionNone
	case "gzip":
		compressionType = serialization.CompressionGzip
	case "zstd":
		compressionType = serialization.CompressionZstd
	default:
		return fmt.Errorf("unknown compression %q", compression)
	}

	snap, err := serialization.BuildSnapshot(result, g)
	if err != nil {
		return fmt.Errorf("snapshot build: %w", err)
	}

	serializer := serialization.NewSerializer(serialization.Config{
		Codec:       codec,
		Compression: compressionType,
	})
	data, err := serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("snapshot serialize: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("snapshot written")
	return nil
}
