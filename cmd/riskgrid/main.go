// Command riskgrid computes the Saint Petersburg risk grid offline and writes it as GeoJSON.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
	"github.com/jengzang/ecorisk-backend-go/internal/render"
	"github.com/jengzang/ecorisk-backend-go/internal/risk"
	"github.com/jengzang/ecorisk-backend-go/internal/sources"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "riskgrid:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("riskgrid", flag.ContinueOnError)
	sourcesPath := fs.String("sources", "", "CSV file with pollution sources (default: built-in demo set)")
	cellSize := fs.Float64("cell-size", risk.DefaultCellSize, "grid cell size in degrees")
	workers := fs.Int("workers", runtime.NumCPU(), "goroutines for the aggregation pass")
	lat := fs.Float64("lat", models.DefaultCenterLat, "analysis center latitude")
	lon := fs.Float64("lon", models.DefaultCenterLon, "analysis center longitude")
	radius := fs.Float64("radius", models.DefaultRadius, "analysis radius in meters")
	all := fs.Bool("all", false, "write every grid cell instead of the cells around the center")
	out := fs.String("out", "", "output path (default: stdout)")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := observability.NewLogger(*logLevel, "text")

	set, err := loadSources(*sourcesPath)
	if err != nil {
		return err
	}

	start := time.Now()
	grid, err := risk.BuildGrid(risk.SaintPetersburg, *cellSize)
	if err != nil {
		return err
	}
	grid = risk.NewAggregator(risk.DefaultTypeWeights(), *workers).Aggregate(grid, set)
	logger.Info("risk grid computed", "cells", len(grid), "sources", len(set), "duration", time.Since(start))

	var raw []byte
	if *all {
		raw, err = render.GridFeatureCollection(grid).MarshalJSON()
	} else {
		center := models.AnalysisCenter{Lat: *lat, Lon: *lon}
		m := render.Build(grid, set, center, *radius)
		logger.Info("cells in radius", "visible", m.VisibleCells, "max_risk", m.MaxRisk)
		raw, err = render.FeatureCollection(m).MarshalJSON()
	}
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}

	if *out == "" {
		_, err = stdout.Write(raw)
		return err
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	logger.Info("wrote geojson", slog.String("path", *out), slog.Int("bytes", len(raw)))
	return nil
}

func loadSources(path string) ([]models.PollutionSource, error) {
	if path == "" {
		return sources.Demo(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources: %w", err)
	}
	defer f.Close()

	return sources.ParseCSV(f)
}
