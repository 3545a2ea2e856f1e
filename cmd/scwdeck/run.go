package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ChicagoDave/scwdeck/internal/watch"
	"github.com/ChicagoDave/scwdeck/pkg/deck"
	"github.com/ChicagoDave/scwdeck/pkg/spec"
)

// loadAndValidate loads the project and runs every validation stage.
func loadAndValidate(projectPath string) (*deck.Build, error) {
	b, err := deck.BuildProject(projectPath, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("project built",
		zap.String("project", projectPath),
		zap.Bool("valid", b.Report.Valid),
		zap.String("summary", b.Report.Summary),
	)
	return b, nil
}

func runValidate(projectPath string) error {
	b, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(b.Report)

	if !b.Report.Valid {
		os.Exit(1)
	}
	return nil
}

func runBuild(projectPath, output string, manifest bool) error {
	b, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !b.Report.Valid {
		printValidationReport(b.Report)
		return fmt.Errorf("no deck written: %w", b.Report.Err())
	}
	if len(b.Report.Warnings) > 0 {
		printValidationReport(b.Report)
		fmt.Println()
	}

	rendered, err := b.Deck.Bytes()
	if err != nil {
		return fmt.Errorf("rendering deck: %w", err)
	}
	if output == "" {
		output = b.Spec.OutputPath()
	}
	if err := os.WriteFile(output, rendered, 0o644); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}
	logger.Info("deck written", zap.String("path", output), zap.Int("bytes", len(rendered)))

	printDeckSummary(b.Deck.Summary(), output)

	if manifest {
		path := deck.ManifestPath(output)
		if err := deck.WriteManifest(path, deck.NewManifest(b.Deck, output, rendered)); err != nil {
			return err
		}
		fmt.Printf("  Manifest:    %s\n", path)
	}
	return nil
}

func runLattice(projectPath string) error {
	b, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !b.Report.Valid {
		printValidationReport(b.Report)
		return b.Report.Err()
	}
	if b.Deck.Lattice == nil {
		return errors.New("spec has no lattice")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(b.Deck.Lattice)
}

// runWatch builds once, then again after every change to a project file.
// Build failures are reported and the watch continues.
func runWatch(ctx context.Context, projectPath, output string, debounce time.Duration) error {
	s, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	rebuild := func() {
		start := time.Now()
		if err := runBuild(projectPath, output, false); err != nil {
			logger.Warn("rebuild failed", zap.Error(err))
			fmt.Printf("Build failed: %v\n", err)
			return
		}
		logger.Debug("rebuilt", zap.Duration("elapsed", time.Since(start)))
	}

	w, err := watch.New(s.Files(), debounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	rebuild()
	fmt.Printf("Watching %d files in %s (Ctrl-C to stop)\n", len(s.Files()), projectPath)
	return w.Run(ctx, rebuild)
}
