package main

import (
	"fmt"

	"github.com/ChicagoDave/scwdeck/pkg/deck"
	"github.com/ChicagoDave/scwdeck/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.SpecPath != "" {
		if res.ActualValue != nil {
			fmt.Printf("    -> %s = %v\n", res.SpecPath, res.ActualValue)
		} else {
			fmt.Printf("    -> %s\n", res.SpecPath)
		}
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	if res.ConflictWith != "" {
		fmt.Printf("    conflicts with: %s\n", res.ConflictWith)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printDeckSummary(s deck.Summary, output string) {
	fmt.Println(s.Title)
	fmt.Println("-------")
	fmt.Printf("  Deck:        %s\n", output)
	fmt.Printf("  Regions:     %d\n", s.Regions)
	fmt.Printf("  Cells:       %d\n", s.Cells)
	fmt.Printf("  Surfaces:    %d\n", s.Surfaces)
	fmt.Printf("  Materials:   %d\n", s.Materials)
	fmt.Printf("  Assemblies:  %d\n", s.Assemblies)
}
