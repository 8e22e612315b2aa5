// Command gbadbg-test is a conformance test runner for the GBA debug
// log protocol.
//
// This command runs YAML scenarios against an emulated host device,
// validating that the guest logger and the host capture pipeline
// behave as specified: chunked sends, level encoding, fatal halts,
// interrupt reentrancy, host-absent operation and reset handling.
//
// Usage:
//
//	gbadbg-test [flags] [scenario-pattern]
//
// Flags:
//
//	-cases string       Path to scenario directory (default "./testdata/cases")
//	-recursive          Recurse into subdirectories when loading scenarios
//	-tag string         Only run scenarios carrying this tag
//	-timeout duration   Default scenario timeout (default 30s)
//	-verbose            Enable verbose output
//	-json               Output results as JSON
//	-junit              Output results as JUnit XML
//	-capture string     File path for captured records (CBOR format)
//	-stop-on-failure    Stop after the first failing scenario
//
// Examples:
//
//	# Run every scenario under ./testdata/cases
//	gbadbg-test
//
//	# Run the chunking scenarios with verbose step output
//	gbadbg-test -verbose "SC-CHUNK.*"
//
//	# Run the fatal scenarios and archive every captured record
//	gbadbg-test -tag fatal -capture run.dlog
//
//	# Emit JUnit XML for CI
//	gbadbg-test -junit > results.xml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/gbadbg/gbadbg-go/internal/harness/engine"
	"github.com/gbadbg/gbadbg-go/internal/harness/loader"
	"github.com/gbadbg/gbadbg-go/internal/harness/reporter"
	"github.com/gbadbg/gbadbg-go/pkg/capture"
)

var (
	cases       = flag.String("cases", "./testdata/cases", "Path to scenario directory")
	recursive   = flag.Bool("recursive", false, "Recurse into subdirectories when loading scenarios")
	tag         = flag.String("tag", "", "Only run scenarios carrying this tag")
	timeout     = flag.Duration("timeout", 30*time.Second, "Default scenario timeout")
	verbose     = flag.Bool("verbose", false, "Enable verbose output")
	jsonOut     = flag.Bool("json", false, "Output results as JSON")
	junitOut    = flag.Bool("junit", false, "Output results as JUnit XML")
	captureFile = flag.String("capture", "", "File path for captured records (CBOR format)")
	stopOnFail  = flag.Bool("stop-on-failure", false, "Stop after the first failing scenario")
)

func main() {
	flag.Parse()

	// Get optional scenario pattern
	pattern := ""
	if flag.NArg() > 0 {
		pattern = flag.Arg(0)
	}

	// Determine output format
	outputFormat := "text"
	if *jsonOut {
		outputFormat = "json"
	} else if *junitOut {
		outputFormat = "junit"
	}

	// Setup logging for text output
	if outputFormat == "text" {
		log.SetFlags(log.Ltime)
		if *verbose {
			log.SetFlags(log.Ltime | log.Lmicroseconds)
		}
		printBanner()
		log.Printf("Scenarios: %s", *cases)
		if *tag != "" {
			log.Printf("Tag: %s", *tag)
		}
		if pattern != "" {
			log.Printf("Pattern: %s", pattern)
		}
		log.Println()
	}

	scenarios, err := loadScenarios(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scenarios matched")
		os.Exit(1)
	}

	// Set up record capture if requested
	var archive *capture.FileSink
	if *captureFile != "" {
		archive, err = capture.NewFileSink(*captureFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create capture file: %v\n", err)
			os.Exit(1)
		}
		defer archive.Close()
		if outputFormat == "text" {
			log.Printf("Capturing records to: %s", *captureFile)
		}
	}

	config := engine.DefaultConfig()
	config.DefaultTimeout = *timeout
	config.StopOnFirstFailure = *stopOnFail
	// Only set sink when non-nil to avoid typed-nil interface issue.
	if archive != nil {
		config.CaptureSink = archive
	}

	// Progressive per-scenario reporting for text output
	text := reporter.NewTextReporter(os.Stdout, *verbose)
	if outputFormat == "text" {
		config.OnScenarioComplete = text.ReportScenario
	}

	eng := engine.NewWithConfig(config)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result := eng.RunSuite(ctx, scenarios)

	switch outputFormat {
	case "json":
		reporter.NewJSONReporter(os.Stdout, true).ReportSuite(result)
	case "junit":
		reporter.NewJUnitReporter(os.Stdout).ReportSuite(result)
	default:
		text.ReportSummary(result)
	}

	// Exit with appropriate code
	if result.FailCount > 0 {
		os.Exit(1)
	}
}

// loadScenarios reads the scenario directory and applies the tag and
// pattern filters. The pattern matches against scenario IDs and names.
func loadScenarios(pattern string) ([]*loader.Scenario, error) {
	load := loader.LoadDirectory
	if *recursive {
		load = loader.LoadDirectoryRecursive
	}

	scenarios, err := load(*cases)
	if err != nil {
		return nil, err
	}

	if *tag != "" {
		scenarios = loader.FilterByTag(scenarios, *tag)
	}

	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario pattern: %w", err)
		}
		var matched []*loader.Scenario
		for _, sc := range scenarios {
			if re.MatchString(sc.ID) || re.MatchString(sc.Name) {
				matched = append(matched, sc)
			}
		}
		scenarios = matched
	}

	return scenarios, nil
}

func printBanner() {
	fmt.Print(`
  ____  ____      _     ____   ____    ____
 / ___|| __ )    / \   |  _ \ | __ )  / ___|
| |  _ |  _ \   / _ \  | | | ||  _ \ | |  _
| |_| || |_) | / ___ \ | |_| || |_) || |_| |
 \____||____/ /_/   \_\|____/ |____/  \____|

Debug Log Conformance Test Runner
`)
}
