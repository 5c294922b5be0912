package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/himanishpuri/PhysioFeat/pkg/logger"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/features"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/storage"
	"github.com/himanishpuri/PhysioFeat/pkg/utils"
)

// Global flags
var (
	dbPath     string
	configPath string
	workers    int
)

func init() {
	flag.StringVar(&dbPath, "db", getEnvOrDefault("PHYSIO_DB_PATH", storage.DefaultDBFile), "SQLite file or postgres/mysql DSN")
	flag.StringVar(&configPath, "config", os.Getenv("PHYSIO_CONFIG"), "TOML extraction config (defaults when empty)")
	flag.IntVar(&workers, "workers", 0, "Parallel sessions for batch (0 = CPU count)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func featureConfig() (features.Config, error) {
	if configPath == "" {
		return features.DefaultConfig(), nil
	}
	return physiofeat.LoadConfigFile(configPath)
}

// createService creates a new service with configured options
func createService() (physiofeat.Service, error) {
	cfg, err := featureConfig()
	if err != nil {
		return nil, err
	}
	return physiofeat.NewService(
		physiofeat.WithDBPath(dbPath),
		physiofeat.WithWorkers(workers),
		physiofeat.WithFeatureConfig(cfg),
	)
}

func mustService() physiofeat.Service {
	svc, err := createService()
	if err != nil {
		logger.Fatalf("Service initialization failed: %v", err)
	}
	return svc
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command, args := flag.Arg(0), flag.Args()[1:]
	logger.Debugf("Executing command: %s", command)

	switch command {
	case "extract":
		handleExtract(args)
	case "batch":
		handleBatch(args)
	case "list":
		handleList()
	case "export":
		handleExport(args)
	case "config":
		handleConfig()
	case "delete":
		handleDelete(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// metricFlags collects repeated -metric name=value flags.
type metricFlags map[string]float64

func (m metricFlags) String() string { return fmt.Sprint(map[string]float64(m)) }

func (m metricFlags) Set(s string) error {
	name, val, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("want name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("metric %s: %w", name, err)
	}
	m[name] = v
	return nil
}

func handleExtract(args []string) {
	var src source
	metrics := metricFlags{}

	cmd := flag.NewFlagSet("extract", flag.ExitOnError)
	cmd.IntVar(&src.Subject, "subject", 0, "Participant number (required)")
	cmd.StringVar(&src.Condition, "condition", "", "Condition label (required)")
	cmd.IntVar(&src.Round, "round", 1, "Round within the session")
	cmd.StringVar(&src.Bio, "bio", "", "Bio amplifier CSV export")
	cmd.StringVar(&src.Force, "force", "", "Force sensor CSV export")
	cmd.StringVar(&src.EDF, "edf", "", "EDF/EDF+ file")
	cmd.StringVar(&src.WAV, "wav", "", "Multichannel WAV file")
	cmd.Float64Var(&src.Rate, "rate", 0, "Sample rate in Hz for bio CSV (default 1000) and EDF (required)")
	channels := cmd.String("channels", "", "Cardiac,EDA,respiration indices for EDF/WAV, -1 when absent")
	cmd.Var(metrics, "metric", "Task metric name=value, repeatable")
	cmd.Parse(args)

	if src.Subject == 0 || src.Condition == "" {
		fmt.Println("Usage: physiofeat extract -subject <n> -condition <label> [-round <n>] [-bio f.csv | -edf f.edf | -wav f.wav] [-force f.csv]")
		os.Exit(1)
	}
	if *channels != "" {
		for _, part := range strings.Split(*channels, ",") {
			idx, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				logger.Fatalf("Invalid -channels %q: %v", *channels, err)
			}
			src.Channels = append(src.Channels, idx)
		}
	}
	src.Metrics = metrics

	job, err := src.job()
	if err != nil {
		logger.Fatalf("Loading session failed: %v", err)
	}

	svc := mustService()
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := svc.Extract(ctx, job)
	if err != nil {
		svc.Close()
		logger.Fatalf("Extract failed: %v", err)
	}
	printRecord(os.Stdout, res)
}

func handleBatch(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: physiofeat batch <manifest.toml>")
		os.Exit(1)
	}

	sources, err := loadManifest(args[0])
	if err != nil {
		logger.Fatalf("%v", err)
	}
	jobs := make([]physiofeat.Job, 0, len(sources))
	for _, s := range sources {
		job, err := s.job()
		if err != nil {
			logger.Fatalf("Loading session failed: %v", err)
		}
		jobs = append(jobs, job)
	}

	svc := mustService()
	defer svc.Close()

	start := time.Now()
	results, err := svc.ExtractBatch(context.Background(), jobs)
	if err != nil {
		svc.Close()
		logger.Fatalf("Batch failed: %v", err)
	}
	for _, r := range results {
		fmt.Printf("%-16s %s  (%d diagnostics)\n", r.Record.Identity, r.Record.ID, len(r.Diagnostics))
	}
	fmt.Printf("\nExtracted %d sessions in %s\n", len(results), time.Since(start).Round(time.Millisecond))
}

func handleList() {
	svc := mustService()
	defer svc.Close()

	list, err := svc.ListRecords()
	if err != nil {
		svc.Close()
		logger.Fatalf("ListRecords failed: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("No records in database")
		return
	}

	fmt.Printf("Found %d record(s):\n\n", len(list))
	for _, r := range list {
		fmt.Printf("%-16s %s  %2d computed, %2d missing  %s\n",
			r.Identity, r.ID, r.Computed, r.Missing, r.CreatedAt.Format(time.DateTime))
	}
}

func handleExport(args []string) {
	cmd := flag.NewFlagSet("export", flag.ExitOnError)
	out := cmd.String("o", "", "Output CSV path (stdout when empty)")
	cmd.Parse(args)

	svc := mustService()
	defer svc.Close()

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := utils.CreateFile(*out)
		if err != nil {
			svc.Close()
			logger.Fatalf("%v", err)
		}
		defer f.Close()
		w = f
	}

	if err := svc.ExportCSV(w); err != nil {
		svc.Close()
		logger.Fatalf("Export failed: %v", err)
	}
	if *out != "" {
		logger.Infof("Wrote %s", *out)
	}
}

func handleConfig() {
	cfg, err := featureConfig()
	if err != nil {
		logger.Fatalf("%v", err)
	}
	if err := physiofeat.WriteConfig(os.Stdout, cfg); err != nil {
		logger.Fatalf("%v", err)
	}
}

func handleDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: physiofeat delete <record_id>")
		os.Exit(1)
	}
	id := args[0]

	svc := mustService()
	defer svc.Close()

	rec, err := svc.GetRecord(id)
	if errors.Is(err, physiofeat.ErrNotFound) {
		fmt.Printf("Record not found (ID: %s)\n", id)
		svc.Close()
		os.Exit(1)
	}
	if err != nil {
		svc.Close()
		logger.Fatalf("GetRecord failed: %v", err)
	}

	if err := svc.DeleteRecord(id); err != nil {
		svc.Close()
		logger.Fatalf("DeleteRecord failed: %v", err)
	}
	fmt.Printf("Deleted %s (%s)\n", rec.Identity, id)
}

func printRecord(w io.Writer, res *physiofeat.Result) {
	fmt.Fprintf(w, "%s  %s\n\n", res.Record.Identity, res.Record.ID)
	for _, k := range features.Schema {
		v := res.Record.Features[k]
		if math.IsNaN(v) {
			fmt.Fprintf(w, "  %-18s %s\n", k, "NaN")
			continue
		}
		fmt.Fprintf(w, "  %-18s %.6g\n", k, v)
	}
	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(w, "\nDiagnostics:")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}
}

func printUsage() {
	fmt.Println("PhysioFeat - physiological feature extraction CLI")
	fmt.Println("\nGlobal Options:")
	fmt.Println("  -db <path|dsn>     Database (env: PHYSIO_DB_PATH, default: physiofeat.sqlite3)")
	fmt.Println("  -config <file>     TOML extraction config (env: PHYSIO_CONFIG)")
	fmt.Println("  -workers <n>       Parallel sessions for batch")
	fmt.Println("\nUsage:")
	fmt.Println("  physiofeat [global-options] extract -subject <n> -condition <c> [-round <n>] [-bio f.csv] [-force f.csv] [-metric name=v]")
	fmt.Println("  physiofeat [global-options] extract -subject <n> -condition <c> -edf f.edf -rate <hz> [-channels 0,1,2]")
	fmt.Println("  physiofeat [global-options] batch <manifest.toml>")
	fmt.Println("  physiofeat [global-options] list")
	fmt.Println("  physiofeat [global-options] export [-o features.csv]")
	fmt.Println("  physiofeat [global-options] config")
	fmt.Println("  physiofeat [global-options] delete <record_id>")
	fmt.Println("\nManifest:")
	fmt.Println("  [[session]]")
	fmt.Println("  subject = 1")
	fmt.Println("  condition = \"A\"")
	fmt.Println("  round = 1")
	fmt.Println("  bio = \"S1/A_R1_bio.csv\"")
	fmt.Println("  force = \"S1/A_R1_force.csv\"")
	fmt.Println("  [session.metrics]")
	fmt.Println("  Response_Time = 1.42")
}
