// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/jobmatch"
	"github.com/poiesic/jobmatch/config"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/ingest"
	"github.com/poiesic/jobmatch/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	sessionFlag := &cli.StringFlag{
		Name:    "session",
		Aliases: []string{"s"},
		Usage:   "Session ID",
	}

	return &cli.App{
		Name:  "jobmatch",
		Usage: "Match a résumé against job listings and route follow-up searches",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (default is jobmatch.yaml in the current directory)",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory for sessions, checkpoints and the local index (overrides config)",
			},
			&cli.StringFlag{
				Name:  "chat-model",
				Usage: "Chat model name (overrides config)",
			},
			&cli.StringFlag{
				Name:  "classifier",
				Usage: "Intent classifier: llm or keyword (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Load a JSON-lines listing file into the job store and vector index",
				ArgsUsage: "<listings.jsonl>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "restart",
						Usage: "Ignore the saved checkpoint and process the file from the start",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Listings committed per chunk (0 uses the config value)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent indexing workers (0 uses the config value)",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored job into the vector index after changing embedding models",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Jobs embedded per request (0 uses the config value)",
					},
				},
			},
			{
				Name:      "profile",
				Usage:     "Analyze a résumé and recommend matching jobs",
				ArgsUsage: "<resume.pdf|resume.txt>",
				Action:    profileCommand,
				Flags:     []cli.Flag{sessionFlag},
			},
			{
				Name:      "search",
				Usage:     "Route an instruction to refine, semantic or structured search",
				ArgsUsage: "<instruction...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					sessionFlag,
					&cli.BoolFlag{
						Name:  "adopt",
						Usage: "Replace the session's job list with the results",
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Log each pipeline stage and print the message trace",
					},
				},
			},
			{
				Name:      "consult",
				Usage:     "Ask for career advice about the job most recently saved to a session",
				ArgsUsage: "<question...>",
				Action:    consultCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: "Session ID", Required: true},
					&cli.BoolFlag{Name: "references", Usage: "Print the listings the answer was grounded on"},
				},
			},
			{
				Name:  "session",
				Usage: "Inspect and update sessions",
				Subcommands: []*cli.Command{
					{
						Name:   "new",
						Usage:  "Create an empty session",
						Action: sessionNewCommand,
					},
					{
						Name:   "show",
						Usage:  "Print a session",
						Action: sessionShowCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: "Session ID", Required: true},
						},
					},
					{
						Name:   "save-job",
						Usage:  "Mark a job from the session's list as preferred",
						Action: saveJobCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: "Session ID", Required: true},
							&cli.IntFlag{Name: "job", Aliases: []string{"j"}, Usage: "Position of the job in the list, starting at 1", Required: true},
						},
					},
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if model := c.String("chat-model"); model != "" {
		cfg.AI.ChatModel = model
	}
	if classifier := c.String("classifier"); classifier != "" {
		cfg.Router.Classifier = classifier
	}
	return cfg, nil
}

func openEngine(c *cli.Context) (*jobmatch.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	engine, err := jobmatch.NewEngine(c.Context, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("listings file is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open listings: %w", err)
	}
	defer f.Close()

	listings, err := ingest.ReadListings(f)
	if err != nil {
		return fmt.Errorf("failed to read listings: %w", err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []ingest.Option{ingest.WithProgress(os.Stderr)}
	if n := c.Int("batch-size"); n > 0 {
		opts = append(opts, ingest.WithBatchSize(n))
	}
	if n := c.Int("workers"); n > 0 {
		opts = append(opts, ingest.WithPoolSize(n))
	}
	p, err := engine.NewIngestPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create ingest pipeline: %w", err)
	}
	defer p.Release()

	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}
	stats, err := p.Run(c.Context, source, listings, c.Bool("restart"))
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Listings:   %d\n", stats.Listings)
	fmt.Fprintf(w, "Skipped:    %d\n", stats.Skipped)
	fmt.Fprintf(w, "Inserted:   %d\n", stats.Inserted)
	fmt.Fprintf(w, "Duplicates: %d\n", stats.Duplicates())
	fmt.Fprintf(w, "Indexed:    %d\n", stats.Indexed)
	fmt.Fprintf(w, "Elapsed:    %s\n", stats.Elapsed.Round(time.Millisecond))
	return nil
}

func reindexCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []ingest.Option{ingest.WithProgress(os.Stderr)}
	if n := c.Int("batch-size"); n > 0 {
		opts = append(opts, ingest.WithBatchSize(n))
	}
	p, err := engine.NewIngestPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create ingest pipeline: %w", err)
	}
	defer p.Release()

	stats, err := p.Reindex(c.Context)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Reindexed %d of %d jobs in %s\n", stats.Indexed, stats.Listings, stats.Elapsed.Round(time.Millisecond))
	return nil
}

func profileCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("resume file is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	session, err := engine.AnalyzeResume(c.Context, c.String("session"), path)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	printSession(c.App.Writer, session)
	return nil
}

func searchCommand(c *cli.Context) error {
	instruction := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if instruction == "" {
		return errors.New("instruction is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	var monitor pipeline.Monitor
	if c.Bool("trace") {
		monitor = &pipeline.LogMonitor{Logger: slog.Default()}
	}
	result, err := engine.SearchWithMonitor(c.Context, c.String("session"), instruction, c.Bool("adopt"), monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := c.App.Writer
	if c.Bool("trace") {
		for _, m := range result.Messages {
			fmt.Fprintf(w, "[%s] %s\n", m.Role, m.Content)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Route: %s\n", result.Route)
	if suggestion, ok := result.Suggestion(); ok {
		fmt.Fprintln(w, suggestion)
		return nil
	}
	printJobs(w, result.BestJobs)
	return nil
}

func consultCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return errors.New("question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	advice, err := engine.Consult(c.Context, c.String("session"), question)
	if err != nil {
		return fmt.Errorf("consultation failed: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s at %s\n\n%s\n", advice.Job.Title, advice.Job.Company, advice.Answer)
	if c.Bool("references") && len(advice.References) > 0 {
		fmt.Fprintln(w, "\nRelated listings:")
		printJobs(w, advice.References)
	}
	return nil
}

func sessionNewCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	session, err := engine.NewSession(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, session.ID)
	return nil
}

func sessionShowCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	session, err := engine.Session(c.Context, c.String("session"))
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	printSession(c.App.Writer, session)
	return nil
}

func saveJobCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	session, err := engine.SaveJob(c.Context, c.String("session"), c.Int("job")-1)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Saved jobs (%d):\n", len(session.Saved))
	printJobs(c.App.Writer, session.Saved)
	return nil
}

func printSession(w io.Writer, s *core.Session) {
	fmt.Fprintf(w, "Session: %s\n", s.ID)
	if s.UserName != "" {
		fmt.Fprintf(w, "Name:    %s\n", s.UserName)
	}
	if s.Assessment.Code != "" || s.Assessment.Narrative != "" {
		fmt.Fprintf(w, "Type:    %s\n%s\n", s.Assessment.Code, s.Assessment.Narrative)
	}
	if s.Summary != "" {
		fmt.Fprintf(w, "\nSummary:\n%s\n", s.Summary)
	}
	fmt.Fprintf(w, "\nJobs (%d):\n", len(s.Jobs))
	printJobs(w, s.Jobs)
	if len(s.Saved) > 0 {
		fmt.Fprintf(w, "\nSaved (%d):\n", len(s.Saved))
		printJobs(w, s.Saved)
	}
}

func printJobs(w io.Writer, jobs []core.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, j := range jobs {
		fmt.Fprintf(w, "%3d. %s at %s\n", i+1, j.Title, j.Company)
		fmt.Fprintf(w, "     %s | %s | %s | %s\n", j.Location, j.WorkStyle, j.WorkType, j.Salary)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
