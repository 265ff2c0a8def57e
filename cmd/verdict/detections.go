package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	verdict "github.com/verdictai/verdict-go"
	"github.com/verdictai/verdict-go/trace"
)

const (
	colorReset   = "\033[0m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBoldRed = "\033[1;31m"
	colorDim     = "\033[2m"
)

const maxReasoningLen = 200

func detectionsCmd() *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
		asJSON   bool
		traceDir string
	)

	cmd := &cobra.Command{
		Use:   "detections <log-id> [log-id...]",
		Short: "Wait for detection results on one or more logs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			if cfg.AppName == "" {
				cfg.AppName = "verdict-cli"
			}
			logger, err := initLogger(cfg, client)
			if err != nil {
				return err
			}
			if timeout <= 0 {
				timeout = time.Duration(cfg.PollTimeout) * time.Second
			}
			if interval <= 0 {
				interval = time.Duration(cfg.PollInterval) * time.Second
			}

			lc := &trace.Lifecycle{}
			defer lc.Shutdown(context.Background())
			var tracer *trace.Tracer
			if traceDir != "" {
				tracer = trace.New(
					trace.Config{ServiceName: cfg.AppName, Environment: cfg.Environment},
					trace.WithExporter(trace.NewFileExporter(traceDir)),
					trace.WithLifecycle(lc),
				)
			}

			s := spinner.New(spinner.CharSets[11], 200*time.Millisecond)
			s.Suffix = fmt.Sprintf(" waiting on %d log(s)", len(args))
			s.Start()

			results := make([]*verdict.DetectionResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, id := range args {
				g.Go(func() error {
					pollCtx := ctx
					if tracer != nil {
						var span *trace.Span
						pollCtx, span = tracer.StartSpan(ctx, "poll-detections",
							trace.WithKind("poll"),
							trace.WithAttributes(map[string]any{"log_id": id}),
						)
						defer span.End()
					}
					res := logger.PollForDetections(pollCtx, id,
						verdict.WithPollTimeout(timeout),
						verdict.WithPollInterval(interval),
					)
					if res == nil {
						if span := trace.FromContext(pollCtx); span != nil {
							span.SetStatus("error")
						}
						return fmt.Errorf("no terminal detection status for log %s", id)
					}
					results[i] = res
					return nil
				})
			}
			waitErr := g.Wait()
			s.Stop()

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(compactResults(results), "", "  ")
				if err != nil {
					return fmt.Errorf("marshal results: %w", err)
				}
				fmt.Fprintln(out, string(data))
			} else {
				for i, res := range results {
					if res == nil {
						fmt.Fprintf(out, "%s[timeout]%s %s\n", colorBoldRed, colorReset, args[i])
						continue
					}
					printResult(out, res)
				}
			}
			return waitErr
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall wait deadline (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause between status queries (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&traceDir, "trace-dir", "", "capture a trace of each poll as JSON under this directory")

	return cmd
}

func compactResults(results []*verdict.DetectionResult) []*verdict.DetectionResult {
	out := make([]*verdict.DetectionResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func printResult(w io.Writer, res *verdict.DetectionResult) {
	badge := fmt.Sprintf("%s[ok]%s", colorGreen, colorReset)
	if res.IsHallucinated {
		badge = fmt.Sprintf("%s[hallucinated]%s", colorBoldRed, colorReset)
	}
	fmt.Fprintf(w, "%s %s %s%s%s\n", badge, res.Log.ID, colorDim, res.Log.Status, colorReset)

	printEvaluations(w, "documents", res.DocEvaluations)
	printEvaluations(w, "messages", res.MessageHistoryEvaluations)
	printEvaluations(w, "instructions", res.InstructionEvaluations)
	printEvaluations(w, "full context", res.FullDocContextEvaluations)
}

func printEvaluations(w io.Writer, label string, evals []verdict.Evaluation) {
	for _, ev := range evals {
		color := colorGreen
		switch ev.Score {
		case verdict.ScoreFail:
			color = colorBoldRed
		case verdict.ScoreInconclusive:
			color = colorYellow
		}
		fmt.Fprintf(w, "  %s%-12s%s #%d %s%s%s %s\n",
			colorDim, label, colorReset,
			ev.Index,
			color, ev.Score, colorReset,
			truncate(ev.Reasoning, maxReasoningLen),
		)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
