package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	verdict "github.com/verdictai/verdict-go"
)

func logCmd() *cobra.Command {
	var (
		appName       string
		environment   string
		query         string
		output        string
		documents     []string
		instructions  []string
		tags          []string
		detections    []string
		detectionRate float64
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record one model interaction and print its log ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			if appName != "" {
				cfg.AppName = appName
			}
			if environment != "" {
				cfg.Environment = environment
			}
			logger, err := initLogger(cfg, client)
			if err != nil {
				return err
			}

			params := verdict.LogParams{
				UserQuery:    query,
				ModelOutput:  output,
				Documents:    toAnySlice(documents),
				Instructions: instructions,
				Tags:         parseTags(tags),
			}
			if len(detections) > 0 {
				for _, d := range detections {
					params.Detections = append(params.Detections, verdict.DetectionType(d))
				}
				params.DetectionSampleRate = verdict.Float64(detectionRate)
			}

			id := logger.Log(cmd.Context(), params)
			if id == "" {
				return fmt.Errorf("log was not recorded, see diagnostics above")
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&appName, "app", "", "application name (overrides config)")
	cmd.Flags().StringVar(&environment, "env", "", "environment name (overrides config)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "user query")
	cmd.Flags().StringVarP(&output, "output", "o", "", "model output")
	cmd.Flags().StringArrayVarP(&documents, "document", "d", nil, "context document (repeatable)")
	cmd.Flags().StringArrayVar(&instructions, "instruction", nil, "system instruction (repeatable)")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&detections, "detect", nil, "detection to request: hallucination or document_relevancy (repeatable)")
	cmd.Flags().Float64Var(&detectionRate, "detect-rate", 1, "fraction of recorded logs to run detections on")

	return cmd
}

func toAnySlice(values []string) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// parseTags turns key=value pairs into a tag map. Values without '=' become
// boolean true tags.
func parseTags(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	tags := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			tags[pair] = true
			continue
		}
		tags[key] = value
	}
	return tags
}
