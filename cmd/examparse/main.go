// Command examparse runs the full document-to-structured-data pipeline:
// question booklet PDF (+ optional answer key PDF) in, merged question
// records out, as JSON and optionally as an XLSX workbook.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tradecbt/exam-parser/internal/common"
	"github.com/tradecbt/exam-parser/internal/export"
	"github.com/tradecbt/exam-parser/internal/merge"
	"github.com/tradecbt/exam-parser/internal/pipeline"
)

func main() {
	questionsPath := pflag.String("questions", "", "path to the question booklet PDF (required)")
	answersPath := pflag.String("answers", "", "path to the answer key PDF (optional)")
	outPath := pflag.String("out", "", "write merged questions as JSON to this path (default stdout)")
	xlsxPath := pflag.String("xlsx", "", "also write an XLSX workbook to this path")
	logLevel := pflag.String("log-level", "info", "log level: debug, info, warn, error")

	pflag.String("api-key", "", "OpenAI API key (env EXAMPARSE_API_KEY or OPENAI_API_KEY)")
	pflag.String("model", "", "model name override")
	pflag.Int("workers", 0, "section worker pool size override")
	pflag.Parse()

	viper.SetEnvPrefix("EXAMPARSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"api-key", "model", "workers"} {
		if err := viper.BindPFlag(name, pflag.Lookup(name)); err != nil {
			fmt.Fprintln(os.Stderr, "bind flag:", err)
			os.Exit(2)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	if *questionsPath == "" {
		logger.Error("usage: examparse --questions exam.pdf [--answers key.pdf] [--out out.json] [--xlsx out.xlsx]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if key := viper.GetString("api-key"); key != "" {
		cfg.LLM.APIKey = key
	}
	if model := viper.GetString("model"); model != "" {
		cfg.LLM.Model = model
	}
	if workers := viper.GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("no API key configured; only the deterministic answer path can succeed")
	}

	questionBytes, err := os.ReadFile(*questionsPath)
	if err != nil {
		logger.Error("read question pdf", "path", *questionsPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	p := pipeline.NewParser(cfg, logger)

	questions, err := p.ParseQuestions(ctx, questionBytes)
	if err != nil {
		logger.Error("parse questions", "error", err)
		os.Exit(1)
	}

	if *answersPath != "" {
		answerBytes, err := os.ReadFile(*answersPath)
		if err != nil {
			logger.Error("read answer pdf", "path", *answersPath, "error", err)
			os.Exit(1)
		}
		records, err := p.ParseAnswerKey(ctx, answerBytes)
		if err != nil {
			logger.Error("parse answer key", "error", err)
			os.Exit(1)
		}
		questions = merge.Answers(questions, records, logger)
	}

	out, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		logger.Error("encode questions", "error", err)
		os.Exit(1)
	}
	if *outPath == "" {
		fmt.Println(string(out))
	} else if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		logger.Error("write output", "path", *outPath, "error", err)
		os.Exit(1)
	}

	if *xlsxPath != "" {
		book, err := export.QuestionsXLSX(questions, logger)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, book, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("done", "questions", len(questions))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
