package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"neuroevo/internal/eval"
)

// NewConsole returns a text slog logger writing to w at the named level
func NewConsole(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Logger writes per-generation metrics to CSV, JSON lines and the console.
// Empty paths disable the matching file.
type Logger struct {
	csvPath   string
	jsonPath  string
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	console   *slog.Logger
}

// NewLogger creates a new logger
func NewLogger(csvPath, jsonPath string, console *slog.Logger) *Logger {
	if console == nil {
		console = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  console,
	}
}

// Init creates the log files and writes the CSV header.
// On failure any file already opened is closed again.
func (l *Logger) Init() error {
	if err := l.open(); err != nil {
		l.Close()
		return err
	}
	return nil
}

func (l *Logger) open() error {
	var err error

	if l.csvPath != "" {
		if err := os.MkdirAll(filepath.Dir(l.csvPath), 0755); err != nil {
			return err
		}
		l.csvFile, err = os.Create(l.csvPath)
		if err != nil {
			return err
		}
		l.csvWriter = csv.NewWriter(l.csvFile)

		header := []string{
			"generation", "size", "best_fitness", "mean_fitness", "std_fitness", "children", "mutated",
		}
		if err := l.csvWriter.Write(header); err != nil {
			return err
		}
	}

	if l.jsonPath != "" {
		if err := os.MkdirAll(filepath.Dir(l.jsonPath), 0755); err != nil {
			return err
		}
		l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes all log files. Calling it again is a no-op.
func (l *Logger) Close() error {
	var firstErr error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		firstErr = l.csvWriter.Error()
		l.csvWriter = nil
	}
	if l.csvFile != nil {
		if err := l.csvFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.csvFile = nil
	}
	if l.jsonFile != nil {
		if err := l.jsonFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.jsonFile = nil
	}
	return firstErr
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	Generation  int     `json:"generation"`
	Size        int     `json:"size"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	StdFitness  float64 `json:"std_fitness"`
	Children    int     `json:"children"`
	Mutated     int     `json:"mutated"`
}

// NewSummary builds a summary from evaluated stats and operator counts
func NewSummary(gen int, stats eval.Stats, children, mutated int) GenerationSummary {
	return GenerationSummary{
		Generation:  gen,
		Size:        stats.Size,
		BestFitness: stats.BestFitness,
		MeanFitness: stats.MeanFitness,
		StdFitness:  stats.StdFitness,
		Children:    children,
		Mutated:     mutated,
	}
}

// LogGeneration records one generation summary
func (l *Logger) LogGeneration(s GenerationSummary) error {
	if l.csvWriter != nil {
		row := []string{
			strconv.Itoa(s.Generation),
			strconv.Itoa(s.Size),
			fmt.Sprintf("%.4f", s.BestFitness),
			fmt.Sprintf("%.4f", s.MeanFitness),
			fmt.Sprintf("%.4f", s.StdFitness),
			strconv.Itoa(s.Children),
			strconv.Itoa(s.Mutated),
		}
		if err := l.csvWriter.Write(row); err != nil {
			return err
		}
		l.csvWriter.Flush()
		if err := l.csvWriter.Error(); err != nil {
			return err
		}
	}

	if l.jsonFile != nil {
		line, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := l.jsonFile.Write(append(line, '\n')); err != nil {
			return err
		}
	}

	l.console.Info("generation",
		"gen", s.Generation,
		"size", s.Size,
		"best", s.BestFitness,
		"mean", s.MeanFitness,
		"std", s.StdFitness,
		"children", s.Children,
		"mutated", s.Mutated,
	)
	return nil
}
