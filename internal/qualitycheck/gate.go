// Package qualitycheck implements the pre-packaging quality gate: the
// combined voice track is scanned for long silence gaps, and the script is
// optionally fact-checked. Failing either check parks the production for
// manual review instead of publishing it.
package qualitycheck

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"showrunner/internal/config"
	"showrunner/internal/logging"
	"showrunner/internal/media/ffmpeg"
	"showrunner/internal/services/perplexity"
)

// FactChecker verifies a script and returns the issues it found.
type FactChecker interface {
	FactCheck(ctx context.Context, script string) ([]string, error)
}

// Result is the outcome of one gate run.
type Result struct {
	AudioIssues []string
	FactIssues  []string
}

// Passed reports whether the production may proceed to packaging.
func (r Result) Passed() bool {
	return len(r.AudioIssues) == 0 && len(r.FactIssues) == 0
}

// Summary renders the issues as a single review reason.
func (r Result) Summary() string {
	issues := make([]string, 0, len(r.AudioIssues)+len(r.FactIssues))
	issues = append(issues, r.AudioIssues...)
	issues = append(issues, r.FactIssues...)
	return strings.Join(issues, "; ")
}

// Gate runs the quality checks configured for the installation.
type Gate struct {
	cfg     *config.Config
	logger  *slog.Logger
	checker FactChecker
}

// NewGate constructs the gate using default dependencies. The fact checker
// is only wired when fact checking is enabled and a key is configured.
func NewGate(cfg *config.Config, logger *slog.Logger) *Gate {
	var checker FactChecker
	if cfg.Quality.FactCheck && cfg.FactCheck.Enabled && strings.TrimSpace(cfg.FactCheck.APIKey) != "" {
		checker = perplexity.NewClient(perplexity.Config{
			APIKey:  cfg.FactCheck.APIKey,
			BaseURL: cfg.FactCheck.BaseURL,
			Model:   cfg.FactCheck.Model,
		})
	}
	return NewGateWithDependencies(cfg, logger, checker)
}

// NewGateWithDependencies allows injecting the fact checker (used in tests).
func NewGateWithDependencies(cfg *config.Config, logger *slog.Logger, checker FactChecker) *Gate {
	gateLogger := logger
	if gateLogger != nil {
		gateLogger = gateLogger.With(logging.String("component", "qualitycheck"))
	} else {
		gateLogger = logging.NewNop()
	}
	return &Gate{cfg: cfg, logger: gateLogger, checker: checker}
}

// Run checks the audio track for silence gaps and, when enabled, fact-checks
// the script. scriptPath may be empty when no script exists.
func (g *Gate) Run(ctx context.Context, audioPath, scriptPath string) (Result, error) {
	var result Result

	if strings.TrimSpace(audioPath) != "" {
		gaps, err := ffmpeg.DetectSilence(ctx, "ffmpeg", audioPath,
			float64(g.cfg.Quality.SilenceNoiseDB), float64(g.cfg.Quality.MinGapSeconds))
		if err != nil {
			return Result{}, fmt.Errorf("silence analysis: %w", err)
		}
		for _, gap := range gaps {
			result.AudioIssues = append(result.AudioIssues,
				fmt.Sprintf("silence gap of %.1fs at %.1fs", gap.Duration, gap.Start))
		}
		g.logger.Info("silence analysis complete",
			logging.Int("gap_count", len(gaps)),
			logging.String("audio_file", audioPath))
	}

	if g.checker != nil && strings.TrimSpace(scriptPath) != "" {
		script, err := os.ReadFile(scriptPath)
		if err != nil {
			return Result{}, fmt.Errorf("read script for fact check: %w", err)
		}
		issues, err := g.checker.FactCheck(ctx, string(script))
		if err != nil {
			// Fact checking is advisory; a checker outage must not block
			// an otherwise clean production.
			g.logger.Warn("fact check unavailable", logging.Error(err))
		} else {
			result.FactIssues = issues
			g.logger.Info("fact check complete", logging.Int("issue_count", len(issues)))
		}
	}

	return result, nil
}
