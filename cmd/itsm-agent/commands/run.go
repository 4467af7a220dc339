package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/projector"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/runner"
	"github.com/YogaBharath-R/ITSM-Agent/internal/config"
)

var (
	runFrom     string
	runSubject  string
	runBody     string
	runModel    string
	runAuditLog string
	runOutput   string
)

var runCmd = &cobra.Command{
	Use:   "run [incident text]",
	Short: "Execute a single incident run from the terminal",
	Long: `Submit one incident to the agent team and print the triage steps and
the final report to the terminal.

Examples:
  # Triage an incident
  itsm-agent run --subject "Payments DB down" --body "Connections refused since 09:40 UTC"

  # Body as positional argument
  itsm-agent run "Checkout latency spiked after the 14:00 deploy"

  # Offline run with the scripted mock model, report saved to a file
  itsm-agent run --model mock --subject "Test" --body "Test" --output report.md`,
	RunE: runIncident,
}

func init() {
	runCmd.Flags().StringVar(&runFrom, "from", "cli@localhost", "Reporter identity attached to the incident")
	runCmd.Flags().StringVar(&runSubject, "subject", "", "Incident subject line")
	runCmd.Flags().StringVar(&runBody, "body", "", "Incident description")
	runCmd.Flags().StringVar(&runModel, "model", "",
		"Model handle, or 'mock' / 'mock:<scenario>' for offline runs (overrides config file)")
	runCmd.Flags().StringVar(&runAuditLog, "audit-log", "",
		"Path to write run audit log (JSONL format). If empty, audit logging is disabled.")
	runCmd.Flags().StringVar(&runOutput, "output", "", "Write the final report to this file")
}

func runIncident(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if runModel != "" {
		cfg.Model = runModel
	}
	if runAuditLog != "" {
		cfg.AuditLogPath = runAuditLog
	}

	if err := setupLog(logLevelFlags); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	inc := runner.Incident{From: runFrom, Subject: runSubject, Body: runBody}
	if inc.Body == "" && len(args) > 0 {
		inc.Body = strings.Join(args, " ")
	}
	if inc.Blank() {
		return fmt.Errorf("nothing to triage: provide --subject, --body or positional incident text")
	}

	if !cfg.UsesMockModel() && cfg.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY not set (use --model mock for offline runs)")
	}

	svc, err := runner.New(runner.Config{
		Model:           cfg.Model,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		MaxTokens:       cfg.MaxTokens,
		AuditLogPath:    cfg.AuditLogPath,
	})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
		cancel()
	}()

	out := cmd.OutOrStdout()
	state, err := svc.Submit(ctx, inc, &consoleSink{out: out})
	if err != nil {
		return err
	}

	if state.Content != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderMarkdown(state.Content))
	}

	if runOutput != "" && state.Content != "" {
		if err := os.WriteFile(runOutput, []byte(state.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to %s\n", runOutput)
	}

	return nil
}

var (
	stepTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D4FF"))

	stepContentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6B7280"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))
)

// consoleSink renders run progress as numbered terminal lines. The final
// report arrives through Content and is printed by the caller after the
// run finishes, so deltas are dropped here.
type consoleSink struct {
	out io.Writer
}

func (c *consoleSink) Step(number int, step projector.Step) {
	fmt.Fprintf(c.out, "%s\n", stepTitleStyle.Render(fmt.Sprintf("%d. %s %s", number, step.Icon, step.Title)))
	if step.Content != "" {
		fmt.Fprintf(c.out, "   %s\n", stepContentStyle.Render(firstLine(step.Content)))
	}
}

func (c *consoleSink) Progress(p float64) {}

func (c *consoleSink) Status(msg string) {
	fmt.Fprintf(c.out, "%s\n", statusStyle.Render(msg))
}

func (c *consoleSink) Content(delta string) {}

// renderMarkdown renders the report for the terminal, falling back to the
// raw markdown when the renderer is unavailable (e.g. no TTY detection).
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
