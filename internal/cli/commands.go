package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/protocol"
	"github.com/xpanvictor/meetsec/internal/domains/secretary"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
)

func newProcessCommand(deps *CommandDeps, flags *globalFlags) *cobra.Command {
	var publish bool
	cmd := &cobra.Command{
		Use:   "process <audio>",
		Short: "Run the full pipeline on a meeting recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := deps.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			template, err := readOptional(flags.template)
			if err != nil {
				return err
			}
			out, err := s.svc.Process(cmd.Context(), secretary.Job{
				AudioPath: args[0],
				Publish:   publish,
				Template:  template,
			})
			if err != nil {
				return err
			}
			path, err := writeProtocol(outputDir(flags, s), out.Document, time.Now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if flags.output == "json" {
				return writeJSON(w, map[string]any{
					"run_id":     out.RunID,
					"protocol":   path,
					"record":     out.Record,
					"tracker":    out.Tracker,
					"timings_ms": audit.Timings(out.Timings),
				})
			}
			printRecord(w, out.Record)
			fmt.Fprintf(w, "\nПротокол: %s\n", path)
			if out.Tracker != nil {
				printTracker(w, out.Tracker)
			}
			fmt.Fprintf(w, "Время обработки: %.2f с\n", out.Timings[secretary.StageTotal].Seconds())
			return nil
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "Create tasks in the configured tracker")
	return cmd
}

func newExtractCommand(deps *CommandDeps, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <transcript.txt>",
		Short: "Extract a meeting record from a transcript; '-' reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			s, err := deps.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.svc.Extract(cmd.Context(), string(transcript))
			if err != nil {
				return err
			}
			if flags.output == "text" {
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func newRenderCommand(deps *CommandDeps, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render <record.json>",
		Short: "Render a DOCX protocol from a meeting record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(cmd, args[0])
			if err != nil {
				return err
			}
			template, err := readOptional(flags.template)
			if err != nil {
				return err
			}
			s, err := deps.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.svc.Render(rec, template)
			if err != nil {
				return err
			}
			path, err := writeProtocol(outputDir(flags, s), doc, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newPublishCommand(deps *CommandDeps, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <record.json>",
		Short: "Create tracker tasks from a meeting record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(cmd, args[0])
			if err != nil {
				return err
			}
			s, err := deps.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.svc.Publish(cmd.Context(), rec)
			if err != nil {
				return err
			}
			if flags.output == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printTracker(cmd.OutOrStdout(), res)
			if res.Status == tracker.StatusError {
				return fmt.Errorf("publishing failed: %s", res.Message)
			}
			return nil
		},
	}
}

func newTemplateCommand(deps *CommandDeps) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the built-in protocol template",
		Long: `Write the built-in protocol template as a DOCX file.

The template lists every supported placeholder and is a starting point for
a company template. Placeholders: {field}, {count:field}, {date}, {number};
table rows with {tableNum:field} or {tableBig:field} are repeated per item.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := protocol.DefaultTemplate()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, doc, 0o644); err != nil {
				return fmt.Errorf("failed to write template: %w", err)
			}
			keys := protocol.Keys()
			sort.Strings(keys)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (fields: %s)\n", path, strings.Join(keys, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "protocol_template.docx", "Destination file")
	return cmd
}

func outputDir(flags *globalFlags, s *session) string {
	if flags.outDir != "" {
		return flags.outDir
	}
	return s.cfg.Protocol.OutputDir
}

func writeProtocol(dir string, doc []byte, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("protocol_%s.docx", now.Format("20060102_150405")))
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("failed to write protocol: %w", err)
	}
	return path, nil
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return readOptional(path)
}

// readRecord loads a record and recomputes its validity flag.
func readRecord(cmd *cobra.Command, path string) (meeting.Record, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return meeting.Record{}, err
	}
	var rec meeting.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return meeting.Record{}, fmt.Errorf("invalid meeting record %s: %w", path, err)
	}
	rec = rec.Normalize()
	rec.Valid = meeting.Validate(rec)
	return rec, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecord(w io.Writer, rec meeting.Record) {
	fmt.Fprintf(w, "Резюме: %s\n", rec.Summary)
	fmt.Fprintf(w, "Задачи: %d, гипотезы: %d, решения: %d, участники: %d\n",
		len(rec.Tasks), len(rec.Hypotheses), len(rec.Decisions), len(rec.Participants))
	for i, t := range rec.Tasks {
		fmt.Fprintf(w, "  %d. %s (%s, %s)\n", i+1, tracker.TaskTitle(t, i+1), t.Assignee, t.Due)
	}
	if !rec.Valid {
		fmt.Fprintln(w, "Внимание: запись неполная")
		for _, issue := range meeting.Check(rec) {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
}

func printTracker(w io.Writer, res *tracker.Result) {
	switch res.Status {
	case tracker.StatusSkipped:
		fmt.Fprintf(w, "Трекер: пропущено (%s)\n", res.Message)
	case tracker.StatusError:
		fmt.Fprintf(w, "Трекер %s: ошибка: %s\n", res.Tracker, res.Message)
	default:
		fmt.Fprintf(w, "Трекер %s: создано %d задач, ошибок %d\n", res.Tracker, len(res.Created), len(res.Failed))
		for _, t := range res.Created {
			if t.URL != "" {
				fmt.Fprintf(w, "  %s %s\n", t.Title, t.URL)
			}
		}
		for _, f := range res.Failed {
			fmt.Fprintf(w, "  задача %d (%s): %s\n", f.Index, f.Title, f.Error)
		}
	}
}
