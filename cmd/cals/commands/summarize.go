package commands

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/domain/entity"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/extract"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/rouge"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
	sumUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
)

var (
	docType       string
	jurisdiction  string
	goal          string
	targetLength  int
	provider      string
	referencePath string
	stdinName     string
)

// summarizeCmd runs the recursive summarizer on one document.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <file|->",
	Short: "Summarize a legal document",
	Long: `Summarize a .txt, .md or .html document with the recursive summarizer.
Pass - to read from stdin. Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&docType, "doc-type", "",
		"Document type (default: contract)")
	summarizeCmd.Flags().StringVar(&jurisdiction, "jurisdiction", "",
		"Jurisdiction (default: us)")
	summarizeCmd.Flags().StringVar(&goal, "goal", "",
		"Summary goal (default: general)")
	summarizeCmd.Flags().IntVarP(&targetLength, "length", "l", 0,
		"Target summary length in words (default: DEFAULT_TARGET_LENGTH)")
	summarizeCmd.Flags().StringVar(&provider, "provider", "",
		"Model provider, overriding MODEL_PROVIDER")
	summarizeCmd.Flags().StringVar(&referencePath, "reference", "",
		"Reference summary file; adds ROUGE scores to the output")
	summarizeCmd.Flags().StringVar(&stdinName, "name", "stdin.txt",
		"File name used to pick the decoder when reading stdin")
}

// summarizeOutput is the JSON form of one run.
type summarizeOutput struct {
	Kind        summarize.Kind `json:"kind"`
	Message     string         `json:"message"`
	Summary     string         `json:"summary,omitempty"`
	Scores      *rouge.Scores  `json:"rouge,omitempty"`
	Passes      int            `json:"passes"`
	Generations int            `json:"generations"`
	ElapsedMS   int64          `json:"elapsed_ms"`
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if provider != "" {
		cfg.Inference.Provider = provider
	}

	filename := args[0]
	if filename == "-" {
		filename = stdinName
	}
	text, err := readDocument(args[0], filename)
	if err != nil {
		return err
	}
	docCtx, err := entity.ParseContext(docType, jurisdiction, goal)
	if err != nil {
		return err
	}
	var reference string
	if referencePath != "" {
		if reference, err = readDocument(referencePath, referencePath); err != nil {
			return fmt.Errorf("reference: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	models := inference.NewHolder(cfg.Inference.Provider, inference.NewLoader(cfg.Inference))
	if err := models.Load(ctx); err != nil {
		return fmt.Errorf("load %s model: %w", cfg.Inference.Provider, err)
	}
	defer func() { _ = models.Close() }()

	svc := &sumUC.Service{
		Models:     models,
		Controller: summarize.New(cfg.Summarize),
		Adapter:    cfg.Inference.Adapter,
		Config:     cfg.Summary,
	}
	out, err := svc.Summarize(ctx, sumUC.SummarizeInput{
		Filename:     filename,
		Text:         text,
		TargetLength: targetLength,
		Context:      docCtx,
		Reference:    reference,
	})
	if err != nil {
		return err
	}
	return printOutcome(cmd, out)
}

func readDocument(path, filename string) (string, error) {
	content, err := readInput(path)
	if err != nil {
		return "", err
	}
	return extract.Text(filename, content)
}

// errNotSummarized makes the process exit non-zero after the outcome was printed.
var errNotSummarized = errors.New("no summary produced")

func printOutcome(cmd *cobra.Command, out sumUC.Outcome) error {
	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := outputJSON(w, summarizeOutput{
			Kind:        out.Kind,
			Message:     out.Message,
			Summary:     out.Summary,
			Scores:      out.Scores,
			Passes:      out.Passes,
			Generations: out.Generations,
			ElapsedMS:   out.Elapsed.Milliseconds(),
		}); err != nil {
			return err
		}
	} else if out.OK() {
		fmt.Fprintln(w, out.Summary)
		if out.Scores != nil {
			fmt.Fprintf(w, "\nROUGE-1 %.2f  ROUGE-2 %.2f  ROUGE-L %.2f\n",
				out.Scores.Rouge1, out.Scores.Rouge2, out.Scores.RougeL)
		}
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), out.Message)
	}
	if !out.OK() {
		return fmt.Errorf("%w (%s)", errNotSummarized, out.Kind)
	}
	return nil
}
