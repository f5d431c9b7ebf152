package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"refinery/internal/consent"
	"refinery/internal/pipeline"
)

var (
	inputPath    string
	intentFlag   string
	consentFlag  bool
	lenientFlag  bool
	roundsFlag   int
	cyclesFlag   int
)

// runCmd executes one pipeline run over a consent-gated input file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the refinement pipeline over an input document",
	Long: `Reads the input document through the consent-gated reader (explicit
--consent plus a declared --intent are required), runs the full phase
sequence and prints the structured pipeline report.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the input dialogue document (required)")
	runCmd.Flags().BoolVar(&consentFlag, "consent", false, "grant consent for reading the input file")
	runCmd.Flags().StringVar(&intentFlag, "intent", "", "declared intent for the file read")
	runCmd.Flags().BoolVar(&lenientFlag, "lenient", false, "lenient resonance mode (documented, logged inflation)")
	runCmd.Flags().IntVar(&roundsFlag, "rounds", 0, "override refinement round count")
	runCmd.Flags().IntVar(&cyclesFlag, "cycles", 0, "override refinement cycle count")
	_ = runCmd.MarkFlagRequired("input")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if lenientFlag {
		cfg.Resonance.Mode = "lenient"
	}
	if roundsFlag > 0 {
		cfg.Refinement.Rounds = roundsFlag
	}
	if cyclesFlag > 0 {
		cfg.Refinement.Cycles = cyclesFlag
	}

	reader := consent.NewReader()
	in, err := reader.Open(inputPath, consent.Consent{Granted: consentFlag, Intent: intentFlag})
	if err != nil {
		var denied *consent.DeniedError
		if errors.As(err, &denied) {
			return fmt.Errorf("%w (pass --consent and --intent to proceed)", denied)
		}
		return err
	}
	defer in.Close()

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting pipeline run",
		zap.String("input", inputPath),
		zap.Int("rounds", cfg.Refinement.Rounds),
		zap.Int("cycles", cfg.Refinement.Cycles),
		zap.String("resonance_mode", cfg.Resonance.Mode),
	)

	report, runErr := p.Run(ctx, in)
	report.AccessLog = reader.Access()

	fmt.Println(renderReport(report))

	if runErr != nil {
		logger.Warn("pipeline failed",
			zap.String("phase", string(report.FailedPhase)),
			zap.String("reason", report.Reason),
		)
		// The report already tells the story; exit non-zero without
		// repeating the error text.
		os.Exit(1)
	}
	return nil
}
