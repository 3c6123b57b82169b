package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rivermin01/personal-study-guide/internal/models"
	"github.com/rivermin01/personal-study-guide/internal/service"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a prediction from a request file",
	Long: `Read a /predict request body from a file (or stdin) and print the
recommended study and break durations as JSON.`,
	RunE: runPredict,
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Build a study-pattern report from a request file",
	Long: `Read a /feedback request body from a file (or stdin) and print the
study-pattern report as JSON.`,
	RunE: runFeedback,
}

var inputFile string

// errOutcomeFailure makes the command exit non-zero after printing the
// degraded result
var errOutcomeFailure = errors.New("request failed")

func init() {
	predictCmd.Flags().StringVarP(&inputFile, "file", "f", "-", "Request JSON file, or - for stdin")
	feedbackCmd.Flags().StringVarP(&inputFile, "file", "f", "-", "Request JSON file, or - for stdin")
}

func runPredict(cmd *cobra.Command, args []string) error {
	var req models.PredictRequest
	if err := readRequest(cmd.InOrStdin(), inputFile, &req); err != nil {
		return err
	}

	out := service.NewPredictionService(nil).Predict(cmd.Context(), &req)
	if err := writeJSON(cmd.OutOrStdout(), out.Result); err != nil {
		return err
	}
	if out.Kind == service.OutcomeFailure {
		return fmt.Errorf("%w: %v", errOutcomeFailure, out.Err)
	}
	return nil
}

func runFeedback(cmd *cobra.Command, args []string) error {
	var req models.FeedbackRequest
	if err := readRequest(cmd.InOrStdin(), inputFile, &req); err != nil {
		return err
	}

	out := service.NewFeedbackService().Feedback(cmd.Context(), &req)
	if err := writeJSON(cmd.OutOrStdout(), out.Report); err != nil {
		return err
	}
	if out.Kind == service.OutcomeFailure {
		return fmt.Errorf("%w: %v", errOutcomeFailure, out.Err)
	}
	return nil
}

// readRequest decodes JSON from path, or from stdin when path is "-"
func readRequest(stdin io.Reader, path string, v any) error {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
