package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madmaxieee/cardtext/internal"
	"github.com/madmaxieee/cardtext/internal/cache"
	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/madmaxieee/cardtext/internal/client"
	"github.com/madmaxieee/cardtext/internal/config"
	"github.com/madmaxieee/cardtext/internal/convert"
	"github.com/madmaxieee/cardtext/internal/estimate"
	"github.com/madmaxieee/cardtext/internal/logging"
	"github.com/madmaxieee/cardtext/internal/output"
	"github.com/madmaxieee/cardtext/internal/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ConvertFlags struct {
	BlackCards  string
	WhiteCards  string
	BlackOutput string
	WhiteOutput string

	BlackBatchSize int
	WhiteBatchSize int
	BlackLimit     int
	WhiteLimit     int

	EstimateOnly bool
	Model        string
}

var convertFlags ConvertFlags

// convertDeps holds everything runConvert talks to outside of the card files.
type convertDeps struct {
	Config       *config.Config
	Logger       zerolog.Logger
	NewGenerator func(opts client.ClientOptions) (convert.Generator, error)
	Confirm      ConfirmFunc
	// nil keeps the pipeline's context-aware sleep
	Sleep   func(ctx context.Context, d time.Duration) error
	Spinner *internal.Spinner
	SaveRun func(*cache.RunData) error
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert black and white cards into text messages",
	Long: `Convert loads the black and white cards, estimates the cost of the run,
asks for confirmation and then sends the cards to the model in batches. The
replies are split into lines and written to one output file per card colour.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var spinner *internal.Spinner
		console := cmd.ErrOrStderr()
		if !flags.Quiet && internal.StderrIsTerminal() {
			spinner = internal.NewSpinner()
			console = spinner.Wrap(console)
		}

		logger, closeLog, err := newLogger(console)
		if err != nil {
			return err
		}
		defer closeLog()

		cfg, err := config.EnsureConfig(&flags.ConfigFilePath)
		if err != nil {
			logger.Error().Err(err).Msg("could not load config")
			return err
		}
		if model := utils.RemoveWhitespace(convertFlags.Model); model != nil {
			cfg.OverrideModel = model
		}

		deps := convertDeps{
			Config:       cfg,
			Logger:       logging.Component(logger, "convert"),
			NewGenerator: client.New,
			Confirm:      promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout()),
			SaveRun:      cache.SaveRunData,
			Spinner:      spinner,
		}

		return runConvert(cmd.Context(), convertFlags, deps)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	f := convertCmd.Flags()
	f.StringVar(&convertFlags.BlackCards, "black-cards", "cah-all-compact.json", "JSON file with black cards")
	f.StringVar(&convertFlags.WhiteCards, "white-cards", "cah-all-compact.json", "JSON file with white cards")
	f.StringVar(&convertFlags.BlackOutput, "black-output", "text_prompts.txt", "output file for converted black cards")
	f.StringVar(&convertFlags.WhiteOutput, "white-output", "text_responses.txt", "output file for converted white cards")
	f.IntVar(&convertFlags.BlackBatchSize, "black-batch-size", 10, "batch size for black cards")
	f.IntVar(&convertFlags.WhiteBatchSize, "white-batch-size", 20, "batch size for white cards")
	f.IntVar(&convertFlags.BlackLimit, "black-limit", 0, "limit number of black cards to process (0 for all)")
	f.IntVar(&convertFlags.WhiteLimit, "white-limit", 0, "limit number of white cards to process (0 for all)")
	f.BoolVar(&convertFlags.EstimateOnly, "estimate-only", false, "only estimate cost without making API calls")
	f.StringVarP(&convertFlags.Model, "model", "m", "", "model to use, as provider/model")
}

type conversionJob struct {
	category convert.Category
	items    []string
	size     int
	output   string
}

func runConvert(ctx context.Context, f ConvertFlags, deps convertDeps) error {
	logger := deps.Logger
	cfg := deps.Config

	// credentials first, nothing is read before we know we can talk to the model
	model := cfg.GetModel()
	clientOpts, err := cfg.GetClientOptions(model)
	if err != nil {
		logger.Error().Err(err).Msg("API key not found")
		return err
	}

	if f.BlackBatchSize <= 0 || f.WhiteBatchSize <= 0 {
		return fmt.Errorf("%w: black=%d white=%d", cards.ErrInvalidBatchSize, f.BlackBatchSize, f.WhiteBatchSize)
	}
	delay, err := cfg.GetDelay()
	if err != nil {
		return err
	}
	cooldown, err := cfg.GetCooldown()
	if err != nil {
		return err
	}

	blackCards, whiteCards, err := loadCards(f.BlackCards, f.WhiteCards)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading CAH cards")
		return err
	}
	blackCards = cards.Truncate(blackCards, f.BlackLimit)
	whiteCards = cards.Truncate(whiteCards, f.WhiteLimit)
	logger.Info().Msgf("Loaded %d black cards and %d white cards", len(blackCards), len(whiteCards))

	breakdown := cfg.GetRates().Estimate(len(blackCards), len(whiteCards), f.BlackBatchSize, f.WhiteBatchSize)
	logEstimate(logger, breakdown)

	if f.EstimateOnly {
		logger.Info().Msg("Estimate-only mode. Exiting without making API calls.")
		return nil
	}

	proceed, err := deps.Confirm(breakdown.Total)
	if err != nil {
		return err
	}
	if !proceed {
		logger.Info().Msg("Operation cancelled by user.")
		return nil
	}

	gen, err := deps.NewGenerator(*clientOpts)
	if err != nil {
		logger.Error().Err(err).Msg("could not create client")
		return err
	}

	pipeline := convert.New(gen, logger)
	pipeline.Delay = delay
	pipeline.Cooldown = cooldown
	pipeline.Temperature = cfg.GetTemperature()
	pipeline.MaxTokens = cfg.GetMaxTokens()
	if deps.Sleep != nil {
		pipeline.Sleep = deps.Sleep
	}
	if deps.Spinner != nil {
		deps.Spinner.Start("Processing cards")
		defer deps.Spinner.Stop()
		pipeline.Progress = func(category string, done, total int) {
			deps.Spinner.SetMessage(fmt.Sprintf("Processing %s card batches %d/%d", category, done, total))
		}
	}

	run := cache.NewRunData(model, breakdown.Total)
	jobs := []conversionJob{
		{convert.BlackCategory(), convert.BlackItems(blackCards), f.BlackBatchSize, f.BlackOutput},
		{convert.WhiteCategory(), convert.WhiteItems(whiteCards), f.WhiteBatchSize, f.WhiteOutput},
	}

	var writeErrs []error
	for _, job := range jobs {
		result, err := pipeline.Run(ctx, job.category, job.items, job.size)
		if err != nil {
			logger.Warn().Err(err).Msgf("%s conversion stopped, nothing written to %s", job.category.Name, job.output)
			return err
		}

		categoryRun := cache.CategoryRun{
			Name:     result.Category,
			Items:    result.Items,
			Batches:  len(result.Batches),
			Messages: len(result.Messages),
			Output:   job.output,
		}
		for _, failed := range result.Failed() {
			categoryRun.FailedBatches = append(categoryRun.FailedBatches, failed.Index)
		}

		if err := output.WriteLines(job.output, result.Messages); err != nil {
			logger.Error().Err(err).Msgf("Error saving to file %s", job.output)
			categoryRun.WriteError = err.Error()
			writeErrs = append(writeErrs, err)
		} else {
			logger.Info().Msgf("Successfully saved %d messages to %s", len(result.Messages), job.output)
		}
		run.Categories = append(run.Categories, categoryRun)
	}

	run.FinishedAt = time.Now().UTC()
	if deps.SaveRun != nil {
		if err := deps.SaveRun(run); err != nil {
			logger.Warn().Err(err).Msg("could not save run summary")
		}
	}

	if len(writeErrs) > 0 {
		return errors.Join(writeErrs...)
	}
	logger.Info().Msg("Conversion completed successfully!")
	return nil
}

// loadCards takes black cards from blackPath and white cards from whitePath,
// reading the file once when both point to the same dataset.
func loadCards(blackPath, whitePath string) ([]cards.BlackCard, []string, error) {
	blackSet, err := cards.Load(blackPath)
	if err != nil {
		return nil, nil, err
	}
	if whitePath == blackPath {
		return blackSet.Black, blackSet.White, nil
	}
	whiteSet, err := cards.Load(whitePath)
	if err != nil {
		return nil, nil, err
	}
	return blackSet.Black, whiteSet.White, nil
}

func logEstimate(logger zerolog.Logger, b estimate.Breakdown) {
	logger.Info().
		Int("black_batches", b.BlackBatches).
		Int("white_batches", b.WhiteBatches).
		Int("input_tokens", b.InputTokens).
		Int("output_tokens", b.OutputTokens).
		Msgf("Estimated cost: $%.2f", b.Total)
}
