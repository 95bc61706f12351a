// Command otc-cli asks the knee-pain questionnaire in the terminal and prints
// the ranked OTC medications.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Skufu/OTCAdvisor/internal/artifacts"
	"github.com/Skufu/OTCAdvisor/internal/config"
	"github.com/Skufu/OTCAdvisor/internal/form"
	"github.com/Skufu/OTCAdvisor/internal/inference"
	"github.com/Skufu/OTCAdvisor/internal/logging"
	"github.com/Skufu/OTCAdvisor/internal/presenter"
	"github.com/Skufu/OTCAdvisor/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	logger := logging.Init(cfg.OTEL.ServiceName+"-cli", cfg.Log.Env, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := form.Default()
	if err != nil {
		logger.Fatal().Err(err).Msg("form catalog invalid")
	}

	loader := artifacts.NewLoader(&http.Client{Timeout: cfg.Artifacts.FetchTimeout}, logger)
	bundle, err := loader.Load(ctx, artifacts.Sources{
		PreprocessorPath: cfg.Artifacts.PreprocessorPath,
		PainModelPath:    cfg.Artifacts.PainModelPath,
		WeeksModelPath:   cfg.Artifacts.WeeksModelPath,
		ClassifierURL:    cfg.Artifacts.ClassifierURL,
		DatasetPath:      cfg.Artifacts.DatasetPath,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("artifact load failed")
	}

	svc := recommend.NewService(inference.New(bundle), recommend.WithLogger(logger))
	if err := run(ctx, os.Stdout, surveyDriver{}, catalog, svc); err != nil {
		if errors.Is(err, errAborted) {
			os.Exit(130)
		}
		logger.Fatal().Err(err).Msg("questionnaire failed")
	}
}

type submitter interface {
	Submit(ctx context.Context, sub form.Submission) recommend.Outcome
}

// run asks every question once, submits the answers and prints the outcome.
func run(ctx context.Context, w io.Writer, d promptDriver, c *form.Catalog, svc submitter) error {
	fmt.Fprintln(w, c.Title)
	fmt.Fprintln(w, c.Intro)
	fmt.Fprintln(w)

	sub, err := collect(ctx, d, c)
	if err != nil {
		return err
	}

	out := svc.Submit(ctx, sub)
	fmt.Fprintln(w)
	for _, line := range presenter.Lines(out) {
		fmt.Fprintln(w, line)
	}
	return nil
}
