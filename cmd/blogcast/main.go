package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/blogcast/blogcast/adapters/llm"
	"github.com/blogcast/blogcast/adapters/tts"
	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/usecase"
)

func main() {
	var (
		rawText  = flag.String("raw-text", "", "blog content passed directly")
		textFile = flag.String("text-file", "", "path to a local text file")
		url      = flag.String("url", "", "blog article URL")
		out      = flag.String("out", "", "output artifact path (defaults to output/episode-<id>.mp3)")
		intro    = flag.String("intro", "", "intro music path")
		outro    = flag.String("outro", "", "outro music path")
		fallback = flag.Bool("fallback", false, "use the deterministic fallback script when the provider fails")
		quiet    = flag.Bool("quiet", false, "suppress progress logging")
	)
	flag.Parse()

	logger, _ := zap.NewProduction()
	if *quiet {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, relying on environment")
	}

	if err := run(*rawText, *textFile, *url, *out, *intro, *outro, *fallback, logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(rawText, textFile, url, out, intro, outro string, fallback bool, logger *zap.Logger) error {
	ctx := context.Background()

	writer, err := llm.NewGeminiWriter(ctx, llm.NewGeminiConfigFromEnv(), logger)
	if err != nil {
		return err
	}
	synthesizer, err := tts.NewMurfTTS(tts.NewMurfConfigFromEnv(), logger)
	if err != nil {
		return err
	}

	options := usecase.DefaultOptions()
	if intro != "" {
		options.IntroPath = intro
	}
	if outro != "" {
		options.OutroPath = outro
	}
	if out != "" {
		options.OutputPath = out
	}
	if err := os.MkdirAll(options.OutputDir, 0o755); err != nil {
		return err
	}

	pipeline := usecase.NewPipelineWithFallback(writer, synthesizer, options, fallback, logger)

	started := time.Now()
	episode, err := pipeline.Run(ctx, domain.RawInput{
		RawText:  rawText,
		TextFile: textFile,
		URL:      url,
	}, nil, func(stage usecase.Stage) {
		fmt.Println("stage:", stage)
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("===== PODCAST SCRIPT =====")
	fmt.Println(episode.Script)
	fmt.Println("==========================")
	fmt.Println()
	fmt.Printf("Episode %s ready at %s (%s of audio, produced in %s)\n",
		episode.ID, episode.AudioPath,
		episode.Duration.Round(time.Second),
		time.Since(started).Round(time.Millisecond))

	return nil
}
