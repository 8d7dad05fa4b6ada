package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/promoloop/video-pairer/internal/composer"
	"github.com/promoloop/video-pairer/internal/config"
	"github.com/promoloop/video-pairer/internal/logging"
	"github.com/promoloop/video-pairer/internal/media"
	"github.com/promoloop/video-pairer/internal/pipeline"
	"github.com/promoloop/video-pairer/internal/processor"
	"github.com/promoloop/video-pairer/internal/source"
	"github.com/promoloop/video-pairer/pkg/types"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "video-pairer",
	Short: "Pair a creator's short videos with a fixed promotional clip",
	Long: `video-pairer downloads short-form videos from a creator's profile,
clamps and overlays each one, and splices it with the payload video from
the input folder into numbered pair files in the output folder.

Folders under the working directory:
  input/    exactly one payload video
  overlay/  at most one overlay image (optional)
  temp/     staging area, cleared every run
  output/   final video_pair_NN.mp4 files

Example:
  video-pairer run --profile https://tiktok.com/@creator --count 5`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Download, process and pair videos from a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		count, _ := cmd.Flags().GetInt("count")
		noOverlay, _ := cmd.Flags().GetBool("no-overlay")
		dedupe, _ := cmd.Flags().GetBool("dedupe")
		verbose, _ := cmd.Flags().GetBool("verbose")
		maxDuration, _ := cmd.Flags().GetFloat64("max-duration")
		workdir, _ := cmd.Flags().GetString("workdir")

		if count < config.MinSourceCount || count > config.MaxSourceCount {
			return fmt.Errorf("count must be between %d and %d, got %d",
				config.MinSourceCount, config.MaxSourceCount, count)
		}
		profileURL, err := source.NormalizeProfileURL(profile)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.Verbose = verbose
		if cmd.Flags().Changed("max-duration") {
			cfg.MaxClipSeconds = maxDuration
		}
		if workdir != "" {
			cfg.Workdir = workdir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		return runPipeline(cmd.Context(), cfg, profileURL, count, noOverlay, dedupe)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Probe and validate a local video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log := logging.New(verbose)

		asset, err := media.NewValidator(log).Inspect(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("path:       %s\n", asset.Path)
		fmt.Printf("duration:   %.2fs\n", asset.Duration)
		fmt.Printf("frame rate: %.2f fps\n", asset.FrameRate)
		fmt.Printf("resolution: %dx%d\n", asset.Width, asset.Height)
		fmt.Printf("audio:      %t\n", asset.HasAudio)
		fmt.Printf("decodable:  %t\n", asset.Decodable)
		if !asset.Decodable {
			return errors.New("file failed validation")
		}
		return nil
	},
}

func runPipeline(ctx context.Context, cfg *config.Settings, profileURL string, count int, noOverlay, dedupe bool) error {
	log := logging.New(cfg.Verbose)

	if err := cfg.EnsureDirs(); err != nil {
		return err
	}
	if err := pipeline.ClearDir(cfg.TempDir()); err != nil {
		return err
	}

	if err := source.Install(ctx); err != nil {
		log.Warn().Err(err).Msg("could not provision yt-dlp, relying on an existing binary")
	}

	validator := media.NewValidator(log)

	payloadPath, err := pipeline.ResolvePayload(cfg.InputDir(), validator, log)
	if err != nil {
		return err
	}

	var overlay *types.OverlaySpec
	if !noOverlay {
		overlayPath, err := pipeline.ResolveOverlay(cfg.OverlayDir(), log)
		if err != nil {
			return err
		}
		if overlayPath != "" {
			overlay, err = processor.LoadOverlay(overlayPath)
			if err != nil {
				return err
			}
		}
	}

	title, err := source.NewProfileChecker(cfg.FetchTimeout, log).Check(ctx, profileURL)
	if err != nil {
		return &pipeline.BatchError{
			Condition: fmt.Sprintf("profile %s could not be resolved: %v", profileURL, err),
			Guidance: []string{
				"Check the profile URL for typos",
				"The profile may be private or removed",
				"Retry later if the platform is rate-limiting requests",
			},
		}
	}
	log.Info().Str("profile", title).Msg("starting batch")

	encode := media.DefaultEncode(cfg.TargetFPS)
	acquirer := source.NewAcquirer(
		&source.YtdlpLister{Timeout: cfg.FetchTimeout},
		&source.YtdlpDownloader{Timeout: cfg.FetchTimeout},
		validator,
		cfg.TempDir(),
		dedupe,
		log,
	)
	clips := processor.New(cfg.TempDir(), cfg.MaxClipSeconds, overlay, encode, log)
	pairs, err := composer.New(payloadPath, cfg.OutputDir(), encode, log)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(acquirer, clips, pairs, log)
	stats, runErr := runner.Run(ctx, profileURL, count)

	// Staging is scratch; a failed cleanup is logged, never fatal.
	if err := pipeline.ClearDir(cfg.TempDir()); err != nil {
		log.Warn().Err(err).Msg("could not clear staging folder")
	}

	if runErr != nil {
		return runErr
	}
	fmt.Printf("Created %d video pair(s) in %s (%s)\n", stats.Paired, cfg.OutputDir(), stats)
	return nil
}

func init() {
	runCmd.Flags().StringP("profile", "p", "", "Profile URL of the creator to download from")
	runCmd.Flags().IntP("count", "n", 0,
		fmt.Sprintf("Number of videos to download (%d-%d)", config.MinSourceCount, config.MaxSourceCount))
	runCmd.Flags().StringP("workdir", "w", "", "Working directory holding input/overlay/temp/output")
	runCmd.Flags().Float64("max-duration", 20, "Maximum processed clip duration in seconds")
	runCmd.Flags().Bool("no-overlay", false, "Skip overlay compositing even when an overlay image exists")
	runCmd.Flags().Bool("dedupe", false, "Drop duplicate remote entries before downloading")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	runCmd.MarkFlagRequired("profile")
	runCmd.MarkFlagRequired("count")

	inspectCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var batchErr *pipeline.BatchError
		if errors.As(err, &batchErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n\nTo fix this:\n%s", batchErr.Condition, batchErr.GuidanceText())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
