package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/example/go-pcm2wav/internal/audio"
	"github.com/example/go-pcm2wav/internal/config"
	"github.com/spf13/cobra"
)

const positionalArgs = 5

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	var cfgFile string
	var activeCfg config.Config

	cmd := &cobra.Command{
		Use:   "pcm2wav <inputPath> <outputPath> <channelCount> <sampleRate> <bitsPerSample>",
		Short: "Wrap raw PCM audio in a WAV container",
		Long: `pcm2wav writes a canonical 44-byte RIFF/WAVE header followed by the
unmodified bytes of a headerless PCM file.

Put "--" before the positional arguments when the input path is the name of
a subcommand (inspect, help, completion) or starts with "-".`,
		Example: `  pcm2wav voice.pcm voice.wav 1 16000 16
  pcm2wav --convert-strict -- -take1.pcm take1.wav 2 44100 16`,
		Args:          requirePositional,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(cmd.ErrOrStderr(), loaded.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, activeCfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newInspectCmd())

	return cmd
}

// requirePositional prints the usage text to stdout when the positional
// argument count is wrong.
func requirePositional(cmd *cobra.Command, args []string) error {
	if len(args) == positionalArgs {
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())

	return fmt.Errorf("%w: want %d positional arguments, got %d", audio.ErrInvalidArguments, positionalArgs, len(args))
}

func runConvert(cmd *cobra.Command, args []string, cfg config.Config) error {
	inPath, outPath := args[0], args[1]

	params, err := audio.ParseParams(args[2], args[3], args[4])
	if err != nil {
		return err
	}

	conv := audio.NewConverter(audio.ConvertOptions{
		Params:     params,
		Strict:     cfg.Convert.Strict,
		BufferSize: cfg.Convert.BufferSize,
		BackPatch:  cfg.Convert.BackPatch,
		Logger:     slog.Default(),
	})

	res, err := conv.ConvertFile(inPath, outPath)
	if err != nil {
		return err
	}

	slog.Info("wrote wav",
		"output", outPath,
		"params", params.String(),
		"bytes", res.TotalSize,
	)

	return nil
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(w io.Writer, levelStr string) {
	lvl, err := config.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}
