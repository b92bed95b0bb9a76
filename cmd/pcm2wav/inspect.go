package main

import (
	"fmt"

	"github.com/example/go-pcm2wav/internal/audio"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <wavPath>",
		Short: "Print the header fields a WAV file declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := audio.InspectFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "file:            %s\n", args[0])
			_, _ = fmt.Fprintf(out, "riff size:       %d\n", info.RIFFSize)
			_, _ = fmt.Fprintf(out, "audio format:    %d\n", info.AudioFormat)
			_, _ = fmt.Fprintf(out, "channels:        %d\n", info.Channels)
			_, _ = fmt.Fprintf(out, "sample rate:     %d\n", info.SampleRate)
			_, _ = fmt.Fprintf(out, "byte rate:       %d\n", info.ByteRate)
			_, _ = fmt.Fprintf(out, "block align:     %d\n", info.BlockAlign)
			_, _ = fmt.Fprintf(out, "bits per sample: %d\n", info.BitsPerSample)
			_, _ = fmt.Fprintf(out, "data size:       %d\n", info.DataSize)
			_, _ = fmt.Fprintf(out, "duration:        %s\n", info.Duration)
			for _, ch := range info.Chunks {
				_, _ = fmt.Fprintf(out, "chunk %q:     %d bytes\n", ch.ID, ch.Size)
			}

			return nil
		},
	}
}
