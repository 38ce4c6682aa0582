package cmd

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	// Input formats.
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/mdouchement/hdr/codec/hli"
	"github.com/mdouchement/rgbe"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// NewEncodeCmd converts any registered image format into a Radiance picture.
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "convert an image into a Radiance picture",
		Long: "Reads a PNG, JPEG, BMP, TIFF, HLI or RGBE image and writes it as a Radiance RGBE picture.\n" +
			"LDR inputs are normalized to [0, 1], e.g. 16-bit heightmaps.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			gray, _ := cmd.Flags().GetBool("gray")

			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" || out == "" {
				return fmt.Errorf("input and output paths are required. Use --in and --out flags")
			}

			return runEncode(ctx, in, out, gray)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input image path")
	pf.StringP("out", "o", "", "output Radiance picture path")
	pf.Bool("gray", false, "encode a single channel (red) picture")
	return cmd
}

func runEncode(ctx context.Context, in, out string, gray bool) error {
	f, err := os.Open(in)
	if err != nil {
		return errors.Wrap(err, "could not open image")
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return errors.Wrap(err, "could not decode image")
	}

	channels := rgbe.RGB
	if gray {
		channels = rgbe.Gray
	}
	m := rgbe.FromImage(src, channels)

	if err = rgbe.EncodeFile(out, m); err != nil {
		return err
	}

	slog.InfoContext(ctx, "encoded",
		"in", in,
		"format", format,
		"out", out,
		"width", m.Width,
		"height", m.Height,
		"channels", m.Channels.String(),
	)
	return nil
}
