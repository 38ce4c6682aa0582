package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/mdouchement/hdrtool"
	"github.com/mdouchement/rgbe"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// RoundTrip is the result of re-encoding a picture.
type RoundTrip struct {
	Path   string
	Pixels int
	Size   int // Size of the re-encoded picture in bytes.
	SSIM   float64
}

// NewRoundTripCmd re-encodes pictures and reports the structural similarity
// between the original and the re-encoded data.
func NewRoundTripCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip FILE...",
		Short: "re-encode pictures and check their similarity",
		Long:  "Decodes, re-encodes and decodes again each Radiance picture, then prints the SSIM between both decoded images.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")

			results, err := RoundTripFiles(ctx, args, jobs)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pixels, %d bytes, ssim=%.6f\n", r.Path, r.Pixels, r.Size, r.SSIM)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.IntP("jobs", "j", runtime.NumCPU(), "number of pictures processed concurrently")
	return cmd
}

// RoundTripFiles re-encodes every path using at most jobs goroutines.
// Results are returned in the order of paths.
func RoundTripFiles(ctx context.Context, paths []string, jobs int) ([]RoundTrip, error) {
	results := make([]RoundTrip, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		i, path := i, path // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r, err := roundTrip(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			slog.DebugContext(ctx, "round trip", "path", path, "ssim", r.SSIM)

			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func roundTrip(path string) (RoundTrip, error) {
	m, err := rgbe.DecodeFile(path, true)
	if err != nil {
		return RoundTrip{}, err
	}

	data, err := rgbe.EncodeBytes(m)
	if err != nil {
		return RoundTrip{}, err
	}

	again, err := rgbe.DecodeFloat(bytes.NewReader(data), true)
	if err != nil {
		return RoundTrip{}, err
	}

	return RoundTrip{
		Path:   path,
		Pixels: m.Width * m.Height,
		Size:   len(data),
		SSIM:   hdrtool.HDRSSIM(m.ToHDR(), again.ToHDR()),
	}, nil
}
