package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/mdouchement/rgbe"
	"github.com/spf13/cobra"
)

// Stats summarizes the samples of a decoded picture.
type Stats struct {
	Path     string    `json:"path"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Channels string    `json:"channels"`
	Min      []float32 `json:"min"`
	Max      []float32 `json:"max"`
	Mean     []float64 `json:"mean"`
}

// NewInfoCmd prints the dimensions and channel statistics of pictures.
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "print dimensions and channel statistics",
		Long:  "Decodes each Radiance picture and prints its dimensions with the min, max and mean of every channel.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gray, _ := cmd.Flags().GetBool("gray")
			format, _ := cmd.Flags().GetString("format")

			for _, path := range args {
				m, err := rgbe.DecodeFile(path, !gray)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				slog.DebugContext(ctx, "decoded", "path", path, "width", m.Width, "height", m.Height)

				s := ComputeStats(m)
				s.Path = path
				switch format {
				case "json":
					j, _ := json.Marshal(s)
					fmt.Fprintln(cmd.OutOrStdout(), string(j))
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s min=%v max=%v mean=%v\n",
						s.Path, s.Width, s.Height, s.Channels, s.Min, s.Max, s.Mean)
				}
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.Bool("gray", false, "read the red channel only")
	pf.StringP("format", "f", "text", "output format (text|json)")
	return cmd
}

// ComputeStats returns the per channel statistics of m.
func ComputeStats(m *rgbe.FloatImage) Stats {
	n := int(m.Channels)
	s := Stats{
		Width:    m.Width,
		Height:   m.Height,
		Channels: m.Channels.String(),
		Min:      make([]float32, n),
		Max:      make([]float32, n),
		Mean:     make([]float64, n),
	}
	for c := 0; c < n; c++ {
		s.Min[c] = math.MaxFloat32
		s.Max[c] = -math.MaxFloat32
	}

	for i, v := range m.Pix {
		c := i % n
		if v < s.Min[c] {
			s.Min[c] = v
		}
		if v > s.Max[c] {
			s.Max[c] = v
		}
		s.Mean[c] += float64(v)
	}

	if pixels := m.Width * m.Height; pixels > 0 {
		for c := range s.Mean {
			s.Mean[c] /= float64(pixels)
		}
	}
	return s
}
