// Package main provides the CLI entry point for heightsmith.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/fill"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/output"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "heightsmith",
		Short: "Generate heightmaps from OS Terrain 50 data",
		Long: `heightsmith builds grayscale PNG heightmaps from the OS Terrain 50
ASCII Grid archive, centred on a National Grid reference.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Config file path (env HEIGHTSMITH_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	newLogger := func(cmd *cobra.Command) *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}

	rootCmd.AddCommand(newGenerateCmd(newLogger), newInfoCmd())
	return rootCmd
}

func newGenerateCmd(newLogger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var outputPath, reportPath, previewPath string

	cmd := &cobra.Command{
		Use:   "generate <gridref>",
		Short: "Generate a heightmap centred on a grid reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			logger := newLogger(cmd)
			opts.Logger = logger

			res, err := heightsmith.Generate(cfg.ZipPath, args[0], opts)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if outputPath == "" {
				outputPath = heightsmith.DefaultOutputPath(cfg.OutputDir, res.Reference, res.SizeKm)
			}
			if err := output.WritePNG(outputPath, res.Heightmap); err != nil {
				return fmt.Errorf("failed to write heightmap: %w", err)
			}
			logger.Debug("heightmap written", "path", outputPath)

			if reportPath != "" {
				if err := output.WriteReport(reportPath, reportFor(res, outputPath)); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			}
			if previewPath != "" {
				if err := output.WritePreview(previewPath, res.Grid, res.Reference.String()); err != nil {
					return fmt.Errorf("failed to write preview: %w", err)
				}
			}

			printSummary(cmd.OutOrStdout(), res, outputPath)
			return nil
		},
	}

	cmd.Flags().IntP("size", "s", 10, "Area size in km (env HEIGHTSMITH_SIZE_KM)")
	cmd.Flags().StringP("zip-path", "z", "data/terr50_gagg_gb.zip", "Terrain 50 zip archive (env HEIGHTSMITH_ZIP_PATH)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output PNG path (default: <output-dir>/<ref>_<size>km.png)")
	cmd.Flags().String("output-dir", "heightmaps", "Directory for auto-named output (env HEIGHTSMITH_OUTPUT_DIR)")
	cmd.Flags().IntP("bit-depth", "b", 16, "Output bit depth: 8 or 16 (env HEIGHTSMITH_BIT_DEPTH)")
	cmd.Flags().Bool("fill-missing", true, "Fill missing cells; when false they are set to zero (env HEIGHTSMITH_FILL_MISSING)")
	cmd.Flags().Bool("no-fill-missing", false, "Shorthand for --fill-missing=false")
	cmd.Flags().StringP("method", "m", "linear", "Interpolation method: "+strings.Join(fill.Methods(), ", ")+" (env HEIGHTSMITH_METHOD)")
	cmd.Flags().IntP("workers", "w", 4, "Concurrent tile reads (env HEIGHTSMITH_WORKERS)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write an xlsx run report to this path")
	cmd.Flags().StringVar(&previewPath, "preview", "", "Write a colour preview plot to this path")

	return cmd
}

func newInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <gridref>",
		Short: "Show the location and tiles for a grid reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			info, err := heightsmith.Inspect(args[0], cfg.SizeKm)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := output.ToJSON(info, true)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "Grid reference: %s\n", info.Reference)
			fmt.Fprintf(out, "Easting:        %d\n", info.Easting)
			fmt.Fprintf(out, "Northing:       %d\n", info.Northing)
			fmt.Fprintf(out, "Precision:      %d m\n", info.Precision)
			fmt.Fprintf(out, "Area size:      %d km\n", info.SizeKm)
			fmt.Fprintf(out, "Tiles:          %d\n", len(info.Tiles))
			for _, name := range info.Tiles {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().IntP("size", "s", 10, "Area size in km (env HEIGHTSMITH_SIZE_KM)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func printSummary(w io.Writer, res *heightsmith.Result, path string) {
	hm := res.Heightmap
	fmt.Fprintf(w, "Heightmap written: %s\n", path)
	fmt.Fprintf(w, "  Grid reference: %s (E %d, N %d)\n", res.Reference, res.Reference.Easting, res.Reference.Northing)
	fmt.Fprintf(w, "  Size:           %d x %d px (%d km at %g m)\n", hm.Width, hm.Height, res.SizeKm, res.Grid.CellSize)
	fmt.Fprintf(w, "  Bit depth:      %d\n", hm.BitDepth)
	fmt.Fprintf(w, "  Elevation:      %.1f to %.1f m\n", hm.Min, hm.Max)
	fmt.Fprintf(w, "  Tiles:          %d present, %d missing\n", res.Assembly.Present, res.Assembly.Absent)
	fmt.Fprintf(w, "  Coverage:       %.1f%%\n", res.Coverage()*100)
	if res.Fill.Filled > 0 {
		fmt.Fprintf(w, "  Filled:         %d cells (%s)\n", res.Fill.Filled, res.Fill.Method)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  Warning:        %v\n", warn)
	}
}

func reportFor(res *heightsmith.Result, path string) output.Report {
	warnings := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = w.Error()
	}
	return output.Report{
		Reference:  res.Reference.String(),
		SizeKm:     res.SizeKm,
		Method:     res.Fill.Method.String(),
		Filled:     res.Fill.Filled,
		OutputPath: path,
		Grid:       res.Grid,
		Heightmap:  res.Heightmap,
		Tiles:      res.Tiles,
		Warnings:   warnings,
	}
}
