package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"geoedit/internal/config"
	"geoedit/internal/geom"
)

var (
	cutPolygon string
	cutLine    string
	cutOut     string
)

var cutCmd = &cobra.Command{
	Use:   "cut",
	Short: "Cut a polygon along a line",
	Long: `Cuts the first polygon of --polygon along the first line of --line and
writes every piece as a GeoJSON FeatureCollection to --out or stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, closer, err := cfg.Logger()
		if err != nil {
			return err
		}
		defer closer.Close()

		w := cmd.OutOrStdout()
		if cutOut != "" {
			f, err := os.Create(cutOut)
			if err != nil {
				return fmt.Errorf("creating %s: %w", cutOut, err)
			}
			defer f.Close()
			w = f
		}
		return runCut(cutPolygon, cutLine, cfg, log, w)
	},
}

func runCut(polygonPath, linePath string, cfg config.Config, log logrus.FieldLogger, w io.Writer) error {
	poly, err := firstOf(polygonPath, geom.KindPolygon)
	if err != nil {
		return err
	}
	line, err := firstOf(linePath, geom.KindLineString, geom.KindMultiLineString)
	if err != nil {
		return err
	}
	opts := cfg.EditorOptions()
	pieces, err := geom.Cut(poly, line, opts.Tolerance, opts.ToleranceUnit)
	if err != nil {
		return fmt.Errorf("cutting %s: %w", poly.ID, err)
	}
	log.WithFields(logrus.Fields{"polygon": poly.ID, "line": line.ID, "pieces": len(pieces)}).Info("polygon cut")
	return geom.WriteFeatures(w, pieces)
}

// firstOf loads path and returns its first feature of one of kinds.
func firstOf(path string, kinds ...geom.Kind) (*geom.Feature, error) {
	fs, err := geom.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, f := range fs {
		for _, k := range kinds {
			if f.Kind() == k {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%s: no %v feature", path, kinds)
}

func init() {
	rootCmd.AddCommand(cutCmd)
	cutCmd.Flags().StringVar(&cutPolygon, "polygon", "", "file holding the polygon to cut")
	cutCmd.Flags().StringVar(&cutLine, "line", "", "file holding the cut line")
	cutCmd.Flags().StringVarP(&cutOut, "out", "o", "", "output GeoJSON file (default stdout)")
	cutCmd.MarkFlagRequired("polygon")
	cutCmd.MarkFlagRequired("line")
}
