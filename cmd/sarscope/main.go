package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/skysift/sarscope/internal/detect"
	"github.com/skysift/sarscope/internal/morph"
	"github.com/skysift/sarscope/internal/raster"
	"github.com/skysift/sarscope/internal/render"
	"github.com/skysift/sarscope/internal/segment"
	"github.com/skysift/sarscope/internal/speckle"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sarscope %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		beforePath = flag.String("before", "", "path to the before-acquisition image (required)")
		afterPath  = flag.String("after", "", "path to the after-acquisition image (required)")
		algorithm  = flag.String("algorithm", "otsu", "segmentation algorithm: otsu, adaptive, kmeans, isolation_forest, lof, pca")
		filterKind = flag.String("speckle", "lee", "speckle filter: none, lee, kuan, frost")
		window     = flag.Int("window", 5, "speckle filter window size")
		clusters   = flag.Int("clusters", 3, "cluster count for kmeans")
		iterations = flag.Int("iterations", 10, "iteration count for kmeans")
		contam     = flag.Float64("contamination", 0.05, "contamination fraction for isolation_forest/pca")
		openRad    = flag.Int("opening", 1, "morphological opening radius (0 disables)")
		closeRad   = flag.Int("closing", 1, "morphological closing radius (0 disables)")
		fillHoles  = flag.Bool("fill-holes", true, "fill enclosed holes in the change mask")
		minBlob    = flag.Int("min-blob", 8, "remove change components smaller than this")
		minArea    = flag.Int("min-area", detect.DefaultMinAreaPixels, "minimum detection component size")
		percentile = flag.Float64("percentile", detect.DefaultPercentile, "detection threshold percentile")
		outDir     = flag.String("out", ".", "output directory for JSON and preview PNGs")
	)
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	if *beforePath == "" || *afterPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	before, err := loadRaster(*beforePath)
	if err != nil {
		log.Fatalf("loading before image: %v", err)
	}
	after, err := loadRaster(*afterPath)
	if err != nil {
		log.Fatalf("loading after image: %v", err)
	}

	if before.Width != after.Width || before.Height != after.Height {
		log.Printf("resampling before raster %dx%d to %dx%d",
			before.Width, before.Height, after.Width, after.Height)
		before = raster.Resample(before, after.Width, after.Height)
	}

	segOpts, err := segmentationOptions(*algorithm, *clusters, *iterations, *contam)
	if err != nil {
		log.Fatal(err)
	}

	change := segment.Detect(before, after, segment.PipelineOptions{
		Filter:       speckle.Kind(*filterKind),
		FilterWindow: *window,
		Segmentation: segOpts,
		Post: morph.PostProcessOptions{
			OpeningRadius: *openRad,
			ClosingRadius: *closeRad,
			FillHoles:     *fillHoles,
			MinBlobArea:   *minBlob,
		},
	})
	log.Printf("change: %d pixels (%.2f%%), threshold %.1f",
		change.ChangedPixels, change.ChangePercent, change.Threshold)

	detectInput := raster.Normalize(segment.AbsDiff(before.Samples, after.Samples), raster.ProfileDetect)
	detections := detect.Detect(detectInput, change.Width, change.Height, after.Bounds, detect.Options{
		Percentile:    *percentile,
		MinAreaPixels: *minArea,
	})
	log.Printf("detections: %d features, mean confidence %.2f",
		detections.Count, detections.MeanConfidence)

	if err := writeOutputs(*outDir, change, detections); err != nil {
		log.Fatalf("writing outputs: %v", err)
	}
}

// loadRaster decodes an ordinary grayscale-able image into a single-band
// float raster. Real SAR products arrive through a GeoTIFF decoder that
// also supplies bounds and pixel scale; for plain PNG/JPEG input those stay
// unset.
func loadRaster(path string) (*raster.Buffer, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	samples := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := gray.At(x+b.Min.X, y+b.Min.Y).RGBA()
			samples[y*w+x] = float32(r >> 8)
		}
	}
	return raster.New(w, h, samples), nil
}

func segmentationOptions(algorithm string, clusters, iterations int, contamination float64) (segment.Options, error) {
	switch algorithm {
	case "otsu":
		return segment.Otsu{}, nil
	case "adaptive":
		return segment.Adaptive{}, nil
	case "kmeans":
		return segment.KMeans{Clusters: clusters, Iterations: iterations}, nil
	case "isolation_forest":
		return segment.IsolationForest{Contamination: contamination}, nil
	case "lof":
		return segment.LOF{}, nil
	case "pca":
		return segment.PCA{Contamination: contamination}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}

// changeReport is the JSON shape written for a run.
type changeReport struct {
	Change     *segment.ChangeResult `json:"change"`
	Detections *detect.Result        `json:"detections"`
}

func writeOutputs(dir string, change *segment.ChangeResult, detections *detect.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	report, err := json.MarshalIndent(changeReport{Change: change, Detections: detections}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "result.json"), report, 0o644); err != nil {
		return err
	}

	w, h := change.Width, change.Height
	previews := map[string]*image.NRGBA{
		"before.png": render.GrayImage(change.BeforeByte, w, h),
		"after.png":  render.GrayImage(change.AfterByte, w, h),
		"diff.png":   render.GrayImage(change.DiffByte, w, h),
	}
	maskColor := color.NRGBA{R: 255, G: 64, B: 32, A: 255}
	overlay := render.OverlayMask(previews["after.png"], change.Mask, w, h, maskColor, 0.45)
	previews["change.png"] = render.AnnotateBoxes(overlay, detections.Boxes)

	for name, img := range previews {
		if err := imaging.Save(render.Thumbnail(img, 2048), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
	}
	return nil
}
