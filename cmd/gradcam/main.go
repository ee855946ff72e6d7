// Package main provides the gradcam CLI: it explains the top predictions of
// a VGG classifier on one image with Grad-CAM and guided backpropagation.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/gradcam"
	"github.com/born-ml/gradcam/internal/imaging"
	"github.com/born-ml/gradcam/internal/labels"
	"github.com/born-ml/gradcam/internal/loader"
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

const version = "v0.1.0"

type options struct {
	imagePath   string
	outDir      string
	targets     []string
	topK        int
	clamp       bool
	inputSize   int
	labels      *labels.Table
	saveWeights string
}

func main() {
	useCUDA := flag.Bool("use-cuda", false, "Run on the GPU if one is available")
	imagePath := flag.String("image-path", "./examples/000004.jpg", "Input image (JPEG or PNG)")
	weights := flag.String("weights", "", "SafeTensors file with torchvision VGG weights (empty = seeded random weights)")
	arch := flag.String("arch", "vgg19", "Architecture: vgg11, vgg13, vgg16 or vgg19")
	targetLayer := flag.String("target-layer", "35", "Comma-separated feature layers to tap; the last one is explained")
	labelsPath := flag.String("labels", "", "Class names file (text, one per line, or JSON)")
	outDir := flag.String("out-dir", "results", "Directory for result images")
	topK := flag.Int("topk", 5, "Number of top classes to explain")
	seed := flag.Int64("seed", 0, "Seed for random weights")
	reluCAM := flag.Bool("relu-cam", false, "Zero negative saliency before normalization")
	saveWeights := flag.String("save-weights", "", "Write the model weights to this SafeTensors file")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gradcam %s\n", version)
		return
	}

	if *useCUDA {
		log.Printf("no GPU backend is available, running on CPU")
	}

	cfg, err := nn.ConfigFor(*arch)
	if err != nil {
		log.Fatalf("Failed to configure model: %v", err)
	}

	engine := autodiff.New(cpu.New())
	model := nn.NewVGG(cfg, engine, rand.New(rand.NewSource(*seed)))
	if *weights != "" {
		log.Printf("loading %s weights from %s", *arch, *weights)
		if err := loader.LoadVGG(*weights, model); err != nil {
			log.Fatalf("Failed to load weights: %v", err)
		}
	} else {
		log.Printf("no --weights given, using %s with random weights (seed %d)", *arch, *seed)
	}

	names := new(labels.Table)
	if *labelsPath != "" {
		if names, err = labels.Load(*labelsPath); err != nil {
			log.Fatalf("Failed to load labels: %v", err)
		}
	}

	opts := options{
		imagePath:   *imagePath,
		outDir:      *outDir,
		targets:     splitTargets(*targetLayer),
		topK:        *topK,
		clamp:       *reluCAM,
		inputSize:   imaging.InputSize,
		labels:      names,
		saveWeights: *saveWeights,
	}
	if err := run(model, engine, opts); err != nil {
		log.Fatalf("gradcam: %v", err)
	}
}

func splitTargets(s string) []string {
	var targets []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

// run explains the top-k classes of model on the configured image and writes
// four images per class into opts.outDir.
func run(model *nn.VGG, engine gradcam.Engine, opts options) error {
	// Only the input gradient is needed.
	nn.SetRequiresGrad(model, false)

	if opts.saveWeights != "" {
		if err := loader.WriteSafeTensors(opts.saveWeights, nn.StateDict(model), nil); err != nil {
			return fmt.Errorf("save weights: %w", err)
		}
		log.Printf("wrote weights to %s", opts.saveWeights)
	}

	if err := os.MkdirAll(opts.outDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	img, err := imaging.Load(opts.imagePath, opts.inputSize)
	if err != nil {
		return err
	}
	input, err := imaging.Preprocess(img)
	if err != nil {
		return err
	}
	log.Printf("explaining %s", opts.imagePath)

	runner := gradcam.NewRunner(model.Features, model.Classifier, engine, opts.targets...)
	pass, err := runner.Run(input)
	if err != nil {
		return err
	}
	if len(pass.Activations) == 0 {
		return fmt.Errorf("target layers %v: %w", opts.targets, gradcam.ErrNoActivations)
	}

	top := gradcam.TopK(pass.Logits, opts.topK)
	for rank, p := range top {
		log.Printf("%d: %s (%.4f)", rank, opts.labels.Name(p.Index), p.Score)
	}

	// Grad-CAM reuses the retained pass for every class; the guided passes
	// re-record the tape, so they run afterwards.
	combiner := gradcam.New(runner, gradcam.Config{ClampNegative: opts.clamp})
	cams := make([]*mat.Dense, len(top))
	for rank, p := range top {
		if cams[rank], err = combiner.ExplainPass(pass, p.Index); err != nil {
			return fmt.Errorf("grad-cam for class %d: %w", p.Index, err)
		}
	}

	base := imaging.BaseName(opts.imagePath)
	guided := gradcam.NewGuidedBackprop(model.Features, model.Classifier, engine)
	for rank, p := range top {
		gbp, err := guided.Explain(input, p.Index)
		if err != nil {
			return fmt.Errorf("guided backprop for class %d: %w", p.Index, err)
		}
		res, err := gradcam.Refine(imaging.ResizeMap(cams[rank], img.Width, img.Height), gbp)
		if err != nil {
			return err
		}

		if err := writeAll(opts.outDir, base, rank, p.Index, img, cams[rank], gbp, res); err != nil {
			return err
		}
	}
	return nil
}

func writeAll(dir, base string, rank, index int, img *imaging.Image, cam *mat.Dense, gbp, res *tensor.RawTensor) error {
	path := func(kind imaging.Kind) string {
		return filepath.Join(dir, imaging.OutputName(base, rank, index, kind))
	}

	writes := []struct {
		path  string
		write func(string) error
	}{
		{path(imaging.KindCAM), func(p string) error { return imaging.WriteCAM(p, img, cam) }},
		{path(imaging.KindHeatmap), func(p string) error { return imaging.WriteHeatmap(p, cam) }},
		{path(imaging.KindGBP), func(p string) error { return imaging.WriteTensor(p, gbp) }},
		{path(imaging.KindRES), func(p string) error { return imaging.WriteTensor(p, res) }},
	}
	for _, w := range writes {
		if err := w.write(w.path); err != nil {
			return err
		}
		log.Printf("wrote %s", w.path)
	}
	return nil
}
