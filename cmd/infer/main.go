// inkdigit-infer: classify a drawing with the pre-trained digit network,
// optionally evaluating the first layer under CKKS encryption.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"inkdigit/classifier"
	"inkdigit/core/ckkswrapper"
	"inkdigit/display"
	"inkdigit/nn"
	"inkdigit/surface"
	"inkdigit/utils"
)

var (
	weightsFile   = flag.String("weights", "", "Weights file")
	weightsFormat = flag.String("format", utils.FormatJSON, "Weights format: json (layer0..layer2) or raw (weight0..2/bias0..2)")
	inputFile     = flag.String("input", "", "PNG drawing to classify; a blank canvas when empty")
	canvasSize    = flag.Int("size", 280, "Side of the blank canvas when no input is given")
	logN          = flag.Int("logN", ckkswrapper.DefaultLogN, "Ring dimension log2")
	encrypted     = flag.Bool("encrypted", false, "Evaluate the first layer under HE encryption")
	verbose       = flag.Bool("verbose", true, "Print timing statistics")
	topK          = flag.Int("topk", 3, "Top predictions to show")
	chartFile     = flag.String("chart", "", "Also write a PNG bar chart to this file")
	plainOutput   = flag.Bool("plain", false, "Disable colours in the terminal bars")
	exportFile    = flag.String("export", "", "Write the loaded weights as layer0..layer2 JSON to this file")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	config := &utils.Config{
		WeightsFile:   *weightsFile,
		WeightsFormat: *weightsFormat,
		InputFile:     *inputFile,
		Encrypted:     *encrypted,
		LogN:          *logN,
		TopK:          *topK,
		ChartFile:     *chartFile,
		Plain:         *plainOutput,
		Verbose:       *verbose,
	}
	utils.Verbose = config.Verbose

	err := exceptions.TryCatch[error](func() { run(config) })
	if err != nil {
		klog.Errorf("inference failed: %+v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(config *utils.Config) {
	must.M(utils.ValidateConfig(config))

	// Load weights; a shape mismatch stops here, before any prediction.
	params := must.M1(utils.LoadParams(config.WeightsFile, config.WeightsFormat))
	net := must.M1(nn.NewNetwork(params))
	klog.Infof("loaded %s (%s parameters) from %s", net, humanize.Comma(int64(net.ParamCount())), config.WeightsFile)

	if *exportFile != "" {
		must.M(utils.SaveWeights(*exportFile, utils.WeightsFromParams(params)))
		klog.Infof("wrote %s", *exportFile)
	}

	predictor := classifier.Plain(net)
	var private *nn.PrivateNetwork
	if config.Encrypted {
		private = newPrivate(net, config.LogN)
		predictor = private
	}

	var opts []display.TerminalOption
	if config.Plain {
		opts = append(opts, display.WithProfile(termenv.Ascii))
	}
	var out display.Display = display.NewTerminal(os.Stdout, opts...)
	if config.ChartFile != "" {
		f := must.M1(os.Create(config.ChartFile))
		defer f.Close()
		out = display.Multi(out, display.NewChart(f))
	}

	session := classifier.NewSession(surface.NewCanvas(*canvasSize, *canvasSize), predictor, out)

	var probs nn.Probabilities
	if config.InputFile != "" {
		img := must.M1(imaging.Open(config.InputFile))
		klog.Infof("input %s: %dx%d", config.InputFile, img.Bounds().Dx(), img.Bounds().Dy())
		probs = must.M1(session.Classify(img))
	} else {
		klog.Infof("no input, classifying a blank %dx%d canvas", *canvasSize, *canvasSize)
		probs = must.M1(session.Refresh())
	}

	fmt.Printf("\nTop %d predictions:\n", config.TopK)
	for i, idx := range probs.TopK(config.TopK) {
		fmt.Printf("  %d. Digit %d: %.4f (%s)\n", i+1, idx, probs[idx], display.Title(probs[idx]))
	}

	if private != nil {
		fmt.Printf("\nEncrypted layer 0: %s\n", private.Last.Ops)
	}
	utils.PrintTimingStats(&session.Stats, session.Predictions)
}

func newPrivate(net *nn.Network, logN int) *nn.PrivateNetwork {
	start := time.Now()
	he := must.M1(ckkswrapper.NewHeContextWithLogN(logN, nn.InputSize))
	klog.Infof("HE context: logN=%d, %d slots, %d rotation keys (%v)",
		logN, he.Params.MaxSlots(), len(he.Rotations()), time.Since(start))

	private := must.M1(nn.NewPrivateNetwork(net, he))
	bar := progressbar.NewOptions(nn.Hidden1Size,
		progressbar.OptionSetDescription("encrypted layer 0"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionClearOnFinish(),
	)
	private.Progress = func(done, total int) {
		if done == 1 {
			bar.Reset()
			bar.ChangeMax(total)
		}
		_ = bar.Set(done)
	}
	return private
}
