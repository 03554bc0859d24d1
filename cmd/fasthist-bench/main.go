// Command fasthist-bench trains a single regression tree with the
// fasthist builder over an .npy feature/target pair, adapted from
// extra_boost_main's train/predict/graph mode dispatch.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/goccy/go-graphviz"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/Ryzhtus/neoml/fasthist"
)

var graphvizFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		log.Fatal(err)
	}
}

func readNpy(fileName string) *mat.Dense {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		log.Fatal(err)
	}
	return denseMat
}

// TrainConfig mirrors extra_boost_main's TrainConfig, trimmed to what a
// single fasthist tree needs: one feature matrix, one target column.
type TrainConfig struct {
	FileNameFeatures string  `json:"filename_features"`
	FileNameTarget   string  `json:"filename_target"`
	FileNameModel    string  `json:"filename_model"`
	FileNameGraph    string  `json:"filename_graph"`
	GraphFigureType  string  `json:"graph_figure_type"`
	MaxBins          int     `json:"max_bins"`
	MaxTreeDepth     int     `json:"max_tree_depth"`
	MaxNodesCount    int     `json:"max_nodes_count"`
	L1RegFactor      float64 `json:"l1_reg_factor"`
	L2RegFactor      float64 `json:"l2_reg_factor"`
	MinSubsetHessian float64 `json:"min_subset_hessian"`
	MinSubsetWeight  float64 `json:"min_subset_weight"`
	PruneCriterion   float64 `json:"prune_criterion_value"`
	ThreadsNum       int     `json:"threads_num"`
}

func columnsOf(features *mat.Dense) [][]float64 {
	rows, cols := features.Dims()
	columns := make([][]float64, cols)
	for c := 0; c < cols; c++ {
		columns[c] = make([]float64, rows)
		for r := 0; r < rows; r++ {
			columns[c][r] = features.At(r, c)
		}
	}
	return columns
}

func train(srcConfig string) {
	var cfg TrainConfig
	decodeConfig(srcConfig, &cfg)

	log.Print("load features <", cfg.FileNameFeatures, ">")
	features := readNpy(cfg.FileNameFeatures)
	log.Print("load target <", cfg.FileNameTarget, ">")
	target := readNpy(cfg.FileNameTarget)

	rows, _ := features.Dims()
	targetRows, _ := target.Dims()
	if rows != targetRows {
		log.Fatalf("features has %d rows, target has %d", rows, targetRows)
	}

	problem := fasthist.BinColumns(columnsOf(features), cfg.MaxBins)

	gradients := make([]float64, rows)
	hessians := make([]float64, rows)
	for r := 0; r < rows; r++ {
		// Squared-error loss around a zero starting prediction:
		// gradient = prediction - y, hessian = 1, the same convention
		// EMatrix's Rmse/MseLoss family is built around.
		gradients[r] = -target.At(r, 0)
		hessians[r] = 1
	}

	params := fasthist.Params{
		L1RegFactor:               cfg.L1RegFactor,
		L2RegFactor:               cfg.L2RegFactor,
		MinSubsetHessian:          cfg.MinSubsetHessian,
		MinSubsetWeight:           cfg.MinSubsetWeight,
		ThreadCount:               cfg.ThreadsNum,
		MaxTreeDepth:              cfg.MaxTreeDepth,
		MaxNodesCount:             cfg.MaxNodesCount,
		MaxBins:                   cfg.MaxBins,
		PruneCriterionValue:       cfg.PruneCriterion,
		DenseTreeBoostCoefficient: 0,
	}

	builder := fasthist.NewBuilder(params, fasthist.NewSingleStats, log.Default(), 1)
	tree := builder.Build(problem, gradients, hessians, nil)

	if err := fasthist.SaveTree(tree, cfg.FileNameModel); err != nil {
		log.Fatal(err)
	}

	if cfg.FileNameGraph != "" {
		gv, graph, err := fasthist.RenderTree(tree)
		if err != nil {
			log.Fatal(err)
		}
		format, ok := graphvizFormats[cfg.GraphFigureType]
		if !ok {
			format = graphviz.SVG
		}
		if err := gv.RenderFilename(graph, format, cfg.FileNameGraph); err != nil {
			log.Fatal(err)
		}
	}
}

// PredictConfig mirrors extra_boost_main's PredictConfig, retargeted at a
// single saved fasthist tree.
type PredictConfig struct {
	FileNameFeatures   string `json:"filename_features"`
	FileNameModel      string `json:"filename_model"`
	MaxBins            int    `json:"max_bins"`
	FileNamePrediction string `json:"filename_prediction"`
}

func predict(srcConfig string) {
	var cfg PredictConfig
	decodeConfig(srcConfig, &cfg)

	tree, err := fasthist.LoadTree(cfg.FileNameModel)
	if err != nil {
		log.Fatal(err)
	}

	features := readNpy(cfg.FileNameFeatures)
	problem := fasthist.BinColumns(columnsOf(features), maxInt(cfg.MaxBins, 2))

	rows := problem.UsedVectorCount()
	pos := problem.FeaturePos()
	nullID := problem.FeatureNullValueID()
	prediction := mat.NewDense(rows, 1, nil)
	for r := 0; r < rows; r++ {
		value, err := tree.Predict(problem.VectorBinIDs(r), pos, nullID)
		if err != nil {
			log.Fatal(err)
		}
		prediction.Set(r, 0, value[0])
	}

	dst, err := os.Create(cfg.FileNamePrediction)
	if err != nil {
		log.Fatal(err)
	}
	defer dst.Close()
	if err := npyio.Write(dst, prediction); err != nil {
		log.Fatal(err)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func main() {
	runMode := flag.String("mode", "train", "either 'train' or 'predict'")
	config := flag.String("config", "fasthist_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	flag.Parse()

	switch *runMode {
	case "train":
		train(*config)
	case "predict":
		predict(*config)
	default:
		log.Fatalf("unknown mode %q", *runMode)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
