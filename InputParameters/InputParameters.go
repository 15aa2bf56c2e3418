package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gohmds/utils"
)

// Parameters obtained from the YAML input file
type InputParametersHMDS struct {
	Title         string      `yaml:"Title"`
	Method        string      `yaml:"Method"`    // lm, newton or batch
	Curvature     string      `yaml:"Curvature"` // gn or outer
	StopRule      string      `yaml:"StopRule"`  // sweep or step
	Eta           float64     `yaml:"Eta"`
	Eps           float64     `yaml:"Eps"`
	MaxIterations int         `yaml:"MaxIterations"`
	Seed          uint64      `yaml:"Seed"`
	Runs          int         `yaml:"Runs"`       // Independent random starts, used when X0 and Y0 are absent
	InitRadius    float64     `yaml:"InitRadius"` // Radius of the random starting disk
	LambdaInit    float64     `yaml:"LambdaInit"`
	LambdaMin     float64     `yaml:"LambdaMin"`
	LambdaMax     float64     `yaml:"LambdaMax"`
	D             [][]float64 `yaml:"D"`
	W             [][]float64 `yaml:"W"` // All ones off the diagonal when absent
	X0            []float64   `yaml:"X0"`
	Y0            []float64   `yaml:"Y0"`
}

// Parse fills the defaults first, so any key present in data wins, including an explicit zero
func (ip *InputParametersHMDS) Parse(data []byte) (err error) {
	ip.setDefaults()
	err = yaml.Unmarshal(data, ip)
	return
}

func (ip *InputParametersHMDS) setDefaults() {
	*ip = InputParametersHMDS{
		Method:        "lm",
		Curvature:     "gn",
		StopRule:      "sweep",
		Eta:           1,
		Eps:           1.e-10,
		MaxIterations: 10000,
		Seed:          1,
		Runs:          1,
		InitRadius:    0.5,
		LambdaInit:    1.e-3,
		LambdaMin:     1.e-4,
		LambdaMax:     1.e4,
	}
}

// Matrices returns D and W, W defaults to ones off the diagonal
func (ip *InputParametersHMDS) Matrices() (D, W utils.Matrix, err error) {
	if D, err = utils.NewMatrixFromRows(ip.D); err != nil {
		err = fmt.Errorf("reading D: %w", err)
		return
	}
	if len(ip.W) != 0 {
		if W, err = utils.NewMatrixFromRows(ip.W); err != nil {
			err = fmt.Errorf("reading W: %w", err)
		}
		return
	}
	n, _ := D.Dims()
	W = utils.NewMatrix(n, n).AddScalar(1).SetDiag(make([]float64, n))
	return
}

// HasInitialPoints is true when the file supplies the starting configuration
func (ip *InputParametersHMDS) HasInitialPoints() bool {
	return len(ip.X0) != 0 || len(ip.Y0) != 0
}

func (ip *InputParametersHMDS) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Method\n", ip.Method)
	fmt.Printf("[%s]\t\t\t= Curvature\n", ip.Curvature)
	fmt.Printf("[%s]\t\t\t= Stop Rule\n", ip.StopRule)
	fmt.Printf("%8.5f\t\t= Eta\n", ip.Eta)
	fmt.Printf("%8.3e\t\t= Eps\n", ip.Eps)
	fmt.Printf("[%d]\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Printf("[%8.3e, %8.3e, %8.3e]\t= Lambda Init, Min, Max\n", ip.LambdaInit, ip.LambdaMin, ip.LambdaMax)
	if ip.HasInitialPoints() {
		fmt.Printf("[%d]\t\t\t\t= Initial Points\n", len(ip.X0))
	} else {
		fmt.Printf("[%d] x [%d]\t\t\t= Random Starts x Points, Seed %d, Radius %5.3f\n",
			ip.Runs, len(ip.D), ip.Seed, ip.InitRadius)
	}
}
