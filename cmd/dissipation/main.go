// Package main measures how quickly each interpolator smears the scalar
// field. It runs the configured scenario for every strategy and seed,
// several runs at a time, and fits an exponential decay to the scalar
// variance of each run.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flowy/config"
	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/interp"
	"github.com/pthm-cable/flowy/scenario"
	"github.com/pthm-cable/flowy/sim"
	"github.com/pthm-cable/flowy/telemetry"
)

type varianceRow struct {
	Interp   string  `csv:"interp"`
	Seed     int64   `csv:"seed"`
	Step     int     `csv:"step"`
	Variance float64 `csv:"scalar_variance"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	steps := flag.Int("steps", 200, "Steps to run per interpolator")
	seed := flag.Int64("seed", 0, "First scenario seed (0 = use config)")
	seeds := flag.Int("seeds", 1, "Number of seeds per interpolator")
	workers := flag.Int("workers", 0, "Concurrent runs (0 = GOMAXPROCS)")
	csvPath := flag.String("csv", "", "Write per-step variance to this CSV file")
	flag.Parse()

	if *steps < 1 || *seeds < 1 {
		log.Fatal("--steps and --seeds must be at least 1")
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	spec := scenario.FromConfig(cfg)
	if *seed != 0 {
		spec.Seed = *seed
	}

	fmt.Printf("scenario velocity=%s scalar=%s cells=%d dt=%g steps=%d seeds=%d\n",
		spec.Velocity, spec.Scalar, cfg.Grid.CellCount, cfg.Simulation.DT, *steps, *seeds)

	var runs []run
	for _, name := range interp.Names() {
		for i := 0; i < *seeds; i++ {
			runs = append(runs, run{Interp: name, Seed: spec.Seed + int64(i*1000)})
		}
	}

	start := time.Now()
	results := runAll(runs, *workers, func(r run) ([]float64, error) {
		ip, err := interp.ByName(r.Interp)
		if err != nil {
			return nil, err
		}
		s := spec
		s.Seed = r.Seed
		return varianceSeries(cfg, s, ip, *steps)
	})

	var rows []varianceRow
	lambdas := make(map[string][]float64)
	for i, res := range results {
		r := runs[i]
		for n, v := range res.Series {
			rows = append(rows, varianceRow{Interp: r.Interp, Seed: r.Seed, Step: n, Variance: v})
		}
		if res.Err != nil {
			fmt.Printf("  %-8s seed=%-6d stopped after %d steps: %v\n", r.Interp, r.Seed, max(len(res.Series)-1, 0), res.Err)
		}
		d, err := fitDecay(res.Series)
		if err != nil {
			fmt.Printf("  %-8s seed=%-6d no fit: %v\n", r.Interp, r.Seed, err)
			continue
		}
		fmt.Printf("  %-8s seed=%-6d lambda=%.6f v0=%.6f rmse=%.4f final_var=%.6f\n",
			r.Interp, r.Seed, d.Lambda, d.V0, d.RMSE, res.Series[len(res.Series)-1])
		lambdas[r.Interp] = append(lambdas[r.Interp], d.Lambda)
	}

	fmt.Printf("\nDecay rate per interpolator (%s):\n", time.Since(start).Round(time.Millisecond))
	for _, name := range interp.Names() {
		ls := lambdas[name]
		if len(ls) == 0 {
			fmt.Printf("  %-8s no fits\n", name)
			continue
		}
		mean, std := stat.MeanStdDev(ls, nil)
		if len(ls) < 2 {
			std = 0
		}
		fmt.Printf("  %-8s lambda=%.6f ± %.6f (%d runs)\n", name, mean, std, len(ls))
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatalf("failed to create csv: %v", err)
		}
		defer f.Close()
		if err := gocsv.MarshalFile(&rows, f); err != nil {
			log.Fatalf("failed to write csv: %v", err)
		}
	}
}

// varianceSeries advects the scenario for steps steps with ip as the scalar
// interpolator and returns the scalar variance before each step and after
// the last.
func varianceSeries(cfg *config.Config, spec scenario.Spec, ip interp.Interpolator, steps int) ([]float64, error) {
	g, err := grid.New(cfg.Grid.CellCount,
		grid.WithVelocityInterpolator(cfg.Derived.VelocityInterp),
		grid.WithScalarInterpolator(ip),
	)
	if err != nil {
		return nil, err
	}
	if err := scenario.Apply(g, spec); err != nil {
		return nil, err
	}
	s, err := sim.New(g)
	if err != nil {
		return nil, err
	}

	dt := cfg.Simulation.DT
	series := make([]float64, 0, steps+1)
	series = append(series, telemetry.ComputeFieldStats(s.Grid(), 0, dt).ScalarVariance)
	for i := 1; i <= steps; i++ {
		if err := s.Advect(dt); err != nil {
			return series, err
		}
		series = append(series, telemetry.ComputeFieldStats(s.Grid(), uint64(i), dt).ScalarVariance)
	}
	return series, nil
}
