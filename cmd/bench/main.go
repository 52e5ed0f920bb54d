// Command bench drives internal/bench against both ring.Ring and
// linked.Queue and reports throughput, following the flag layout and
// reporting shape of i5heu-GoQueueBench/cmd/bench and the -plot path of
// i5heu-GoQueueBench/cmd/buildGraph.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gubnik/multithreading/internal/bench"
	"github.com/gubnik/multithreading/internal/config"
	"github.com/gubnik/multithreading/linked"
	"github.com/gubnik/multithreading/ring"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML bench config (see internal/config.Config); flags below override it")
	iterations := flag.Int("iter", 0, "iterations per implementation, 0 = use config or default")
	producers := flag.Int("producers", 0, "producer goroutine count, 0 = use config or default")
	capacity := flag.Uint64("capacity", 0, "ring capacity (power of two), 0 = use config or default")
	plotPath := flag.String("plot", "", "if set, render a throughput comparison PNG to this path")
	showProgress := flag.Bool("progress", true, "display a progress bar while running")
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.Ring.Capacity = 1024
		cfg.Run.Producers = 4
		cfg.Run.Iterations = 3
	}
	if *iterations > 0 {
		cfg.Run.Iterations = *iterations
	}
	if *producers > 0 {
		cfg.Run.Producers = *producers
	}
	if *capacity > 0 {
		cfg.Ring.Capacity = *capacity
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if cfg.Run.DurationSeconds == 0 {
		cfg.Run.DurationSeconds = 2
	}

	printSystemInfo()

	type implementation struct {
		name string
		run  func() bench.Result
	}

	impls := []implementation{
		{"ring.Ring", func() bench.Result {
			q, err := ring.New[int](cfg.Ring.Capacity, nil)
			if err != nil {
				slog.Error("constructing ring", "error", err)
				os.Exit(1)
			}
			return bench.Run(bench.Config{Producers: cfg.Run.Producers, Duration: cfg.Run.Duration()},
				func(i int) bool { return q.Produce(i) },
				func() (int, bool) { return q.TryConsume() },
			)
		}},
		{"linked.Queue", func() bench.Result {
			q := linked.New[int]()
			return bench.Run(bench.Config{Producers: cfg.Run.Producers, Duration: cfg.Run.Duration()},
				func(i int) bool { q.Produce(i); return true },
				func() (int, bool) { return q.Consume() },
			)
		}},
	}

	total := len(impls) * cfg.Run.Iterations
	var bar *progressbar.ProgressBar
	if *showProgress {
		bar = progressbar.Default(int64(total))
	}

	throughputs := make(map[string][]float64, len(impls))
	for _, impl := range impls {
		for i := 0; i < cfg.Run.Iterations; i++ {
			runtime.GC()
			res := impl.run()
			throughputs[impl.name] = append(throughputs[impl.name], res.Throughput)
			fmt.Printf("%-14s iter %d/%d: produced=%d consumed=%d throughput=%.0f msg/s\n",
				impl.name, i+1, cfg.Run.Iterations, res.Produced, res.Consumed, res.Throughput)
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}

	if *plotPath != "" {
		if err := renderPlot(*plotPath, throughputs); err != nil {
			slog.Error("rendering plot", "error", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *plotPath)
	}
}

func printSystemInfo() {
	var cpuModel string
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cpuModel = infos[0].ModelName
	}
	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	}
	fmt.Printf("GOMAXPROCS=%d cpu=%q mem=%dMiB\n", runtime.GOMAXPROCS(0), cpuModel, totalMemory/(1<<20))
}

// renderPlot draws one bar-like line per implementation across its
// iterations, grounded on i5heu-GoQueueBench/cmd/buildGraph's gonum/plot
// usage.
func renderPlot(path string, throughputs map[string][]float64) error {
	p := plot.New()
	p.Title.Text = "MPSC throughput comparison"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "msgs/sec"

	palette := []color.RGBA{
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	}

	i := 0
	for name, values := range throughputs {
		pts := make(plotter.XYs, len(values))
		for x, v := range values {
			pts[x].X = float64(x)
			pts[x].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = palette[i%len(palette)]
		p.Add(line)
		p.Legend.Add(name, line)
		i++
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
