// Scenario preview tool - interactive view of initial conditions with sliders.
//
// Usage: go run ./cmd/scenariopreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flowy/config"
	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/palette"
	"github.com/pthm-cable/flowy/scenario"
	"github.com/pthm-cable/flowy/sim"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// preview holds the grid being shown and how it was built.
type preview struct {
	cfg  *config.Config
	spec scenario.Spec
	sim  *sim.Simulator

	velIdx, scalarIdx int
	pixels            []color.RGBA
	err               error
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	p := &preview{cfg: cfg, spec: scenario.FromConfig(cfg)}
	p.velIdx = indexOf(scenario.VelocityPresets(), p.spec.Velocity)
	p.scalarIdx = indexOf(scenario.ScalarPresets(), p.spec.Scalar)
	p.rebuild()

	rl.InitWindow(windowWidth, windowHeight, "Scenario Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	n := int32(cfg.Grid.CellCount)
	img := rl.GenImageColor(int(n), int(n), rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	rl.SetTextureFilter(texture, rl.FilterBilinear)

	animating := false
	needsUpload := true

	for !rl.WindowShouldClose() {
		if animating && p.err == nil {
			if err := p.sim.Advect(cfg.Simulation.DT); err != nil {
				p.err = err
				animating = false
			}
			needsUpload = true
		}
		if needsUpload {
			p.paint()
			rl.UpdateTexture(texture, p.pixels)
			needsUpload = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(n), Height: float32(n)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		g := p.sim.Grid()
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Avg: %.4f  Max speed: %.3f  CFL: %.2f",
			g.AverageScalar(), g.MaxSpeed(), g.MaxSpeed()*cfg.Simulation.DT), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Step: %d", p.sim.StepCount()), 15, statsY+20, 16, rl.DarkGray)
		if p.err != nil {
			rl.DrawText(p.err.Error(), 15, statsY+40, 16, rl.Maroon)
		}

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Scenario Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 200, Height: 30}, "Velocity: "+p.spec.Velocity) {
			p.velIdx = (p.velIdx + 1) % len(scenario.VelocityPresets())
			p.rebuild()
			needsUpload = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 210, Y: panelY, Width: 200, Height: 30}, "Scalar: "+p.spec.Scalar) {
			p.scalarIdx = (p.scalarIdx + 1) % len(scenario.ScalarPresets())
			p.rebuild()
			needsUpload = true
		}
		panelY += 45

		sliders := []struct {
			label    string
			value    *float64
			min, max float32
		}{
			{"Speed (peak velocity)", &p.spec.Speed, 0, 5},
			{"Amplitude (scalar peak)", &p.spec.Amplitude, 0, 10},
			{"Radius (blob radius in cells)", &p.spec.Radius, 1, 32},
			{"Noise scale (frequency per cell)", &p.spec.NoiseScale, 0.01, 0.5},
		}
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf("%g", s.min), fmt.Sprintf("%g", s.max),
				float32(*s.value), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf("%.3g", *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v != float32(*s.value) {
				*s.value = float64(v)
				p.rebuild()
				needsUpload = true
			}
			panelY += 35
		}

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(p.spec.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", p.spec.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != p.spec.Seed {
			p.spec.Seed = int64(newSeed)
			p.rebuild()
			needsUpload = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset") {
			p.rebuild()
			needsUpload = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			p.spec.Seed = int64(rl.GetRandomValue(0, 99999))
			p.rebuild()
			needsUpload = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		snippet := p.yaml()
		for _, line := range strings.Split(strings.TrimSpace(snippet), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// rebuild applies the selected presets to a fresh grid and restarts stepping.
func (p *preview) rebuild() {
	p.spec.Velocity = scenario.VelocityPresets()[p.velIdx]
	p.spec.Scalar = scenario.ScalarPresets()[p.scalarIdx]
	p.err = nil

	g, err := grid.New(p.cfg.Grid.CellCount,
		grid.WithVelocityInterpolator(p.cfg.Derived.VelocityInterp),
		grid.WithScalarInterpolator(p.cfg.Derived.ScalarInterp),
	)
	if err == nil {
		err = scenario.Apply(g, p.spec)
	}
	if err != nil {
		p.err = err
		g, _ = grid.New(p.cfg.Grid.CellCount)
	}

	p.sim, _ = sim.New(g)
}

// paint converts the scalar field to pixels, top row first.
func (p *preview) paint() {
	g := p.sim.Grid()
	n := g.CellCount()
	if len(p.pixels) != n*n {
		p.pixels = make([]color.RGBA, n*n)
	}

	data := make([]float64, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			data = append(data, g.TempAt(x, y))
		}
	}
	r := palette.FitRange(data)

	for y := 0; y < n; y++ {
		row := n - 1 - y
		for x := 0; x < n; x++ {
			p.pixels[row*n+x] = palette.Heat(r.Normalize(g.TempAt(x, y)))
		}
	}
}

// yaml renders the scenario section for pasting into a config file.
func (p *preview) yaml() string {
	out, err := yaml.Marshal(map[string]config.ScenarioConfig{"scenario": {
		Velocity:   p.spec.Velocity,
		Scalar:     p.spec.Scalar,
		Speed:      p.spec.Speed,
		Amplitude:  p.spec.Amplitude,
		Radius:     p.spec.Radius,
		NoiseScale: p.spec.NoiseScale,
		Seed:       p.spec.Seed,
	}})
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
