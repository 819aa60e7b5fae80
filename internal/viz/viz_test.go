package viz

import (
	"bytes"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

func countSet(c *Canvas) int {
	w, h := c.PixelSize()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				n++
			}
		}
	}
	return n
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)

	assert.True(t, c.IsSet(0, 0))
	assert.True(t, c.IsSet(7, 7))
	assert.False(t, c.IsSet(1, 0))
	assert.Equal(t, 2, countSet(c))
	assert.Equal(t, rune(0x2801), c.Grid[0][0])

	c.Clear()
	assert.Zero(t, countSet(c))
	assert.Len(t, strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n"), 2)
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawLine(0, 0, 10, 5)
	assert.True(t, c.IsSet(0, 0))
	assert.True(t, c.IsSet(10, 5))

	c.Clear()
	c.DrawCircle(20, 20, 8)
	for _, p := range [][2]int{{28, 20}, {12, 20}, {20, 28}, {20, 12}} {
		assert.True(t, c.IsSet(p[0], p[1]), "%v", p)
	}
	assert.False(t, c.IsSet(20, 20))
}

func TestCanvasSVG(t *testing.T) {
	c := NewCanvas(3, 2)
	c.DrawLine(0, 0, 5, 0)

	svg := c.SVG(4)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `width="24" height="32"`)
	assert.Equal(t, countSet(c), strings.Count(svg, "<circle"))
}

func TestDrawWheels(t *testing.T) {
	c := NewCanvas(canvasWidth, canvasHeight)
	DrawWheels(c, nil)
	assert.Zero(t, countSet(c))

	wheels := []vehicle.Wheel{{}, {}}
	DrawWheels(c, wheels)
	still := c.String()
	assert.NotZero(t, countSet(c))

	c.Clear()
	wheels[0].RotationAngle = math.Pi / 2
	DrawWheels(c, wheels)
	assert.NotEqual(t, still, c.String())
}

func snapshot(speed float64) vehicle.Snapshot {
	v := vehicle.New(speed, 2, vehicle.DefaultParams())
	v.SetBrakeTorque(0, 50)
	v.SetDriveTorque(1, 120)
	return v.Snapshot()
}

func TestModelUpdate(t *testing.T) {
	var m tea.Model = NewModel("dry", control.DefaultConfig())

	for i := 0; i < historyCapacity+5; i++ {
		m, _ = m.Update(snapshotMsg(snapshot(20)))
	}
	got := m.(Model)
	assert.Equal(t, historyCapacity+5, got.frames)
	assert.Len(t, got.speedHistory, historyCapacity)
	assert.Len(t, got.slipHistory, historyCapacity)
	assert.Equal(t, 20.0, got.snap.LinearSpeed)

	view := got.View()
	assert.Contains(t, view, "DRY")
	assert.Contains(t, view, "W0")
	assert.Contains(t, view, "W1")
	assert.Contains(t, view, "20.00 m/s")
}

func TestModelKeys(t *testing.T) {
	m := NewModel("dry", control.DefaultConfig())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	assert.Nil(t, cmd)
	assert.Equal(t, ThemeRetroGreen.Name, next.(Model).theme.Name)

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, next.(Model).showHelp)
	assert.Contains(t, next.View(), "KEYBOARD SHORTCUTS")

	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestThemeCycle(t *testing.T) {
	name := ThemeCyberpunk.Name
	for range Themes {
		name = nextTheme(name).Name
	}
	assert.Equal(t, ThemeCyberpunk.Name, name)
	assert.Equal(t, ThemeCyberpunk, GetTheme("missing"))
	assert.Equal(t, []string{"cyberpunk", "retro", "minimal"}, ThemeNames())
}

func TestDashboardStop(t *testing.T) {
	var out bytes.Buffer
	d := NewDashboard("dry", control.DefaultConfig(), tea.WithInput(nil), tea.WithOutput(&out))
	assert.False(t, d.IsRunning())

	d.Start()
	assert.True(t, d.IsRunning())
	for i := 0; i < 3; i++ {
		d.Render(snapshot(10))
	}

	require.NoError(t, d.Stop())
	assert.False(t, d.IsRunning())

	// Renders after exit are dropped rather than blocking.
	d.Render(snapshot(10))
}

func TestTextRenderer(t *testing.T) {
	var out bytes.Buffer
	r := NewTextRenderer(&out, "wet", 0.1, false)
	assert.True(t, r.IsRunning())

	r.Render(snapshot(12.5))
	r.Render(snapshot(12.5))
	assert.Equal(t, 2, r.Frames())

	text := out.String()
	assert.NotContains(t, text, clearScreen)
	assert.Contains(t, text, "wet  frame=2")
	assert.Contains(t, text, "v=12.50 m/s")
	assert.Contains(t, text, "w1 slip=")
	assert.Contains(t, text, "drive=120.0")

	r.Stop()
	assert.False(t, r.IsRunning())
}
