package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blacktop/go-asciimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPNG(t *testing.T, path string, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	if path != "" {
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	}
	return buf.Bytes()
}

func createTestGIF(t *testing.T, path string) {
	t.Helper()
	palette := color.Palette{color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}}
	g := &gif.GIF{Delay: []int{1, 1}}
	for i := range g.Delay {
		frame := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		for j := range frame.Pix {
			frame.Pix[j] = uint8(i)
		}
		g.Image = append(g.Image, frame)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func stubTerminal(t *testing.T, cols, rows int, err error) {
	t.Helper()
	orig := terminalSize
	terminalSize = func() (int, int, error) { return cols, rows, err }
	t.Cleanup(func() { terminalSize = orig })
}

func runCLI(args []string, stdin []byte) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, bytes.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestAsciimgCLI(t *testing.T) {
	stubTerminal(t, 80, 24, nil)

	tmpDir := t.TempDir()
	testPNG := filepath.Join(tmpDir, "test.png")
	createTestPNG(t, testPNG, 8, 8)
	testGIF := filepath.Join(tmpDir, "test.gif")
	createTestGIF(t, testGIF)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		lines    int
		contains []string
		stderr   []string
	}{
		{
			name:     "Terminal fit",
			args:     []string{testPNG},
			lines:    4,
			contains: []string{"\x1b[38;2;", asciimg.Reset},
		},
		{
			name:  "Width",
			args:  []string{"-w", "4", testPNG},
			lines: 4,
		},
		{
			name:  "Height",
			args:  []string{"--height", "2", testPNG},
			lines: 2,
		},
		{
			name:     "Background",
			args:     []string{"-b", "-w", "4", testPNG},
			lines:    4,
			contains: []string{"\x1b[48;2;"},
		},
		{
			name:  "Filter",
			args:  []string{"-f", "lanczos", "-w", "3", testPNG},
			lines: 3,
		},
		{
			name:  "Animated loops",
			args:  []string{"-w", "2", "-l", "3", testGIF},
			lines: 12,
		},
		{
			name:     "Animated in place",
			args:     []string{"-i", "-w", "2", testGIF},
			lines:    4,
			contains: []string{"\x1b[2A"},
		},
		{
			name:     "Show help",
			args:     []string{"--help"},
			wantCode: 2,
			contains: []string{"Usage:", "Flags:", "--in-place"},
		},
		{
			name:     "Width and height",
			args:     []string{"-w", "4", "-h", "2", testPNG},
			wantCode: 2,
			stderr:   []string{"Usage:", "--height"},
		},
		{
			name:     "Bare -h",
			args:     []string{testPNG, "-h"},
			wantCode: 2,
			stderr:   []string{"Usage:", "-h, --height int"},
		},
		{
			name:     "No input",
			args:     []string{},
			wantCode: 2,
		},
		{
			name:     "Too many files",
			args:     []string{testPNG, testPNG},
			wantCode: 2,
		},
		{
			name:     "Unknown flag",
			args:     []string{"--bogus", testPNG},
			wantCode: 2,
		},
		{
			name:     "Bad width",
			args:     []string{"-w", "wide", testPNG},
			wantCode: 2,
		},
		{
			name:     "Negative width",
			args:     []string{"-w", "-3", testPNG},
			wantCode: 2,
		},
		{
			name:     "Negative loop",
			args:     []string{"-l", "-1", testPNG},
			wantCode: 2,
		},
		{
			name:     "Unknown filter",
			args:     []string{"-f", "bicubic-ish", testPNG},
			wantCode: 2,
		},
		{
			name:     "Missing file",
			args:     []string{filepath.Join(tmpDir, "missing.png")},
			wantCode: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(tt.args, nil)
			assert.Equal(t, tt.wantCode, code)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
			for _, want := range tt.stderr {
				assert.Contains(t, stderr, want)
			}
			if tt.lines > 0 {
				assert.Equal(t, tt.lines, strings.Count(stdout, asciimg.Reset+"\n"))
				assert.True(t, strings.HasSuffix(stdout, asciimg.Reset))
			}
			if tt.wantCode != 0 && tt.wantCode != 2 {
				assert.Empty(t, stdout)
			}
		})
	}
}

func TestAsciimgStdin(t *testing.T) {
	stubTerminal(t, 80, 24, nil)
	data := createTestPNG(t, "", 8, 8)

	code, stdout, _ := runCLI([]string{"-t", "png", "-w", "4"}, data)
	assert.Equal(t, 0, code)
	assert.Equal(t, 4, strings.Count(stdout, asciimg.Reset+"\n"))

	code, _, _ = runCLI([]string{"-t", "svg"}, data)
	assert.Equal(t, 2, code)

	code, _, _ = runCLI([]string{"-t", "png"}, []byte("not a png"))
	assert.Equal(t, 3, code)

	code, _, _ = runCLI([]string{"-t", "png"}, nil)
	assert.Equal(t, 3, code)
}

func TestAsciimgNoTerminal(t *testing.T) {
	stubTerminal(t, 0, 0, asciimg.Errorf(asciimg.KindEnvironment, "terminal size", "invalid terminal size: 0x0"))

	path := filepath.Join(t.TempDir(), "test.png")
	createTestPNG(t, path, 8, 8)

	code, stdout, _ := runCLI([]string{path}, nil)
	assert.Equal(t, 5, code)
	assert.Empty(t, stdout)

	// an explicit size does not need the terminal
	code, _, _ = runCLI([]string{"-w", "4", path}, nil)
	assert.Equal(t, 0, code)
}

func TestAsciimgCancelled(t *testing.T) {
	stubTerminal(t, 80, 24, nil)
	path := filepath.Join(t.TempDir(), "test.gif")
	createTestGIF(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	code := execute(ctx, []string{"-w", "2", "-l", "0", path}, nil, &out, &bytes.Buffer{})
	assert.Equal(t, 0, code)
	assert.Equal(t, asciimg.Reset, out.String())
}
