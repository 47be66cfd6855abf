/*
Copyright © 2024 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/blacktop/go-asciimg"
	"github.com/blacktop/go-asciimg/pkg/decode"
	"github.com/blacktop/go-asciimg/pkg/tty"
	"github.com/spf13/cobra"
)

// terminalSize is swapped out in tests
var terminalSize = tty.Size

func init() {
	log.SetHandler(clihander.Default)
}

type options struct {
	verbose    bool
	background bool
	width      int
	height     int
	format     string
	filter     string
	loops      int
	inPlace    bool
	help       bool
}

// newRootCmd builds the asciimg command reading from stdin and writing frames to stdout
func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "asciimg [flags] [file]",
		Short: "Draw images in your terminal with colored ASCII",
		Long: `Draw images in your terminal with truecolor ANSI escape codes and ASCII glyphs.
Animated GIFs are played back with their frame delays.

Reads image data from standard input when no file is given and --type is set.`,
		Example: `  asciimg cat.png
  asciimg -b -w 60 party.gif
  curl -s https://example.com/cat.gif | asciimg -t gif`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return asciimg.Errorf(asciimg.KindArgument, "", "expecting at most one image file but got %d arguments", len(args))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}
			if cmd.Flags().Changed("width") && cmd.Flags().Changed("height") {
				return asciimg.Errorf(asciimg.KindArgument, "", "--width and --height cannot be used together")
			}
			return run(cmd.Context(), opts, args, stdin, stdout)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.verbose, "verbose", "V", false, "Enable verbose logging")
	flags.BoolVarP(&opts.background, "background", "b", false, "Color the background instead of ASCII characters")
	flags.IntVarP(&opts.width, "width", "w", 0, "Output width in characters (height follows the aspect ratio)")
	flags.IntVarP(&opts.height, "height", "h", 0, "Output height in characters (width follows the aspect ratio)")
	flags.StringVarP(&opts.format, "type", "t", "", fmt.Sprintf("Image format of data piped on stdin (%s)", strings.Join(decode.Formats(), ", ")))
	flags.StringVarP(&opts.filter, "filter", "f", asciimg.FilterAuto.String(), fmt.Sprintf("Resampling filter (%s)", strings.Join(asciimg.FilterNames(), ", ")))
	flags.IntVarP(&opts.loops, "loop", "l", 1, "Number of times to play an animation (0 loops forever)")
	flags.BoolVarP(&opts.inPlace, "in-place", "i", false, "Redraw animation frames over each other")
	// -h belongs to --height, so help gets a long flag only
	flags.BoolVar(&opts.help, "help", false, "Show this help")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return asciimg.NewError(asciimg.KindArgument, "", err)
	})

	return cmd
}

func run(ctx context.Context, opts *options, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 && opts.format == "" {
		return asciimg.Errorf(asciimg.KindArgument, "", "expecting a path to an image file, or --type when piping data on stdin")
	}
	if opts.width < 0 || opts.height < 0 {
		return asciimg.Errorf(asciimg.KindArgument, "", "invalid size %dx%d", opts.width, opts.height)
	}
	if opts.loops < 0 {
		return asciimg.Errorf(asciimg.KindArgument, "", "invalid loop count %d", opts.loops)
	}
	filter, err := asciimg.ParseFilter(opts.filter)
	if err != nil {
		return err
	}

	var frames *asciimg.FrameSet
	if len(args) == 1 {
		frames, err = decode.DecodeFile(args[0])
	} else {
		format, ok := decode.NormalizeFormat(opts.format)
		if !ok {
			return asciimg.Errorf(asciimg.KindArgument, "", "unsupported image type %q (want one of %s)",
				opts.format, strings.Join(decode.Formats(), ", "))
		}
		frames, err = decode.DecodeReader(stdin, format)
	}
	if err != nil {
		return err
	}

	loops := opts.loops
	if loops == 0 {
		loops = -1
	}

	img := asciimg.New(frames).
		Width(opts.width).
		Height(opts.height).
		Background(opts.background).
		Filter(filter).
		Loops(loops).
		InPlace(opts.inPlace).
		Logger(log.Log)

	log.Debugf("Image Info: %s", img.Info())

	if opts.width == 0 && opts.height == 0 {
		cols, rows, err := terminalSize()
		if err != nil {
			return err
		}
		log.Debugf("Detected %dx%d terminal", cols, rows)
		img.Terminal(cols, rows)
	}
	if !tty.TrueColorSupported() {
		log.Debug("terminal does not advertise truecolor support")
	}

	g, err := img.Geometry()
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"geometry": g.String(), "filter": filter.String()}).Debug("fitting image")

	out := bufio.NewWriterSize(stdout, asciimg.TextFrameSize(g.Width, g.Height))
	return img.Play(ctx, out)
}

// execute runs the command and returns the process exit code
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		// help was printed instead of running
		if help, _ := cmd.Flags().GetBool("help"); help {
			return asciimg.KindArgument.ExitCode()
		}
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 0
	}

	kind := asciimg.KindOf(err)
	log.Error(err.Error())
	if kind == asciimg.KindArgument {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return kind.ExitCode()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
