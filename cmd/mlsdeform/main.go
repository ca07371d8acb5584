package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/logrusorgru/aurora"
	"github.com/osuushi/mls/advanced"
	"github.com/osuushi/mls/internal/render"
	"github.com/osuushi/mls/internal/scene"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Command line front end for deforming scenes. A scene file names the pins,
// the samples and the fit; flags can override the pins and samples, drag
// destination pins around, and render the result.
func main() {
	c := newCLI(os.Stdin, os.Stdout, os.Stderr)
	c.app.FatalIfError(c.run(os.Args[1:]), "")
}

type cli struct {
	app    *kingpin.Application
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	au     aurora.Aurora
	log    *slog.Logger

	logLevel *string
	logFile  *string
	noColor  *bool

	deform struct {
		cmd      *kingpin.CmdClause
		scene    *string
		strategy *string
		pins     *string
		samples  *string
		add      *[]string
		remove   *[]string
		move     *[]string
		drag     *[]string
		radius   *float64
		png      *string
		imgcat   *bool
		heat     *bool
		scale    *float64
		workers  *int
	}

	dump struct {
		cmd      *kingpin.CmdClause
		scene    *string
		strategy *string
		index    *int
	}

	grid struct {
		cmd     *kingpin.CmdClause
		width   *float64
		height  *float64
		columns *int
		rows    *int
	}
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	app := kingpin.New("mlsdeform", "Moving least squares deformation of point sets.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	c.app = app

	c.logLevel = app.Flag("log-level", "Log level.").Default("warn").Enum(logLevels...)
	c.logFile = app.Flag("log-file", "Write JSON logs to this file instead of stderr.").String()
	c.noColor = app.Flag("no-color", "Disable colored output.").Bool()

	d := &c.deform
	d.cmd = app.Command("deform", "Deform a scene and print the deformed points.")
	d.scene = d.cmd.Arg("scene", "Scene file.").Required().ExistingFile()
	d.strategy = d.cmd.Flag("strategy", "Override the scene's fit (affine, similarity, rigid).").Short('s').String()
	d.pins = d.cmd.Flag("pins", "Read the pins from an SVG drawing instead of the scene.").ExistingFile()
	// Values starting with "-" read as flags unless attached with "=", as in
	// --samples=- or --add=-5,3.
	d.samples = d.cmd.Flag("samples", `Read sample points from a file, or stdin with --samples=-.`).String()
	d.add = d.cmd.Flag("add", "Add a fixed pin at X,Y. Use --add=X,Y for negative coordinates.").PlaceHolder("X,Y").Strings()
	d.remove = d.cmd.Flag("remove", "Remove the source pin nearest X,Y.").PlaceHolder("X,Y").Strings()
	d.move = d.cmd.Flag("move", "Move the source pin nearest X,Y to TX,TY before preparing.").PlaceHolder("X,Y:TX,TY").Strings()
	d.drag = d.cmd.Flag("drag", "Move the destination pin nearest X,Y to TX,TY. Repeat to drag in frames.").PlaceHolder("X,Y:TX,TY").Strings()
	d.radius = d.cmd.Flag("radius", "How close --remove, --move and --drag must be to a pin.").Default("5").Float64()
	d.png = d.cmd.Flag("png", "Render the deformation to a PNG file.").String()
	d.imgcat = d.cmd.Flag("imgcat", "Render the deformation to the terminal.").Bool()
	d.heat = d.cmd.Flag("heat", "Color the deformed mesh by displacement.").Bool()
	d.scale = d.cmd.Flag("scale", "Pixels per unit when rendering.").Default("2").Float64()
	d.workers = d.cmd.Flag("workers", "Worker goroutines, 0 for one per CPU.").Default("0").Int()

	u := &c.dump
	u.cmd = app.Command("dump", "Print the closure computed for one sample point.")
	u.scene = u.cmd.Arg("scene", "Scene file.").Required().ExistingFile()
	u.strategy = u.cmd.Flag("strategy", "Override the scene's fit.").Short('s').String()
	u.index = u.cmd.Flag("index", "Sample index.").Short('i').Default("0").Int()

	g := &c.grid
	g.cmd = app.Command("grid", "Print the vertices of a plane grid.")
	g.width = g.cmd.Flag("width", "Grid width.").Default("200").Float64()
	g.height = g.cmd.Flag("height", "Grid height.").Default("200").Float64()
	g.columns = g.cmd.Flag("columns", "Vertices per row.").Default("20").Int()
	g.rows = g.cmd.Flag("rows", "Vertices per column.").Default("20").Int()

	return c
}

func (c *cli) run(args []string) error {
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}
	c.au = aurora.NewAurora(!*c.noColor)

	logger, closer, err := newLogger(*c.logLevel, *c.logFile, c.stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	c.log = logger
	advanced.SetLogger(logger)
	defer advanced.SetLogger(nil)

	switch command {
	case c.deform.cmd.FullCommand():
		return c.runDeform()
	case c.dump.cmd.FullCommand():
		return c.runDump()
	case c.grid.cmd.FullCommand():
		return c.runGrid()
	}
	return errors.Errorf("unknown command %q", command)
}

// loadScene reads the scene and applies the strategy override.
func loadScene(path, strategy string) (*scene.Scene, advanced.Kind, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, 0, err
	}
	if strategy != "" {
		s.Strategy = strategy
	}
	kind, err := s.Kind()
	if err != nil {
		return nil, 0, err
	}
	return s, kind, nil
}

func (c *cli) newSession(s *scene.Scene, kind advanced.Kind, workers int) (*advanced.Session, error) {
	w, err := s.Weighting()
	if err != nil {
		return nil, err
	}
	return advanced.NewSession(kind,
		advanced.WithWeighting(w),
		advanced.WithWorkers(workers),
		advanced.WithLogger(c.log))
}

func (c *cli) runDeform() error {
	d := &c.deform
	s, kind, err := loadScene(*d.scene, *d.strategy)
	if err != nil {
		return err
	}

	pins := s.PinSet()
	if *d.pins != "" {
		if pins, err = loadPinsSVG(*d.pins); err != nil {
			return err
		}
	}
	for _, arg := range *d.add {
		p, err := scene.ParsePoint(arg)
		if err != nil {
			return errors.Wrap(err, "--add")
		}
		pins.Add(p)
	}
	for _, arg := range *d.remove {
		p, err := scene.ParsePoint(arg)
		if err != nil {
			return errors.Wrap(err, "--remove")
		}
		i := advanced.Nearest(pins.Source, p, *d.radius)
		if i < 0 {
			return errors.Errorf("--remove: no pin within %g of %v", *d.radius, p)
		}
		pins.Remove(i)
	}

	// Moving a source pin changes the fit, so it has to happen before Prepare.
	for _, arg := range *d.move {
		if err := movePin(pins.Source, arg, *d.radius, "--move"); err != nil {
			return err
		}
	}

	samples := s.SamplePoints()
	grid := &s.Grid
	if *d.samples != "" {
		if samples, err = c.readSamples(*d.samples); err != nil {
			return err
		}
		grid = nil
	} else if !s.UsesGrid() {
		grid = nil
	}

	session, err := c.newSession(s, kind, *d.workers)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := session.PrepareContext(ctx, samples, pins.Source); err != nil {
		return err
	}

	// Each drag is one frame. Only destination pins move, so the closures are
	// reused for every frame.
	deformed, stats, err := session.EvaluateContext(ctx, pins.Dest)
	if err != nil {
		return err
	}
	for frame, arg := range *d.drag {
		if err := movePin(pins.Dest, arg, *d.radius, "--drag"); err != nil {
			return err
		}
		if deformed, stats, err = session.EvaluateContext(ctx, pins.Dest); err != nil {
			return err
		}
		c.log.Info("dragged",
			slog.Int("frame", frame+1),
			slog.String("drag", arg),
			slog.Int("fallbacks", stats.Fallbacks))
	}
	if stats.Fallbacks > 0 {
		fmt.Fprintln(c.stderr, c.au.Yellow(fmt.Sprintf(
			"%d of %d points kept their position (degenerate %s fit)",
			stats.Fallbacks, stats.Points, kind)).String())
	}

	if *d.png == "" && !*d.imgcat {
		return scene.WritePoints(c.stdout, deformed)
	}

	frame := render.Frame{Grid: grid, Source: samples, Deformed: deformed, Pins: pins}
	opts := render.DefaultOptions()
	opts.Scale = *d.scale
	opts.Heat = *d.heat
	path := *d.png
	if path == "" {
		dir, err := os.MkdirTemp("", "mlsdeform")
		if err != nil {
			return errors.Wrap(err, "creating temp dir")
		}
		defer os.RemoveAll(dir)
		path = filepath.Join(dir, "deform.png")
	}
	if err := render.SavePNG(path, frame, opts); err != nil {
		return err
	}
	if *d.imgcat {
		return render.Echo(path, c.stdout)
	}
	fmt.Fprintln(c.stderr, c.au.Green("wrote "+path).String())
	return nil
}

func loadPinsSVG(path string) (advanced.Pins, error) {
	f, err := os.Open(path)
	if err != nil {
		return advanced.Pins{}, errors.Wrap(err, "opening pins")
	}
	defer f.Close()
	pins, err := scene.LoadPinsSVG(f)
	if err != nil {
		return pins, errors.Wrapf(err, "pins %s", path)
	}
	return pins, nil
}

func (c *cli) readSamples(path string) ([]advanced.Point, error) {
	if path == "-" {
		return scene.ReadPoints(c.stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening samples")
	}
	defer f.Close()
	points, err := scene.ReadPoints(f)
	if err != nil {
		return nil, errors.Wrapf(err, "samples %s", path)
	}
	return points, nil
}

// movePin applies one "X,Y:TX,TY" edit to the pin in list nearest X,Y.
func movePin(list []advanced.Point, arg string, radius float64, flag string) error {
	from, to, ok := strings.Cut(arg, ":")
	if !ok {
		return errors.Errorf("%s: %q is not X,Y:TX,TY", flag, arg)
	}
	p, err := scene.ParsePoint(from)
	if err != nil {
		return errors.Wrap(err, flag)
	}
	target, err := scene.ParsePoint(to)
	if err != nil {
		return errors.Wrap(err, flag)
	}
	i := advanced.Nearest(list, p, radius)
	if i < 0 {
		return errors.Errorf("%s: no pin within %g of %v", flag, radius, p)
	}
	list[i] = target
	return nil
}

func (c *cli) runDump() error {
	u := &c.dump
	s, kind, err := loadScene(*u.scene, *u.strategy)
	if err != nil {
		return err
	}
	samples := s.SamplePoints()
	if *u.index < 0 || *u.index >= len(samples) {
		return errors.Errorf("--index %d out of range, the scene has %d samples", *u.index, len(samples))
	}

	session, err := c.newSession(s, kind, 1)
	if err != nil {
		return err
	}
	sample := samples[*u.index : *u.index+1]
	if err := session.Prepare(sample, s.PinSet().Source); err != nil {
		return err
	}
	closure := session.Closures().At(0)
	fmt.Fprintf(c.stdout, "sample %d at %v, %s fit\n", *u.index, sample[0], kind)
	if closure == nil {
		fmt.Fprintln(c.stdout, c.au.Yellow("degenerate, the point keeps its position").String())
		return nil
	}
	_, err = pretty.Fprintf(c.stdout, "%# v\n", closure)
	return err
}

func (c *cli) runGrid() error {
	g := scene.Grid{
		Width:   *c.grid.width,
		Height:  *c.grid.height,
		Columns: *c.grid.columns,
		Rows:    *c.grid.rows,
	}
	if err := g.Validate(); err != nil {
		return err
	}
	return scene.WritePoints(c.stdout, g.Vertices())
}
