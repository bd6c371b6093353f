// Package cli contains the posefmt command line application.
package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/posefmt/logging"
	"go.viam.com/posefmt/posefile"
	"go.viam.com/posefmt/spatialmath"
)

const (
	// Flags.
	flagInfile          = "infile"
	flagInQuatOrder     = "in_quat_order"
	flagInTimeUnit      = "in_time_unit"
	flagOutfile         = "outfile"
	flagOutputFormat    = "output_format"
	flagOutputDelimiter = "output_delimiter"
	flagNormalizeQuat   = "normalize_quat"
	flagDebug           = "debug"

	defaultOutfileSuffix = ".out"
)

// NewApp returns the posefmt application writing results to out and logs and errors to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "posefmt",
		Usage:           "convert pose trajectory files to KALIBR or TUM RGB-D",
		UsageText:       "posefmt --infile FILE [options]",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      flagInfile,
				Usage:     "pose trajectory to convert",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:  flagInQuatOrder,
				Usage: "quaternion component order of the input, xyzw or wxyz",
				Value: string(spatialmath.XYZW),
			},
			&cli.StringFlag{
				Name:        flagInTimeUnit,
				Usage:       "time unit of the input, one of s, ms, us or ns",
				DefaultText: "auto-detected",
			},
			&cli.StringFlag{
				Name:        flagOutfile,
				Usage:       "where to write the converted trajectory",
				DefaultText: "<infile>" + defaultOutfileSuffix,
				TakesFile:   true,
			},
			&cli.StringFlag{
				Name:  flagOutputFormat,
				Usage: "output format, KALIBR or TUM_RGBD",
				Value: string(posefile.TUMRGBD),
			},
			&cli.StringFlag{
				Name:  flagOutputDelimiter,
				Usage: "delimiter written between output columns",
				Value: ",",
			},
			&cli.BoolFlag{
				Name:  flagNormalizeQuat,
				Usage: "rescale quaternions to unit length",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Action: ConvertAction,
	}
}

// ConvertAction converts the file named by --infile.
func ConvertAction(c *cli.Context) error {
	if c.NumFlags() == 0 && c.Args().Len() == 0 {
		if err := cli.ShowAppHelp(c); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}
	if c.Args().Present() {
		return errors.Errorf("unexpected arguments %q, pass the input file with --%s", c.Args().Slice(), flagInfile)
	}

	infile := c.String(flagInfile)
	if infile == "" {
		return errors.Errorf("--%s is required", flagInfile)
	}
	outfile := c.String(flagOutfile)
	if outfile == "" {
		outfile = infile + defaultOutfileSuffix
	}
	same, err := samePath(infile, outfile)
	if err != nil {
		return err
	}
	if same {
		return errors.Errorf("--%s must differ from --%s", flagOutfile, flagInfile)
	}

	opts, err := optionsFromFlags(c)
	if err != nil {
		return err
	}

	logger := logging.NewWriterLogger("posefmt", c.App.ErrWriter)
	if c.Bool(flagDebug) {
		logger.SetLevel(logging.DEBUG)
	}
	logger.Debugw("converting", "infile", infile, "outfile", outfile, "options", opts)

	converter, err := posefile.NewConverter(opts, logger)
	if err != nil {
		return err
	}
	rows, err := converter.ConvertFile(infile, outfile)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %d rows to %s", rows, outfile)
	return nil
}

func optionsFromFlags(c *cli.Context) (posefile.Options, error) {
	opts := posefile.DefaultOptions()

	order, err := spatialmath.ParseQuaternionOrder(c.String(flagInQuatOrder))
	if err != nil {
		return opts, errors.Wrapf(err, "invalid --%s", flagInQuatOrder)
	}
	unit, err := posefile.ParseTimeUnit(c.String(flagInTimeUnit))
	if err != nil {
		return opts, errors.Wrapf(err, "invalid --%s", flagInTimeUnit)
	}
	format, err := posefile.ParseOutputFormat(c.String(flagOutputFormat))
	if err != nil {
		return opts, errors.Wrapf(err, "invalid --%s", flagOutputFormat)
	}
	delimiter := c.String(flagOutputDelimiter)
	if delimiter == "" {
		return opts, errors.Errorf("--%s cannot be empty", flagOutputDelimiter)
	}

	opts.QuaternionOrder = order
	opts.TimeUnit = unit
	opts.OutputFormat = format
	opts.OutputDelimiter = delimiter
	opts.NormalizeQuaternion = c.Bool(flagNormalizeQuat)
	return opts, nil
}
