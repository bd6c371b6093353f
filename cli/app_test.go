package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/test"

	"go.viam.com/posefmt/posefile"
	"go.viam.com/posefmt/testutils"
)

func newTestApp() (*cli.App, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	app := NewApp(out, errOut)
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app, out, errOut
}

func writePoses(t *testing.T) string {
	t.Helper()
	return testutils.WriteTempFile(t, "poses.txt",
		"# timestamp tx ty tz qw qx qy qz",
		"5.5 1.0 2.0 3.0 1.0 0.0 0.0 0.0",
		"6.5 1.0 2.0 3.0 1.0 0.0 0.0 0.0",
	)
}

func TestNoArgumentsShowsUsage(t *testing.T) {
	app, out, _ := newTestApp()
	err := app.Run([]string{"posefmt"})
	test.That(t, err, test.ShouldNotBeNil)

	var exitErr cli.ExitCoder
	test.That(t, errors.As(err, &exitErr), test.ShouldBeTrue)
	test.That(t, exitErr.ExitCode(), test.ShouldEqual, 1)
	test.That(t, out.String(), test.ShouldContainSubstring, "--"+flagInfile)
	test.That(t, out.String(), test.ShouldContainSubstring, "--"+flagOutputFormat)
}

func TestConvertActionDefaults(t *testing.T) {
	infile := writePoses(t)
	app, out, errOut := newTestApp()

	err := app.Run([]string{"posefmt", "--infile", infile, "--in_quat_order", "wxyz"})
	test.That(t, err, test.ShouldBeNil)

	outfile := infile + ".out"
	test.That(t, testutils.ReadLines(t, outfile), test.ShouldResemble, []string{
		"5.500000000,1.0,2.0,3.0,0.0,0.0,0.0,1.0",
		"6.500000000,1.0,2.0,3.0,0.0,0.0,0.0,1.0",
	})
	test.That(t, out.String(), test.ShouldEqual, "wrote 2 rows to "+outfile+"\n")
	test.That(t, errOut.String(), test.ShouldContainSubstring, "determined input layout")
	test.That(t, errOut.String(), test.ShouldNotContainSubstring, "DEBUG")
}

func TestConvertActionFlags(t *testing.T) {
	infile := writePoses(t)
	outfile := filepath.Join(t.TempDir(), "kalibr.txt")
	app, _, errOut := newTestApp()

	err := app.Run([]string{
		"posefmt",
		"--infile", infile,
		"--outfile", outfile,
		"--in_time_unit", "s",
		"--output_format", "KALIBR",
		"--output_delimiter", " ",
		"--normalize_quat",
		"--debug",
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, testutils.ReadLines(t, outfile), test.ShouldResemble, []string{
		"5500000000 1.0 2.0 3.0 1.000000000 0.000000000 0.000000000 0.000000000",
		"6500000000 1.0 2.0 3.0 1.000000000 0.000000000 0.000000000 0.000000000",
	})
	test.That(t, errOut.String(), test.ShouldContainSubstring, "DEBUG")
}

func TestConvertActionErrors(t *testing.T) {
	infile := writePoses(t)
	headersOnly := testutils.WriteTempFile(t, "headers.txt", "# nothing", "# here")

	for _, tc := range []struct {
		name string
		args []string
		err  string
	}{
		{"missing infile", []string{"--output_format", "KALIBR"}, "--infile is required"},
		{"positional argument", []string{infile}, "unexpected arguments"},
		{"quaternion order", []string{"--infile", infile, "--in_quat_order", "zyxw"}, "invalid --in_quat_order"},
		{"time unit", []string{"--infile", infile, "--in_time_unit", "minutes"}, "invalid --in_time_unit"},
		{"output format", []string{"--infile", infile, "--output_format", "EUROC"}, "invalid --output_format"},
		{"empty delimiter", []string{"--infile", infile, "--output_delimiter", ""}, "cannot be empty"},
		{"outfile is infile", []string{"--infile", infile, "--outfile", infile}, "must differ"},
		{"no data rows", []string{"--infile", headersOnly}, "insufficient data"},
		{"missing file", []string{"--infile", infile + ".missing"}, "unable to open input file"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			app, _, _ := newTestApp()
			err := app.Run(append([]string{"posefmt"}, tc.args...))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}
}

func TestConvertActionFormatError(t *testing.T) {
	infile := testutils.WriteTempFile(t, "bad.txt", "1,2,3", "4,5,6")
	app, _, _ := newTestApp()
	err := app.Run([]string{"posefmt", "--infile", infile})
	test.That(t, posefile.IsFormatError(err), test.ShouldBeTrue)
}
