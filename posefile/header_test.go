package posefile

import (
	"testing"

	"go.viam.com/test"
)

func TestIsHeaderLine(t *testing.T) {
	for _, tc := range []struct {
		line   string
		header bool
	}{
		{"000.312,0.231, 21312", false},
		{"/000.312,0.231, 21312", true},
		{"%000.312,0.231, 21312", true},
		{"#000.312,0.231, 21312", true},
		{"// timestamp x y z", true},
		{"", true},
		{"   \t", true},
		{"000.312a,0.231, 21312", true},
		{"00.3S2 0.231 21312", true},
		{"00.382 0.231 21312", false},
		{"2019_07_12_12_23_04", true},
		{"0342.324s,23901s", true},
		{"timestamp,tx,ty,tz,qx,qy,qz,qw", true},
		{"1614950000123456789 1.0 2.0 3.0 0.0 0.0 0.0 1.0", false},
		{"1.5e9\t1\t2\t3\t0\t0\t0\t1", false},
		{"  12;1;2;3;0;0;0;1\r", false},
		{"nan,1,2,3,0,0,0,1", true},
		{"0x10,1,2,3,0,0,0,1", true},
		// Only the leading token decides, bad fields later in the row are conversion errors.
		{"1.0,abc,2,3,0,0,0,1", false},
	} {
		t.Run(tc.line, func(t *testing.T) {
			test.That(t, IsHeaderLine(tc.line), test.ShouldEqual, tc.header)
		})
	}
}

func TestDelimiterSplit(t *testing.T) {
	test.That(t, Comma.Split(" 1, 2 ,3\r"), test.ShouldResemble, []string{"1", "2", "3"})
	test.That(t, Whitespace.Split("1   2\t3 "), test.ShouldResemble, []string{"1", "2", "3"})
	test.That(t, Semicolon.Split("1;;3"), test.ShouldResemble, []string{"1", "", "3"})
	test.That(t, Comma.Split("1,2,3,"), test.ShouldResemble, []string{"1", "2", "3"})
	test.That(t, Comma.Split("1,2,3, \r"), test.ShouldResemble, []string{"1", "2", "3"})
	test.That(t, Comma.Split("1,2,,"), test.ShouldResemble, []string{"1", "2", ""})
	test.That(t, Tab.Split("1\t2\t"), test.ShouldResemble, []string{"1", "2"})
	test.That(t, Tab.String(), test.ShouldEqual, "tab")
}
