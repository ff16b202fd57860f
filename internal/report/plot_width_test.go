package report

import (
	"testing"
	"unicode/utf8"
)

func TestPlotWidthFor(t *testing.T) {
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	cases := []struct {
		total int
		want  int
	}{
		{80, 80 - axisWidth},
		{axisWidth + minPlotWidth, minPlotWidth},
		{12, minPlotWidth},
		{0, minPlotWidth},
		{-5, minPlotWidth},
	}
	for _, c := range cases {
		if got := PlotWidthFor(c.total); got != c.want {
			t.Fatalf("PlotWidthFor(%d) = %d, want %d", c.total, got, c.want)
		}
	}
}
