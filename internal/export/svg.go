package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/timeline"
	"github.com/jmcastelo/SIRview/internal/viz"
)

// frame maps (t, value) onto SVG pixels.
type frame struct {
	t0, t1, lo, hi float64
	width, height  int
}

func (f frame) point(t, v float64) (float64, float64) {
	x := (t - f.t0) / (f.t1 - f.t0) * float64(f.width)
	y := float64(f.height) - (v-f.lo)/(f.hi-f.lo)*float64(f.height)
	return x, y
}

// TimelineToSVG draws component of every section in its palette colour.
// The part of a section that was followed is solid, the part overridden by
// the next section is dashed.
func TimelineToSVG(w io.Writer, tl *timeline.Timeline, component, width, height int) error {
	v := tl.Variant()
	if component < 0 || component >= v.Dim() {
		return fmt.Errorf("component %d of %s out of range", component, v)
	}

	ranges := tl.Ranges()
	f := frame{t0: ranges[0].Start, t1: ranges[0].End, lo: 0, hi: 1, width: width, height: height}
	for _, r := range ranges {
		f.t1 = math.Max(f.t1, r.End)
	}
	if f.t1 <= f.t0 {
		f.t1 = f.t0 + 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<title>%s %s</title>
`, width, height, width, height, v, v.Variables()[component]))

	last := tl.Len() - 1
	for i := 0; i <= last; i++ {
		color := string(viz.ColorForIndex(i))
		if i == last {
			full, err := tl.PlotFull(i)
			if err != nil {
				return err
			}
			writePath(&sb, f, full, component, color, false)
			continue
		}

		left, err := tl.PlotLeft(i)
		if err != nil {
			return err
		}
		right, err := tl.PlotRight(i)
		if err != nil {
			return err
		}
		writePath(&sb, f, left, component, color, false)
		writePath(&sb, f, right, component, color, true)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writePath(sb *strings.Builder, f frame, s dynamo.Series, k int, color string, dashed bool) {
	if s.Len() < 2 {
		return
	}
	dash := ""
	if dashed {
		dash = ` stroke-dasharray="6,4"`
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, color, dash))
	for i, t := range s.Times {
		x, y := f.point(t, s.Values[k][i])
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}
