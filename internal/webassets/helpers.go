package webassets

import (
	"fmt"
	"math"
	"strings"

	"github.com/twinspect/twinspect/internal/model"
)

// FormatValue renders a measurement with its unit.
func FormatValue(v float64, unit string) string {
	return fmt.Sprintf("%.2f %s", v, unit)
}

// FormatRange renders an inclusive value band with its unit.
func FormatRange(lo, hi float64, unit string) string {
	return fmt.Sprintf("%g-%g %s", lo, hi, unit)
}

// StatusClass returns the CSS class for a device status.
func StatusClass(status string) string {
	switch status {
	case model.StatusNormal:
		return "status-ok"
	case model.StatusWarning:
		return "status-warning"
	case model.StatusCritical:
		return "status-critical"
	default:
		return "status-unknown"
	}
}

// SeverityClass returns the CSS class for an alert severity.
func SeverityClass(severity string) string {
	switch severity {
	case model.SeverityCritical:
		return "sev-critical"
	case model.SeverityWarning:
		return "sev-warning"
	default:
		return "sev-info"
	}
}

// SparklinePolyline returns SVG polyline points from a trend series.
// Points are normalized to fit the given viewBox.
func SparklinePolyline(points []model.TrendPoint, width, height float64) string {
	if len(points) == 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if p.Value < minVal {
			minVal = p.Value
		}
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1 // avoid division by zero for flat lines
	}

	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		x := float64(i) / float64(len(points)-1) * width
		if len(points) == 1 {
			x = width / 2
		}
		y := height - (p.Value-minVal)/valRange*height // invert Y for SVG
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}
