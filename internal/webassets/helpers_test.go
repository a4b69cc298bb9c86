package webassets

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/twinspect/twinspect/internal/model"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "22.50 °C", FormatValue(22.5, "°C"))
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "18-28 °C", FormatRange(18, 28, "°C"))
	assert.Equal(t, "0.1-0.5 mm/s", FormatRange(0.1, 0.5, "mm/s"))
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{model.StatusNormal, "status-ok"},
		{model.StatusWarning, "status-warning"},
		{model.StatusCritical, "status-critical"},
		{model.StatusOffline, "status-unknown"},
		{"bogus", "status-unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusClass(tt.status), tt.status)
	}
}

func TestSeverityClass(t *testing.T) {
	assert.Equal(t, "sev-critical", SeverityClass(model.SeverityCritical))
	assert.Equal(t, "sev-warning", SeverityClass(model.SeverityWarning))
	assert.Equal(t, "sev-info", SeverityClass(model.SeverityInfo))
	assert.Equal(t, "sev-info", SeverityClass(""))
}

func TestSparklinePolyline(t *testing.T) {
	now := time.Now()
	points := []model.TrendPoint{
		{Timestamp: now, Value: 0},
		{Timestamp: now.Add(time.Hour), Value: 50},
		{Timestamp: now.Add(2 * time.Hour), Value: 100},
	}

	got := SparklinePolyline(points, 240, 40)
	parts := strings.Split(got, " ")
	assert.Len(t, parts, 3)
	assert.Equal(t, "0.0,40.0", parts[0])   // min value sits at the bottom
	assert.Equal(t, "120.0,20.0", parts[1]) // midpoint halfway up
	assert.Equal(t, "240.0,0.0", parts[2])  // max value at the top
}

func TestSparklinePolyline_Empty(t *testing.T) {
	assert.Equal(t, "", SparklinePolyline(nil, 240, 40))
}

func TestSparklinePolyline_FlatLine(t *testing.T) {
	now := time.Now()
	points := []model.TrendPoint{
		{Timestamp: now, Value: 5},
		{Timestamp: now.Add(time.Hour), Value: 5},
	}
	got := SparklinePolyline(points, 100, 40)
	assert.Equal(t, "0.0,40.0 100.0,40.0", got)
}

func TestSparklinePolyline_SinglePointCentered(t *testing.T) {
	got := SparklinePolyline([]model.TrendPoint{{Value: 7}}, 100, 40)
	assert.Equal(t, "50.0,40.0", got)
}

func FuzzSparklinePolyline(f *testing.F) {
	// Rising series over the default viewBox.
	f.Add(10.0, 20.0, 30.0, 240.0, 40.0)
	// Flat series exercises the zero-range guard.
	f.Add(5.0, 5.0, 5.0, 100.0, 40.0)
	// Negative values and a degenerate viewBox.
	f.Add(-1.5, 0.0, 2.5, 0.0, 0.0)
	f.Fuzz(func(t *testing.T, a, b, c, w, h float64) {
		now := time.Now()
		points := []model.TrendPoint{
			{Timestamp: now, Value: a},
			{Timestamp: now.Add(time.Hour), Value: b},
			{Timestamp: now.Add(2 * time.Hour), Value: c},
		}

		got := SparklinePolyline(points, w, h)

		// One x,y pair per point, space separated, whatever the inputs.
		parts := strings.Split(got, " ")
		if len(parts) != len(points) {
			t.Fatalf("want %d coordinate pairs, got %d in %q", len(points), len(parts), got)
		}
		for _, p := range parts {
			if !strings.Contains(p, ",") {
				t.Fatalf("malformed pair %q in %q", p, got)
			}
		}
	})
}
