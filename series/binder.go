package series

import (
	"fmt"
	"log/slog"

	"worldview/core"
)

// Placement is one resolved marker ready for its object constructor
type Placement struct {
	Series  string
	Type    Type
	Lat     float64
	Long    float64
	Color   core.Color
	Amount  float64
	Label   string
	Opacity float64
	Scale   float64
	Grow    core.GrowAxis
	Girth   float64
	Height  float64
}

// Geo returns the placement anchor
func (p Placement) Geo() core.GeoPoint {
	return core.GeoPoint{Lat: p.Lat, Lon: p.Long}
}

// GrowOptions returns the sizing inputs for core.GrowScale
func (p Placement) GrowOptions() core.GrowOptions {
	return core.GrowOptions{
		Axis:   p.Grow,
		Girth:  p.Girth,
		Height: p.Height,
		Amount: p.Amount,
		Scale:  p.Scale,
	}
}

// Binder resolves series rows into placements
type Binder struct {
	log *slog.Logger
}

// NewBinder returns a binder logging to log (slog.Default when nil)
func NewBinder(log *slog.Logger) *Binder {
	if log == nil {
		log = slog.Default()
	}
	return &Binder{log: log}
}

// Bind resolves every row of every series, in order.
//
// Color precedence is row color, then the series gradient blended by
// (amount-min)/(max-min), then the flat series color, then white. Missing
// values default to amount 1, label "", opacity 1, scale 1, grow "height",
// girth 1 and height 1. A gradient over a series whose amounts are all equal
// resolves to its first color.
func (b *Binder) Bind(list []Series) []Placement {
	var out []Placement

	for _, s := range list {
		var min, max float64
		if s.Color.IsGradient() {
			min, max = amountRange(s.Data)
		}

		for _, it := range s.Data {
			amount := it.ResolvedAmount()
			out = append(out, Placement{
				Series:  s.Name,
				Type:    s.Type,
				Lat:     it.Lat,
				Long:    it.Lon,
				Color:   b.resolveColor(s, it, amount, min, max),
				Amount:  amount,
				Label:   it.Label,
				Opacity: orDefault(s.Opacity, 1),
				Scale:   orDefault(s.Scale, 1),
				Grow:    core.GrowAxis(orDefaultString(s.Grow, string(core.GrowHeight))),
				Girth:   orDefault(s.Girth, 1),
				Height:  orDefault(s.Height, 1),
			})
		}
	}
	return out
}

func (b *Binder) resolveColor(s Series, it Item, amount, min, max float64) core.Color {
	var (
		c   core.Color
		err error
	)
	switch {
	case it.Color != "":
		c, err = core.ParseColor(it.Color)
	case s.Color.IsGradient():
		fraction := 0.0
		if max != min {
			fraction = (amount - min) / (max - min)
		}
		c, err = core.Blend(s.Color.Gradient[0], s.Color.Gradient[1], fraction)
	case s.Color.Flat != "":
		c, err = core.ParseColor(s.Color.Flat)
	default:
		return core.White
	}
	if err != nil {
		b.log.Warn("unusable marker color, using white", "series", s.Name, "err", err)
		return core.White
	}
	return c
}

func amountRange(items []Item) (min, max float64) {
	for i, it := range items {
		a := it.ResolvedAmount()
		if i == 0 || a < min {
			min = a
		}
		if i == 0 || a > max {
			max = a
		}
	}
	return min, max
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Sink receives dispatched placements
type Sink interface {
	// PlaceLive adds an individually addressable object (pin, flag)
	PlaceLive(p Placement) error
	// MergeStatic bakes a solid (cube, cylinder, cone) into the surface batch
	MergeStatic(p Placement) error
}

// Report counts what Dispatch did with each placement
type Report struct {
	Live    int
	Merged  int
	Dropped int
	Failed  int
}

func (r Report) String() string {
	return fmt.Sprintf("live=%d merged=%d dropped=%d failed=%d", r.Live, r.Merged, r.Dropped, r.Failed)
}

// DispatchOption configures Dispatch
type DispatchOption func(*dispatchConfig)

type dispatchConfig struct {
	progress func(done, total int)
}

// WithProgress reports after each placement is handled
func WithProgress(fn func(done, total int)) DispatchOption {
	return func(c *dispatchConfig) { c.progress = fn }
}

// Dispatch routes each placement by type. Types without a constructor,
// "sphere" included, are dropped with a warning rather than failing the
// scene. A sink error only loses that one marker.
func (b *Binder) Dispatch(placements []Placement, sink Sink, opts ...DispatchOption) Report {
	var cfg dispatchConfig
	for _, o := range opts {
		o(&cfg)
	}

	var r Report
	warned := map[string]bool{}

	for i, p := range placements {
		var err error
		switch {
		case p.Type.Live():
			if err = sink.PlaceLive(p); err == nil {
				r.Live++
			}
		case p.Type.Static():
			if err = sink.MergeStatic(p); err == nil {
				r.Merged++
			}
		default:
			r.Dropped++
			key := p.Series + "\x00" + string(p.Type)
			if !warned[key] {
				warned[key] = true
				b.log.Warn("dropping markers of unsupported type",
					"series", p.Series,
					"type", p.Type,
					"err", core.ErrUnknownSeriesType)
			}
		}

		if err != nil {
			r.Failed++
			b.log.Warn("marker not placed",
				"series", p.Series,
				"type", p.Type,
				"lat", p.Lat,
				"long", p.Long,
				"err", err)
		}
		if cfg.progress != nil {
			cfg.progress(i+1, len(placements))
		}
	}
	return r
}
