package cssfit_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/yacobolo/cssfit"
	"github.com/yacobolo/cssfit/internal/htmldom"
	"github.com/yacobolo/cssfit/internal/timer"
)

const slide = `<!DOCTYPE html>
<html><body>
<div id="container" style="width: 400px; height: 200px">
  <h1 id="title" style="font-size: 30px; -webkit-text-stroke: 1px white">Title</h1>
  <p id="child" style="padding: 10px 5px 20px 20px; color: red">Text</p>
  <img id="logo" width="120" height="40">
</div>
</body></html>`

const nested = `<!DOCTYPE html>
<html><body>
<div id="wrap" style="width: 800px; height: 400px">
  <div id="box" style="width: 400px; height: 200px"></div>
</div>
</body></html>`

type fixture struct {
	doc   *htmldom.Document
	sched *timer.Manual
}

func newFixture(t *testing.T, markup string) *fixture {
	t.Helper()
	doc, err := htmldom.ParseString(markup, zaptest.NewLogger(t))
	require.NoError(t, err)
	return &fixture{doc: doc, sched: timer.NewManual()}
}

func (f *fixture) element(t *testing.T, id string) *htmldom.Element {
	t.Helper()
	el, ok := f.doc.ElementByID(id)
	require.True(t, ok, "element %s not found", id)
	return el
}

// resizer builds a resizer on #container (or #box) with the fixture scheduler.
func (f *fixture) resizer(t *testing.T, container string, cfg cssfit.Config) *cssfit.Resizer {
	t.Helper()
	cfg.Container = f.element(t, container)
	cfg.Document = f.doc
	cfg.Scheduler = f.sched
	cfg.Logger = zaptest.NewLogger(t)

	r, err := cssfit.New(cfg)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func TestNewRequiresContainerAndDocument(t *testing.T) {
	f := newFixture(t, slide)

	_, err := cssfit.New(cssfit.Config{Document: f.doc})
	require.ErrorIs(t, err, cssfit.ErrNoContainer)

	_, err = cssfit.New(cssfit.Config{Container: f.element(t, "container")})
	require.ErrorIs(t, err, cssfit.ErrNoDocument)
}

func TestNewDefaults(t *testing.T) {
	f := newFixture(t, slide)
	r := f.resizer(t, "container", cssfit.Config{})

	w, h := r.TargetSize()
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 200.0, h)
	assert.Equal(t, cssfit.MethodCalculate, r.Method())
	assert.Equal(t, 1.0, r.Scale(), "no viewport yet, scale stays at 1")
}

func TestAutoScaleAxis(t *testing.T) {
	tests := []struct {
		axis cssfit.Axis
		want float64
	}{
		{axis: cssfit.AxisBoth, want: 1.5},
		{axis: cssfit.AxisWidth, want: 2},
		{axis: cssfit.AxisHeight, want: 1.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.axis), func(t *testing.T) {
			f := newFixture(t, slide)
			f.doc.SetViewport(800, 300)

			r := f.resizer(t, "container", cssfit.Config{AutoScaleAxis: tt.axis})
			assert.Equal(t, tt.want, r.Scale())
		})
	}
}

func TestAutoScaleRoundsToHundredths(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(1000, 1000)

	r := f.resizer(t, "container", cssfit.Config{Width: 300, Height: 300})
	assert.Equal(t, 3.33, r.Scale())
}

func TestSetScaleRejectsInvalid(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})
	require.Equal(t, 1.5, r.Scale())

	for _, scale := range []float64{0, -5, 20000, math.NaN(), math.Inf(1)} {
		r.SetScale(scale)
		assert.Equal(t, 1.5, r.Scale(), "scale %v", scale)
	}

	r.SetScale(cssfit.MaxScale)
	assert.Equal(t, float64(cssfit.MaxScale), r.Scale())
}

func TestCalcTracksAndReplays(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})
	title := f.element(t, "title")

	out, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)
	assert.Equal(t, "45px", out)
	assert.Equal(t, "45px", title.Style("fontSize"))

	r.SetScale(2)
	assert.Equal(t, "60px", title.Style("fontSize"))

	f.doc.SetViewport(400, 400)
	assert.Equal(t, 1.0, r.Scale())
	assert.Equal(t, "30px", title.Style("fontSize"))
}

func TestCalcLatestValueWins(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})
	title := f.element(t, "title")

	_, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)
	_, err = r.Calc(cssfit.CalcParams{Value: cssfit.Number(10), ID: "margin", Element: title})
	require.NoError(t, err)
	_, err = r.Calc(cssfit.CalcParams{
		Value:   cssfit.Keyword("40px"),
		ID:      "fontSize",
		Element: title,
		Bounds:  &cssfit.Bounds{Max: cssfit.Limit(50)},
	})
	require.NoError(t, err)

	targets := r.Targets()
	require.Len(t, targets, 1)
	require.Len(t, targets[0].Styles, 2)

	font := targets[0].Styles[0]
	assert.Equal(t, "fontSize", font.ID)
	assert.Equal(t, cssfit.Number(40), font.Original)
	require.NotNil(t, font.Bounds)
	assert.Equal(t, []float64{50}, font.Bounds.Max.Values())
	assert.Equal(t, "margin", targets[0].Styles[1].ID)

	assert.Equal(t, "50px", title.Style("fontSize"))
	r.SetScale(1)
	assert.Equal(t, "40px", title.Style("fontSize"))
	assert.Equal(t, "10px", title.Style("margin"))
}

func TestCalcEmptyAndUnknown(t *testing.T) {
	f := newFixture(t, slide)
	r := f.resizer(t, "container", cssfit.Config{})
	title := f.element(t, "title")

	for _, v := range []cssfit.Value{{}, cssfit.Number(0), cssfit.Keyword("")} {
		out, err := r.Calc(cssfit.CalcParams{Value: v, ID: "fontSize", Element: title})
		require.NoError(t, err)
		assert.Empty(t, out)
	}
	assert.Equal(t, 0, f.sched.Pending(), "empty values do not arm the purge")

	out, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(5), ID: "letterSpacing", Element: title})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "30px", title.Style("fontSize"))
}

func TestCalcTransform(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})
	logo := f.element(t, "logo")

	out, err := r.Calc(cssfit.CalcParams{Value: cssfit.Numbers(10, 20), ID: "transform", Element: logo})
	require.NoError(t, err)
	assert.Equal(t, "matrix(1, 0, 0, 1, 15, 30)", out)

	_, err = r.Calc(cssfit.CalcParams{Value: cssfit.Numbers(1, 2, 3), ID: "transform", Element: logo})
	require.ErrorIs(t, err, cssfit.ErrUnsupportedFormat)
	assert.Len(t, r.Targets(), 1, "failed values are not tracked")
}

func TestCalcWithoutElement(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})

	out, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(10), ID: "width"})
	require.NoError(t, err)
	assert.Equal(t, "15px", out)
	assert.Empty(t, r.Targets())
}

func TestStalledLinksPurge(t *testing.T) {
	f := newFixture(t, slide)
	r := f.resizer(t, "container", cssfit.Config{})
	title := f.element(t, "title")
	detached := f.doc.CreateElement("span")

	_, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)
	_, err = r.Calc(cssfit.CalcParams{Value: cssfit.Number(12), ID: "fontSize", Element: detached})
	require.NoError(t, err)

	assert.Len(t, r.Targets(), 2)
	assert.Equal(t, 1, f.sched.Pending(), "one purge per burst of calls")

	f.sched.Advance(999 * time.Millisecond)
	assert.Len(t, r.Targets(), 2)

	f.sched.Advance(time.Millisecond)
	targets := r.Targets()
	require.Len(t, targets, 1)
	assert.Same(t, title, targets[0].Element)
	assert.Equal(t, 0, f.sched.Pending())

	_, err = r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)
	assert.Equal(t, 1, f.sched.Pending(), "the next call schedules a new purge")
}

func TestStalledTimeoutConfigurable(t *testing.T) {
	f := newFixture(t, slide)
	r := f.resizer(t, "container", cssfit.Config{ClearStalledTimeout: 5 * time.Second})
	detached := f.doc.CreateElement("span")

	_, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(12), ID: "fontSize", Element: detached})
	require.NoError(t, err)

	f.sched.Advance(time.Second)
	assert.Len(t, r.Targets(), 1)
	f.sched.Advance(4 * time.Second)
	assert.Empty(t, r.Targets())
}

func TestReplayRestoresTransition(t *testing.T) {
	f := newFixture(t, slide)
	r := f.resizer(t, "container", cssfit.Config{})
	title := f.element(t, "title")
	title.SetStyle("transition", "all 1s")

	_, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)

	r.SetScale(2)
	assert.Equal(t, "60px", title.Style("fontSize"))
	assert.Equal(t, "all 1s", title.Style("transition"))
}

func TestReplayKeepsDeclarationOrder(t *testing.T) {
	f := newFixture(t, slide)
	r := f.resizer(t, "container", cssfit.Config{})
	child := f.element(t, "child")
	title := f.element(t, "title")
	child.SetStyle("padding", "")
	child.SetStyle("transition", "all 1s")
	child.SetStyle("padding", "10px")

	_, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(10), ID: "padding", Element: child})
	require.NoError(t, err)
	_, err = r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)

	r.SetScale(2)
	r.SetScale(3)
	assert.Equal(t, "color: red; transition: all 1s; padding: 30px", child.StyleAttr())
	assert.Empty(t, title.Style("transition"))
}

func TestTransformMethod(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{ResizeMethod: cssfit.MethodTransform})
	container := f.element(t, "container")
	title := f.element(t, "title")

	assert.Equal(t, 1.5, r.Scale())
	assert.Equal(t, "scale(1.5)", container.Style("transform"))

	out, err := r.Calc(cssfit.CalcParams{
		Value:   cssfit.Number(30),
		ID:      "fontSize",
		Element: title,
		Bounds:  &cssfit.Bounds{Max: cssfit.Limit(20)},
	})
	require.NoError(t, err)
	assert.Equal(t, "20px", out, "authored value is clamped at scale 1")
	assert.Empty(t, r.Targets())
	assert.Equal(t, 0, f.sched.Pending())

	f.doc.SetViewport(400, 400)
	assert.Equal(t, "scale(1)", container.Style("transform"))
}

func TestMethodNone(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{ResizeMethod: cssfit.MethodNone})
	title := f.element(t, "title")

	assert.Equal(t, 1.5, r.Scale())
	assert.Empty(t, f.element(t, "container").Style("transform"))

	out, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)
	assert.Equal(t, "30px", out)
	assert.Empty(t, r.Targets())
}

func TestResizeUnchangedIsNoop(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})

	r.SetScale(3)
	r.Resize()
	assert.Equal(t, 3.0, r.Scale())

	f.doc.SetViewport(400, 400)
	assert.Equal(t, 1.0, r.Scale())
}

func TestScaleByNone(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{AutoScaleBy: cssfit.ScaleByNone})

	assert.Equal(t, 1.0, r.Scale())
	r.UpdateContainerScale()
	assert.Equal(t, 1.0, r.Scale())

	f.doc.SetViewport(1600, 800)
	assert.Equal(t, 1.0, r.Scale())

	r.SetScale(2)
	assert.Equal(t, 2.0, r.Scale())
}

func TestScaleByParent(t *testing.T) {
	f := newFixture(t, nested)
	wrap := f.element(t, "wrap")

	r := f.resizer(t, "box", cssfit.Config{
		AutoScaleBy: cssfit.ScaleByParent,
		Observer:    f.doc,
	})
	assert.Equal(t, 2.0, r.Scale())

	f.doc.ResizeElement(wrap, 200, 200)
	assert.Equal(t, 0.5, r.Scale())

	f.doc.SetViewport(4000, 4000)
	assert.Equal(t, 0.5, r.Scale(), "viewport does not drive parent scaling")
}

func TestScaleByParentRegisteredObserver(t *testing.T) {
	f := newFixture(t, nested)
	cssfit.SetResizeObserver(f.doc)
	t.Cleanup(func() { cssfit.SetResizeObserver(nil) })

	r := f.resizer(t, "box", cssfit.Config{AutoScaleBy: cssfit.ScaleByParent})
	f.doc.ResizeElement(f.element(t, "wrap"), 1200, 600)
	assert.Equal(t, 3.0, r.Scale())
}

func TestClose(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})
	title := f.element(t, "title")

	_, err := r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)
	require.Equal(t, 1, f.sched.Pending())

	r.Close()
	assert.Equal(t, 0, f.sched.Pending())

	f.doc.SetViewport(1600, 600)
	assert.Equal(t, 1.5, r.Scale())

	_, err = r.Calc(cssfit.CalcParams{Value: cssfit.Number(30), ID: "fontSize", Element: title})
	require.NoError(t, err)
	assert.Equal(t, 0, f.sched.Pending())
}

func TestAutogenerate(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{Autogenerate: true})

	w, h := r.TargetSize()
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 200.0, h)
	assert.Equal(t, 1.5, r.Scale())

	assert.Len(t, r.Targets(), 4)
	assert.Equal(t, "600px", f.element(t, "container").Style("width"))
	assert.Equal(t, "45px", f.element(t, "title").Style("fontSize"))
	assert.Equal(t, "1.5px white", f.element(t, "title").Style("webkitTextStroke"))
	assert.Equal(t, "15px 7.5px 30px 30px", f.element(t, "child").Style("padding"))
	assert.Equal(t, "180px", f.element(t, "logo").Style("width"))
	assert.Equal(t, "red", f.element(t, "child").Style("color"))
}

const relative = `<!DOCTYPE html>
<html><body>
<div id="container" style="width: 400px; height: 200px">
  <p id="note" style="transition: all 1s; width: 50%; padding: 1em 2em; font-size: 30px">Note</p>
</div>
</body></html>`

func TestAutogenerateKeepsRelativeUnits(t *testing.T) {
	f := newFixture(t, relative)
	f.doc.SetViewport(800, 400)
	r := f.resizer(t, "container", cssfit.Config{Autogenerate: true})

	assert.Equal(t, 2.0, r.Scale())
	assert.Len(t, r.Targets(), 2)
	assert.Equal(t, "transition: all 1s; width: 50%; padding: 1em 2em; font-size: 60px",
		f.element(t, "note").StyleAttr())
}

type failingCodec struct{}

var errBroken = errors.New("broken codec")

func (failingCodec) Calculate(cssfit.Value, float64, *cssfit.Bounds) (string, error) {
	return "", errBroken
}

func (failingCodec) Generate(s string) (cssfit.Value, bool) { return cssfit.Keyword(s), true }

func TestAutogenerateCollectsErrors(t *testing.T) {
	f := newFixture(t, slide)
	r := f.resizer(t, "container", cssfit.Config{})

	r.AddParser(&cssfit.Parser{ID: "broken", Styles: []string{"fontSize", "padding"}, Codec: failingCodec{}})

	err := r.Autogenerate()
	require.ErrorIs(t, err, errBroken)
	assert.Len(t, multierr.Errors(err), 2)

	assert.Len(t, r.Targets(), 3, "container, title stroke and logo still tracked")
}

func TestNewFailsOnAutogenerateError(t *testing.T) {
	markup := `<html><body><div id="container" style="width: 10px; height: 10px; transform: translate3d(1px, 2px, 3px)"></div></body></html>`
	f := newFixture(t, markup)

	_, err := cssfit.New(cssfit.Config{
		Container:    f.element(t, "container"),
		Document:     f.doc,
		Autogenerate: true,
		Scheduler:    f.sched,
	})
	require.ErrorIs(t, err, cssfit.ErrUnsupportedFormat)
	assert.Equal(t, 0, f.sched.Pending())
}

func TestResizerParsers(t *testing.T) {
	f := newFixture(t, slide)
	f.doc.SetViewport(800, 300)
	r := f.resizer(t, "container", cssfit.Config{})
	logo := f.element(t, "logo")

	assert.Contains(t, r.WatchedStyles(), "transform")

	r.SetParsers([]*cssfit.Parser{cssfit.General()})
	assert.NotContains(t, r.WatchedStyles(), "transform")

	out, err := r.Calc(cssfit.CalcParams{Value: cssfit.Numbers(10, 20), ID: "transform", Element: logo})
	require.NoError(t, err)
	assert.Empty(t, out)

	general, ok := r.ParserByID(cssfit.GeneralID, false)
	require.True(t, ok)
	general.Styles = append(general.Styles, "letterSpacing")
	r.RefreshWatchedStyles()
	assert.Contains(t, r.WatchedStyles(), "letterSpacing")

	out, err = r.Calc(cssfit.CalcParams{Value: cssfit.Number(2), ID: "letterSpacing", Element: logo})
	require.NoError(t, err)
	assert.Equal(t, "3px", out)

	require.True(t, r.ReplaceParser(cssfit.Translate(), cssfit.GeneralID))
	ids := []string{}
	for _, p := range r.Parsers(true) {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{cssfit.TranslateID}, ids)
}
