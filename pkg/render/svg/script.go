package svg

import (
	"fmt"

	"github.com/matzehuels/citylink/pkg/selection"
	"github.com/matzehuels/citylink/pkg/view"
)

const dashboardCSS = `
    .title { font-size: 18px; font-weight: bold; }
    .map-bg { fill: #eef3f7; }
    .graticule { stroke: #d5dde4; stroke-width: 0.5; }
    .axis { stroke: #333; stroke-width: 1; }
    .tick { font-size: 10px; fill: #333; }
    .axis-label { font-size: 12px; fill: #333; }
    .legend-label { font-size: 12px; }
    .th { font-size: 12px; font-weight: bold; }
    .td { font-size: 12px; }
    .page-label { font-size: 12px; fill: #555; }
    .city-mark { cursor: pointer; }`

const hoverJS = `
    const styles = %s;
    function apply(el, st) {
      el.setAttribute('opacity', st.opacity);
      if (st.stroke) {
        el.setAttribute('stroke', st.stroke);
        el.setAttribute('stroke-width', st.width);
      } else {
        el.setAttribute('stroke', 'none');
        el.removeAttribute('stroke-width');
      }
    }
    function restyle(city) {
      const state = el => city === null ? 'idle' : (el.dataset.city === city ? 'on' : 'off');
      ['bubble', 'point', 'bar'].forEach(kind => {
        document.querySelectorAll('.' + kind).forEach(el => {
          const st = styles[kind][state(el)];
          apply(el, st);
          if (el.dataset.r) el.setAttribute('r', el.dataset.r * st.grow);
        });
      });
      document.querySelectorAll('.row-bg').forEach(el => {
        const st = styles.row[state(el)];
        el.setAttribute('fill', st.background);
        el.parentNode.setAttribute('font-weight', st.bold ? 'bold' : 'normal');
      });
    }
    function highlightCity(city) { restyle(city); }
    function clearHighlight() { restyle(null); }
    document.querySelectorAll('.city-mark').forEach(el => {
      el.addEventListener('mouseenter', () => highlightCity(el.dataset.city));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// hoverScript renders the browser side of the highlight policy. The style
// table is generated from view.StyleFor so both sides agree.
func hoverScript() string {
	const probe = "\x00"
	on := selection.Selection{City: probe, Active: true}

	table := "{"
	for i, k := range []view.Kind{view.KindBubble, view.KindPoint, view.KindBar, view.KindRow} {
		if i > 0 {
			table += ", "
		}
		table += fmt.Sprintf("%s: {on: %s, off: %s, idle: %s}", k,
			styleJS(view.StyleFor(k, on, probe)),
			styleJS(view.StyleFor(k, on, "")),
			styleJS(view.StyleFor(k, selection.Selection{}, probe)))
	}
	table += "}"
	return fmt.Sprintf(hoverJS, table)
}

func styleJS(st view.Style) string {
	grow := st.RadiusScale
	if grow == 0 {
		grow = 1
	}
	return fmt.Sprintf("{opacity: %g, stroke: %q, width: %g, grow: %g, background: %q, bold: %t}",
		st.Opacity, st.Stroke, st.StrokeWidth, grow, st.Background, st.Bold)
}
