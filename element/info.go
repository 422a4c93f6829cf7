package element

import (
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/tidwall/gjson"
)

// Info is a snapshot of an element's geometry, visibility and attributes,
// taken in a single page evaluation.
type Info struct {
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Visible    bool
	Attributes map[string]string
}

const infoScript = `(() => {
	const sel = %q;
	let el;
	if (%t) {
		el = document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	} else {
		el = document.querySelector(sel);
	}
	if (!el) return "";
	const r = el.getBoundingClientRect();
	const attrs = {};
	for (const a of el.attributes) attrs[a.name] = a.value;
	return JSON.stringify({
		x: r.x, y: r.y, width: r.width, height: r.height,
		visible: !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length),
		attrs: attrs,
	});
})()`

// Info evaluates the element's current geometry and attributes. A reference
// that no longer matches anything reports an error rather than zero values.
func (r *Ref) Info() (*Info, error) {
	var raw string
	script := fmt.Sprintf(infoScript, r.Selector, r.By == ByXPath)
	if err := r.run(0, chromedp.Evaluate(script, &raw)); err != nil {
		return nil, fmt.Errorf("error inspecting element '%s': %w", r.Selector, err)
	}
	return parseInfo(r.Selector, raw)
}

func parseInfo(selector, raw string) (*Info, error) {
	if raw == "" {
		return nil, fmt.Errorf("element '%s' is no longer present on the page", selector)
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("unexpected element info payload for '%s'", selector)
	}
	info := &Info{
		X:          gjson.Get(raw, "x").Float(),
		Y:          gjson.Get(raw, "y").Float(),
		Width:      gjson.Get(raw, "width").Float(),
		Height:     gjson.Get(raw, "height").Float(),
		Visible:    gjson.Get(raw, "visible").Bool(),
		Attributes: make(map[string]string),
	}
	gjson.Get(raw, "attrs").ForEach(func(key, value gjson.Result) bool {
		info.Attributes[key.String()] = value.String()
		return true
	})
	return info, nil
}
