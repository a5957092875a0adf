package pptxhtml

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dop251/goja"
)

// domStub is the smallest browser surface the document scripts touch:
// elements with classList, style and attributes, a localStorage, event
// registries for window and document, and a recording window.parent.
const domStub = `
var listeners = { window: {}, document: {} };
function listen(reg) {
  return function (type, fn) { (reg[type] = reg[type] || []).push(fn); };
}
function fire(reg, type, ev) {
  (reg[type] || []).forEach(function (fn) { fn(ev || {}); });
}
function makeElement(id, attrs) {
  var classes = {};
  return {
    id: id,
    attributes: attrs || {},
    style: { props: {}, setProperty: function (k, v) { this.props[k] = v; } },
    clientWidth: 0,
    clientHeight: 0,
    offsetHeight: 0,
    scrollHeight: 0,
    textContent: "",
    classList: {
      add: function () { for (var i = 0; i < arguments.length; i++) { classes[arguments[i]] = true; } },
      remove: function () { for (var i = 0; i < arguments.length; i++) { delete classes[arguments[i]]; } },
      toggle: function (c, on) { if (on) { classes[c] = true; } else { delete classes[c]; } },
      contains: function (c) { return !!classes[c]; }
    },
    getAttribute: function (k) { return k in this.attributes ? this.attributes[k] : null; },
    setAttribute: function (k, v) { this.attributes[k] = String(v); },
    addEventListener: function () {},
    scrollIntoView: function () {}
  };
}
var elements = {};
var slides = [];
var controls = makeElement("controls");
var store = {};
var posted = [];
function addElement(id, attrs) {
  var el = makeElement(id, attrs);
  elements[id] = el;
  return el;
}
var document = {
  documentElement: makeElement("root"),
  body: makeElement("body"),
  getElementById: function (id) { return elements[id] || null; },
  querySelectorAll: function (sel) { return sel === "section.slide" ? slides : []; },
  querySelector: function (sel) { return sel === ".controls" ? controls : null; },
  addEventListener: listen(listeners.document)
};
var window = {
  location: { origin: "https://decks.example.com" },
  localStorage: {
    getItem: function (k) { return k in store ? store[k] : null; },
    setItem: function (k, v) { store[k] = String(v); }
  },
  parent: { postMessage: function (msg, origin) { posted.push([msg, origin]); } },
  addEventListener: listen(listeners.window)
};
`

// helper: a fresh stubbed browser
func newScriptEnv(t *testing.T) *goja.Runtime {
	t.Helper()
	vm := goja.New()
	runJS(t, vm, domStub)
	return vm
}

// helper: evaluate src and return its value as a string
func runJS(t *testing.T, vm *goja.Runtime, src string) string {
	t.Helper()
	v, err := vm.RunString(src)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

type postedMessage struct {
	Type   string  `json:"type"`
	Height float64 `json:"height"`
	Origin string  `json:"origin"`
}

func postedMessages(t *testing.T, vm *goja.Runtime) []postedMessage {
	t.Helper()
	out := runJS(t, vm, `JSON.stringify(posted.map(function (p) {
		return { type: p[0].type, height: p[0].height, origin: p[1] };
	}))`)
	var msgs []postedMessage
	if err := json.Unmarshal([]byte(out), &msgs); err != nil {
		t.Fatalf("decode messages %s: %v", out, err)
	}
	return msgs
}

// handshakeScript returns the resize script injected into an embeddable document.
func handshakeScript(t *testing.T, allowedOrigin string) string {
	t.Helper()
	emb, err := mustRender(t, helloDeck(), nil).Embed(EmbedOptions{AllowedOrigin: allowedOrigin})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	scripts := findAll(parseDoc(t, emb.HTML), byTag("script"))
	return textContent(scripts[len(scripts)-1])
}

func TestHandshakeTargets(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   []string
	}{
		{"any parent", "", []string{"*"}},
		{"allowed parent and same origin", "https://portal.example.com", []string{"https://portal.example.com", "https://decks.example.com"}},
		{"allowed parent is same origin", "https://decks.example.com", []string{"https://decks.example.com"}},
	}
	for _, tt := range tests {
		vm := newScriptEnv(t)
		runJS(t, vm, `window.PPTXHTML_CONFIG = { slideWidth: 960, slideHeight: 540 };
			addElement("stage").clientWidth = 800;
			controls.offsetHeight = 56;`)
		runJS(t, vm, handshakeScript(t, tt.origin))
		if msgs := postedMessages(t, vm); len(msgs) != 0 {
			t.Errorf("%s: posted before load: %v", tt.name, msgs)
		}

		runJS(t, vm, `fire(listeners.window, "load")`)
		msgs := postedMessages(t, vm)
		if len(msgs) != len(tt.want) {
			t.Fatalf("%s: got %d messages, want one per target %v", tt.name, len(msgs), tt.want)
		}
		for i, m := range msgs {
			if m.Origin != tt.want[i] {
				t.Errorf("%s: message %d targets %q, want %q", tt.name, i, m.Origin, tt.want[i])
			}
			// 800px wide at 16:9 is 450px of slide, plus 56px of controls and their two 24px margins.
			if m.Type != "resize" || m.Height != 554 {
				t.Errorf("%s: message %d = %+v, want resize to 554", tt.name, i, m)
			}
		}
	}
}

func TestHandshakeHeightFollowsFrameWidth(t *testing.T) {
	vm := newScriptEnv(t)
	runJS(t, vm, `window.PPTXHTML_CONFIG = { slideWidth: 960, slideHeight: 720 };
		var stage = addElement("stage");
		stage.clientWidth = 480;`)
	runJS(t, vm, handshakeScript(t, ""))
	runJS(t, vm, `fire(listeners.window, "load"); stage.clientWidth = 960; fire(listeners.window, "resize")`)

	// Slide height plus the two 24px control margins.
	msgs := postedMessages(t, vm)
	if len(msgs) != 2 || msgs[0].Height != 408 || msgs[1].Height != 768 {
		t.Errorf("heights = %+v, want 408 then 768", msgs)
	}
}

func TestHandshakeFallsBackToScrollHeight(t *testing.T) {
	vm := newScriptEnv(t)
	runJS(t, vm, `document.documentElement.scrollHeight = 700; document.body.scrollHeight = 650;`)
	runJS(t, vm, handshakeScript(t, ""))
	runJS(t, vm, `fire(listeners.window, "load")`)
	if msgs := postedMessages(t, vm); len(msgs) != 1 || msgs[0].Height != 700 {
		t.Errorf("messages = %+v, want one resize to 700", msgs)
	}
}

// helper: three slides, the second with a two-step animation, then the runtime
func newRuntime(t *testing.T, seed string) *goja.Runtime {
	t.Helper()
	vm := newScriptEnv(t)
	runJS(t, vm, `window.PPTXHTML_CONFIG = { namespace: "deck", total: 3, slideWidth: 960, slideHeight: 540 };
		for (var i = 0; i < 3; i++) {
			slides.push(addElement("slide-" + i, { "data-animations": "[]" }));
		}
		slides[1].attributes["data-animations"] = JSON.stringify([
			{ target: "slide-1-shape-0", effect: "fade", step: 0 },
			{ target: "slide-1-shape-1", effect: "fade", step: 1 }
		]);
		addElement("slide-1-shape-0");
		addElement("slide-1-shape-1");
		addElement("currentSlide");
		addElement("totalSlides");`)
	runJS(t, vm, seed)
	runJS(t, vm, string(runtimeScript))
	return vm
}

func TestRuntimeTransitions(t *testing.T) {
	vm := newRuntime(t, "")
	steps := []struct {
		action string
		expr   string
		want   string
	}{
		{"", "window.pptxhtml.state.slide", "0"},
		{"", `elements.currentSlide.textContent + "/" + elements.totalSlides.textContent`, "1/3"},
		{"window.pptxhtml.next()", "window.pptxhtml.state.slide", "1"},
		{"", `elements["slide-1-shape-0"].style.visibility + " " + elements["slide-1-shape-1"].style.visibility`, "visible hidden"},
		{"window.pptxhtml.next()", "window.pptxhtml.state.slide", "1"},
		{"", `elements["slide-1-shape-1"].style.visibility`, "visible"},
		{"window.pptxhtml.next()", "window.pptxhtml.state.slide", "2"},
		{"window.pptxhtml.next()", "window.pptxhtml.state.slide", "0"},
		{"window.pptxhtml.prev()", "window.pptxhtml.state.slide", "2"},
		{"", `store["deck:slide"]`, "2"},
		{"", `slides[2].classList.contains("active") && !slides[0].classList.contains("active")`, "true"},
		{`fire(listeners.document, "keydown", { key: "ArrowRight", preventDefault: function () {} })`, "window.pptxhtml.state.slide", "0"},
		{`fire(listeners.document, "keydown", { key: "PageUp", preventDefault: function () {} })`, "window.pptxhtml.state.slide", "2"},
		{"for (var i = 0; i < 15; i++) { window.pptxhtml.changeFontScale(0.1); }", "window.pptxhtml.state.fontScale", "2"},
		{"", `store["deck:fontScale"] + " " + document.documentElement.style.props["--font-scale"]`, "2 2"},
		{"window.pptxhtml.changeFontScale(-10)", "window.pptxhtml.state.fontScale", "0.5"},
		{"window.pptxhtml.toggleTheme()", `document.documentElement.getAttribute("data-theme") + " " + store["deck:theme"]`, "dark dark"},
		{"window.pptxhtml.toggleTheme()", `window.pptxhtml.state.theme`, "light"},
	}
	for i, s := range steps {
		if s.action != "" {
			runJS(t, vm, s.action)
		}
		if got := runJS(t, vm, s.expr); got != s.want {
			t.Errorf("step %d (%s): %s = %q, want %q", i, s.action, s.expr, got, s.want)
		}
	}
}

func TestRuntimeRestoresState(t *testing.T) {
	vm := newRuntime(t, `store["deck:slide"] = "2"; store["deck:theme"] = "dark"; store["deck:fontScale"] = "1.5";`)
	got := runJS(t, vm, `[window.pptxhtml.state.slide, window.pptxhtml.state.theme, window.pptxhtml.state.fontScale].join(" ")`)
	if got != "2 dark 1.5" {
		t.Errorf("restored state = %q", got)
	}

	vm = newRuntime(t, `store["deck:slide"] = "7"; store["deck:fontScale"] = "9";`)
	got = runJS(t, vm, `[window.pptxhtml.state.slide, window.pptxhtml.state.fontScale].join(" ")`)
	if got != "0 2" {
		t.Errorf("out of range state should be ignored or clamped, got %q", got)
	}
}

// pageNamespace runs the page's own runtime script and reads its storage namespace.
func pageNamespace(t *testing.T, doc string) string {
	t.Helper()
	for _, s := range findAll(parseDoc(t, doc), byTag("script")) {
		if src := textContent(s); strings.Contains(src, "PPTXHTML_CONFIG =") {
			vm := newScriptEnv(t)
			runJS(t, vm, src)
			return runJS(t, vm, "window.PPTXHTML_CONFIG.namespace")
		}
	}
	t.Fatal("document has no runtime configuration")
	return ""
}

func TestStorageNamespacePerDeck(t *testing.T) {
	hello := pageNamespace(t, mustRender(t, helloDeck(), nil).HTML)
	again := pageNamespace(t, mustRender(t, helloDeck(), nil).HTML)

	other := New()
	other.CreateSlide().CreateGenericShape("rect").SetSize(Inch(1), Inch(1))
	otherNS := pageNamespace(t, mustRender(t, other, nil).HTML)

	if !strings.HasPrefix(hello, "pptxhtml:") {
		t.Errorf("derived namespace = %q", hello)
	}
	if hello != again {
		t.Errorf("same deck got namespaces %q and %q", hello, again)
	}
	if hello == otherNS {
		t.Errorf("different decks share namespace %q", hello)
	}
	if got := pageNamespace(t, mustRender(t, helloDeck(), &RenderOptions{StorageNamespace: "kiosk"}).HTML); got != "kiosk" {
		t.Errorf("configured namespace = %q", got)
	}
}
