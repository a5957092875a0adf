package pptxhtml

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrNoHead is returned when the document has no <head> element to inject into.
	ErrNoHead = errors.New("document has no <head> element")
	// ErrInvalidOrigin is returned when the allowed origin is not of the form scheme://host[:port].
	ErrInvalidOrigin = errors.New("invalid origin")
)

// Embed defaults.
const (
	DefaultArtifactURL = "presentation-embed.html"
	DefaultFrameID     = "pptxhtml-embed"
	defaultFrameHeight = 600
	parentOriginMeta   = "pptxhtml-parent-origin"
)

// EmbedOptions configures the embeddable variant and its host snippet.
type EmbedOptions struct {
	// ArtifactURL is the iframe src used by the snippet. Default: DefaultArtifactURL.
	ArtifactURL string
	// AllowedOrigin is the parent origin allowed to frame the document besides
	// its own origin. Resize messages are posted to both; a browser delivers
	// only the one matching the actual parent. Empty allows same-origin
	// framing and posts to "*".
	AllowedOrigin string
	// FrameID is the id of the snippet's iframe. Default: DefaultFrameID.
	FrameID string
	// Title is the iframe title. Default: "Presentation".
	Title string
	// InitialHeight is the iframe height in pixels before the first resize message.
	InitialHeight int
}

// EmbedResult holds the embeddable document and the host-page snippet.
type EmbedResult struct {
	HTML    string
	Snippet string
}

// Embed produces the embeddable variant of a rendered document: framing
// restriction metadata is injected into <head> and the resize handshake
// script before </body> (or at the end when the body is not closed).
func Embed(document string, opts EmbedOptions) (*EmbedResult, error) {
	origin, err := normalizeOrigin(opts.AllowedOrigin)
	if err != nil {
		return nil, err
	}
	if opts.ArtifactURL == "" {
		opts.ArtifactURL = DefaultArtifactURL
	}
	if opts.FrameID == "" {
		opts.FrameID = DefaultFrameID
	}
	if opts.Title == "" {
		opts.Title = "Presentation"
	}
	if opts.InitialHeight <= 0 {
		opts.InitialHeight = defaultFrameHeight
	}

	headEnd, bodyClose, err := locateInjectionPoints(document)
	if err != nil {
		return nil, err
	}

	var head, script bytes.Buffer
	if err := embedTemplates.ExecuteTemplate(&head, "head", origin); err != nil {
		return nil, fmt.Errorf("embed head: %w", err)
	}
	if err := embedTemplates.ExecuteTemplate(&script, "script", origin); err != nil {
		return nil, fmt.Errorf("embed script: %w", err)
	}

	var sb strings.Builder
	sb.Grow(len(document) + head.Len() + script.Len())
	sb.WriteString(document[:headEnd])
	sb.Write(head.Bytes())
	sb.WriteString(document[headEnd:bodyClose])
	sb.Write(script.Bytes())
	sb.WriteString(document[bodyClose:])

	snippet, err := Snippet(opts)
	if err != nil {
		return nil, err
	}
	return &EmbedResult{HTML: sb.String(), Snippet: snippet}, nil
}

// Embed produces the embeddable variant of the rendered document.
func (r *RenderResult) Embed(opts EmbedOptions) (*EmbedResult, error) {
	return Embed(r.HTML, opts)
}

// Snippet returns the host-page markup: an iframe pointing at the artifact
// and a listener that applies the heights it reports.
func Snippet(opts EmbedOptions) (string, error) {
	origin, err := normalizeOrigin(opts.AllowedOrigin)
	if err != nil {
		return "", err
	}
	if opts.ArtifactURL == "" {
		opts.ArtifactURL = DefaultArtifactURL
	}
	if opts.FrameID == "" {
		opts.FrameID = DefaultFrameID
	}
	if opts.Title == "" {
		opts.Title = "Presentation"
	}
	if opts.InitialHeight <= 0 {
		opts.InitialHeight = defaultFrameHeight
	}
	data := struct {
		EmbedOptions
		ArtifactOrigin string
		Origin         string
	}{EmbedOptions: opts, ArtifactOrigin: artifactOrigin(opts.ArtifactURL), Origin: origin}

	var buf bytes.Buffer
	if err := embedTemplates.ExecuteTemplate(&buf, "snippet", data); err != nil {
		return "", fmt.Errorf("embed snippet: %w", err)
	}
	return buf.String(), nil
}

// FrameAncestors returns the Content-Security-Policy value that limits framing
// to the same origin plus the allowed origin, for servers that send the
// policy as a header.
func FrameAncestors(allowedOrigin string) (string, error) {
	origin, err := normalizeOrigin(allowedOrigin)
	if err != nil {
		return "", err
	}
	if origin == "" {
		return "frame-ancestors 'self'", nil
	}
	return "frame-ancestors 'self' " + origin, nil
}

// locateInjectionPoints returns the byte offset just after the <head> start
// tag and the offset of the last </body> end tag (len(doc) when absent).
func locateInjectionPoints(doc string) (headEnd, bodyClose int, err error) {
	z := html.NewTokenizer(strings.NewReader(doc))
	offset := 0
	headEnd, bodyClose = -1, len(doc)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return 0, 0, fmt.Errorf("scan document: %w", z.Err())
			}
			break
		}
		raw := len(z.Raw())
		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); headEnd < 0 && string(name) == "head" {
				headEnd = offset + raw
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "body" {
				bodyClose = offset
			}
		}
		offset += raw
	}
	if headEnd < 0 {
		return 0, 0, ErrNoHead
	}
	if bodyClose < headEnd {
		bodyClose = len(doc)
	}
	return headEnd, bodyClose, nil
}

// normalizeOrigin validates an origin of the form scheme://host[:port].
func normalizeOrigin(origin string) (string, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return "", nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidOrigin, origin, err)
	}
	if u.Scheme == "" || u.Host == "" || u.User != nil || (u.Path != "" && u.Path != "/") ||
		u.RawQuery != "" || u.Fragment != "" || strings.ContainsAny(origin, " '\"") {
		return "", fmt.Errorf("%w %q: want scheme://host[:port]", ErrInvalidOrigin, origin)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// artifactOrigin returns the origin of an absolute artifact URL, or "" for relative ones.
func artifactOrigin(artifact string) string {
	u, err := url.Parse(artifact)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

var embedTemplates = template.Must(template.New("embed").Parse(`
{{- define "head"}}
<meta http-equiv="Content-Security-Policy" content="frame-ancestors 'self'{{if .}} {{.}}{{end}}">
<meta name="` + parentOriginMeta + `" content="{{.}}">
{{- end}}

{{- define "script"}}
<script>
(function () {
  var allowedOrigin = {{.}};
  var controlsMargin = 24;
  function contentHeight() {
    var config = window.PPTXHTML_CONFIG || {};
    var stage = document.getElementById("stage");
    var width = stage ? stage.clientWidth : 0;
    if (width > 0 && config.slideWidth > 0 && config.slideHeight > 0) {
      var controls = document.querySelector(".controls");
      var reserve = controls ? controls.offsetHeight + 2 * controlsMargin : 0;
      return Math.ceil(width * config.slideHeight / config.slideWidth + reserve);
    }
    return Math.max(document.documentElement.scrollHeight, document.body ? document.body.scrollHeight : 0);
  }
  function targets() {
    if (!allowedOrigin) {
      return ["*"];
    }
    var self = window.location ? window.location.origin : "";
    if (self && self !== "null" && self !== allowedOrigin) {
      return [allowedOrigin, self];
    }
    return [allowedOrigin];
  }
  function reportHeight() {
    var message = { type: "resize", height: contentHeight() };
    targets().forEach(function (origin) {
      window.parent.postMessage(message, origin);
    });
  }
  window.addEventListener("load", reportHeight);
  window.addEventListener("resize", reportHeight);
  var presentation = document.getElementById("presentation");
  if (presentation && window.MutationObserver) {
    new MutationObserver(reportHeight).observe(presentation, { attributes: true, subtree: true, attributeFilter: ["class"] });
  }
})();
</script>
{{end}}

{{- define "snippet" -}}
<iframe id="{{.FrameID}}" src="{{.ArtifactURL}}" title="{{.Title}}" style="width: 100%; height: {{.InitialHeight}}px; border: 0;" allow="fullscreen" loading="lazy"></iframe>
<script>
(function () {
  var frame = document.getElementById({{.FrameID}});
  var expectedOrigin = {{.ArtifactOrigin}};
  window.addEventListener("message", function (event) {
    if (expectedOrigin && event.origin !== expectedOrigin) {
      return;
    }
    if (!frame || event.source !== frame.contentWindow) {
      return;
    }
    var data = event.data;
    if (!data || data.type !== "resize" || typeof data.height !== "number") {
      return;
    }
    frame.style.height = data.height + "px";
  });
})();
</script>
{{end}}
`))
