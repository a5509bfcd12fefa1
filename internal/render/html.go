package render

import (
	"bytes"
	"html/template"
	"io"
	"sync"
)

var nodeTemplate = template.Must(template.New("node").Parse(`
{{- define "cell" -}}
{{- if eq .Kind "badge" -}}<span class="{{.Class}}">{{.Text}}</span>
{{- else if eq .Kind "progress" -}}<div class="progress-bar"><div class="progress-fill" style="width: {{printf "%.0f" .Percent}}%"></div></div><span class="progress-text">{{.Text}}</span>
{{- else if eq .Kind "range" -}}<div class="range-bar"><div class="{{.Class}}" style="width: {{printf "%.1f" .Percent}}%"></div>{{range .Markers}}<div class="range-marker" style="left: {{printf "%.1f" .}}%"></div>{{end}}</div><div class="range-labels">{{.Text}}</div>
{{- else if eq .Kind "action" -}}<button class="{{.Class}}"><span class="material-icons">{{.Text}}</span></button>
{{- else if eq .Kind "icon" -}}<span class="material-icons">{{.Text}}</span>
{{- else -}}{{.Text}}
{{- end -}}
{{- end -}}

{{- if eq .Kind "row" -}}
<tr data-key="{{.Key}}">{{range .Cells}}<td{{if .Class}} class="{{.Class}}"{{end}}>{{template "cell" .}}</td>{{end}}</tr>
{{- else if eq .Kind "placeholder" -}}
<tr class="empty-state"><td colspan="{{(index .Cells 0).ColSpan}}">{{range .Cells}}<div{{if .Class}} class="{{.Class}}"{{end}}>{{template "cell" .}}</div>{{end}}</td></tr>
{{- else -}}
<div class="{{.Class}}" data-key="{{.Key}}">{{range .Cells}}<div{{if .Class}} class="{{.Class}}"{{end}}>{{template "cell" .}}</div>{{end}}</div>
{{- end -}}
`))

// HTMLTarget renders nodes as escaped HTML fragments.
type HTMLTarget struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	text string
	err  error
}

func NewHTMLTarget() *HTMLTarget {
	return &HTMLTarget{}
}

// Replace executes the template for every node into a fresh buffer and
// installs it in one step.
func (h *HTMLTarget) Replace(nodes []Node) {
	var buf bytes.Buffer
	var firstErr error
	for _, n := range nodes {
		if err := nodeTemplate.Execute(&buf, n); err != nil && firstErr == nil {
			firstErr = err
		}
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf = buf
	h.err = firstErr
}

func (h *HTMLTarget) SetText(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.text = text
}

// WriteTo writes the rendered fragment, or the first template error.
func (h *HTMLTarget) WriteTo(w io.Writer) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return 0, h.err
	}

	n, err := w.Write(h.buf.Bytes())
	return int64(n), err
}

func (h *HTMLTarget) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.buf.String()
}

func (h *HTMLTarget) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.text
}

// TextRegion serves the text last set on a target, escaped.
type TextRegion struct {
	Target *HTMLTarget
}

func (t TextRegion) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, template.HTMLEscapeString(t.Target.Text()))
	return int64(n), err
}
