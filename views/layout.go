package views

import (
	"context"

	"github.com/a-h/templ"
)

const styles = `body{font-family:system-ui,sans-serif;max-width:860px;margin:32px auto;padding:0 16px;color:#1b1b1b}
h1{margin-bottom:4px}.subtitle,.muted{color:#666}
.warning,.closed,.success,.flash{padding:12px;border-radius:8px;margin:12px 0}
.warning{background:#fff6db}.closed{background:#fde2e2}.success{background:#e2f7e2}.flash{background:#e4efff}
.hr{border-top:1px solid #ddd;margin:18px 0}
label{display:block;margin-top:12px;font-weight:600}
input,select{padding:6px;margin-top:4px}
label.day{display:inline-block;font-weight:400;margin-right:10px}
.match{margin:12px 0}.winner{font-weight:700}
table{border-collapse:collapse}td,th{padding:4px 10px;text-align:left}`

func layout(title, subtitle, flash string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		if subtitle != "" {
			h.raw(`<p class="subtitle">`)
			h.text(subtitle)
			h.raw(`</p>`)
		}
		if flash != "" {
			h.raw(`<div class="flash" role="status">`)
			h.text(flash)
			h.raw(`</div>`)
		}
		h.component(ctx, body)
		h.raw(`</body></html>`)
	})
}
