package renderer

import (
	"fmt"

	"github.com/a-h/templ"
)

// Layout configures the preview page.
type Layout struct {
	Title       string
	TailwindCDN string
	// LiveReload adds the websocket client that reloads the page on
	// full_reload messages.
	LiveReload bool
}

// DefaultLayout returns the layout used when none is configured.
func DefaultLayout() Layout {
	return Layout{
		Title:       "tessera preview",
		TailwindCDN: "https://cdn.tailwindcss.com",
		LiveReload:  true,
	}
}

// themeCSS defines the color tokens the component classes refer to.
const themeCSS = `:root {
      --background: 0 0% 100%;
      --foreground: 222.2 84% 4.9%;
      --primary: 222.2 47.4% 11.2%;
      --primary-foreground: 210 40% 98%;
      --secondary: 210 40% 96.1%;
      --secondary-foreground: 222.2 47.4% 11.2%;
      --accent: 210 40% 96.1%;
      --accent-foreground: 222.2 47.4% 11.2%;
      --destructive: 0 84.2% 60.2%;
      --destructive-foreground: 210 40% 98%;
      --border: 214.3 31.8% 91.4%;
      --input: 214.3 31.8% 91.4%;
      --ring: 222.2 84% 4.9%;
    }`

const tailwindConfig = `tailwind.config = {
      theme: {
        extend: {
          colors: {
            border: 'hsl(var(--border))',
            input: 'hsl(var(--input))',
            ring: 'hsl(var(--ring))',
            background: 'hsl(var(--background))',
            foreground: 'hsl(var(--foreground))',
            primary: { DEFAULT: 'hsl(var(--primary))', foreground: 'hsl(var(--primary-foreground))' },
            secondary: { DEFAULT: 'hsl(var(--secondary))', foreground: 'hsl(var(--secondary-foreground))' },
            destructive: { DEFAULT: 'hsl(var(--destructive))', foreground: 'hsl(var(--destructive-foreground))' },
            accent: { DEFAULT: 'hsl(var(--accent))', foreground: 'hsl(var(--accent-foreground))' }
          }
        }
      }
    }`

const liveReloadScript = `<script>
    (function () {
      const scheme = window.location.protocol === 'https:' ? 'wss://' : 'ws://';
      const ws = new WebSocket(scheme + window.location.host + '/ws');
      ws.onmessage = function (event) {
        const message = JSON.parse(event.data);
        if (message.type === 'full_reload' || message.type === 'component_update') {
          window.location.reload();
        }
      };
    })();
  </script>`

// RenderWithLayout wraps component HTML in a full preview page.
func (r *ComponentRenderer) RenderWithLayout(componentName string, html string) string {
	return r.layout.Page(componentName, html)
}

// Page wraps html, which must already be safe, in a full page titled after
// componentName.
func (l Layout) Page(componentName, html string) string {
	name := templ.EscapeString(componentName)
	title := templ.EscapeString(l.Title)

	cdn := ""
	if l.TailwindCDN != "" {
		cdn = fmt.Sprintf(`<script src="%s"></script>
  <script>
    %s
  </script>`, templ.EscapeString(l.TailwindCDN), tailwindConfig)
	}

	reload := ""
	if l.LiveReload {
		reload = liveReloadScript
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s - %s</title>
  %s
  <style>
    %s
  </style>
</head>
<body class="bg-background text-foreground p-8">
  <main class="max-w-4xl mx-auto space-y-6">
    <h1 class="text-2xl font-bold">%s</h1>
    <section id="tessera-preview" class="rounded-lg border p-6">
      %s
    </section>
  </main>
  %s
</body>
</html>`, name, title, cdn, themeCSS, name, html, reload)
}
