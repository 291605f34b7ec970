// Public page handlers.
//
// This file serves the small set of buyer-facing HTML pages:
//   - GET /        (project configurator)
//   - GET /success (post-payment page; triggers the bundle download)
//   - GET /cancel  (checkout abandoned)
//
// These pages are presentation glue around the JSON API — the configurator
// posts to /create-checkout-session and the success page claims the
// purchase via /verify-payment with the session token from the redirect.
package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var indexPageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Generate Your SaaS Boilerplate</title>
  <style>
    body { font-family: 'Inter', sans-serif; background: #08090A; color: #eee; display: flex; justify-content: center; align-items: center; height: 100vh; }
    .card { background: #141516; border: 1px solid #333; border-radius: 8px; padding: 32px; width: 380px; }
    h1 { font-weight: 600; letter-spacing: -1px; font-size: 1.4rem; margin: 0 0 20px; }
    label { display: block; color: #8A8F98; font-size: 0.85rem; margin: 14px 0 6px; }
    input, select { width: 100%; box-sizing: border-box; background: #1C1D21; color: #eee; border: 1px solid #333; border-radius: 6px; padding: 10px; }
    button { margin-top: 22px; width: 100%; background: #5E6AD2; color: #fff; border: 0; border-radius: 6px; padding: 12px; font-weight: 600; cursor: pointer; }
    .err { color: #ff7b7b; font-size: 0.85rem; margin-top: 10px; min-height: 1em; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Generate Your SaaS Boilerplate</h1>
    <form id="configForm">
      <label for="projectLabel">Project name</label>
      <input id="projectLabel" placeholder="my-saas" required>
      <label for="offerTier">Offer</label>
      <select id="offerTier">
        <option value="starter">Starter — 9.00</option>
        <option value="prompt">Prompt Pack — 14.99</option>
        <option value="ultimate">Ultimate — 32.99</option>
      </select>
      <button type="submit">Continue to payment</button>
      <div class="err" id="err"></div>
    </form>
  </div>
  <script>
    document.getElementById('configForm').addEventListener('submit', async (e) => {
      e.preventDefault();
      const res = await fetch('/create-checkout-session', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({
          project_label: document.getElementById('projectLabel').value,
          offer_tier: document.getElementById('offerTier').value
        })
      });
      const data = await res.json();
      if (res.ok && data.url) { window.location.href = data.url; }
      else { document.getElementById('err').innerText = data.message || 'Could not start checkout.'; }
    });
  </script>
</body>
</html>
`))

var successPageTemplate = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Order Confirmed</title>
  <style>
    body { font-family: 'Inter', sans-serif; background: #08090A; color: #eee; display: flex; justify-content: center; align-items: center; height: 100vh; text-align: center; }
    .card { background: #141516; border: 1px solid #333; border-radius: 8px; padding: 40px; }
    #status { color: #5E6AD2; font-weight: 600; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Payment Successful</h1>
    <p style="color:#8A8F98;">Your boilerplate is being generated…</p>
    <p id="status">Initializing download…</p>
  </div>
  <script>
    const sessionId = new URLSearchParams(window.location.search).get('session_id');
    if (sessionId) {
      fetch('/verify-payment', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({ session_id: sessionId })
      })
      .then(res => { if (!res.ok) throw new Error('verify failed'); return res.blob(); })
      .then(blob => {
        const url = window.URL.createObjectURL(blob);
        const a = document.createElement('a');
        a.href = url;
        a.download = 'boilerplate.zip';
        document.body.appendChild(a);
        a.click();
        document.getElementById('status').innerText = 'Download started!';
        document.getElementById('status').style.color = '#4CAF50';
      })
      .catch(() => { document.getElementById('status').innerText = 'Download error.'; });
    }
  </script>
</body>
</html>
`))

var cancelPageTemplate = template.Must(template.New("cancel").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment Cancelled</title></head>
<body style="font-family:sans-serif;background:#08090A;color:#eee;display:flex;justify-content:center;align-items:center;height:100vh;">
  <div style="text-align:center;">
    <h1>Payment cancelled.</h1>
    <a href="/" style="color:#5E6AD2;">Back to the configurator</a>
  </div>
</body>
</html>
`))

// renderPage executes a static page template with no data.
func renderPage(c *gin.Context, t *template.Template) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = t.Execute(c.Writer, nil)
}

// Index handles GET /.
func (h *Handlers) Index(c *gin.Context) { renderPage(c, indexPageTemplate) }

// Success handles GET /success, reached via the provider's redirect with
// the session token in the query string.
func (h *Handlers) Success(c *gin.Context) { renderPage(c, successPageTemplate) }

// Cancel handles GET /cancel.
func (h *Handlers) Cancel(c *gin.Context) { renderPage(c, cancelPageTemplate) }
