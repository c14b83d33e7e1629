package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UIHandler serves the browser form
type UIHandler struct{}

// NewUIHandler creates a new UI handler
func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// Index serves the download form page
func (h *UIHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>ytgrab</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { color: #c4302b; }
  form { display: grid; gap: 0.8rem; }
  input[type=url] { width: 100%; padding: 0.5rem; font-size: 1rem; }
  fieldset { border: 1px solid #ddd; border-radius: 6px; }
  button { padding: 0.7rem; font-size: 1.1rem; background: #c4302b; color: #fff; border: none; border-radius: 6px; cursor: pointer; }
  button:disabled { background: #999; }
  #status { margin-top: 1rem; padding: 0.8rem; background: #f4f4f4; border-radius: 6px; min-height: 6rem; white-space: pre-wrap; font-family: monospace; font-size: 0.85rem; }
  progress { width: 100%; }
  footer { margin-top: 2rem; border-top: 1px solid #eee; padding-top: 1rem; font-size: 0.85rem; color: #666; }
</style>
</head>
<body>
<h1>ytgrab</h1>
<form id="form">
  <input type="url" id="url" placeholder="https://youtube.com/watch?v=..." required>
  <fieldset>
    <legend>Format</legend>
    <label><input type="radio" name="kind" value="audio" checked> audio</label>
    <label><input type="radio" name="kind" value="video"> video</label>
  </fieldset>
  <fieldset>
    <legend>Quality</legend>
    <label><input type="radio" name="quality" value="high" checked> high</label>
    <label><input type="radio" name="quality" value="medium"> medium</label>
  </fieldset>
  <select id="format"></select>
  <button type="submit" id="go">Download</button>
</form>
<progress id="bar" value="0" max="100" hidden></progress>
<div id="status">Paste a URL, pick a format and quality, then hit Download.</div>
<footer>Files are saved to the outputs folder. Powered by yt-dlp and FFmpeg.</footer>
<script>
let formats = {audio: ["mp3"], video: ["mp4"]};
const formatSel = document.getElementById("format");
const statusBox = document.getElementById("status");
const bar = document.getElementById("bar");

function refreshFormats() {
  const kind = document.querySelector("input[name=kind]:checked").value;
  formatSel.innerHTML = "";
  for (const f of formats[kind]) {
    const opt = document.createElement("option");
    opt.value = f; opt.textContent = f;
    formatSel.appendChild(opt);
  }
}

fetch("/api/formats").then(r => r.json()).then(data => {
  formats = data.formats;
  refreshFormats();
});
document.querySelectorAll("input[name=kind]").forEach(el => el.addEventListener("change", refreshFormats));

document.getElementById("form").addEventListener("submit", async (e) => {
  e.preventDefault();
  const btn = document.getElementById("go");
  btn.disabled = true;
  bar.hidden = false;
  bar.value = 0;
  statusBox.textContent = "Queueing download...\n";

  const body = {
    url: document.getElementById("url").value,
    kind: document.querySelector("input[name=kind]:checked").value,
    quality: document.querySelector("input[name=quality]:checked").value,
    format: formatSel.value,
  };

  const resp = await fetch("/api/downloads", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body),
  });
  const data = await resp.json();
  if (!resp.ok) {
    statusBox.textContent = "Error: " + (data.details || data.error);
    btn.disabled = false;
    bar.hidden = true;
    return;
  }

  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "/api/ws/downloads/" + data.job.id);
  ws.onmessage = (ev) => {
    const msg = JSON.parse(ev.data);
    if (msg.progress >= 0) bar.value = msg.progress;
    if (msg.line) statusBox.textContent += msg.line + "\n";
    if (msg.message) statusBox.textContent += msg.message + "\n";
    statusBox.scrollTop = statusBox.scrollHeight;
    if (msg.type === "complete" || msg.type === "error") {
      ws.close();
      btn.disabled = false;
    }
  };
  ws.onerror = () => { btn.disabled = false; };
});
</script>
</body>
</html>`
