package playground

// chatPage is the single-page chat UI served at /.
const chatPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Repository QnA Playground</title>
<style>
 body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
 #log { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; min-height: 320px; }
 .user { color: #1a56a0; margin: .5rem 0; white-space: pre-wrap; }
 .agent { color: #222; margin: .5rem 0 1rem; white-space: pre-wrap; }
 .err { color: #a01a1a; }
 form { display: flex; gap: .5rem; margin-top: 1rem; }
 input { flex: 1; padding: .5rem; }
</style>
</head>
<body>
<h1>Repository QnA Playground</h1>
<div id="log"></div>
<form id="f">
 <input id="msg" placeholder="Ask about a GitHub repository (owner/repo)..." autocomplete="off">
 <button>Send</button>
</form>
<script>
let sessionId = "";
const log = document.getElementById("log");
function add(cls, text) {
  const d = document.createElement("div");
  d.className = cls;
  d.textContent = text;
  log.appendChild(d);
  log.scrollTop = log.scrollHeight;
}
document.getElementById("f").addEventListener("submit", async (e) => {
  e.preventDefault();
  const input = document.getElementById("msg");
  const message = input.value.trim();
  if (!message) return;
  input.value = "";
  add("user", "You: " + message);
  try {
    const res = await fetch("/v1/chat", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({message, session_id: sessionId}),
    });
    const body = await res.json();
    if (!res.ok) {
      add("err", "Error: " + (body.error ? body.error.message : res.status));
      return;
    }
    sessionId = body.session_id;
    add("agent", "Agent: " + body.answer);
  } catch (err) {
    add("err", "Error: " + err);
  }
});
</script>
</body>
</html>
`
