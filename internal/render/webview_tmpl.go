// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package render

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Code Summary</title>
<link href="https://cdnjs.cloudflare.com/ajax/libs/prism/{{.PrismVersion}}/themes/prism.min.css" rel="stylesheet" />
<script src="https://cdnjs.cloudflare.com/ajax/libs/prism/{{.PrismVersion}}/components/prism-core.min.js"></script>
{{- range .Tags}}
<script src="https://cdnjs.cloudflare.com/ajax/libs/prism/{{$.PrismVersion}}/components/prism-{{.}}.min.js"></script>
{{- end}}
<style>
body { padding: 10px; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; }
.info { margin-bottom: 20px; color: #6c757d; font-size: .875rem; }
.item { display: flex; flex-direction: column; margin-bottom: 20px; }
.item pre { white-space: pre-wrap; border-radius: 5px; }
.summary { margin-top: 5px; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="info">
Max tokens: {{.MaxTokens}}. To change the max tokens, run <code>codebrief settings set maxTokens &lt;n&gt;</code> or update the "{{.Namespace}}.maxTokens" setting.
{{- if .Usage}}
<br>
Tokens used: {{.Usage.Total}} (Prompt tokens: {{.Usage.Prompt}}, Completion tokens: {{.Usage.Completion}})
{{- end}}
</div>
<div id="history">
{{- range .Items}}
<div class="item">
<pre><code class="language-{{.Tag}}">{{.Code}}</code></pre>
<div class="summary">{{.Summary}}</div>
</div>
{{- end}}
</div>
<script>
document.addEventListener('DOMContentLoaded', function () {
  if (window.Prism) { Prism.highlightAll(); }
});
</script>
{{- if .Live}}
<script>
(function () {
  var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var ws = new WebSocket(scheme + location.host + '/ws');
  ws.onmessage = function (ev) {
    document.open();
    document.write(ev.data);
    document.close();
  };
})();
</script>
{{- end}}
</body>
</html>
`
