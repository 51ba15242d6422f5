package api

const webUI = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>QR Studio</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#f5f5f5;color:#333;line-height:1.6}
.hidden{display:none !important}

/* Header */
.hdr{background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:#fff;padding:14px 20px;display:flex;align-items:center;justify-content:space-between;position:sticky;top:0;z-index:100}
.hdr h1{font-size:18px;font-weight:600}
.hdr-right{display:flex;align-items:center;font-size:13px;gap:6px}
.sdot{width:10px;height:10px;border-radius:50%;display:inline-block}
.dot-green{background:#22c55e}.dot-red{background:#ef4444}.dot-gray{background:#9ca3af}

/* Layout */
.content{max-width:960px;margin:0 auto;padding:20px;display:grid;grid-template-columns:1fr 1fr;gap:16px}
@media (max-width:760px){.content{grid-template-columns:1fr}}
.card{background:#fff;border-radius:8px;padding:20px;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card h2{font-size:16px;margin-bottom:12px;padding-bottom:8px;border-bottom:1px solid #eee}
.wide{grid-column:1/-1}

/* Buttons */
.btn{display:inline-flex;align-items:center;gap:6px;padding:8px 16px;border-radius:6px;border:none;cursor:pointer;font-size:14px;font-weight:500;transition:all .2s;line-height:1.4}
.btn:disabled{opacity:.5;cursor:not-allowed}
.btn-primary{background:#667eea;color:#fff}.btn-primary:hover:not(:disabled){background:#5a67d8}
.btn-secondary{background:#e5e7eb;color:#374151}.btn-secondary:hover:not(:disabled){background:#d1d5db}
.btn-sm{padding:5px 10px;font-size:12px}
.btn-row{display:flex;gap:8px;flex-wrap:wrap;margin-top:12px}

/* Forms */
.form-group{margin-bottom:14px}
.form-group label{display:block;font-size:13px;font-weight:500;margin-bottom:4px;color:#555}
.form-group input[type=text]{width:100%;padding:8px 12px;border:1px solid #ddd;border-radius:6px;font-size:14px}
.form-group input:focus{outline:none;border-color:#667eea;box-shadow:0 0 0 3px rgba(102,126,234,.15)}
.form-group input[type=range]{width:100%}
.form-group input[type=color]{width:100%;height:36px;border:1px solid #ddd;border-radius:6px;background:#fff}
.form-row{display:grid;grid-template-columns:1fr 1fr;gap:12px}
.form-help{font-size:12px;color:#888;margin-top:3px}
.field-error{font-size:12px;color:#ef4444;margin-top:3px}

/* Preview */
.preview{min-height:300px;display:flex;align-items:center;justify-content:center;flex-direction:column;text-align:center}
.placeholder{color:#999;font-size:14px}
#qr-preview{max-width:260px;max-height:260px;border:1px solid #eee;border-radius:6px}
#qr-size{font-size:12px;color:#666;margin-top:6px}
.spinner{display:inline-block;width:28px;height:28px;border:3px solid #e5e7eb;border-top-color:#667eea;border-radius:50%;animation:spin .8s linear infinite}
.loading p{margin-top:10px;color:#666;font-size:13px}

/* History */
.hist-row{display:grid;grid-template-columns:1fr 90px 80px 140px;gap:8px;padding:8px 0;border-bottom:1px solid #f0f0f0;font-size:13px;align-items:center}
.hist-row:last-child{border:none}
.hist-content{overflow:hidden;text-overflow:ellipsis;white-space:nowrap}
.badge{display:inline-block;padding:2px 10px;border-radius:20px;font-size:12px;font-weight:500}
.badge-green{background:#dcfce7;color:#166534}
.badge-red{background:#fee2e2;color:#991b1b}
.badge-yellow{background:#fef9c3;color:#854d0e}
.badge-gray{background:#f3f4f6;color:#374151}
.empty{color:#999;font-size:13px;text-align:center;padding:12px}

/* Logs */
.log-container{background:#1a1a2e;border-radius:8px;padding:16px;font-family:'SF Mono','Cascadia Code','Courier New',monospace;font-size:13px;max-height:300px;overflow-y:auto;color:#a0aec0}
.log-entry{padding:2px 0;white-space:pre-wrap;word-break:break-all}
.log-time{color:#667eea}
.log-warn{color:#f59e0b}.log-error{color:#ef4444}
.log-controls{display:flex;gap:8px;margin-bottom:12px;align-items:center;flex-wrap:wrap}
.filter-btn{padding:5px 12px;border-radius:4px;border:1px solid #ddd;background:#fff;cursor:pointer;font-size:12px;transition:all .2s}
.filter-btn.active{background:#667eea;color:#fff;border-color:#667eea}

/* Alerts */
#alertContainer{position:fixed;top:60px;right:20px;z-index:200;display:flex;flex-direction:column;gap:8px;max-width:360px}
.alert{padding:12px 36px 12px 16px;border-radius:6px;color:#fff;font-size:14px;position:relative;box-shadow:0 4px 12px rgba(0,0,0,.15);animation:slideIn .3s ease}
.alert-info{background:#22c55e}.alert-error{background:#ef4444}
.alert-close{position:absolute;top:8px;right:10px;background:none;border:none;color:#fff;font-size:16px;cursor:pointer}

.kbd{font-family:'SF Mono','Cascadia Code','Courier New',monospace;font-size:11px;background:#f3f4f6;border:1px solid #ddd;border-radius:3px;padding:0 4px}

@keyframes spin{to{transform:rotate(360deg)}}
@keyframes slideIn{from{opacity:0;transform:translateX(20px)}to{opacity:1;transform:none}}
</style>
</head>
<body>
<div class="hdr">
 <h1>QR Studio</h1>
 <div class="hdr-right">
  <span class="sdot dot-gray" id="remote-dot"></span>
  <span id="remote-text">Checking service...</span>
 </div>
</div>

<div id="alertContainer"></div>

<div class="content">
 <div class="card">
  <h2>Create QR Code</h2>
  <form id="qrForm" novalidate>
   <div class="form-group">
    <label for="url">Website URL</label>
    <input type="text" id="url" name="url" placeholder="https://example.com" required autocomplete="off">
    <div class="field-error hidden" id="url-error"></div>
   </div>
   <div class="form-group">
    <label for="headline">Headline (optional)</label>
    <input type="text" id="headline" name="headline" maxlength="200" placeholder="Scan me">
   </div>
   <div class="form-row">
    <div class="form-group">
     <label for="box_size">Box size: <span id="box_size_value">10</span></label>
     <input type="range" id="box_size" name="box_size" min="1" max="40" value="10">
    </div>
    <div class="form-group">
     <label for="border">Border: <span id="border_value">4</span></label>
     <input type="range" id="border" name="border" min="0" max="20" value="4">
    </div>
   </div>
   <div class="form-row">
    <div class="form-group">
     <label for="fill_color">Foreground</label>
     <input type="color" id="fill_color" name="fill_color" value="#000000">
    </div>
    <div class="form-group">
     <label for="back_color">Background</label>
     <input type="color" id="back_color" name="back_color" value="#ffffff">
    </div>
   </div>
   <div class="btn-row">
    <button type="submit" class="btn btn-primary" id="generateBtn">Generate QR Code</button>
    <button type="button" class="btn btn-secondary" onclick="testBackend()">Test Service</button>
   </div>
   <p class="form-help"><span class="kbd">Ctrl</span>+<span class="kbd">Enter</span> generate, <span class="kbd">Esc</span> start over</p>
  </form>
 </div>

 <div class="card">
  <h2>Preview</h2>
  <div class="preview">
   <div id="placeholder" class="placeholder">Your QR code will appear here</div>
   <div id="loading" class="loading hidden"><span class="spinner"></span><p>Generating...</p></div>
   <div id="preview-area" class="hidden">
    <img id="qr-preview" src="" alt="">
    <div id="qr-size"></div>
    <div class="btn-row" style="justify-content:center">
     <button type="button" class="btn btn-primary" id="downloadBtn">Download</button>
     <button type="button" class="btn btn-secondary" onclick="generateNew()">Generate New</button>
    </div>
   </div>
  </div>
 </div>

 <div class="card wide">
  <h2>Recent</h2>
  <div id="history"><div class="empty">Nothing generated yet</div></div>
 </div>

 <div class="card wide">
  <h2>Activity</h2>
  <div class="log-controls">
   <button type="button" class="filter-btn active" data-level="">All</button>
   <button type="button" class="filter-btn" data-level="warn,error">Problems</button>
   <button type="button" class="btn btn-secondary btn-sm" onclick="refreshLogs()">Refresh</button>
  </div>
  <div class="log-container" id="logs"></div>
 </div>
</div>

<script>
// ============ State ============
var uiState = 'idle';
var downloadURL = '';
var ws = null;
var wsDelay = 1000;
var validateTimer = null;
var logFilter = '';

function post(path, body) {
 var opts = {method: 'POST'};
 if (body) {
  opts.headers = {'Content-Type': 'application/x-www-form-urlencoded'};
  opts.body = body;
 }
 return fetch(path, opts);
}

// ============ Rendering ============
function render(state) {
 var p = state.page;
 var prev = uiState;
 uiState = state.ui_state;

 var btn = document.getElementById('generateBtn');
 btn.disabled = p.generateBtn.disabled;
 btn.textContent = p.generateBtn.label;

 document.getElementById('loading').classList.toggle('hidden', !p.loading);
 document.getElementById('placeholder').classList.toggle('hidden', !p.placeholder);

 var area = p['preview-area'];
 document.getElementById('preview-area').classList.toggle('hidden', area.hidden);
 var img = document.getElementById('qr-preview');
 if (area.image_src) {
  img.src = area.image_src;
  img.alt = area.image_alt || '';
 }
 document.getElementById('qr-size').textContent = area.size_text || '';
 downloadURL = area.download_url || '';
 document.getElementById('downloadBtn').classList.toggle('hidden', !downloadURL);

 if (prev === 'busy' && uiState !== 'busy') {
  refreshHistory();
  refreshLogs();
 }
}

function renderAlerts(list) {
 var box = document.getElementById('alertContainer');
 box.innerHTML = '';
 for (var i = 0; i < list.length; i++) {
  var n = list[i];
  var el = document.createElement('div');
  el.className = 'alert alert-' + n.kind;
  el.setAttribute('role', 'alert');
  el.appendChild(document.createTextNode(n.message));
  var close = document.createElement('button');
  close.className = 'alert-close';
  close.innerHTML = '&times;';
  close.onclick = dismiss.bind(null, n.id);
  el.appendChild(close);
  box.appendChild(el);
 }
}

function renderRemote(remote) {
 var dot = document.getElementById('remote-dot');
 var text = document.getElementById('remote-text');
 if (!remote) {
  dot.className = 'sdot dot-gray';
  text.textContent = 'Service status unknown';
 } else if (remote.connected) {
  dot.className = 'sdot dot-green';
  text.textContent = 'Service online';
 } else {
  dot.className = 'sdot dot-red';
  text.textContent = 'Service unreachable';
 }
}

function refreshHistory() {
 fetch('/api/history').then(function(r){return r.json()}).then(function(data) {
  var box = document.getElementById('history');
  box.innerHTML = '';
  if (!data.entries || data.entries.length === 0) {
   box.innerHTML = '<div class="empty">Nothing generated yet</div>';
   return;
  }
  var badges = {completed: 'badge-green', failed: 'badge-red', pending: 'badge-yellow', abandoned: 'badge-gray'};
  for (var i = 0; i < data.entries.length; i++) {
   var e = data.entries[i];
   var row = document.createElement('div');
   row.className = 'hist-row';

   var content = document.createElement('span');
   content.className = 'hist-content';
   content.textContent = e.content;
   content.title = e.error || e.content;
   row.appendChild(content);

   var badge = document.createElement('span');
   badge.className = 'badge ' + (badges[e.status] || 'badge-gray');
   badge.textContent = e.status;
   row.appendChild(badge);

   var size = document.createElement('span');
   size.textContent = e.size_kb ? e.size_kb + ' KB' : '';
   row.appendChild(size);

   var when = document.createElement('span');
   when.textContent = new Date(e.created_at).toLocaleTimeString();
   row.appendChild(when);

   box.appendChild(row);
  }
 }).catch(function() {});
}

function refreshLogs() {
 var q = logFilter ? '?level=' + logFilter : '';
 fetch('/api/logs' + q).then(function(r){return r.json()}).then(function(data) {
  var box = document.getElementById('logs');
  box.innerHTML = '';
  var entries = data.entries || [];
  for (var i = entries.length - 1; i >= 0; i--) {
   var e = entries[i];
   var row = document.createElement('div');
   row.className = 'log-entry log-' + e.level;
   var time = document.createElement('span');
   time.className = 'log-time';
   time.textContent = '[' + new Date(e.timestamp).toLocaleTimeString() + '] ';
   row.appendChild(time);
   row.appendChild(document.createTextNode((e.component ? e.component + ': ' : '') + e.message));
   box.appendChild(row);
  }
 }).catch(function() {});
}

function refreshStatus() {
 fetch('/api/status').then(function(r){return r.json()}).then(function(data) {
  renderRemote(data.remote);
 }).catch(function() { renderRemote(null); });
}

// ============ Push ============
function connect() {
 var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
 ws = new WebSocket(proto + location.host + '/ws');
 ws.onopen = function() { wsDelay = 1000; };
 ws.onmessage = function(ev) {
  var msg = JSON.parse(ev.data);
  if (msg.type === 'state') render(msg.state);
  if (msg.type === 'notifications') renderAlerts(msg.notifications || []);
 };
 ws.onclose = function() {
  setTimeout(connect, wsDelay);
  wsDelay = Math.min(wsDelay * 2, 30000);
 };
}

// ============ Actions ============
function showFieldError(field, msg) {
 var el = document.getElementById(field + '-error');
 var input = document.getElementById(field);
 if (input) input.setCustomValidity(msg || '');
 if (!el) return;
 el.textContent = msg || '';
 el.classList.toggle('hidden', !msg);
}

function validateURL() {
 var body = new URLSearchParams({url: document.getElementById('url').value.trim()});
 return post('/api/validate', body).then(function(r){return r.json()}).then(function(data) {
  showFieldError('url', data.message);
  return data.valid;
 });
}

function generateQRCode() {
 var form = document.getElementById('qrForm');
 var body = new URLSearchParams(new FormData(form));
 var start = uiState === 'showing_result' ? post('/api/reset') : Promise.resolve();
 start.then(function() {
  return post('/api/generate', body);
 }).then(function(r) {
  if (r.status === 422) {
   return r.json().then(function(data) {
    var d = data.details || {};
    for (var k in d) showFieldError(k, d[k]);
   });
  }
 }).catch(function(err) {
  console.error('generate failed', err);
 });
}

function generateNew() {
 post('/api/reset');
}

function dismiss(id) {
 fetch('/api/notifications/' + encodeURIComponent(id), {method: 'DELETE'});
}

function testBackend() {
 post('/api/probe').then(refreshStatus);
}

// ============ Init ============
function init() {
 document.getElementById('qrForm').addEventListener('submit', function(e) {
  e.preventDefault();
  generateQRCode();
 });

 document.getElementById('url').addEventListener('input', function() {
  clearTimeout(validateTimer);
  validateTimer = setTimeout(validateURL, 150);
 });

 ['box_size', 'border'].forEach(function(id) {
  var slider = document.getElementById(id);
  slider.addEventListener('input', function() {
   document.getElementById(id + '_value').textContent = this.value;
  });
 });

 var filters = document.querySelectorAll('.filter-btn');
 for (var i = 0; i < filters.length; i++) {
  filters[i].addEventListener('click', function() {
   for (var j = 0; j < filters.length; j++) filters[j].classList.remove('active');
   this.classList.add('active');
   logFilter = this.getAttribute('data-level');
   refreshLogs();
  });
 }

 document.getElementById('downloadBtn').addEventListener('click', function() {
  if (downloadURL) window.open(downloadURL, '_blank');
 });

 document.addEventListener('keydown', function(e) {
  if ((e.ctrlKey || e.metaKey) && e.key === 'Enter') {
   e.preventDefault();
   generateQRCode();
  }
  if (e.key === 'Escape') generateNew();
 });

 fetch('/api/state').then(function(r){return r.json()}).then(render);
 fetch('/api/notifications').then(function(r){return r.json()}).then(function(d) { renderAlerts(d.notifications || []); });
 refreshHistory();
 refreshLogs();
 refreshStatus();
 setInterval(refreshStatus, 30000);
 connect();
}

init();
</script>
</body>
</html>`
