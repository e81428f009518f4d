package web

// Single-page dashboard polling /api/state.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Crypto Buckets</title>
  <style>
    :root {
      --bg:#0f1115;
      --panel:#181b22;
      --border:#2a2f3a;
      --ink:#e6e8ee;
      --ink-mid:#9aa1b0;
      --accent:#4f8cff;
      --warn:#e0a93e;
      --up:#3ecf8e;
      --down:#e05c5c;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      background:var(--bg);
      color:var(--ink);
      font-family:'SF Mono','JetBrains Mono',Menlo,monospace;
      padding:1.5rem;
    }
    header { display:flex; justify-content:space-between; align-items:center; margin-bottom:1.5rem; flex-wrap:wrap; gap:.8rem; }
    h1 { font-size:1.1rem; margin:0; letter-spacing:.06em; text-transform:uppercase; }
    .updated { font-size:.7rem; color:var(--ink-mid); }
    button {
      background:var(--accent); color:#fff; border:none;
      padding:.55rem 1.1rem; font-family:inherit; font-size:.75rem;
      letter-spacing:.08em; text-transform:uppercase; cursor:pointer; border-radius:4px;
    }
    button:disabled { opacity:.5; cursor:wait; }
    .grid { display:grid; grid-template-columns:repeat(auto-fit, minmax(210px, 1fr)); gap:1rem; margin-bottom:1.5rem; }
    .card {
      background:var(--panel); border:1px solid var(--border);
      border-radius:6px; padding:1rem;
    }
    .card .label { font-size:.62rem; color:var(--ink-mid); text-transform:uppercase; letter-spacing:.12em; }
    .card .value { font-size:1.4rem; margin-top:.5rem; font-weight:700; }
    .badge {
      display:inline-block; font-size:.55rem; padding:.15rem .45rem; border-radius:3px;
      margin-left:.5rem; vertical-align:middle; text-transform:uppercase; letter-spacing:.08em;
    }
    .badge.fallback { background:rgba(224,169,62,.15); color:var(--warn); border:1px solid var(--warn); }
    .cols { display:grid; grid-template-columns:1fr 1fr; gap:1rem; margin-bottom:1.5rem; }
    @media (max-width:900px) { .cols { grid-template-columns:1fr; } }
    .section-title { font-size:.72rem; color:var(--ink-mid); text-transform:uppercase; letter-spacing:.14em; margin:0 0 .8rem; }
    .alloc-bar { display:flex; height:34px; border-radius:4px; overflow:hidden; font-size:.7rem; }
    .alloc-bar div { display:flex; align-items:center; justify-content:center; color:#0f1115; font-weight:700; }
    .alloc-btc { background:#f7931a; }
    .alloc-alts { background:#4f8cff; }
    .alloc-stables { background:#3ecf8e; }
    .phase { margin-top:.6rem; font-size:.78rem; color:var(--ink-mid); }
    .trigger { border-left:3px solid var(--warn); padding:.5rem .8rem; margin-bottom:.5rem; background:rgba(224,169,62,.06); font-size:.78rem; }
    .trigger .detail { color:var(--ink-mid); font-size:.68rem; margin-top:.2rem; }
    .event { font-size:.75rem; padding:.35rem 0; border-bottom:1px dashed var(--border); }
    table { width:100%; border-collapse:collapse; font-size:.72rem; }
    th, td { text-align:left; padding:.45rem .5rem; border-bottom:1px solid var(--border); }
    th { color:var(--ink-mid); text-transform:uppercase; font-size:.6rem; letter-spacing:.1em; }
    .pos { color:var(--up); }
    .neg { color:var(--down); }
    .empty { color:var(--ink-mid); font-size:.75rem; padding:.6rem 0; }
    .error-banner {
      background:rgba(224,92,92,.12); border:1px solid var(--down); color:var(--down);
      padding:.6rem .9rem; border-radius:4px; font-size:.75rem; margin-bottom:1rem; display:none;
    }
  </style>
</head>
<body>
  <header>
    <h1>Crypto Buckets</h1>
    <div>
      <span id="updated" class="updated">loading…</span>
      <button id="refreshBtn">Refresh</button>
    </div>
  </header>

  <div id="journalError" class="error-banner"></div>

  <div id="metrics" class="grid"></div>

  <div class="cols">
    <div class="card">
      <p class="section-title">Allocation</p>
      <div id="allocBar" class="alloc-bar"></div>
      <div id="phase" class="phase"></div>
    </div>
    <div class="card">
      <p class="section-title">Active Triggers</p>
      <div id="triggers"><div class="empty">None</div></div>
    </div>
  </div>

  <div class="cols">
    <div class="card">
      <p class="section-title">Macro Calendar</p>
      <div id="macro"><div class="empty">No upcoming events</div></div>
    </div>
    <div class="card">
      <p class="section-title">Trading Journal</p>
      <div id="journal"><div class="empty">No entries yet</div></div>
    </div>
  </div>

<script>
const fmtUSD = (v) => {
  if(!Number.isFinite(v)) return '—';
  const abs = Math.abs(v);
  if(abs >= 1e12) return (v/1e12).toFixed(2) + 'T';
  if(abs >= 1e9) return (v/1e9).toFixed(2) + 'B';
  if(abs >= 1e6) return (v/1e6).toFixed(2) + 'M';
  return v.toFixed(0);
};

function metricCard(label, value, source){
  const badge = source === 'fallback' ? '<span class="badge fallback">fallback</span>' : '';
  return '<div class="card"><div class="label">' + label + badge + '</div><div class="value">' + value + '</div></div>';
}

function render(state){
  const latest = state.latest;
  if(!latest){
    document.getElementById('updated').textContent = 'no data yet';
    return;
  }
  const s = latest.snapshot;
  const src = s.sources || {};

  document.getElementById('metrics').innerHTML =
    metricCard('BTC Dominance', s.btc_dominance.toFixed(1) + '%', src.btc_dominance) +
    metricCard('Alt Market Cap', '$' + fmtUSD(s.alt_market_cap), src.btc_dominance) +
    metricCard('Alt Season Index', s.alt_season_index.toFixed(0), src.alt_season_index) +
    metricCard('BTC Funding /8h', s.btc_funding_rate.toFixed(3) + '%', src.btc_funding_rate) +
    metricCard('BTC Open Interest', '$' + fmtUSD(s.btc_open_interest), src.btc_funding_rate) +
    metricCard('HYPE Funding /8h', s.hype_funding_rate.toFixed(3) + '%', src.hype_funding_rate) +
    metricCard('Stablecoin Δ7d', '$' + fmtUSD(s.stablecoin_delta_7d), src.stablecoin_delta_7d);

  const a = latest.allocation;
  document.getElementById('allocBar').innerHTML =
    '<div class="alloc-btc" style="width:' + a.btc + '%">BTC ' + a.btc + '%</div>' +
    '<div class="alloc-alts" style="width:' + a.alts + '%">ALTS ' + a.alts + '%</div>' +
    '<div class="alloc-stables" style="width:' + a.stables + '%">STB ' + a.stables + '%</div>';
  document.getElementById('phase').textContent = a.phase;

  const triggers = document.getElementById('triggers');
  if(latest.fired && latest.fired.length){
    triggers.innerHTML = latest.fired.map(t =>
      '<div class="trigger"><div>' + t.message + '</div><div class="detail">' + (t.detail || '') + '</div></div>'
    ).join('');
  } else {
    triggers.innerHTML = '<div class="empty">None</div>';
  }

  const macro = document.getElementById('macro');
  if(s.macro_events && s.macro_events.length){
    macro.innerHTML = s.macro_events.map(ev =>
      '<div class="event">' + new Date(ev.time).toLocaleString() + ' — ' + ev.name + '</div>'
    ).join('');
  } else {
    macro.innerHTML = '<div class="empty">No upcoming events</div>';
  }

  const journal = document.getElementById('journal');
  if(state.journal_entries && state.journal_entries.length){
    const rows = state.journal_entries.slice().reverse().map(e => {
      const cls = e.change_pct >= 0 ? 'pos' : 'neg';
      const sign = e.change_pct >= 0 ? '+' : '';
      return '<tr><td>' + new Date(e.date).toLocaleDateString() + '</td><td>' + e.asset +
        '</td><td class="' + cls + '">' + sign + e.change_pct + '%</td><td>' + e.reason + '</td></tr>';
    }).join('');
    journal.innerHTML = '<table><tr><th>Date</th><th>Asset</th><th>Change</th><th>Reason</th></tr>' + rows + '</table>';
  } else {
    journal.innerHTML = '<div class="empty">No entries yet</div>';
  }

  const errBanner = document.getElementById('journalError');
  if(state.journal_error){
    errBanner.textContent = 'Journal write failed: ' + state.journal_error;
    errBanner.style.display = 'block';
  } else {
    errBanner.style.display = 'none';
  }

  document.getElementById('updated').textContent =
    'updated ' + new Date(latest.completed_at).toLocaleTimeString();
}

async function load(method, path){
  try{
    const resp = await fetch(path, { method: method });
    render(await resp.json());
  }catch(err){
    console.error('state load', err);
  }
}

const btn = document.getElementById('refreshBtn');
btn.addEventListener('click', async () => {
  btn.disabled = true;
  await load('POST', '/api/refresh');
  btn.disabled = false;
});

load('GET', '/api/state');
setInterval(() => load('GET', '/api/state'), 60000);
</script>
</body>
</html>`
