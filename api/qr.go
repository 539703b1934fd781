package api

import (
	"encoding/base64"
	"net/http"

	"github.com/hostelware/wificard/qr"
	"github.com/hostelware/wificard/wifi"
)

type qrDataResponse struct {
	Payload string `json:"payload"`
	QRPNG   string `json:"qr_png"`
}

// handleQRData renders the QR for the query parameters and returns it
// base64-encoded. Nothing is written to disk or to the history; this
// is a live preview.
func (s *Server) handleQRData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sec, err := wifi.ParseSecurity(q.Get("security"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	style, err := qr.ParseStyle(q.Get("style"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n := wifi.Network{
		SSID:     q.Get("ssid"),
		Password: q.Get("password"),
		Security: sec,
		Hidden:   q.Get("hidden") == "true",
	}

	payload, png, err := s.Gen.RenderPreview(n, style)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, qrDataResponse{
		Payload: payload,
		QRPNG:   base64.StdEncoding.EncodeToString(png),
	})
}

func (s *Server) handleCardPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(cardPageHTML))
}

const cardPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>wificard — Wi-Fi QR preview</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    align-items: center;
    min-height: 100vh;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 48px;
    text-align: center;
    max-width: 460px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 24px; }
  form { display: grid; gap: 10px; margin-bottom: 24px; text-align: left; }
  label { font-size: 13px; color: #aaa; }
  input, select {
    width: 100%;
    background: #111;
    color: #e0e0e0;
    border: 1px solid #333;
    border-radius: 8px;
    padding: 8px 10px;
    font-size: 14px;
  }
  button {
    background: #4ade80;
    color: #0a0a0a;
    font-weight: 600;
    border: none;
    border-radius: 8px;
    padding: 10px;
    font-size: 14px;
    cursor: pointer;
  }
  #qr-container {
    width: 280px; height: 280px;
    margin: 0 auto 16px;
    display: flex;
    align-items: center;
    justify-content: center;
    background: #fff;
    border-radius: 12px;
  }
  #qr-container img { width: 260px; height: 260px; }
  .waiting { color: #888; font-size: 13px; }
  #error { color: #f87171; font-size: 13px; min-height: 18px; }
</style>
</head>
<body>
<div class="card">
  <h1>Wi-Fi card preview</h1>
  <p class="subtitle">Scan with a phone camera to join the network</p>
  <form id="form">
    <label>Network name (SSID)<input name="ssid" required></label>
    <label>Password<input name="password" type="password"></label>
    <label>Security
      <select name="security">
        <option value="wpa">WPA/WPA2</option>
        <option value="wep">WEP</option>
        <option value="nopass">Open</option>
      </select>
    </label>
    <label>Style
      <select name="style">
        <option value="classic">Classic</option>
        <option value="artistic">Artistic</option>
      </select>
    </label>
    <button type="submit">Render</button>
  </form>
  <div id="qr-container"><span class="waiting">Fill in the form above</span></div>
  <div id="error"></div>
</div>
<script>
(function() {
  var form = document.getElementById('form');
  var container = document.getElementById('qr-container');
  var errorEl = document.getElementById('error');

  form.addEventListener('submit', function(ev) {
    ev.preventDefault();
    var data = new FormData(form);
    var params = new URLSearchParams();
    data.forEach(function(v, k) { params.append(k, v); });

    fetch('/qr/data?' + params.toString())
      .then(function(r) { return r.json(); })
      .then(function(data) {
        if (data.error) {
          errorEl.textContent = data.error;
          return;
        }
        errorEl.textContent = '';
        while (container.firstChild) container.removeChild(container.firstChild);
        var img = document.createElement('img');
        img.setAttribute('alt', 'Wi-Fi QR Code');
        img.setAttribute('src', 'data:image/png;base64,' + data.qr_png);
        container.appendChild(img);
      })
      .catch(function() {
        errorEl.textContent = 'Request failed, try again';
      });
  });
})();
</script>
</body>
</html>`
