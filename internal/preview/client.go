package preview

import "strings"

// clientJS forwards events on elements carrying data-rid/data-on to the
// session websocket and swaps in the markup the server sends back.
const clientJS = `(function () {
  var root = document.getElementById("app");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws/__SESSION__");
  var events = ["click", "input", "change", "submit", "keydown", "focus", "blur"];
  events.forEach(function (type) {
    document.addEventListener(type, function (e) {
      for (var el = e.target; el && el !== document; el = el.parentNode) {
        var on = el.getAttribute && el.getAttribute("data-on");
        if (on && on.split(" ").indexOf(type) >= 0) {
          if (type === "submit") e.preventDefault();
          var value = e.target.value !== undefined ? String(e.target.value) : "";
          ws.send(JSON.stringify({rid: Number(el.getAttribute("data-rid")), type: type, value: value}));
          return;
        }
      }
    }, true);
  });
  ws.onmessage = function (msg) {
    var data = JSON.parse(msg.data);
    if (data.type === "html") {
      var active = document.activeElement && document.activeElement.id;
      root.innerHTML = data.html;
      if (active) {
        var el = document.getElementById(active);
        if (el) el.focus();
      }
    } else if (data.type === "error") {
      console.error("reactor:", data.message);
    }
  };
})();`

// clientScript returns the client for session id.
func clientScript(id string) string {
	return strings.ReplaceAll(clientJS, "__SESSION__", id)
}
