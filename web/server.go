package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"time"

	"github.com/antartenk/lydlys/player"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rkjdid/util"

	_ "net/http/pprof"
)

type ServerConfig struct {
	ListenAddr        string
	Verbose           bool
	WebsocketInterval util.Duration

	version string
}

var DefaultServerConfig = ServerConfig{
	ListenAddr:        "localhost:3646",
	WebsocketInterval: util.Duration(time.Second),
}

// Server is the operator surface of a node. Besides showing live status
// it feeds tokens into the player's local channel, so anything the
// console can do the browser can do too - on the leader that includes
// driving the whole fleet.
type Server struct {
	Config *Config
	Player *player.Player
	Local  *player.MemChannel

	cfgPath    string
	router     *mux.Router
	wsUpgrader *websocket.Upgrader
	tpl        *template.Template
}

// StartServer starts a new http.Server using provided version, Player,
// local channel & Config. It either doesn't return or panics (http.Listen).
func StartServer(version string, p *player.Player, local *player.MemChannel, cfg *Config, cfgPath string) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	cfg.Web.version = version
	srv := &Server{
		Config:  cfg,
		Player:  p,
		Local:   local,
		cfgPath: cfgPath,
	}
	srv.wsUpgrader = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	srv.tpl = template.Must(template.New("home").Parse(homeTemplate))

	verbose := srv.Config.Web.Verbose
	srv.router = mux.NewRouter()

	// pprof handlers
	srv.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	// shh
	srv.router.Handle("/favicon.ico", http.HandlerFunc(NilHandler))

	// register endpoints
	srv.router.Handle("/websocket",
		Logger(http.HandlerFunc(srv.Websocket), "ws-snapshot", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/config",
		Logger(http.HandlerFunc(srv.PlayerConfigHandler), "config", verbose)).
		Methods("GET", "POST", "HEAD")
	srv.router.Handle("/command",
		Logger(http.HandlerFunc(srv.Command), "command", verbose)).
		Methods("POST")
	srv.router.Handle("/snapshot",
		Logger(http.HandlerFunc(srv.Snapshot), "snapshot", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/",
		Logger(http.HandlerFunc(srv.Home), "web", verbose)).
		Methods("GET", "HEAD")

	httpServer := &http.Server{
		Handler:      srv.router,
		Addr:         srv.Config.Web.ListenAddr,
		WriteTimeout: 4 * time.Second,
		ReadTimeout:  4 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal("http.ListenAndServer:", err)
	}
}

// Websocket pushes a status snapshot every WebsocketInterval (or the
// poll query parameter) until the peer goes away.
func (s *Server) Websocket(w http.ResponseWriter, r *http.Request) {
	var interval = time.Duration(s.Config.Web.WebsocketInterval)
	if v, ok := r.URL.Query()["poll"]; ok {
		if d, err := time.ParseDuration(v[0]); err == nil {
			interval = d
		}
	}
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("error subscribing to websocket:", err)
		http.Error(w, "error subscribing to websocket", 500)
		return
	}

	if s.Config.Web.Verbose {
		log.Printf("websocket - subscription from %s (pollrate: %s)", conn.RemoteAddr(), interval)
	}

	go func(conn *websocket.Conn, s *Server) {
		var err error
		for {
			err = conn.WriteJSON(s.Player.BuildSnapshot())
			if err != nil {
				if s.Config.Web.Verbose {
					log.Printf("websocket - lost connection to %s", conn.RemoteAddr())
				}
				conn.Close()
				return
			}
			<-time.After(interval)
		}
	}(conn, s)
}

// PlayerConfigHandler POST: s.Player.SetConfig() (json encoded)
//                      GET: gets current s.Player.Config()
func (s *Server) PlayerConfigHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		// copy current config, this allows for setting only a subset of the whole config
		var cfg player.Config = s.Player.Config()
		err := json.NewDecoder(r.Body).Decode(&cfg)
		if err != nil {
			log.Println("error decoding json:", err)
			http.Error(w, "couldn't decode provided json", http.StatusUnprocessableEntity)
			return
		}

		err = s.Player.SetConfig(&cfg)
		if err != nil {
			log.Println("error setting config:", err)
			http.Error(w, fmt.Sprintf("error setting config: %s", err), http.StatusUnprocessableEntity)
			return
		}
		s.Config.Player = cfg

		// save newly set config
		err = util.WriteTomlFile(s.Config, s.cfgPath)
		if err != nil {
			log.Println("error writing config:", err)
		}
	case http.MethodGet:
	default:
		http.Error(w, fmt.Sprintf("unexpected http-method (%s)", r.Method), http.StatusMethodNotAllowed)
		return
	}

	// encode player config regardless of http method
	w.WriteHeader(200)
	_ = json.NewEncoder(w).Encode(s.Player.Config())
}

// Command feeds the request body into the local interactive channel,
// exactly as if it had been typed on the console. Single characters and
// delimiter-prefixed messages both work.
func (s *Server) Command(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(io.LimitReader(r.Body, player.MaxMessage))
	if err != nil || len(body) == 0 {
		http.Error(w, "empty command", http.StatusUnprocessableEntity)
		return
	}
	s.Local.Feed(append(body, '\n'))
	w.Write([]byte("command queued\n"))
}

// Snapshot encodes snapshot as json to w.
func (s *Server) Snapshot(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.Player.BuildSnapshot())
}

// Home serves the status page.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Installation string
		Version      string
		Config       player.Config
	}{s.Config.Installation, s.Config.Web.version, s.Player.Config()}
	if err := s.tpl.Execute(w, data); err != nil {
		serr := fmt.Sprintf("error executing home template: %s", err)
		log.Println(serr)
		http.Error(w, serr, http.StatusInternalServerError)
	}
}

const homeTemplate = `<!DOCTYPE html>
<html>
<head><title>{{.Installation}} - {{.Config.Role}}</title></head>
<body>
<h1>{{.Installation}} <small>{{.Version}}</small></h1>
<p>role: <b>{{.Config.Role}}</b> - schedule {{.Config.StartHour}}:00 to {{.Config.EndHour}}:00</p>
<pre id="status">waiting for snapshot...</pre>
<form onsubmit="return send()">
  <input id="cmd" placeholder="h, p, :report; ..."><button>send</button>
</form>
<script>
var ws = new WebSocket("ws://" + location.host + "/websocket");
ws.onmessage = function (ev) {
  document.getElementById("status").textContent = ev.data;
};
function send() {
  fetch("/command", {method: "POST", body: document.getElementById("cmd").value});
  return false;
}
</script>
</body>
</html>
`
