package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/antartenk/lydlys/hal"
	"github.com/antartenk/lydlys/player"
	"github.com/antartenk/lydlys/web"
	"github.com/rkjdid/util"
)

var (
	conn       *player.SerialConnection
	rootConfig *web.Config
)

var (
	device   = flag.String("dev", "", "path to serial port, if empty it will be searched automatically")
	rootPath = flag.String("root", "", "path to lydlys's main directory (defaults to executable path)")
	cfgPath  = flag.String("config", "", "path to config (defaults to <root>/config.toml)")
	noSerial = flag.Bool("noserial", false, "run without the inter-node channel (bench mode)")
	verbose  = flag.Bool("v", false, "higher verbosity")
	version  = flag.Bool("version", false, "print version & exit")
)

func init() {
	flag.Parse()

	// print version & exit
	if *version {
		fmt.Printf("lydlys %s\n", Version)
		os.Exit(0)
	}

	if *rootPath == "" {
		exe, err := os.Executable()
		if err != nil {
			log.Fatalf("couldn't get path to executable: %s", err)
		}
		*rootPath = filepath.Dir(exe)
	}
	err := os.MkdirAll(*rootPath, 0755)
	if err != nil {
		log.Fatalf("couldn't mkdir \"%s\": %s", *rootPath, err)
	}

	if *cfgPath == "" {
		*cfgPath = filepath.Join(*rootPath, "config.toml")
	}

	err = util.ReadTomlFile(&rootConfig, *cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("error reading config \"%s\": %s", *cfgPath, err)
		}
		cfg := web.DefaultConfig
		rootConfig = &cfg
		err = util.WriteTomlFile(rootConfig, *cfgPath)
		if err != nil {
			log.Fatalf("error creating config \"%s\": %s", *cfgPath, err)
		}
		log.Printf("created new config file \"%s\"", *cfgPath)
	}

	if *verbose {
		rootConfig.Web.Verbose = true
	}
	if *device == "" {
		*device = rootConfig.Device
	}

	log.Printf("using config file: %s", *cfgPath)

	if *noSerial {
		return
	}
	if *device != "" {
		port, config, err := player.OpenPortName(*device)
		if err != nil {
			log.Fatal("error opening serial port: ", err)
		}
		conn = player.NewSerial(port, config, *device)
		conn.Start()
		log.Printf("inter-node channel on \"%s\"", *device)
	} else {
		conn, err = player.FindSerial(&rootConfig.Serial)
		if err != nil {
			log.Fatal("error finding serial port: ", err)
		}
	}
}

func hardware() player.Hardware {
	return player.Hardware{
		Audio: hal.NewAudio(rootConfig.Audio),
		Clock: hal.NewClock(),
		Pins:  hal.NewPins(),
	}
}

func main() {
	local := player.NewMemChannel()

	var internode player.Channel
	if conn != nil {
		internode = conn
	}
	p, err := player.New(&rootConfig.Player, hardware(), local, internode)
	if err != nil {
		log.Fatal("error initializing player: ", err)
	}

	log.Printf("starting %s player (schedule %02d:00-%02d:00)",
		rootConfig.Player.Role, rootConfig.Player.StartHour, rootConfig.Player.EndHour)
	p.Run()

	// console pump: stdin lines go to the local interactive channel
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			local.Feed(append(sc.Bytes(), '\n'))
		}
	}()

	log.Printf("starting webserver on http://%s ...", rootConfig.Web.ListenAddr)
	go web.StartServer(Version, p, local, rootConfig, *cfgPath)

	// small delay to allow for panic in StartServer
	<-time.After(time.Millisecond * 500)
	log.Println("Press <Ctrl-C> to quit")

	trap := make(chan os.Signal, 1)
	signal.Notify(trap, os.Kill, os.Interrupt)
	<-trap
	fmt.Println()
	log.Println("quit received...")

	cleanExit := make(chan struct{})
	go func() {
		p.Stop()
		if conn != nil {
			conn.Close()
		}
		close(cleanExit)
	}()
	select {
	case <-time.After(time.Second * 10):
		log.Panicln("no clean exit after 10sec")
	case <-cleanExit:
	}
}
