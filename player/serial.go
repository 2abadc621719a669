package player

import (
	"errors"
	"log"
	"sync"
	"time"

	"go.bug.st/serial.v1"
)

var ErrNoSerialPortFound = errors.New("didn't find any available serial port")
var ErrClosedPort = errors.New("serial port is closed")

// DefaultSerialConfig matches the line settings flashed into every node:
// 57600 8N1 on the shared half-duplex link.
var DefaultSerialConfig = &serial.Mode{
	BaudRate: 57600,
	Parity:   serial.NoParity,
	DataBits: 8,
	StopBits: serial.OneStopBit,
}

// SerialConnection adapts a serial port to the Channel interface. A pump
// goroutine keeps draining the port into an internal buffer so the
// control loop's short polling reads never block on the OS handle.
type SerialConnection struct {
	port   serial.Port
	path   string
	config *serial.Mode

	mu        sync.Mutex
	rx        []byte
	receiving bool
	closed    bool

	closeChan chan struct{}
	wg        sync.WaitGroup
}

func NewSerial(port serial.Port, config *serial.Mode, name string) *SerialConnection {
	return &SerialConnection{
		port:      port,
		path:      name,
		config:    config,
		receiving: true,
		closeChan: make(chan struct{}),
	}
}

// Start begins the routine responsible for reading the serial port.
func (sc *SerialConnection) Start() {
	sc.wg.Add(1)
	go func() {
		sc.readRoutine()
		sc.wg.Done()
	}()
}

// Path returns device name / path of serial port.
func (sc *SerialConnection) Path() string {
	return sc.path
}

func (sc *SerialConnection) Available() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.rx)
}

func (sc *SerialConnection) ReadByte() (byte, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if len(sc.rx) == 0 {
		return 0, false
	}
	b := sc.rx[0]
	sc.rx = sc.rx[1:]
	return b, true
}

func (sc *SerialConnection) Write(p []byte) (int, error) {
	sc.mu.Lock()
	closed := sc.closed
	sc.mu.Unlock()
	if closed {
		return 0, ErrClosedPort
	}
	return sc.port.Write(p)
}

func (sc *SerialConnection) Drain() {
	sc.mu.Lock()
	sc.rx = sc.rx[:0]
	sc.mu.Unlock()
}

// SetReceiving turns the receive side on or off. Turning it off also
// discards pending bytes: the silence window must leave nothing stale
// behind when the receiver comes back.
func (sc *SerialConnection) SetReceiving(on bool) {
	sc.mu.Lock()
	sc.receiving = on
	if !on {
		sc.rx = sc.rx[:0]
	}
	sc.mu.Unlock()
}

func (sc *SerialConnection) Receiving() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.receiving
}

// Close notifies the read routine to stop, waits for it to return, then
// actually closes the serial port.
func (sc *SerialConnection) Close() error {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return nil
	}
	sc.closed = true
	sc.mu.Unlock()
	close(sc.closeChan)
	err := sc.port.Close()
	sc.wg.Wait()
	return err
}

func (sc *SerialConnection) readRoutine() {
	buf := make([]byte, 64)
	for {
		select {
		case <-sc.closeChan:
			return
		default:
		}
		i, err := sc.port.Read(buf)
		if err != nil {
			select {
			case <-sc.closeChan:
				return
			default:
			}
			log.Println("in sc.readRoutine:", err)
			time.Sleep(time.Millisecond * 250)
			continue
		}
		if i == 0 {
			time.Sleep(time.Millisecond * 10)
			continue
		}
		sc.mu.Lock()
		if sc.receiving {
			sc.rx = append(sc.rx, buf[:i]...)
			if len(sc.rx) > 16*MaxMessage {
				sc.rx = sc.rx[len(sc.rx)-16*MaxMessage:]
			}
		}
		sc.mu.Unlock()
	}
}

// FindSerial opens the first available serial port (platform independant
// hopefully). If config is nil, DefaultSerialConfig is used.
func FindSerial(config *serial.Mode) (*SerialConnection, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultSerialConfig
	}
	var port serial.Port
	for _, v := range ports {
		port, err = serial.Open(v, config)
		if err == nil {
			log.Printf("using serial port \"%s\"", v)
			conn := NewSerial(port, config, v)
			conn.Start()
			return conn, nil
		}
		log.Printf("trying \"%s\": %s", v, err)
	}
	if err == nil {
		return nil, ErrNoSerialPortFound
	}
	return nil, err
}

func OpenPortName(name string) (port serial.Port, config *serial.Mode, err error) {
	config = DefaultSerialConfig
	port, err = serial.Open(name, config)
	return port, config, err
}
