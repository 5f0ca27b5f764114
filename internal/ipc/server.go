package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// Handler executes one request. The desktop host funnels requests into its
// own loop, so a Handler may block until the loop gets to it.
type Handler interface {
	HandleRequest(req *Request) *Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req *Request) *Response

func (f HandlerFunc) HandleRequest(req *Request) *Response { return f(req) }

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	timeout      time.Duration
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a server for socketPath. A stale socket file is removed.
func NewServer(socketPath string, handler Handler) (*Server, error) {
	if socketPath == "" {
		return nil, fmt.Errorf("socket path is empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is nil")
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		handler:    handler,
		timeout:    10 * time.Second,
	}, nil
}

// SocketPath returns where the server listens.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection serves a single request: one JSON line in, one JSON line
// out.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	resp := s.handler.HandleRequest(req)
	if resp == nil {
		resp = NewErrorResponse(fmt.Sprintf("no response for %s", req.Command))
	}
	s.send(conn, resp)
}

func (s *Server) send(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// Stop closes the listener, waits for in-flight connections and removes the
// socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
