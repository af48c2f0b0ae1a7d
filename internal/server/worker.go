package server

import (
	"fmt"
	"net"
	"os"
)

// ServeInherited is the body of a worker process: it adopts the connection
// passed on descriptor fd, handles it and closes it.
func ServeInherited(fd uintptr, id string, handler *ConnHandler) error {
	f := os.NewFile(fd, "connection")
	if f == nil {
		return fmt.Errorf("adopt connection: invalid descriptor %d", fd)
	}
	conn, err := net.FileConn(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("adopt connection: %w", err)
	}
	defer conn.Close()

	handler.Handle(id, conn)
	return nil
}
