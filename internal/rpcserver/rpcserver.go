// Package rpcserver exposes the Query DB's read operations over a unix
// socket using net/rpc/jsonrpc, following google-navc's RequestHandler /
// ListenRequests design in request-handler.go and files.go. Two read
// methods are exported: SymbolName and FileOutline.
package rpcserver

import (
	"fmt"
	"log"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"

	"github.com/pkg/errors"

	"github.com/navcd/navc/internal/guarded"
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/querydb"
)

// PositionArg names one source location a client is asking about.
type PositionArg struct {
	Path string
	Line int32
	Col  int32
}

// SymbolArg names a symbol by kind and USR.
type SymbolArg struct {
	Kind ident.SymbolKind
	Usr  ident.Usr
}

// NameReply carries a resolved display name.
type NameReply struct {
	Name string
}

// FileDefReply carries a file's outline for a document-symbol-style request.
type FileDefReply struct {
	Path    string
	Outline []ident.SymbolRef
}

// Handler is the RPC-exported read facade over a guarded.DB. Method
// signatures follow net/rpc's convention: func(args, *reply) error.
type Handler struct {
	db *guarded.DB
}

// NewHandler wraps db for RPC export.
func NewHandler(db *guarded.DB) *Handler {
	return &Handler{db: db}
}

// SymbolName resolves args.Kind/Usr to its qualified display name.
func (h *Handler) SymbolName(args *SymbolArg, reply *NameReply) error {
	reply.Name = h.db.SymbolName(ident.SymbolId{Kind: args.Kind, Usr: args.Usr}, true)
	return nil
}

// FileOutline returns the outline entries recorded for args.Path.
func (h *Handler) FileOutline(args *PositionArg, reply *FileDefReply) error {
	var notFound error
	h.db.Read(func(db *querydb.DB) {
		id, ok := db.FileSlot(args.Path)
		if !ok {
			notFound = fmt.Errorf("no file indexed for %s", args.Path)
			return
		}
		def := db.File(id).Def
		if def == nil {
			notFound = fmt.Errorf("file %s has been removed", args.Path)
			return
		}
		reply.Path = def.Path
		reply.Outline = def.Outline
	})
	return notFound
}

// Server owns the unix socket listener and dispatches incoming jsonrpc
// connections to a *Handler.
type Server struct {
	listener net.Listener
}

// Listen binds socketPath, removing a stale socket file left over from an
// unclean shutdown first (google-navc's daemon assumes the same).
func Listen(socketPath string, handler *Handler) (*Server, error) {
	os.Remove(socketPath)

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.Register(handler); err != nil {
		return nil, errors.Wrap(err, "registering rpc handler")
	}

	l, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", socketPath)
	}

	s := &Server{listener: l}
	go s.accept(rpcSrv)
	return s, nil
}

func (s *Server) accept(rpcSrv *rpc.Server) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go rpcSrv.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

func init() {
	log.SetPrefix("navcd: ")
}
