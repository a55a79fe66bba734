package rpcserver_test

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/navcd/navc/internal/delta"
	"github.com/navcd/navc/internal/guarded"
	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/rpcserver"
	"github.com/navcd/navc/internal/testutil"
)

func dial(t *testing.T, socketPath string) *rpc.Client {
	t.Helper()
	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	return rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
}

func TestSymbolNameOverRPC(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /a.cc
funcs:
  - usr: 42
    def: {detailed_name: "ns::f", short_name: "f", spell: {line: 1, col: 0, end_line: 1, end_col: 1}}
`)
	require.NoError(t, err)

	db := guarded.New()
	db.Apply(delta.Compute(nil, snap))

	socketPath := filepath.Join(t.TempDir(), "navc.sock")
	srv, err := rpcserver.Listen(socketPath, rpcserver.NewHandler(db))
	require.NoError(t, err)
	defer srv.Close()

	client := dial(t, socketPath)
	defer client.Close()

	var reply rpcserver.NameReply
	err = client.Call("Handler.SymbolName", &rpcserver.SymbolArg{Kind: ident.Func, Usr: 42}, &reply)
	require.NoError(t, err)
	require.Equal(t, "ns::f", reply.Name)
}

func TestFileOutlineOverRPC(t *testing.T) {
	snap, err := testutil.LoadSnapshot(`
path: /outline.cc
types:
  - usr: 3
    def: {detailed_name: "T", spell: {line: 1, col: 0, end_line: 1, end_col: 1}, extent: {line: 1, col: 0, end_line: 5, end_col: 1}}
`)
	require.NoError(t, err)

	db := guarded.New()
	db.Apply(delta.Compute(nil, snap))

	socketPath := filepath.Join(t.TempDir(), "navc.sock")
	srv, err := rpcserver.Listen(socketPath, rpcserver.NewHandler(db))
	require.NoError(t, err)
	defer srv.Close()

	client := dial(t, socketPath)
	defer client.Close()

	var reply rpcserver.FileDefReply
	err = client.Call("Handler.FileOutline", &rpcserver.PositionArg{Path: "/outline.cc"}, &reply)
	require.NoError(t, err)
	require.Equal(t, "/outline.cc", reply.Path)
	require.Len(t, reply.Outline, 1)
}

func TestFileOutlineUnknownPathErrors(t *testing.T) {
	db := guarded.New()

	socketPath := filepath.Join(t.TempDir(), "navc.sock")
	srv, err := rpcserver.Listen(socketPath, rpcserver.NewHandler(db))
	require.NoError(t, err)
	defer srv.Close()

	client := dial(t, socketPath)
	defer client.Close()

	var reply rpcserver.FileDefReply
	err = client.Call("Handler.FileOutline", &rpcserver.PositionArg{Path: "/missing.cc"}, &reply)
	require.Error(t, err)
}
