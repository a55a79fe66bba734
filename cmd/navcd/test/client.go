// Command navcq is a small manual-testing client for navcd's unix socket,
// following google-navc's test/client.go sample-call shape, adapted to call
// the current Handler.SymbolName / Handler.FileOutline RPC methods instead
// of the retired RequestHandler.GetSymbolDecl.
package main

import (
	"flag"
	"log"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/navcd/navc/internal/ident"
	"github.com/navcd/navc/internal/rpcserver"
)

func main() {
	socket := flag.String("socket", "/tmp/navc.sock", "navcd unix socket path")
	path := flag.String("path", "", "file path to request an outline for")
	usr := flag.Uint64("usr", 0, "USR to resolve a name for, in place of -path")
	flag.Parse()

	conn, err := net.Dial("unix", *socket)
	if err != nil {
		log.Fatal("dial socket: ", err)
	}
	defer conn.Close()

	client := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	defer client.Close()

	if *path != "" {
		var reply rpcserver.FileDefReply
		if err := client.Call("Handler.FileOutline", &rpcserver.PositionArg{Path: *path}, &reply); err != nil {
			log.Fatal("calling FileOutline: ", err)
		}
		log.Printf("%+v", reply)
		return
	}

	var reply rpcserver.NameReply
	args := rpcserver.SymbolArg{Kind: ident.Func, Usr: ident.Usr(*usr)}
	if err := client.Call("Handler.SymbolName", &args, &reply); err != nil {
		log.Fatal("calling SymbolName: ", err)
	}
	log.Println(reply.Name)
}
